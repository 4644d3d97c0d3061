package validator

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/jo-hoe/tfcheck/internal/commandstructure"
	"github.com/jo-hoe/tfcheck/internal/core"
	"github.com/jo-hoe/tfcheck/internal/tfexample"
	"github.com/jo-hoe/tfcheck/internal/tfrecord"
	"github.com/stretchr/testify/require"
)

func testConfig(pattern string) *core.ServiceConfig {
	config := core.DefaultConfig()
	config.Pattern = pattern
	config.Progress = false
	config.CycleLength = 4
	config.ParseWorkers = 4
	config.Commands = []commandstructure.CommandConfig{
		{Name: "CenterCropResizeCommand", Params: map[string]any{"size": 32}},
	}
	return config
}

func newTestProcessor(t testing.TB, configs []commandstructure.CommandConfig) *processor {
	t.Helper()
	invoker, err := commandstructure.NewCommandInvokerFromConfig(commandstructure.DefaultRegistry, configs)
	require.NoError(t, err)
	return &processor{invoker: invoker}
}

func pngBytes(t testing.TB, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x), uint8(y), 128, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func testRecord(t testing.TB, w, h int) tfexample.Record {
	return tfexample.Record{
		Image:        pngBytes(t, w, h),
		License:      "cc-by",
		Tags:         "cat,outdoor",
		Title:        "a cat",
		Description:  "sitting in the sun",
		Owner:        "someone",
		ImgSrc:       "https://example.org/cat.png",
		CommentCount: 1,
		FaveCount:    2,
		ViewCount:    3,
		Height:       int64(h),
		Width:        int64(w),
	}
}

func validPayload(t testing.TB, w, h int) []byte {
	return tfexample.Marshal(testRecord(t, w, h))
}

// missingFeaturePayload is a well-formed Example without the width feature.
func missingFeaturePayload(t testing.TB) []byte {
	t.Helper()
	features, err := tfexample.ParseFeatures(validPayload(t, 8, 8))
	require.NoError(t, err)
	delete(features, "width")
	return tfexample.MarshalFeatures(features)
}

// badImagePayload is a schema-valid Example whose image bytes do not decode.
func badImagePayload(t testing.TB) []byte {
	r := testRecord(t, 8, 8)
	r.Image = []byte("definitely not an image")
	return tfexample.Marshal(r)
}

func frameBytes(t testing.TB, payload []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, tfrecord.NewWriter(&buf).Write(payload))
	return buf.Bytes()
}

// corruptDataFrame frames payload with a wrong payload checksum.
func corruptDataFrame(t testing.TB, payload []byte) []byte {
	b := frameBytes(t, payload)
	b[len(b)-1] ^= 0xff
	return b
}

// corruptLengthFrame frames payload with a wrong length checksum.
func corruptLengthFrame(t testing.TB, payload []byte) []byte {
	b := frameBytes(t, payload)
	b[8] ^= 0xff
	return b
}

func writeFile(t testing.TB, dir, name string, frames ...[]byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, bytes.Join(frames, nil), 0644))
	return path
}

// validFrames returns n framed records of varying dimensions.
func validFrames(t testing.TB, n int) [][]byte {
	frames := make([][]byte, n)
	for i := range frames {
		frames[i] = frameBytes(t, validPayload(t, 10+i%5, 6+i%3))
	}
	return frames
}
