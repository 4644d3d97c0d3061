package commands

import "testing"

func BenchmarkDecodeAndCropResize(b *testing.B) {
	data := encodePNG(b, noiseImage(1024, 768))
	command, err := NewCenterCropResizeCommandWithSize(DefaultTargetSize)
	if err != nil {
		b.Fatalf("failed to create command: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		img, _, err := DecodeImage(data)
		if err != nil {
			b.Fatalf("decode failed: %v", err)
		}
		out, err := command.Execute(img)
		if err != nil {
			b.Fatalf("execute failed: %v", err)
		}
		_ = ToRGB(out)
	}
}
