package packer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manifest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, `
images:
  cat.jpg:
    license: https://creativecommons.org/licenses/by/2.0/
    title: A cat
    owner: someone
    viewCount: 1200
`)

	manifest, err := LoadManifest(path)
	require.NoError(t, err)
	meta := manifest.lookup("/any/dir/cat.jpg")
	assert.Equal(t, "A cat", meta.Title)
	assert.Equal(t, "someone", meta.Owner)
	assert.Equal(t, uint32(1200), meta.ViewCount)
	assert.Equal(t, Metadata{}, manifest.lookup("dog.jpg"))
}

func TestLoadManifest_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"negative count", "images:\n  a.jpg:\n    faveCount: -1\n"},
		{"count overflow", "images:\n  a.jpg:\n    viewCount: 4294967296\n"},
		{"bad license url", "images:\n  a.jpg:\n    license: not a url\n"},
		{"not yaml", "images: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadManifest(writeManifest(t, tt.content))
			assert.Error(t, err)
		})
	}

	_, err := LoadManifest(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestManifest_NilLookup(t *testing.T) {
	var manifest *Manifest
	assert.Equal(t, Metadata{}, manifest.lookup("a.jpg"))
}
