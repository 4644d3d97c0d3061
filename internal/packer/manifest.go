package packer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jo-hoe/tfcheck/internal/common"
	"gopkg.in/yaml.v3"
)

// Metadata holds the descriptive features of one image. Counts are unsigned
// 32 bit like the crawler that produced the original datasets.
type Metadata struct {
	License      string `yaml:"license" validate:"omitempty,url"`
	Tags         string `yaml:"tags"`
	Title        string `yaml:"title"`
	Description  string `yaml:"description"`
	Owner        string `yaml:"owner"`
	ImgSrc       string `yaml:"imgSrc"`
	CommentCount uint32 `yaml:"commentCount"`
	FaveCount    uint32 `yaml:"faveCount"`
	ViewCount    uint32 `yaml:"viewCount"`
}

// Manifest maps image file names (without directory) to their metadata.
type Manifest struct {
	Images map[string]Metadata `yaml:"images" validate:"dive"`
}

// LoadManifest reads and validates a YAML manifest.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}

	manifest := &Manifest{}
	if err := yaml.Unmarshal(data, manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest file: %w", err)
	}
	if err := common.ValidateStruct(manifest); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}
	return manifest, nil
}

// lookup returns the metadata for path, or the zero value when m is nil or
// has no entry for it.
func (m *Manifest) lookup(path string) Metadata {
	if m == nil {
		return Metadata{}
	}
	return m.Images[filepath.Base(path)]
}
