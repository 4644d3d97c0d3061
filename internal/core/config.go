package core

import (
	"errors"
	"fmt"
	"os"

	"github.com/jo-hoe/tfcheck/internal/commandstructure"
	"github.com/jo-hoe/tfcheck/internal/common"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPattern      = "out.tfrecord"
	DefaultCycleLength  = 128
	DefaultParseWorkers = 8
	DefaultBatchSize    = 16
	DefaultImageSize    = 256
)

type ServiceConfig struct {
	Pattern      string                           `yaml:"pattern" validate:"required"`
	CycleLength  int                              `yaml:"cycleLength" validate:"gte=1"`
	ParseWorkers int                              `yaml:"parseWorkers" validate:"gte=1"`
	BufferSize   int                              `yaml:"bufferSize" validate:"gte=0"`
	BatchSize    int                              `yaml:"batchSize" validate:"gte=1"`
	Progress     bool                             `yaml:"progress"`
	StatusPort   int                              `yaml:"statusPort" validate:"gte=0,lte=65535"`
	LogLevel     string                           `yaml:"logLevel" validate:"oneof=debug info warn error"`
	LogFormat    string                           `yaml:"logFormat" validate:"oneof=text json"`
	Commands     []commandstructure.CommandConfig `yaml:"commands" validate:"required,min=1"`
}

// DefaultConfig reproduces the behaviour of the tool without a config file.
func DefaultConfig() *ServiceConfig {
	return &ServiceConfig{
		Pattern:      DefaultPattern,
		CycleLength:  DefaultCycleLength,
		ParseWorkers: DefaultParseWorkers,
		BatchSize:    DefaultBatchSize,
		Progress:     true,
		LogLevel:     "info",
		LogFormat:    "text",
		Commands: []commandstructure.CommandConfig{
			{
				Name:   "CenterCropResizeCommand",
				Params: map[string]any{"size": DefaultImageSize},
			},
		},
	}
}

// LoadConfig loads configuration from the specified YAML file. Keys absent
// from the file keep their default values.
func LoadConfig(configPath string) (*ServiceConfig, error) {
	// Read the config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	// Parse YAML on top of the defaults
	config := DefaultConfig()
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadConfigOrDefault behaves like LoadConfig but falls back to
// DefaultConfig when the file does not exist.
func LoadConfigOrDefault(configPath string) (*ServiceConfig, error) {
	config, err := LoadConfig(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return config, err
}

// Validate checks field ranges and the command list.
func (c *ServiceConfig) Validate() error {
	if err := common.ValidateStruct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Validate commands
	if err := validateCommands(c.Commands); err != nil {
		return fmt.Errorf("invalid command configuration: %w", err)
	}

	return nil
}

// validateCommands ensures all command configurations have required fields
func validateCommands(commands []commandstructure.CommandConfig) error {
	seenNames := make(map[string]bool)

	for i, cmd := range commands {
		// Validate name is not empty
		if cmd.Name == "" {
			return fmt.Errorf("command at index %d has empty name", i)
		}

		// Validate name is unique
		if seenNames[cmd.Name] {
			return fmt.Errorf("duplicate command name: %s", cmd.Name)
		}
		seenNames[cmd.Name] = true
	}

	return nil
}
