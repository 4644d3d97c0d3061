package commandstructure

import (
	"fmt"
	"image"
	"log/slog"
	"strings"
)

// CommandInvoker executes a fixed sequence of commands on decoded images.
// It holds no per-image state and is safe for concurrent use when its
// commands are.
type CommandInvoker struct {
	commands []Command
}

// NewCommandInvoker creates a new command invoker
func NewCommandInvoker(commands []Command) *CommandInvoker {
	return &CommandInvoker{
		commands: commands,
	}
}

// NewCommandInvokerFromConfig instantiates every configured command from registry
func NewCommandInvokerFromConfig(registry *CommandRegistry, configs []CommandConfig) (*CommandInvoker, error) {
	commands := make([]Command, 0, len(configs))
	for i, config := range configs {
		if !registry.IsRegistered(config.Name) {
			return nil, fmt.Errorf("unknown command %q at index %d (registered: %s)",
				config.Name, i, strings.Join(registry.GetRegisteredNames(), ", "))
		}
		command, err := registry.Create(config.Name, config.Params)
		if err != nil {
			return nil, fmt.Errorf("failed to create command at index %d (%s): %w", i, config.Name, err)
		}
		slog.Debug("CommandInvoker: command created", "index", i, "command_name", config.Name, "params", config.Params)
		commands = append(commands, command)
	}
	return NewCommandInvoker(commands), nil
}

// Names returns the command names in execution order
func (i *CommandInvoker) Names() []string {
	names := make([]string, len(i.commands))
	for idx, command := range i.commands {
		names[idx] = command.Name()
	}
	return names
}

// Execute applies all commands in sequence to img
func (i *CommandInvoker) Execute(img image.Image) (image.Image, error) {
	current := img
	for idx, command := range i.commands {
		processed, err := command.Execute(current)
		if err != nil {
			return nil, fmt.Errorf("command %s (index %d) failed: %w", command.Name(), idx, err)
		}
		current = processed
	}
	return current, nil
}
