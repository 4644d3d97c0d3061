package commandstructure

import (
	"reflect"
	"testing"
)

func TestNewCommandRegistry(t *testing.T) {
	registry := NewCommandRegistry()
	if registry == nil {
		t.Fatal("Expected non-nil registry")
	}
	if registry.factories == nil {
		t.Fatal("Expected non-nil factories map")
	}
}

func TestCommandRegistry_Register(t *testing.T) {
	registry := NewCommandRegistry()
	factory := func(params map[string]any) (Command, error) {
		return newMockCommand("TestCommand"), nil
	}

	if err := registry.Register("TestCommand", factory); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if err := registry.Register("TestCommand", factory); err == nil {
		t.Error("Expected error for duplicate registration")
	}
	if err := registry.Register("", factory); err == nil {
		t.Error("Expected error for empty name")
	}
	if err := registry.Register("NilFactory", nil); err == nil {
		t.Error("Expected error for nil factory")
	}
}

func TestCommandRegistry_Create(t *testing.T) {
	registry := NewCommandRegistry()
	err := registry.Register("TestCommand", func(params map[string]any) (Command, error) {
		if err := ValidateRequiredParams(params, []string{"size"}); err != nil {
			return nil, err
		}
		return newMockCommand("TestCommand"), nil
	})
	if err != nil {
		t.Fatalf("Failed to register command: %v", err)
	}

	command, err := registry.Create("TestCommand", map[string]any{"size": 3})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if command.Name() != "TestCommand" {
		t.Errorf("Expected name TestCommand, got %s", command.Name())
	}

	if _, err := registry.Create("TestCommand", map[string]any{}); err == nil {
		t.Error("Expected error when factory rejects params")
	}
	if _, err := registry.Create("Missing", nil); err == nil {
		t.Error("Expected error for unknown command")
	}
}

func TestCommandRegistry_Names(t *testing.T) {
	registry := NewCommandRegistry()
	for _, name := range []string{"b", "a", "c"} {
		if err := registry.Register(name, func(map[string]any) (Command, error) { return newMockCommand(name), nil }); err != nil {
			t.Fatalf("Register(%s): %v", name, err)
		}
	}

	if got := registry.GetRegisteredNames(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("Expected sorted names, got %v", got)
	}
	if !registry.IsRegistered("a") {
		t.Error("Expected a to be registered")
	}
	if registry.IsRegistered("z") {
		t.Error("Expected z not to be registered")
	}
}
