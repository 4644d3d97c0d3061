package common

import (
	"sync"

	"github.com/go-playground/validator"
)

var (
	defaultValidator *validator.Validate
	once             sync.Once
)

// ValidateStruct checks the `validate` tags of i.
func ValidateStruct(i interface{}) error {
	once.Do(func() {
		defaultValidator = validator.New()
	})
	return defaultValidator.Struct(i)
}
