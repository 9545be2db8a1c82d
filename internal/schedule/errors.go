package schedule

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration is matched by every loan configuration failure
var ErrInvalidConfiguration = errors.New("invalid loan configuration")

// ConfigError reports the loan parameter that failed validation
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidConfiguration, e.Field, e.Reason)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}

func invalid(field, format string, args ...any) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
