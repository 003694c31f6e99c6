package anonlattice

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned by operations on a closed session.
	ErrClosed = errors.New("anonlattice: session is closed")
	// ErrForeignRowStore is returned when releasing a row store the session does not own.
	ErrForeignRowStore = errors.New("anonlattice: row store not owned by session")
)

// ConfigError reports an invalid configuration value.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ConfigError struct {
	Field string
	Value any
	cause error
}

func (e *ConfigError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("anonlattice: invalid config %s=%v: %v", e.Field, e.Value, e.cause)
	}
	return fmt.Sprintf("anonlattice: invalid config %s=%v", e.Field, e.Value)
}

func (e *ConfigError) Unwrap() error { return e.cause }
