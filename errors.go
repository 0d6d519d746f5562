package cvf

import (
	"errors"
	"fmt"

	"bennypowers.dev/cvf/internal/vars"
)

// Sentinel errors for error type checking
var (
	// ErrInvalidConfig indicates the fallbacks configuration is malformed
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrSourceLoad indicates a fallback source could not be loaded or parsed
	ErrSourceLoad = errors.New("failed to load fallback source")

	// ErrCircularReference indicates a circular variable reference was
	// detected; re-exported so callers can match resolver warnings.
	ErrCircularReference = vars.ErrCircularReference
)

// ConfigError represents a malformed configuration. The affected
// setting contributes nothing; processing continues.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// SourceLoadError represents a fallback source that could not be read
// or parsed. The source is skipped; remaining sources still contribute.
type SourceLoadError struct {
	Source string
	Err    error
}

func (e *SourceLoadError) Error() string {
	return fmt.Sprintf("failed to load fallback source %s: %v", e.Source, e.Err)
}

func (e *SourceLoadError) Unwrap() []error {
	return []error{ErrSourceLoad, e.Err}
}
