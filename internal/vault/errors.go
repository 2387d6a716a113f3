package vault

import (
	"errors"
	"fmt"
)

// -- Error Types --

// AmbiguousLayoutError is returned when a cloned remote cannot be classified.
type AmbiguousLayoutError struct {
	Path   string
	Reason string
}

func (e *AmbiguousLayoutError) Error() string {
	return fmt.Sprintf("cannot classify %s: %s", e.Path, e.Reason)
}
func (e *AmbiguousLayoutError) Unwrap() error { return ErrAmbiguousLayout }

// -- Sentinels --

var (
	ErrInvalidSourceType = errors.New("source type must be local or remote")
	ErrEmptySourcePath   = errors.New("source path is required")
	ErrMissingRemoteURL  = errors.New("remote url is required for remote sources")
	ErrMissingName       = errors.New("vault name cannot be derived from the source")
	ErrSourceIsRoot      = errors.New("source path is the workspace root")
	ErrAmbiguousLayout   = errors.New("ambiguous vault layout")

	ErrSourceContainsDestination = errors.New("source directory contains the vault destination")
)
