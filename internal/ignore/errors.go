package ignore

import (
	"errors"
	"fmt"
)

// ReadError is returned when an ignore file exists but cannot be read.
type ReadError struct {
	Path  string
	Cause error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read ignore file %s: %v", e.Path, e.Cause)
}
func (e *ReadError) Unwrap() error { return e.Cause }

// WriteError is returned when an ignore file cannot be written.
type WriteError struct {
	Path  string
	Cause error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write ignore file %s: %v", e.Path, e.Cause)
}
func (e *WriteError) Unwrap() error { return e.Cause }

// -- Sentinels --

var (
	ErrEmptyEntry = errors.New("ignore entry is empty")
)
