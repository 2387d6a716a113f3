package materialize

import (
	"errors"
	"fmt"
)

// SourceNotFoundError is returned when a local source directory is missing.
type SourceNotFoundError struct {
	Path string
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("source directory %s does not exist", e.Path)
}
func (e *SourceNotFoundError) Unwrap() error { return ErrSourceNotFound }

// DestinationNotEmptyError is returned when the destination already holds
// content that would be overwritten.
type DestinationNotEmptyError struct {
	Path string
}

func (e *DestinationNotEmptyError) Error() string {
	return fmt.Sprintf("destination %s already exists and is not empty", e.Path)
}
func (e *DestinationNotEmptyError) Unwrap() error { return ErrDestinationNotEmpty }

// -- Sentinels --

var (
	ErrSourceNotFound      = errors.New("source not found")
	ErrDestinationNotEmpty = errors.New("destination not empty")
	ErrNotADirectory       = errors.New("not a directory")
	ErrNotStaged           = errors.New("remote layout requires a staged clone")
)
