package wsconfig

import (
	"errors"
	"fmt"
)

// -- Error Types --

// ParseError is returned when the config document is not valid YAML or has
// an unexpected shape.
type ParseError struct {
	Path  string
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse workspace config %s: %v", e.Path, e.Cause)
}
func (e *ParseError) Unwrap() error { return e.Cause }

// WriteError is returned when the config document cannot be persisted.
type WriteError struct {
	Path  string
	Cause error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write workspace config %s: %v", e.Path, e.Cause)
}
func (e *WriteError) Unwrap() error { return e.Cause }

// DuplicateVaultError is returned when a vault with the same identity is
// already registered.
type DuplicateVaultError struct {
	Workspace string
	FsPath    string
}

func (e *DuplicateVaultError) Error() string {
	if e.Workspace != "" {
		return fmt.Sprintf("vault %s in workspace %s is already registered", e.FsPath, e.Workspace)
	}
	return fmt.Sprintf("vault %s is already registered", e.FsPath)
}
func (e *DuplicateVaultError) Unwrap() error { return ErrDuplicateVault }

// DuplicateNameError is returned when a vault name is already taken.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("vault name %q is already in use", e.Name)
}
func (e *DuplicateNameError) Unwrap() error { return ErrDuplicateName }

// WorkspaceRemoteConflictError is returned when a workspace remote name is
// registered with a different URL.
type WorkspaceRemoteConflictError struct {
	Name        string
	ExistingURL string
	URL         string
}

func (e *WorkspaceRemoteConflictError) Error() string {
	return fmt.Sprintf("workspace remote %q already points at %s, not %s", e.Name, e.ExistingURL, e.URL)
}
func (e *WorkspaceRemoteConflictError) Unwrap() error { return ErrWorkspaceRemoteConflict }

// MissingWorkspaceRemoteError is returned when a vault names a workspace
// that has no workspace remote entry.
type MissingWorkspaceRemoteError struct {
	Workspace string
}

func (e *MissingWorkspaceRemoteError) Error() string {
	return fmt.Sprintf("no workspace remote named %q", e.Workspace)
}
func (e *MissingWorkspaceRemoteError) Unwrap() error { return ErrMissingWorkspaceRemote }

// -- Sentinels --

var (
	ErrDuplicateVault          = errors.New("duplicate vault")
	ErrDuplicateName           = errors.New("duplicate vault name")
	ErrWorkspaceRemoteConflict = errors.New("workspace remote conflict")
	ErrMissingWorkspaceRemote  = errors.New("missing workspace remote")
	ErrNotAMapping             = errors.New("expected a mapping")
	ErrEmptyFsPath             = errors.New("vault fsPath is empty")
)
