package vaultadd

import (
	"strings"

	"github.com/ironyman/dendron/internal/vault"
)

// Request is the user input for one vault add.
type Request struct {
	SourceType vault.SourceType
	// SourcePath is a local directory, or for remotes the folder to clone into.
	// Its basename wins over SourceName for the remote folder; see
	// vault.RemoteFolderName.
	SourcePath string
	// SourcePathRemote is the clone URL of a remote source.
	SourcePathRemote string
	// SourceName is the optional display name.
	SourceName string
	// SelfContained overrides dev.enableSelfContainedVaults when set.
	SelfContained *bool
}

// Validate checks the request before anything touches disk.
func (r Request) Validate() error {
	if !r.SourceType.Valid() {
		return vault.ErrInvalidSourceType
	}
	switch r.SourceType {
	case vault.SourceRemote:
		if strings.TrimSpace(r.SourcePathRemote) == "" {
			return vault.ErrMissingRemoteURL
		}
	case vault.SourceLocal:
		if strings.TrimSpace(r.SourcePath) == "" && strings.TrimSpace(r.SourceName) == "" {
			return vault.ErrEmptySourcePath
		}
	}
	return nil
}
