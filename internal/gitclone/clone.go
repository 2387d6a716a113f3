// Package gitclone populates a directory from a git remote.
package gitclone

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
)

// CloneError is returned when a clone fails.
type CloneError struct {
	URL   string
	Dest  string
	Cause error
}

func (e *CloneError) Error() string {
	return fmt.Sprintf("failed to clone %s into %s: %v", e.URL, e.Dest, e.Cause)
}
func (e *CloneError) Unwrap() error { return e.Cause }

// ErrEmptyURL is returned for a blank remote URL.
var ErrEmptyURL = errors.New("remote url is empty")

// Cloner clones repositories with go-git. URL may be a network remote or a
// path to a local repository.
type Cloner struct {
	// Depth limits history; 0 clones everything.
	Depth int
	// RemoteName is the name given to the cloned remote.
	RemoteName string
}

// NewCloner creates a Cloner.
func NewCloner(depth int, remoteName string) *Cloner {
	if remoteName == "" {
		remoteName = git.DefaultRemoteName
	}
	return &Cloner{Depth: depth, RemoteName: remoteName}
}

// Clone checks out url into dest. dest must be absent or empty.
func (c *Cloner) Clone(ctx context.Context, url, dest string) error {
	if url == "" {
		return &CloneError{URL: url, Dest: dest, Cause: ErrEmptyURL}
	}

	_, err := git.PlainCloneContext(ctx, dest, false, &git.CloneOptions{
		URL:          url,
		RemoteName:   c.RemoteName,
		Depth:        c.Depth,
		SingleBranch: c.Depth > 0,
		Tags:         git.NoTags,
	})
	if err != nil {
		return &CloneError{URL: url, Dest: dest, Cause: err}
	}
	return nil
}
