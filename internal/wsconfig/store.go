package wsconfig

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/ironyman/dendron/internal/vault"
)

// fileSystem is the minimal filesystem the store needs.
type fileSystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFileAtomic(path string, content []byte, perm os.FileMode) error
}

// Store reads and writes the config document of one workspace root.
type Store struct {
	fs   fileSystem
	path string
}

// NewStore creates a store for <wsRoot>/dendron.yml.
func NewStore(fs fileSystem, wsRoot string) *Store {
	if fs == nil {
		panic("fs is required")
	}
	return &Store{fs: fs, path: filepath.Join(wsRoot, vault.ConfigFile)}
}

// Path returns the config file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the document. A missing file yields an empty document.
func (s *Store) Load() (*Document, error) {
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewDocument(), nil
		}
		return nil, &ParseError{Path: s.path, Cause: err}
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, &ParseError{Path: s.path, Cause: err}
	}
	return doc, nil
}

// Save renders doc and replaces the file atomically.
func (s *Store) Save(doc *Document) error {
	data, err := doc.Bytes()
	if err != nil {
		return &WriteError{Path: s.path, Cause: err}
	}
	if err := s.fs.WriteFileAtomic(s.path, data, 0o644); err != nil {
		return &WriteError{Path: s.path, Cause: err}
	}
	return nil
}

// Update loads the document, applies fn to its config, and saves the
// result. Nothing is written when fn fails.
func (s *Store) Update(fn func(Config) (Config, error)) (Config, error) {
	doc, err := s.Load()
	if err != nil {
		return Config{}, err
	}
	cfg, err := doc.Config()
	if err != nil {
		return Config{}, &ParseError{Path: s.path, Cause: err}
	}
	next, err := fn(cfg)
	if err != nil {
		return Config{}, err
	}
	if err := doc.Apply(next); err != nil {
		return Config{}, &WriteError{Path: s.path, Cause: err}
	}
	if err := s.Save(doc); err != nil {
		return Config{}, err
	}
	return next, nil
}
