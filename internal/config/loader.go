package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// ConfigDir is the directory name under ~/.config
	ConfigDir = "dendron"
	// ConfigFile is the config file name
	ConfigFile = "config.json"
)

// LoadError is returned when a config file exists but cannot be used.
type LoadError struct {
	Path  string
	Cause error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Cause)
}
func (e *LoadError) Unwrap() error { return e.Cause }

// FileSystem is what the loader reads through; tests swap it out.
type FileSystem interface {
	UserHomeDir() (string, error)
	ReadFile(path string) ([]byte, error)
}

// ConfigFileReader reads from the real OS.
type ConfigFileReader struct{}

func (ConfigFileReader) UserHomeDir() (string, error) { return os.UserHomeDir() }

func (ConfigFileReader) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

// Loader reads tool settings over DefaultConfig.
type Loader struct {
	fs FileSystem
}

// NewLoader creates a Loader over the real filesystem.
func NewLoader() *Loader {
	return &Loader{fs: ConfigFileReader{}}
}

// NewLoaderWithFS creates a Loader over fs.
func NewLoaderWithFS(fs FileSystem) *Loader {
	return &Loader{fs: fs}
}

// DefaultPath returns ~/.config/dendron/config.json.
func (l *Loader) DefaultPath() (string, error) {
	home, err := l.fs.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", ConfigDir, ConfigFile), nil
}

// Load reads DefaultPath. Without a home directory the defaults are used.
//
// NOTE: JSON keys are unmarshalled directly over the defaults, so explicit
// zero values (0, false, "") in the file win.
func (l *Loader) Load() (*Config, error) {
	path, err := l.DefaultPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return l.LoadFile(path)
}

// LoadFile reads configPath over the defaults. A missing file yields the
// defaults; unreadable, malformed or invalid files are a *LoadError.
func (l *Loader) LoadFile(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := l.fs.ReadFile(configPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return cfg, nil
	case err != nil:
		return nil, &LoadError{Path: configPath, Cause: err}
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, &LoadError{Path: configPath, Cause: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, &LoadError{Path: configPath, Cause: err}
	}
	return cfg, nil
}

// Load uses the default loader.
func Load() (*Config, error) {
	return NewLoader().Load()
}
