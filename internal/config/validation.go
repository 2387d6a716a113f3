package config

import (
	"fmt"
)

// Validate checks config values for correctness.
// Returns an error if any values are invalid.
func (c *Config) Validate() error {
	var errs []string

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, "log.level must be one of debug, info, warn, error")
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		errs = append(errs, "log.format must be console or json")
	}

	if c.Git.CloneDepth < 0 {
		errs = append(errs, "git.clone_depth must be >= 0")
	}
	if c.Git.RemoteName == "" {
		errs = append(errs, "git.remote_name must not be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}

	return nil
}
