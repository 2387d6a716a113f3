package config

// Config holds all tool configuration values.
// Defaults are set in DefaultConfig() and can be overridden via dotfile.
// NOTE: Values in config files override defaults, including explicit zero values.
// Missing keys are left at their default values.
type Config struct {
	Log   LogConfig   `json:"log"`
	Git   GitConfig   `json:"git"`
	Vault VaultConfig `json:"vault"`
}

type LogConfig struct {
	Level  string `json:"level"`  // Default: "info"
	Format string `json:"format"` // Default: "console"
}

type GitConfig struct {
	CloneDepth int    `json:"clone_depth"` // Default: 0 (full history)
	RemoteName string `json:"remote_name"` // Default: "origin"
}

type VaultConfig struct {
	// SeedRootNote writes root.md and root.schema.yml into freshly created vaults.
	SeedRootNote bool `json:"seed_root_note"` // Default: true
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Git: GitConfig{
			CloneDepth: 0,
			RemoteName: "origin",
		},
		Vault: VaultConfig{
			SeedRootNote: true,
		},
	}
}
