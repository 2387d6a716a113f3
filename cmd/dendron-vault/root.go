package main

import (
	"fmt"
	"os"

	"github.com/ironyman/dendron/internal/config"
	"github.com/ironyman/dendron/internal/fsutil"
	"github.com/ironyman/dendron/internal/gitclone"
	"github.com/ironyman/dendron/internal/ignore"
	"github.com/ironyman/dendron/internal/logging"
	"github.com/ironyman/dendron/internal/materialize"
	"github.com/ironyman/dendron/internal/pathutil"
	"github.com/ironyman/dendron/internal/vaultadd"
	"github.com/ironyman/dendron/internal/wsconfig"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootFlags struct {
	wsRoot     string
	configPath string
	logLevel   string
}

// Dependencies holds the components a command runs against.
type Dependencies struct {
	Config        *config.Config
	Logger        *zap.Logger
	WorkspaceRoot string
	FS            *fsutil.OSFileSystem
	Store         *wsconfig.Store
	Orchestrator  *vaultadd.Orchestrator
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "dendron-vault",
		Short:         "Manage the vaults of a Dendron workspace",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&flags.wsRoot, "ws-root", "", "workspace root (default: current directory)")
	pf.StringVar(&flags.configPath, "config", "", "tool config file (default: ~/.config/dendron/config.json)")
	pf.StringVar(&flags.logLevel, "log-level", "", "override log.level from the tool config")

	vaultCmd := &cobra.Command{
		Use:   "vault",
		Short: "Add or list workspace vaults",
	}
	vaultCmd.AddCommand(newAddCmd(flags), newListCmd(flags))
	root.AddCommand(vaultCmd)
	return root
}

func loadConfig(flags *rootFlags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if flags.configPath != "" {
		cfg, err = config.NewLoader().LoadFile(flags.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// newDependencies wires the real collaborators for one workspace root.
func newDependencies(flags *rootFlags) (*Dependencies, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	wsRoot := flags.wsRoot
	if wsRoot == "" {
		if wsRoot, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
	}
	canonicalRoot, err := pathutil.CanonicaliseRoot(wsRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize workspace root: %w", err)
	}

	osFS := fsutil.NewOSFileSystem()
	resolver := pathutil.NewResolver(canonicalRoot)
	store := wsconfig.NewStore(osFS, canonicalRoot)
	cloner := gitclone.NewCloner(cfg.Git.CloneDepth, cfg.Git.RemoteName)
	m := materialize.New(osFS, cloner, resolver, logger, materialize.WithSeed(cfg.Vault.SeedRootNote))
	orch := vaultadd.New(resolver, m, store, ignore.NewPatcher(osFS), vaultadd.NewLogReloader(logger), logger)

	return &Dependencies{
		Config:        cfg,
		Logger:        logger,
		WorkspaceRoot: canonicalRoot,
		FS:            osFS,
		Store:         store,
		Orchestrator:  orch,
	}, nil
}
