package vaultadd

import (
	"context"

	"github.com/ironyman/dendron/internal/wsconfig"
	"go.uber.org/zap"
)

// Reloader is told after a successful add that the workspace should pick
// up the new config.
type Reloader interface {
	Reload(ctx context.Context, cfg wsconfig.Config) error
}

// LogReloader only records the request; it stands in when no editor is
// attached.
type LogReloader struct {
	logger *zap.Logger
}

// NewLogReloader creates a LogReloader.
func NewLogReloader(logger *zap.Logger) *LogReloader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogReloader{logger: logger}
}

func (r *LogReloader) Reload(_ context.Context, cfg wsconfig.Config) error {
	r.logger.Info("workspace reload requested", zap.Int("vaults", len(cfg.Vaults)), zap.Int("workspaces", len(cfg.Workspaces)))
	return nil
}
