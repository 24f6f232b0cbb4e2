package logger

import (
	"os"

	"go.uber.org/zap"
)

// New builds the process-wide zap logger. The level comes from LOG_LEVEL
// (zap's textual levels), defaulting to info.
func New() (*zap.Logger, error) {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "info"
	}

	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	return cfg.Build()
}
