package logger

import (
	"go.uber.org/zap"

	"github.com/sandeepkv93/freedom/internal/config"
)

func New(cfg config.RuntimeConfig) (*zap.Logger, error) {
	if cfg.LogFile == "-" {
		return zap.NewNop(), nil
	}

	zcfg := zap.NewDevelopmentConfig()
	if cfg.IsProduction() {
		zcfg = zap.NewProductionConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zcfg.Level = level
	zcfg.OutputPaths = []string{cfg.LogFile}
	zcfg.ErrorOutputPaths = []string{cfg.LogFile}

	return zcfg.Build()
}
