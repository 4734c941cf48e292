package config_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"dayout/internal/config"
	"dayout/pkg/logger"
)

var Module = fx.Provide(
	config.Load,
	provideLogger)

func provideLogger(cfg config.Config) (*zap.Logger, error) {
	return logger.New(cfg.LogLevel, cfg.LogFormat)
}
