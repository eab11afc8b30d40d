package config

import "go.uber.org/zap"

// NewLogger builds the process logger from the configured mode.
func NewLogger(cfg LogConfig) (*zap.Logger, error) {
	if cfg.Mode == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
