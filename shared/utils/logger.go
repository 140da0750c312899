package utils

import (
	"fmt"

	"github.com/Bipul-Dubey/car-price-api/shared/constants"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a console debug logger for dev and a JSON info logger
// for everything else.
func NewLogger(env string) (*zap.Logger, error) {
	var cfg zap.Config

	switch constants.EnvEnum(env) {
	case constants.EnvDev:
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger.With(zap.String("env", env)), nil
}
