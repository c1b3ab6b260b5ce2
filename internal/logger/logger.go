package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "mizan"

// Options selects the level and output shape of the process logger.
type Options struct {
	Level string // debug, info, warn, error; blank means info
	Env   string // "production" logs sampled JSON, anything else readable console lines
}

// New builds the process logger, tags every entry with the service and
// environment, and installs it as the zap global.
func New(opts Options) (*zap.Logger, error) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if raw := strings.TrimSpace(opts.Level); raw != "" {
		if err := level.UnmarshalText([]byte(strings.ToLower(raw))); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", raw, err)
		}
	}

	env := strings.TrimSpace(opts.Env)
	if env == "" {
		env = "development"
	}

	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		cfg.DisableStacktrace = true
	}
	cfg.Level = level
	cfg.InitialFields = map[string]any{
		"service": serviceName,
		"env":     env,
	}

	log, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(log)
	return log, nil
}
