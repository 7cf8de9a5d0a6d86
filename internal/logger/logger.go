package logger

import (
	"io"
	"os"
	"study-buddy/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var log *zap.Logger

// Initialize builds the process-wide logger. Unknown levels fall back to info.
func Initialize(cfg config.LoggerConfig) error {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeDuration = zapcore.SecondsDurationEncoder

	// The interactive client must not write log lines over its own prompt, so it
	// logs to a rotating file instead of stdout.
	var out io.Writer = os.Stdout
	if cfg.File != "" {
		out = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		}
	}

	enc := zapcore.NewConsoleEncoder(encCfg)
	if cfg.Env == "production" || cfg.File != "" {
		enc = zapcore.NewJSONEncoder(encCfg)
	}

	log = zap.New(zapcore.NewCore(enc, zapcore.AddSync(out), level),
		zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return nil
}

// Get returns the global logger, or a no-op logger before Initialize.
func Get() *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}

func Sync() error {
	if log == nil {
		return nil
	}
	return log.Sync()
}
