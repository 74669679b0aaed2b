package log

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func SetUpLogger(level string) {
	cfg := zap.NewProductionConfig()
	if lvl, err := zapcore.ParseLevel(level); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	logger, err := cfg.Build()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing logger.")
		return
	}

	zap.ReplaceGlobals(logger)
}

// Sync flushes buffered log entries, call it before the process exits.
func Sync() {
	if err := zap.L().Sync(); err != nil {
		fmt.Fprintln(os.Stderr, "Error flushing buffered log entries.")
	}
}

func LogAppInfo(msg string, keysAndValues ...interface{}) {
	zap.S().Infow(msg, keysAndValues...)
}

func LogAppWarn(msg string, err error) {
	zap.S().Warnw(msg,
		"cause", err,
	)
}

func LogAppErr(msg string, err error) {
	zap.S().Errorw(msg,
		"cause", err,
	)
}
