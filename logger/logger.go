// Package logger provides a configured Zap sugared logger instance for the
// application, plus helpers for masking sensitive values (submitter email
// addresses, API credentials) before they reach the logs.
package logger

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger *zap.SugaredLogger
	once   sync.Once
)

// IsTest should be set to true when running in a test environment to keep
// logger output on stdout with the development encoder.
var IsTest bool

func initLoggerInternal() {
	var zapLogger *zap.Logger
	var err error

	levelStr := os.Getenv("LOG_LEVEL")
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		level = zapcore.InfoLevel
	}

	if IsTest {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(level)
		cfg.OutputPaths = []string{"stdout"}
		zapLogger, err = cfg.Build()
	} else if os.Getenv("ENVIRONMENT") == "production" {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(level)
		cfg.OutputPaths = []string{"stdout"}
		cfg.ErrorOutputPaths = []string{"stderr"}
		zapLogger, err = cfg.Build()
	} else {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(level)
		zapLogger, err = cfg.Build()
	}

	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	logger = zapLogger.Sugar()
}

// InitLogger initializes the global logger instance. Safe for concurrent
// callers; only the first call has any effect.
func InitLogger() {
	once.Do(initLoggerInternal)
}

// GetLogger returns the shared global zap.SugaredLogger instance,
// initializing it on first use.
func GetLogger() *zap.SugaredLogger {
	once.Do(initLoggerInternal)
	return logger
}

// Close syncs the global logger to flush any buffered log entries.
// It should be called before the application exits.
func Close() error {
	if logger != nil && !IsTest {
		err := logger.Sync()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error syncing logger: %v\n", err)
		}
		return err
	}
	return nil
}

// MaskSensitiveString masks the middle part of a string, showing only the
// first prefixLen and last suffixLen characters.
func MaskSensitiveString(s string, prefixLen, suffixLen int) string {
	if s == "" {
		return ""
	}

	// Short strings become all asterisks to avoid revealing length.
	if len(s) < (prefixLen + suffixLen + 3) {
		return strings.Repeat("*", len(s))
	}

	return s[:prefixLen] + "..." + s[len(s)-suffixLen:]
}

// MaskEmail masks the username part of an email address but keeps the
// domain visible, so a log line stays traceable without exposing the
// submitter's full address.
func MaskEmail(email string) string {
	if email == "" {
		return ""
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return MaskSensitiveString(email, 2, 2)
	}

	return MaskSensitiveString(parts[0], 2, 1) + "@" + parts[1]
}
