// Package logging provides structured logging capabilities using slog,
// with file rotation for long-running engine processes.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sync"

	"daw-engine/internal/conf"
	"gopkg.in/natefinch/lumberjack.v2"
)

// global logger instances, initialized in Init()
var (
	structuredLogger    *slog.Logger
	humanReadableLogger *slog.Logger
	loggerMu            sync.RWMutex // Protects logger access
)

// Track closable writers for proper resource management in SetOutput
var currentStructuredOutputCloser io.Closer
var currentHumanReadableOutputCloser io.Closer

// currentLogLevel stores the dynamic level for all loggers
var currentLogLevel = new(slog.LevelVar)
var initOnce sync.Once
var initialized bool

const (
	LevelTrace = slog.Level(-8)
	LevelFatal = slog.Level(12)
)

// Add trace and fatal level names.
var levelNames = map[slog.Leveler]string{
	LevelTrace: "TRACE",
	LevelFatal: "FATAL",
}

// defaultReplaceAttr provides common attribute formatting for all loggers.
// It formats time, customizes level names, and truncates floats to 2 decimal places.
func defaultReplaceAttr(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
		a.Value = slog.StringValue(a.Value.Time().Format("2006-01-02T15:04:05Z07:00"))
	}
	if a.Key == slog.LevelKey {
		if level, ok := a.Value.Any().(slog.Level); ok {
			levelLabel, exists := levelNames[level]
			if !exists {
				levelLabel = level.String()
			}
			a.Value = slog.StringValue(levelLabel)
		} else {
			a.Value = slog.StringValue(fmt.Sprintf("%v", a.Value.Any()))
		}
	}
	if a.Value.Kind() == slog.KindFloat64 {
		truncatedVal := math.Trunc(a.Value.Float64()*100) / 100.0
		a.Value = slog.Float64Value(truncatedVal)
	}
	return a
}

func levelFromString(s string) slog.Level {
	switch s {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "fatal":
		return LevelFatal
	default:
		return slog.LevelInfo
	}
}

// Init initializes the global loggers based on the loaded EngineConfig.
// It sets up both a structured (JSON) logger and a human-readable (Text) logger.
func Init(cfg *conf.EngineConfig) {
	initOnce.Do(func() {
		currentLogLevel.Set(levelFromString(cfg.Log.Level))

		var structuredOut io.Writer = os.Stderr
		if cfg.Log.Enabled && cfg.Log.Path != "" {
			logDir := filepath.Dir(cfg.Log.Path)
			if logDir != "." {
				if err := os.MkdirAll(logDir, 0o755); err != nil { //nolint:gosec // accept 0o755 for now
					fmt.Printf("failed to create log directory: %v\n", err)
				}
			}
			lj := &lumberjack.Logger{
				Filename:   cfg.Log.Path,
				MaxSize:    cfg.Log.MaxSizeMB,
				MaxBackups: cfg.Log.Backups,
				Compress:   false,
			}
			currentStructuredOutputCloser = lj
			structuredOut = lj
		}

		structuredHandler := slog.NewJSONHandler(structuredOut, &slog.HandlerOptions{
			Level:       currentLogLevel,
			ReplaceAttr: defaultReplaceAttr,
		})

		currentHumanReadableOutputCloser = nil
		humanReadableHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level:       currentLogLevel,
			ReplaceAttr: defaultReplaceAttr,
		})

		loggerMu.Lock()
		structuredLogger = slog.New(structuredHandler)
		humanReadableLogger = slog.New(humanReadableHandler)
		loggerMu.Unlock()

		slog.SetDefault(structuredLogger)
		initialized = true
	})
}

// IsInitialized returns true if the logging system has been initialized.
func IsInitialized() bool {
	return initialized
}

// SetLevel changes the logging level for all initialized loggers.
func SetLevel(level slog.Level) {
	currentLogLevel.Set(level)
}

// SetOutput allows redirecting logger output, e.g. for tests.
// It safely closes any previously opened closable writers before creating new ones.
func SetOutput(structuredOutput, humanReadableOutput io.Writer) error {
	if structuredOutput == nil {
		return errors.New("structuredOutput writer cannot be nil")
	}
	if humanReadableOutput == nil {
		return errors.New("humanReadableOutput writer cannot be nil")
	}

	var closeErrors []error
	if currentStructuredOutputCloser != nil {
		if err := currentStructuredOutputCloser.Close(); err != nil {
			closeErrors = append(closeErrors, fmt.Errorf("failed to close previous structured output: %w", err))
		}
		currentStructuredOutputCloser = nil
	}
	if currentHumanReadableOutputCloser != nil {
		if err := currentHumanReadableOutputCloser.Close(); err != nil {
			closeErrors = append(closeErrors, fmt.Errorf("failed to close previous human-readable output: %w", err))
		}
		currentHumanReadableOutputCloser = nil
	}

	structuredHandler := slog.NewJSONHandler(structuredOutput, &slog.HandlerOptions{
		Level:       currentLogLevel,
		ReplaceAttr: defaultReplaceAttr,
	})
	humanReadableHandler := slog.NewTextHandler(humanReadableOutput, &slog.HandlerOptions{
		Level:       currentLogLevel,
		ReplaceAttr: defaultReplaceAttr,
	})

	loggerMu.Lock()
	structuredLogger = slog.New(structuredHandler)
	humanReadableLogger = slog.New(humanReadableHandler)
	loggerMu.Unlock()

	if c, ok := structuredOutput.(io.Closer); ok {
		currentStructuredOutputCloser = c
	}
	if c, ok := humanReadableOutput.(io.Closer); ok {
		currentHumanReadableOutputCloser = c
	}

	slog.SetDefault(structuredLogger)

	if len(closeErrors) > 0 {
		return errors.Join(closeErrors...)
	}
	return nil
}

// Structured returns the globally configured structured (JSON) logger.
func Structured() *slog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return structuredLogger
}

// HumanReadable returns the globally configured human-readable (Text) logger.
func HumanReadable() *slog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return humanReadableLogger
}

// ForComponent creates a new logger instance with the 'component' attribute added.
func ForComponent(component string) *slog.Logger {
	loggerMu.RLock()
	logger := structuredLogger
	loggerMu.RUnlock()

	if logger == nil {
		return slog.Default().With("component", component)
	}
	return logger.With("component", component)
}

// --- Convenience functions using the default logger ---

func Debug(msg string, args ...any) { slog.Debug(msg, args...) }
func Info(msg string, args ...any)  { slog.Info(msg, args...) }
func Warn(msg string, args ...any)  { slog.Warn(msg, args...) }
func Error(msg string, args ...any) { slog.Error(msg, args...) }

// Fatal logs a fatal message using the custom Fatal level and then exits.
func Fatal(msg string, args ...any) {
	slog.Log(context.TODO(), LevelFatal, msg, args...)
	os.Exit(1)
}

// Trace logs a trace message using the custom Trace level.
func Trace(msg string, args ...any) {
	slog.Log(context.TODO(), LevelTrace, msg, args...)
}
