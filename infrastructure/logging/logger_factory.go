package logging

import (
	"context"
	"io"
	"os"

	"github.com/ca-srg/tzexplorer/domain"
	"github.com/ca-srg/tzexplorer/infrastructure/config"
)

type LoggerFactoryImpl struct {
	config *config.LoggingConfig
	out    io.Writer
}

// NewLoggerFactory creates loggers that push to Loki when a URL is configured
// and write to stderr otherwise.
func NewLoggerFactory(cfg *config.LoggingConfig) domain.LoggerFactory {
	return NewLoggerFactoryWithWriter(cfg, os.Stderr)
}

// NewLoggerFactoryWithWriter is NewLoggerFactory with an explicit console writer.
func NewLoggerFactoryWithWriter(cfg *config.LoggingConfig, out io.Writer) domain.LoggerFactory {
	if cfg == nil {
		cfg = config.DefaultConfig().Logging
	}
	return &LoggerFactoryImpl{
		config: cfg,
		out:    out,
	}
}

func (f *LoggerFactoryImpl) CreateLogger(component string) domain.Logger {
	minLevel := domain.ParseLogLevel(f.config.Level, domain.LogLevelWarn)
	if f.config.Debug {
		minLevel = domain.LogLevelDebug
	}

	if f.config.Promtail == nil || f.config.Promtail.URL == "" {
		return NewLevelFilterLogger(NewConsoleLogger(f.out, component), minLevel)
	}

	promtailLogger, err := NewPromtailLogger(f.config.Promtail, component)
	if err != nil {
		// Fall back to the console if the Loki client cannot be created
		console := NewConsoleLogger(f.out, component)
		console.Warn(context.Background(), "Loki unavailable, logging to console", domain.NewField("error", err.Error()))
		return NewLevelFilterLogger(console, minLevel)
	}

	var logger domain.Logger = promtailLogger
	if f.config.Debug {
		logger = NewDebugLogger(logger, f.out, component)
	}

	return NewLevelFilterLogger(logger, minLevel)
}

// LevelFilterLogger filters log messages based on minimum level
type LevelFilterLogger struct {
	wrapped  domain.Logger
	minLevel domain.LogLevel
}

func NewLevelFilterLogger(wrapped domain.Logger, minLevel domain.LogLevel) *LevelFilterLogger {
	return &LevelFilterLogger{
		wrapped:  wrapped,
		minLevel: minLevel,
	}
}

func (l *LevelFilterLogger) Debug(ctx context.Context, msg string, fields ...domain.Field) {
	if domain.LogLevelDebug >= l.minLevel {
		l.wrapped.Debug(ctx, msg, fields...)
	}
}

func (l *LevelFilterLogger) Info(ctx context.Context, msg string, fields ...domain.Field) {
	if domain.LogLevelInfo >= l.minLevel {
		l.wrapped.Info(ctx, msg, fields...)
	}
}

func (l *LevelFilterLogger) Warn(ctx context.Context, msg string, fields ...domain.Field) {
	if domain.LogLevelWarn >= l.minLevel {
		l.wrapped.Warn(ctx, msg, fields...)
	}
}

func (l *LevelFilterLogger) Error(ctx context.Context, msg string, fields ...domain.Field) {
	if domain.LogLevelError >= l.minLevel {
		l.wrapped.Error(ctx, msg, fields...)
	}
}

func (l *LevelFilterLogger) WithFields(fields ...domain.Field) domain.Logger {
	return &LevelFilterLogger{
		wrapped:  l.wrapped.WithFields(fields...),
		minLevel: l.minLevel,
	}
}

// Shutdown flushes the wrapped logger if it buffers
func (l *LevelFilterLogger) Shutdown() error {
	if shutdowner, ok := l.wrapped.(interface{ Shutdown() error }); ok {
		return shutdowner.Shutdown()
	}
	return nil
}

// NoOpLogger is a logger that does nothing
type NoOpLogger struct{}

func (n *NoOpLogger) Debug(ctx context.Context, msg string, fields ...domain.Field) {}
func (n *NoOpLogger) Info(ctx context.Context, msg string, fields ...domain.Field)  {}
func (n *NoOpLogger) Warn(ctx context.Context, msg string, fields ...domain.Field)  {}
func (n *NoOpLogger) Error(ctx context.Context, msg string, fields ...domain.Field) {}
func (n *NoOpLogger) WithFields(fields ...domain.Field) domain.Logger {
	return n
}
