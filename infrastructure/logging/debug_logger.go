package logging

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ca-srg/tzexplorer/domain"
)

// DebugLogger forwards to the wrapped logger and echoes non-debug entries to out.
type DebugLogger struct {
	wrapped   domain.Logger
	out       io.Writer
	component string
	fields    []domain.Field
	mu        *sync.Mutex
}

func NewDebugLogger(wrapped domain.Logger, out io.Writer, component string) *DebugLogger {
	return &DebugLogger{
		wrapped:   wrapped,
		out:       out,
		component: component,
		mu:        &sync.Mutex{},
	}
}

func (d *DebugLogger) Debug(ctx context.Context, msg string, fields ...domain.Field) {
	d.wrapped.Debug(ctx, msg, fields...)
	d.echo(domain.LogLevelDebug, msg, fields...)
}

func (d *DebugLogger) Info(ctx context.Context, msg string, fields ...domain.Field) {
	d.wrapped.Info(ctx, msg, fields...)
	d.echo(domain.LogLevelInfo, msg, fields...)
}

func (d *DebugLogger) Warn(ctx context.Context, msg string, fields ...domain.Field) {
	d.wrapped.Warn(ctx, msg, fields...)
	d.echo(domain.LogLevelWarn, msg, fields...)
}

func (d *DebugLogger) Error(ctx context.Context, msg string, fields ...domain.Field) {
	d.wrapped.Error(ctx, msg, fields...)
	d.echo(domain.LogLevelError, msg, fields...)
}

func (d *DebugLogger) WithFields(fields ...domain.Field) domain.Logger {
	merged := make([]domain.Field, 0, len(d.fields)+len(fields))
	merged = append(merged, d.fields...)
	merged = append(merged, fields...)
	return &DebugLogger{
		wrapped:   d.wrapped.WithFields(fields...),
		out:       d.out,
		component: d.component,
		fields:    merged,
		mu:        d.mu,
	}
}

func (d *DebugLogger) echo(level domain.LogLevel, msg string, fields ...domain.Field) {
	// Debug entries already went to Loki
	if level == domain.LogLevelDebug {
		return
	}

	all := make([]domain.Field, 0, len(d.fields)+len(fields))
	all = append(all, d.fields...)
	all = append(all, fields...)

	d.mu.Lock()
	defer d.mu.Unlock()
	_, _ = fmt.Fprintln(d.out, formatLine(time.Now(), level, d.component, msg, all))
}

func (d *DebugLogger) Shutdown() error {
	if shutdowner, ok := d.wrapped.(interface{ Shutdown() error }); ok {
		return shutdowner.Shutdown()
	}
	return nil
}
