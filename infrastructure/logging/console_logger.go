package logging

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/ca-srg/tzexplorer/domain"
)

// ConsoleLogger writes one line per entry:
// [timestamp] [LEVEL] [component] message {key=value, ...}
type ConsoleLogger struct {
	out       io.Writer
	component string
	fields    []domain.Field
	mu        *sync.Mutex
}

func NewConsoleLogger(out io.Writer, component string) *ConsoleLogger {
	return &ConsoleLogger{
		out:       out,
		component: component,
		mu:        &sync.Mutex{},
	}
}

func (c *ConsoleLogger) Debug(ctx context.Context, msg string, fields ...domain.Field) {
	c.write(domain.LogLevelDebug, msg, fields)
}

func (c *ConsoleLogger) Info(ctx context.Context, msg string, fields ...domain.Field) {
	c.write(domain.LogLevelInfo, msg, fields)
}

func (c *ConsoleLogger) Warn(ctx context.Context, msg string, fields ...domain.Field) {
	c.write(domain.LogLevelWarn, msg, fields)
}

func (c *ConsoleLogger) Error(ctx context.Context, msg string, fields ...domain.Field) {
	c.write(domain.LogLevelError, msg, fields)
}

func (c *ConsoleLogger) WithFields(fields ...domain.Field) domain.Logger {
	merged := make([]domain.Field, 0, len(c.fields)+len(fields))
	merged = append(merged, c.fields...)
	merged = append(merged, fields...)
	return &ConsoleLogger{
		out:       c.out,
		component: c.component,
		fields:    merged,
		mu:        c.mu,
	}
}

func (c *ConsoleLogger) write(level domain.LogLevel, msg string, fields []domain.Field) {
	all := make([]domain.Field, 0, len(c.fields)+len(fields))
	all = append(all, c.fields...)
	all = append(all, fields...)
	line := formatLine(time.Now(), level, c.component, msg, all)

	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintln(c.out, line)
}

func formatLine(ts time.Time, level domain.LogLevel, component, msg string, fields []domain.Field) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] [%s] [%s] %s", ts.Format("2006-01-02T15:04:05.000Z07:00"), level, component, msg)

	if len(fields) > 0 {
		b.WriteString(" {")
		for i, field := range fields {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%v", field.Key, field.Value)
		}
		b.WriteString("}")
	}
	return b.String()
}
