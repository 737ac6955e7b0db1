package logging

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ic2hrmk/promtail"

	"github.com/ca-srg/tzexplorer/domain"
	"github.com/ca-srg/tzexplorer/infrastructure/config"
)

type PromtailLogger struct {
	client    promtail.Client
	component string
	fields    []domain.Field
	mu        sync.RWMutex
}

func NewPromtailLogger(cfg *config.PromtailConfig, component string) (*PromtailLogger, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, fmt.Errorf("promtail URL is not configured")
	}

	defaultLabels := map[string]string{
		"app":       "tzexplorer",
		"component": component,
	}

	batchWait := time.Duration(cfg.BatchWaitSeconds) * time.Second
	if batchWait <= 0 {
		batchWait = time.Second
	}

	client, err := promtail.NewJSONv1Client(
		cfg.URL,
		defaultLabels,
		promtail.WithSendBatchSize(100),
		promtail.WithSendBatchTimeout(batchWait),
		promtail.WithBasicAuth(cfg.Username, cfg.Password),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create promtail client: %w", err)
	}

	return &PromtailLogger{
		client:    client,
		component: component,
		fields:    []domain.Field{},
	}, nil
}

func (p *PromtailLogger) Debug(ctx context.Context, msg string, fields ...domain.Field) {
	p.log(domain.LogLevelDebug, msg, fields...)
}

func (p *PromtailLogger) Info(ctx context.Context, msg string, fields ...domain.Field) {
	p.log(domain.LogLevelInfo, msg, fields...)
}

func (p *PromtailLogger) Warn(ctx context.Context, msg string, fields ...domain.Field) {
	p.log(domain.LogLevelWarn, msg, fields...)
}

func (p *PromtailLogger) Error(ctx context.Context, msg string, fields ...domain.Field) {
	p.log(domain.LogLevelError, msg, fields...)
}

func (p *PromtailLogger) WithFields(fields ...domain.Field) domain.Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()

	newFields := make([]domain.Field, len(p.fields)+len(fields))
	copy(newFields, p.fields)
	copy(newFields[len(p.fields):], fields)

	return &PromtailLogger{
		client:    p.client,
		component: p.component,
		fields:    newFields,
	}
}

func (p *PromtailLogger) log(level domain.LogLevel, msg string, fields ...domain.Field) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	p.client.LogfWithLabels(promtailLevel(level), lokiLabels(level, p.fields, fields), "%s", msg)
}

// lokiLabels flattens fields into a label set; later fields win on key collisions
func lokiLabels(level domain.LogLevel, base []domain.Field, extra []domain.Field) map[string]string {
	labels := map[string]string{
		"level": level.String(),
	}
	for _, field := range base {
		labels[field.Key] = fmt.Sprintf("%v", field.Value)
	}
	for _, field := range extra {
		labels[field.Key] = fmt.Sprintf("%v", field.Value)
	}
	return labels
}

func promtailLevel(level domain.LogLevel) promtail.Level {
	switch level {
	case domain.LogLevelDebug:
		return promtail.Debug
	case domain.LogLevelWarn:
		return promtail.Warn
	case domain.LogLevelError:
		return promtail.Error
	default:
		return promtail.Info
	}
}

func (p *PromtailLogger) Shutdown() error {
	if p.client != nil {
		p.client.Close()
	}
	return nil
}
