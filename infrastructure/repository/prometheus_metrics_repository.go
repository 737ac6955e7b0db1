package repository

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ca-srg/tzexplorer/domain/repository"
	"github.com/ca-srg/tzexplorer/infrastructure/config"
)

// PrometheusMetricsRepository implements MetricsRepository using Prometheus Remote Write
type PrometheusMetricsRepository struct {
	config    *config.PrometheusConfig
	rwClient  *RemoteWriteClient
	hostLabel string
}

// NewPrometheusMetricsRepository creates a new Prometheus metrics repository
func NewPrometheusMetricsRepository(cfg *config.PrometheusConfig) (repository.MetricsRepository, error) {
	if cfg == nil {
		return nil, repository.NewMetricsRepositoryError("initialize", fmt.Errorf("prometheus config is nil"))
	}

	url := cfg.RemoteWriteURL
	if url == "" {
		return nil, repository.NewMetricsRepositoryError("initialize", fmt.Errorf("remote write url is empty"))
	}

	// Use hostname if HostLabel is not specified
	hostLabel := cfg.HostLabel
	if hostLabel == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostLabel = "unknown"
		} else {
			hostLabel = hostname
		}
	}

	var authConfig *AuthConfig
	if cfg.Username != "" && cfg.Password != "" {
		authConfig = &AuthConfig{
			Username: cfg.Username,
			Password: cfg.Password,
		}
	}

	rwClient, err := NewRemoteWriteClient(url, time.Duration(cfg.TimeoutSec)*time.Second, authConfig)
	if err != nil {
		return nil, repository.NewMetricsRepositoryError("initialize", err)
	}

	return &PrometheusMetricsRepository{
		config:    cfg,
		rwClient:  rwClient,
		hostLabel: hostLabel,
	}, nil
}

// SendGauges pushes the samples, adding the host label where it is missing
func (r *PrometheusMetricsRepository) SendGauges(samples []repository.MetricSample) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout())
	defer cancel()

	labeled := make([]repository.MetricSample, len(samples))
	for i, s := range samples {
		labels := make(map[string]string, len(s.Labels)+1)
		for k, v := range s.Labels {
			labels[k] = v
		}
		if labels["host"] == "" {
			labels["host"] = r.hostLabel
		}
		labeled[i] = repository.MetricSample{Name: s.Name, Value: s.Value, Labels: labels}
	}

	if err := r.rwClient.SendGauges(ctx, labeled); err != nil {
		if ctx.Err() != nil {
			return repository.NewMetricsRepositoryError("send", fmt.Errorf("timeout: %w", err))
		}
		return repository.NewMetricsRepositoryError("send", err)
	}

	return nil
}

// timeout bounds the whole push, retries included
func (r *PrometheusMetricsRepository) timeout() time.Duration {
	if r.config.TimeoutSec <= 0 {
		return 30 * time.Second
	}
	return time.Duration(r.config.TimeoutSec) * time.Second
}

// Close cleans up resources
func (r *PrometheusMetricsRepository) Close() error {
	// Remote Write client doesn't require explicit cleanup
	return nil
}
