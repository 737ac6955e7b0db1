package repository

import (
	"github.com/ca-srg/tzexplorer/domain/repository"
)

// NoOpMetricsRepository is a no-op implementation of MetricsRepository
// Used when Prometheus is not configured
type NoOpMetricsRepository struct{}

// NewNoOpMetricsRepository creates a new no-op metrics repository
func NewNoOpMetricsRepository() repository.MetricsRepository {
	return &NoOpMetricsRepository{}
}

// SendGauges discards the samples
func (r *NoOpMetricsRepository) SendGauges(samples []repository.MetricSample) error {
	return nil
}

// Close does nothing
func (r *NoOpMetricsRepository) Close() error {
	return nil
}
