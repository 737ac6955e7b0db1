package usecase

import "github.com/ca-srg/tzexplorer/domain/repository"

// Metric names pushed by the metrics service
const (
	MetricSnapshotsTotal    = "tzexplorer_snapshots_total"
	MetricSnapshotFallbacks = "tzexplorer_snapshot_fallbacks_total"
	MetricSnapshotOutcomes  = "tzexplorer_snapshot_outcomes"
)

// Metrics service error codes
const (
	MetricsErrAlreadyRunning = "already_running"
	MetricsErrInvalidConfig  = "invalid_config"
	MetricsErrSend           = "send_failed"
)

// MetricsService defines the interface for metrics collection and reporting
type MetricsService interface {
	// StartPeriodicMetrics pushes once and then every configured interval
	StartPeriodicMetrics() error

	// StopPeriodicMetrics stops the loop after a final push
	StopPeriodicMetrics() error

	// SendCurrentMetrics sends the current metrics immediately
	SendCurrentMetrics() error

	Running() bool
}

// MetricsDataCollector turns formatter statistics into gauge samples
type MetricsDataCollector interface {
	Collect() []repository.MetricSample
}

// MetricsServiceError represents an error from metrics service operations
type MetricsServiceError struct {
	Code    string
	Message string
	Details map[string]interface{}
	Err     error
}

func (e *MetricsServiceError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *MetricsServiceError) Unwrap() error {
	return e.Err
}

// NewMetricsServiceError creates a new metrics service error
func NewMetricsServiceError(code, message string) *MetricsServiceError {
	return &MetricsServiceError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// WithCause attaches the underlying error
func (e *MetricsServiceError) WithCause(err error) *MetricsServiceError {
	e.Err = err
	return e
}

// WithDetail adds a detail to the error
func (e *MetricsServiceError) WithDetail(key string, value interface{}) *MetricsServiceError {
	e.Details[key] = value
	return e
}
