package impl

import (
	"context"
	"sync"
	"time"

	"github.com/ca-srg/tzexplorer/domain"
	"github.com/ca-srg/tzexplorer/domain/repository"
	"github.com/ca-srg/tzexplorer/infrastructure/config"
	usecase "github.com/ca-srg/tzexplorer/usecase/interface"
)

// MetricsServiceImpl implements the MetricsService interface
type MetricsServiceImpl struct {
	collector   usecase.MetricsDataCollector
	metricsRepo repository.MetricsRepository
	interval    time.Duration
	ticker      *time.Ticker
	stopChan    chan struct{}
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	logger      domain.Logger
}

// NewMetricsServiceImpl creates a new metrics service implementation
func NewMetricsServiceImpl(
	collector usecase.MetricsDataCollector,
	metricsRepo repository.MetricsRepository,
	cfg *config.PrometheusConfig,
	logger domain.Logger,
) usecase.MetricsService {
	var interval time.Duration
	if cfg != nil {
		interval = time.Duration(cfg.IntervalSec) * time.Second
	}
	return newMetricsService(collector, metricsRepo, interval, logger)
}

func newMetricsService(
	collector usecase.MetricsDataCollector,
	metricsRepo repository.MetricsRepository,
	interval time.Duration,
	logger domain.Logger,
) *MetricsServiceImpl {
	return &MetricsServiceImpl{
		collector:   collector,
		metricsRepo: metricsRepo,
		interval:    interval,
		stopChan:    make(chan struct{}),
		logger:      logger,
	}
}

// StartPeriodicMetrics starts the periodic metrics collection
func (s *MetricsServiceImpl) StartPeriodicMetrics() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return usecase.NewMetricsServiceError(usecase.MetricsErrAlreadyRunning, "metrics service is already running")
	}

	if s.interval <= 0 {
		return usecase.NewMetricsServiceError(usecase.MetricsErrInvalidConfig, "metrics interval must be positive").
			WithDetail("interval", s.interval.String())
	}

	// A failed first push does not prevent startup
	if err := s.sendMetrics(); err != nil {
		s.logger.Warn(context.Background(), "Failed to send initial metrics", domain.NewField("error", err.Error()))
	}

	s.ticker = time.NewTicker(s.interval)
	s.isRunning = true

	s.wg.Add(1)
	go s.runPeriodicMetrics(s.ticker, s.stopChan)

	s.logger.Info(context.Background(), "Metrics service started",
		domain.NewField("interval", s.interval.String()))
	return nil
}

// StopPeriodicMetrics stops the periodic metrics collection
func (s *MetricsServiceImpl) StopPeriodicMetrics() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	s.ticker.Stop()
	close(s.stopChan)
	s.wg.Wait()

	if err := s.sendMetrics(); err != nil {
		s.logger.Warn(context.Background(), "Failed to send final metrics", domain.NewField("error", err.Error()))
	}

	s.isRunning = false
	s.stopChan = make(chan struct{}) // Reset for potential restart

	return nil
}

// SendCurrentMetrics sends the current metrics immediately
func (s *MetricsServiceImpl) SendCurrentMetrics() error {
	return s.sendMetrics()
}

// Running reports whether the periodic loop is active
func (s *MetricsServiceImpl) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

func (s *MetricsServiceImpl) runPeriodicMetrics(ticker *time.Ticker, stop <-chan struct{}) {
	defer s.wg.Done()

	for {
		select {
		case <-ticker.C:
			if err := s.sendMetrics(); err != nil {
				s.logger.Warn(context.Background(), "Failed to send periodic metrics", domain.NewField("error", err.Error()))
			}
		case <-stop:
			return
		}
	}
}

// sendMetrics collects and pushes one batch
func (s *MetricsServiceImpl) sendMetrics() error {
	samples := s.collector.Collect()
	if err := s.metricsRepo.SendGauges(samples); err != nil {
		return usecase.NewMetricsServiceError(usecase.MetricsErrSend, "failed to send formatter metrics").
			WithCause(err).
			WithDetail("samples", len(samples))
	}

	s.logger.Debug(context.Background(), "Sent formatter metrics", domain.NewField("samples", len(samples)))
	return nil
}
