package impl

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ca-srg/tzexplorer/domain"
	"github.com/ca-srg/tzexplorer/domain/repository"
)

// Mock implementations

// logEntry is one captured log call
type logEntry struct {
	level  domain.LogLevel
	msg    string
	fields []domain.Field
}

// mockLogger records every call
type mockLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (m *mockLogger) log(level domain.LogLevel, msg string, fields []domain.Field) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, logEntry{level: level, msg: msg, fields: fields})
}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...domain.Field) {
	m.log(domain.LogLevelDebug, msg, fields)
}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...domain.Field) {
	m.log(domain.LogLevelInfo, msg, fields)
}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...domain.Field) {
	m.log(domain.LogLevelWarn, msg, fields)
}
func (m *mockLogger) Error(ctx context.Context, msg string, fields ...domain.Field) {
	m.log(domain.LogLevelError, msg, fields)
}
func (m *mockLogger) WithFields(fields ...domain.Field) domain.Logger { return m }

func (m *mockLogger) count(level domain.LogLevel) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.entries {
		if e.level == level {
			n++
		}
	}
	return n
}

// stubResolver loads zones straight from the tz database
type stubResolver struct {
	local    *time.Location
	localErr error
}

func (r *stubResolver) Load(timezoneID string) (*time.Location, error) {
	if strings.TrimSpace(timezoneID) == "" || timezoneID == "Local" {
		return nil, domain.ErrTimezone("Load", "empty timezone identifier")
	}
	loc, err := time.LoadLocation(timezoneID)
	if err != nil {
		return nil, domain.ErrTimezoneParse(timezoneID, err)
	}
	return loc, nil
}

func (r *stubResolver) Local() (*time.Location, error) {
	if r.local == nil {
		return time.UTC, r.localErr
	}
	return r.local, r.localErr
}

func (r *stubResolver) LocalInfo(at time.Time) repository.TimezoneInfo {
	loc, _ := r.Local()
	local := at.In(loc)
	_, offset := local.Zone()
	return repository.TimezoneInfo{
		Name:            loc.String(),
		Offset:          "UTC" + local.Format("-07:00"),
		OffsetSeconds:   offset,
		IsDST:           local.IsDST(),
		DetectionMethod: "config",
	}
}

// stubCatalog serves a fixed identifier list
type stubCatalog struct {
	ids []string
	err error
}

func (c *stubCatalog) List() ([]string, error) {
	if c.err != nil {
		return nil, c.err
	}
	ids := append([]string(nil), c.ids...)
	sort.Strings(ids)
	return ids, nil
}

func (c *stubCatalog) Contains(timezoneID string) (bool, error) {
	if c.err != nil {
		return false, c.err
	}
	for _, id := range c.ids {
		if id == timezoneID {
			return true, nil
		}
	}
	return false, nil
}

// mockPreferenceRepository is an in-memory key/value store
type mockPreferenceRepository struct {
	mu       sync.Mutex
	data     map[string]string
	setErr   error
	getErr   error
	watchCh  chan struct{}
	setCalls int
	deleted  []string
}

func newMockPreferenceRepository() *mockPreferenceRepository {
	return &mockPreferenceRepository{data: make(map[string]string)}
}

func (m *mockPreferenceRepository) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mockPreferenceRepository) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalls++
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func (m *mockPreferenceRepository) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, key)
	delete(m.data, key)
	return nil
}

func (m *mockPreferenceRepository) Watch(ctx context.Context) (<-chan struct{}, error) {
	if m.watchCh == nil {
		return nil, errors.New("watch not supported")
	}
	return m.watchCh, nil
}

func (m *mockPreferenceRepository) Close() error { return nil }

// put writes directly, bypassing error injection, as another process would
func (m *mockPreferenceRepository) put(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

func (m *mockPreferenceRepository) value(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

// mockMetricsRepository records pushed samples
type mockMetricsRepository struct {
	mu      sync.Mutex
	batches [][]repository.MetricSample
	err     error
	closed  bool
}

func (m *mockMetricsRepository) SendGauges(samples []repository.MetricSample) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.batches = append(m.batches, samples)
	return nil
}

func (m *mockMetricsRepository) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockMetricsRepository) batchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.batches)
}

func (m *mockMetricsRepository) lastBatch() []repository.MetricSample {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.batches) == 0 {
		return nil
	}
	return m.batches[len(m.batches)-1]
}
