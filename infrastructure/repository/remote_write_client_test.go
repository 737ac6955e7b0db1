package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/snappy"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/ca-srg/tzexplorer/domain/repository"
)

// decodedSeries is the test-side view of a Remote Write TimeSeries
type decodedSeries struct {
	labels    map[string]string
	order     []string
	value     float64
	timestamp int64
}

func decodeWriteRequest(t *testing.T, data []byte) []decodedSeries {
	t.Helper()
	var out []decodedSeries
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 || num != writeRequestTimeseriesField || typ != protowire.BytesType {
			t.Fatalf("unexpected write request field %d type %d", num, typ)
		}
		data = data[n:]
		raw, n := protowire.ConsumeBytes(data)
		if n < 0 {
			t.Fatalf("truncated timeseries: %v", protowire.ParseError(n))
		}
		data = data[n:]
		out = append(out, decodeTimeSeries(t, raw))
	}
	return out
}

func decodeTimeSeries(t *testing.T, data []byte) decodedSeries {
	t.Helper()
	series := decodedSeries{labels: map[string]string{}}
	for len(data) > 0 {
		num, _, n := protowire.ConsumeTag(data)
		data = data[n:]
		raw, n := protowire.ConsumeBytes(data)
		if n < 0 {
			t.Fatalf("truncated field %d", num)
		}
		data = data[n:]

		switch num {
		case timeSeriesLabelsField:
			name, value := decodeLabel(t, raw)
			series.labels[name] = value
			series.order = append(series.order, name)
		case timeSeriesSamplesField:
			series.value, series.timestamp = decodeSample(t, raw)
		default:
			t.Fatalf("unexpected timeseries field %d", num)
		}
	}
	return series
}

func decodeLabel(t *testing.T, data []byte) (string, string) {
	t.Helper()
	var name, value string
	for len(data) > 0 {
		num, _, n := protowire.ConsumeTag(data)
		data = data[n:]
		s, n := protowire.ConsumeString(data)
		if n < 0 {
			t.Fatalf("truncated label field %d", num)
		}
		data = data[n:]
		if num == labelNameField {
			name = s
		} else {
			value = s
		}
	}
	return name, value
}

func decodeSample(t *testing.T, data []byte) (float64, int64) {
	t.Helper()
	var value float64
	var timestamp int64
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		data = data[n:]
		switch {
		case num == sampleValueField && typ == protowire.Fixed64Type:
			bits, n := protowire.ConsumeFixed64(data)
			data = data[n:]
			value = math.Float64frombits(bits)
		case num == sampleTimestampField && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			data = data[n:]
			timestamp = int64(v)
		default:
			t.Fatalf("unexpected sample field %d type %d", num, typ)
		}
	}
	return value, timestamp
}

func fastRetry() *RetryConfig {
	return &RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func TestNewRemoteWriteClient(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		timeout     time.Duration
		authConfig  *AuthConfig
		wantErr     bool
		errContains string
	}{
		{
			name:    "valid configuration",
			url:     "http://localhost:9090/api/v1/write",
			timeout: 30 * time.Second,
			wantErr: false,
		},
		{
			name:        "empty URL",
			url:         "",
			timeout:     30 * time.Second,
			wantErr:     true,
			errContains: "remote write URL is required",
		},
		{
			name:    "with basic auth",
			url:     "http://localhost:9090/api/v1/write",
			timeout: 30 * time.Second,
			authConfig: &AuthConfig{
				Username: "user",
				Password: "pass",
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewRemoteWriteClient(tt.url, tt.timeout, tt.authConfig)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error but got none")
				} else if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error = %v, want error containing %v", err, tt.errContains)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if client == nil {
				t.Errorf("expected client but got nil")
			}
		})
	}
}

func TestSendGauges_Payload(t *testing.T) {
	var body []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/x-protobuf" {
			t.Errorf("unexpected Content-Type: %s", r.Header.Get("Content-Type"))
		}
		if r.Header.Get("Content-Encoding") != "snappy" {
			t.Errorf("unexpected Content-Encoding: %s", r.Header.Get("Content-Encoding"))
		}
		if r.Header.Get("X-Prometheus-Remote-Write-Version") != "0.1.0" {
			t.Errorf("unexpected remote write version: %s", r.Header.Get("X-Prometheus-Remote-Write-Version"))
		}
		compressed, _ := io.ReadAll(r.Body)
		var err error
		body, err = snappy.Decode(nil, compressed)
		if err != nil {
			t.Errorf("payload is not snappy encoded: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client, err := NewRemoteWriteClient(server.URL, 5*time.Second, nil)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	fixed := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	client.now = func() time.Time { return fixed }

	samples := []repository.MetricSample{
		{Name: "tzexplorer_snapshots_total", Value: 42, Labels: map[string]string{"timezone": "Asia/Tokyo", "host": "dev"}},
		{Name: "tzexplorer_snapshot_fallbacks_total", Value: 1.5, Labels: map[string]string{"host": "dev"}},
	}
	if err := client.SendGauges(context.Background(), samples); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	series := decodeWriteRequest(t, body)
	if len(series) != 2 {
		t.Fatalf("expected 2 series, got %d", len(series))
	}

	first := series[0]
	if first.labels["__name__"] != "tzexplorer_snapshots_total" {
		t.Errorf("unexpected metric name %q", first.labels["__name__"])
	}
	if first.labels["timezone"] != "Asia/Tokyo" || first.labels["host"] != "dev" {
		t.Errorf("labels not carried over: %v", first.labels)
	}
	wantOrder := []string{"__name__", "host", "timezone"}
	if strings.Join(first.order, ",") != strings.Join(wantOrder, ",") {
		t.Errorf("labels not sorted: %v", first.order)
	}
	if first.value != 42 {
		t.Errorf("value = %v, want 42", first.value)
	}
	if first.timestamp != fixed.UnixMilli() {
		t.Errorf("timestamp = %d, want %d", first.timestamp, fixed.UnixMilli())
	}
	if series[1].value != 1.5 || series[1].timestamp != first.timestamp {
		t.Errorf("second series = %+v", series[1])
	}
}

func TestSendGauges_EmptyIsNoop(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	client, _ := NewRemoteWriteClient(server.URL, time.Second, nil)
	if err := client.SendGauges(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls.Load() != 0 {
		t.Errorf("expected no request, got %d", calls.Load())
	}
}

func TestSendGauges_Retry(t *testing.T) {
	tests := []struct {
		name           string
		serverResponse int
		wantErr        bool
		errContains    string
		retryCount     int32
	}{
		{
			name:           "successful send",
			serverResponse: http.StatusOK,
			retryCount:     1,
		},
		{
			name:           "server error with retry",
			serverResponse: http.StatusInternalServerError,
			wantErr:        true,
			errContains:    "status 500",
			retryCount:     4, // initial + 3 retries
		},
		{
			name:           "rate limited with retry",
			serverResponse: http.StatusTooManyRequests,
			wantErr:        true,
			errContains:    "status 429",
			retryCount:     4,
		},
		{
			name:           "client error no retry",
			serverResponse: http.StatusBadRequest,
			wantErr:        true,
			errContains:    "status 400",
			retryCount:     1,
		},
		{
			name:           "unauthorized no retry",
			serverResponse: http.StatusUnauthorized,
			wantErr:        true,
			errContains:    "status 401",
			retryCount:     1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var requestCount atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				requestCount.Add(1)
				w.WriteHeader(tt.serverResponse)
			}))
			defer server.Close()

			client, err := NewRemoteWriteClient(server.URL, 5*time.Second, nil)
			if err != nil {
				t.Fatalf("failed to create client: %v", err)
			}
			client.WithRetryConfig(fastRetry())

			err = client.SendGauges(context.Background(), []repository.MetricSample{{Name: "test_metric", Value: 1}})
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error but got none")
				} else if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error = %v, want error containing %v", err, tt.errContains)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}

			if got := requestCount.Load(); got != tt.retryCount {
				t.Errorf("expected %d requests, got %d", tt.retryCount, got)
			}
		})
	}
}

func TestSendGauges_RecoversAfterTransientFailure(t *testing.T) {
	var requestCount atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requestCount.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, _ := NewRemoteWriteClient(server.URL, 5*time.Second, nil)
	client.WithRetryConfig(fastRetry())

	if err := client.SendGauges(context.Background(), []repository.MetricSample{{Name: "m", Value: 1}}); err != nil {
		t.Fatalf("expected recovery, got %v", err)
	}
	if requestCount.Load() != 3 {
		t.Errorf("expected 3 requests, got %d", requestCount.Load())
	}
}

func TestSendGauges_ContextCancelledDuringBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client, _ := NewRemoteWriteClient(server.URL, 5*time.Second, nil)
	client.WithRetryConfig(&RetryConfig{MaxRetries: 3, BaseDelay: time.Hour, MaxDelay: time.Hour})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := client.SendGauges(ctx, []repository.MetricSample{{Name: "m", Value: 1}})
	if err == nil || !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline error, got %v", err)
	}
}

func TestAddAuthentication(t *testing.T) {
	tests := []struct {
		name        string
		authConfig  *AuthConfig
		wantValue   string
		wantErr     bool
		errContains string
	}{
		{
			name:       "no authentication",
			authConfig: nil,
		},
		{
			name: "basic auth valid",
			authConfig: &AuthConfig{
				Username: "user",
				Password: "pass",
			},
			wantValue: "Basic dXNlcjpwYXNz", // base64("user:pass")
		},
		{
			name:        "basic auth missing username",
			authConfig:  &AuthConfig{Password: "pass"},
			wantErr:     true,
			errContains: "basic auth requires username and password",
		},
		{
			name:        "basic auth missing password",
			authConfig:  &AuthConfig{Username: "user"},
			wantErr:     true,
			errContains: "basic auth requires username and password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &RemoteWriteClient{authConfig: tt.authConfig}

			req, _ := http.NewRequest(http.MethodPost, "http://example.com", nil)
			err := client.addAuthentication(req)

			if tt.wantErr {
				if err == nil || !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error = %v, want error containing %v", err, tt.errContains)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if got := req.Header.Get("Authorization"); got != tt.wantValue {
				t.Errorf("Authorization = %q, want %q", got, tt.wantValue)
			}
		})
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"500 server error", &StatusError{StatusCode: 500}, true},
		{"503 wrapped", fmt.Errorf("send: %w", &StatusError{StatusCode: 503}), true},
		{"429 too many requests", &StatusError{StatusCode: 429}, true},
		{"400 bad request", &StatusError{StatusCode: 400}, false},
		{"403 forbidden", &StatusError{StatusCode: 403}, false},
		{"connection refused", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, true},
		{"no such host", fmt.Errorf("failed to send request: %w", &net.DNSError{Err: "no such host", Name: "prom.invalid"}), true},
		{"deadline", fmt.Errorf("failed to send request: %w", context.DeadlineExceeded), true},
		{"cancelled", fmt.Errorf("failed to send request: %w", context.Canceled), false},
		{"plain error", errors.New("failed to create request"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryableError(tt.err); got != tt.want {
				t.Errorf("isRetryableError() = %v, want %v", got, tt.want)
			}
		})
	}
}
