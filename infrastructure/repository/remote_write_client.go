package repository

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/golang/snappy"

	"github.com/ca-srg/tzexplorer/domain/repository"
)

// RemoteWriteClient handles sending metrics to Prometheus Remote Write endpoint
type RemoteWriteClient struct {
	url        string
	client     *http.Client
	authConfig *AuthConfig
	retry      *RetryConfig
	now        func() time.Time
}

// AuthConfig holds authentication configuration (basic auth only)
type AuthConfig struct {
	Username string
	Password string
}

// NewRemoteWriteClient creates a new Remote Write client
func NewRemoteWriteClient(url string, timeout time.Duration, authConfig *AuthConfig) (*RemoteWriteClient, error) {
	if url == "" {
		return nil, fmt.Errorf("remote write URL is required")
	}

	return &RemoteWriteClient{
		url:        url,
		client:     &http.Client{Timeout: timeout},
		authConfig: authConfig,
		retry:      DefaultRetryConfig(),
		now:        time.Now,
	}, nil
}

// RetryConfig holds retry configuration
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// DefaultRetryConfig returns default retry configuration
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		MaxDelay:   30 * time.Second,
	}
}

// WithRetryConfig replaces the retry policy
func (c *RemoteWriteClient) WithRetryConfig(retry *RetryConfig) *RemoteWriteClient {
	if retry != nil {
		c.retry = retry
	}
	return c
}

// delay returns the backoff before the given retry attempt (1-based)
func (r *RetryConfig) delay(attempt int) time.Duration {
	multiplier := 1 << uint(attempt-1)
	d := time.Duration(float64(r.BaseDelay) * float64(multiplier))
	if d > r.MaxDelay {
		d = r.MaxDelay
	}
	return d
}

// StatusError is returned when the endpoint answers with a non-success status
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote write failed with status %d: %s", e.StatusCode, e.Body)
}

// SendGauges writes the samples in a single request, retrying transient failures
func (c *RemoteWriteClient) SendGauges(ctx context.Context, samples []repository.MetricSample) error {
	if len(samples) == 0 {
		return nil
	}

	// Every attempt carries the same timestamp so a retried write stays idempotent
	timestamp := c.now().UnixMilli()
	payload := snappy.Encode(nil, encodeWriteRequest(samples, timestamp))

	var lastErr error
	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(c.retry.delay(attempt)):
			case <-ctx.Done():
				return fmt.Errorf("context cancelled during retry: %w", ctx.Err())
			}
		}

		err := c.sendOnce(ctx, payload)
		if err == nil {
			return nil
		}
		lastErr = err

		if !isRetryableError(err) {
			return err
		}
	}

	return fmt.Errorf("failed after %d retries: %w", c.retry.MaxRetries, lastErr)
}

// sendOnce posts an already compressed payload (without retry)
func (c *RemoteWriteClient) sendOnce(ctx context.Context, payload []byte) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/x-protobuf")
	httpReq.Header.Set("Content-Encoding", "snappy")
	httpReq.Header.Set("X-Prometheus-Remote-Write-Version", "0.1.0")

	if err := c.addAuthentication(httpReq); err != nil {
		return fmt.Errorf("failed to add authentication: %w", err)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return nil
}

// addAuthentication adds authentication headers to the request
func (c *RemoteWriteClient) addAuthentication(req *http.Request) error {
	if c.authConfig == nil {
		return nil
	}

	if c.authConfig.Username == "" || c.authConfig.Password == "" {
		return fmt.Errorf("basic auth requires username and password")
	}
	auth := base64.StdEncoding.EncodeToString([]byte(c.authConfig.Username + ":" + c.authConfig.Password))
	req.Header.Set("Authorization", "Basic "+auth)

	return nil
}

// isRetryableError determines if an error is retryable
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= 500 || statusErr.StatusCode == http.StatusTooManyRequests
	}

	if errors.Is(err, context.Canceled) {
		return false
	}

	if os.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	// Connection refused, DNS failures and resets surface as net.Error
	var netErr net.Error
	return errors.As(err, &netErr)
}
