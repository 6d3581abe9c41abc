package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/doughall/hwinv/internal/inventory"
	"github.com/doughall/hwinv/internal/version"
)

// InventoryPath is appended to the server URL.
const InventoryPath = "/api/inventory"

// HTTPConfig holds the HTTP sink configuration.
type HTTPConfig struct {
	// ServerURL is the base URL of the collection server (e.g., "https://inv.example.com").
	ServerURL string
	// APIKey is sent as a bearer token.
	APIKey string
}

// Enabled reports whether a server URL is set.
func (c HTTPConfig) Enabled() bool {
	return c.ServerURL != ""
}

// HTTPSink POSTs the report as JSON.
type HTTPSink struct {
	httpClient *http.Client
	url        string
	apiKey     string
	logger     *slog.Logger
}

// NewHTTPSink creates an HTTP sink retrying up to 3 times with linear
// jittered backoff between 1 and 10 seconds.
func NewHTTPSink(cfg HTTPConfig, logger *slog.Logger) *HTTPSink {
	return newHTTPSink(cfg, logger, time.Second, 10*time.Second)
}

func newHTTPSink(cfg HTTPConfig, logger *slog.Logger, waitMin, waitMax time.Duration) *HTTPSink {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.RetryWaitMin = waitMin
	retryClient.RetryWaitMax = waitMax
	retryClient.Backoff = retryablehttp.LinearJitterBackoff
	// Disable retryablehttp's internal logging - we use slog instead
	retryClient.Logger = nil
	retryClient.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, attempt int) {
		if attempt > 0 {
			logger.Warn("retrying inventory upload",
				slog.String("url", req.URL.String()),
				slog.Int("attempt", attempt),
			)
		}
	}
	retryClient.HTTPClient.Timeout = 30 * time.Second

	return &HTTPSink{
		httpClient: retryClient.StandardClient(),
		url:        strings.TrimRight(cfg.ServerURL, "/") + InventoryPath,
		apiKey:     cfg.APIKey,
		logger:     logger,
	}
}

func (s *HTTPSink) Name() string { return "http" }

// Publish sends the report and expects a 2xx response.
func (s *HTTPSink) Publish(ctx context.Context, r *inventory.Report) error {
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create inventory request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}
	req.Header.Set("X-Hwinv-Version", version.Version)
	req.Header.Set("X-Hwinv-Platform", runtime.GOOS+"-"+runtime.GOARCH)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("inventory request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("inventory upload failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	s.logger.Info("published inventory",
		slog.String("url", s.url),
		slog.Int("status", resp.StatusCode),
		slog.Int("bytes", len(body)),
	)
	return nil
}
