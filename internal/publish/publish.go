// Package publish delivers one inventory report to a collection server.
//
// Two sinks exist. NATS is preferred when it is fully configured: the
// report is wrapped in a MessageEnvelope and published once, optionally
// through JetStream for an acknowledged write. HTTP is the fallback: the
// report is POSTed as JSON with a bearer token, with retries handled by
// go-retryablehttp. Neither sink keeps a connection open after Publish
// returns.
//
// Usage:
//
//	sink, err := publish.Select(natsCfg, httpCfg, logger)
//	if err != nil { ... }
//	err = sink.Publish(ctx, report)
package publish

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/doughall/hwinv/internal/inventory"
)

// ErrNoSink is returned by Select when neither sink is configured.
var ErrNoSink = errors.New("no publish sink configured")

// Sink delivers a report.
type Sink interface {
	// Name identifies the sink in logs ("nats", "http").
	Name() string
	Publish(ctx context.Context, r *inventory.Report) error
}

// Select returns the NATS sink when NATS is configured, else the HTTP sink
// when a server URL is set.
func Select(natsCfg NATSConfig, httpCfg HTTPConfig, logger *slog.Logger) (Sink, error) {
	logger = logger.With(slog.String("component", "publish"))
	switch {
	case natsCfg.Enabled():
		return NewNATSSink(natsCfg, logger), nil
	case httpCfg.Enabled():
		return NewHTTPSink(httpCfg, logger), nil
	}
	return nil, ErrNoSink
}

// hostKey names the machine in subjects and logs: the OS host ID, or the
// hardware fingerprint when the OS has none.
func hostKey(r *inventory.Report) string {
	if id := strings.TrimSpace(r.Host.HostID); id != "" {
		return id
	}
	return r.Fingerprint
}
