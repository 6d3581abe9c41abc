package publish

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/nats-io/nkeys"

	"github.com/doughall/hwinv/internal/inventory"
	"github.com/doughall/hwinv/internal/version"
)

// NATSConfig holds NATS connection configuration.
type NATSConfig struct {
	Servers  string // Comma-separated list of NATS server URLs
	NKeySeed string // NKey seed for authentication (starts with SU)
	TenantID string // Tenant ID for subject routing
	// JetStream publishes through JetStream and waits for the stream's ack.
	JetStream bool
}

// Enabled reports whether every field needed to publish is set.
func (c NATSConfig) Enabled() bool {
	return c.Servers != "" && c.NKeySeed != "" && c.TenantID != ""
}

// NATSSink publishes a report on hwinv.<tenant>.inventory.<host>.
type NATSSink struct {
	config  NATSConfig
	logger  *slog.Logger
	connect func(servers string, opts ...nats.Option) (*nats.Conn, error)
	now     func() time.Time
}

// NewNATSSink creates a NATS sink. Nothing connects until Publish.
func NewNATSSink(cfg NATSConfig, logger *slog.Logger) *NATSSink {
	return &NATSSink{config: cfg, logger: logger, connect: nats.Connect, now: time.Now}
}

func (s *NATSSink) Name() string { return "nats" }

// Subject returns the subject a report is published on.
func (s *NATSSink) Subject(r *inventory.Report) string {
	return fmt.Sprintf("hwinv.%s.inventory.%s", subjectToken(s.config.TenantID), subjectToken(hostKey(r)))
}

// subjectToken makes s usable as a single subject token.
func subjectToken(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ', '\t', '\r', '\n':
			return '_'
		}
		return r
	}, s)
}

// Publish connects, publishes the envelope, flushes and closes.
func (s *NATSSink) Publish(ctx context.Context, r *inventory.Report) error {
	kp, err := nkeys.FromSeed([]byte(s.config.NKeySeed))
	if err != nil {
		return fmt.Errorf("invalid nkey seed: %w", err)
	}
	defer kp.Wipe()

	pubKey, err := kp.PublicKey()
	if err != nil {
		return fmt.Errorf("failed to get public key: %w", err)
	}

	data, err := newEnvelope(r, s.now())
	if err != nil {
		return err
	}

	timeout := 10 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		timeout = max(time.Until(deadline), time.Millisecond)
	}
	nc, err := s.connect(s.config.Servers,
		nats.Name("hwinv-"+version.Version),
		nats.Nkey(pubKey, func(nonce []byte) ([]byte, error) {
			return kp.Sign(nonce)
		}),
		nats.Timeout(timeout),
		nats.MaxReconnects(0),
	)
	if err != nil {
		return fmt.Errorf("nats connect: %w", err)
	}
	defer nc.Close()

	subject := s.Subject(r)
	if s.config.JetStream {
		js, err := jetstream.New(nc)
		if err != nil {
			return fmt.Errorf("jetstream init: %w", err)
		}
		ack, err := js.Publish(ctx, subject, data)
		if err != nil {
			return fmt.Errorf("publish: %w", err)
		}
		s.logger.Info("published inventory to JetStream",
			slog.String("subject", subject),
			slog.String("stream", ack.Stream),
			slog.Uint64("seq", ack.Sequence),
		)
		return nil
	}

	if err := nc.Publish(subject, data); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	// FlushWithContext rejects contexts without a deadline.
	flushCtx := ctx
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		flushCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := nc.FlushWithContext(flushCtx); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	s.logger.Info("published inventory",
		slog.String("subject", subject),
		slog.Int("bytes", len(data)),
	)
	return nil
}
