package messaging

import (
	"context"
	"encoding/json"
	"time"

	"github.com/chenBenjamin97/football-coach/pkg/video"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

//conn is the part of *nats.Conn the publisher needs
type conn interface {
	Publish(subject string, data []byte) error
	FlushTimeout(timeout time.Duration) error
	Drain() error
	Close()
	IsConnected() bool
}

//Publisher sends every feedback result as JSON on a NATS subject
type Publisher struct {
	conn    conn
	subject string
	timeout time.Duration
}

func Connect(url, subject string, timeout time.Duration) (*Publisher, error) {
	opts := []nats.Option{
		nats.Name("football-coach"),
		nats.Timeout(timeout),
		nats.MaxReconnects(-1),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, err
	}

	log.Info().Str("url", url).Str("subject", subject).Msg("NATS connection established")

	return &Publisher{conn: nc, subject: subject, timeout: timeout}, nil
}

func (p *Publisher) Publish(ctx context.Context, result *video.FeedbackResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}

	if err := p.conn.Publish(p.subject, payload); err != nil {
		return err
	}

	timeout := p.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout || timeout <= 0 {
			timeout = left
		}
	}
	if timeout <= 0 {
		return nil
	}
	return p.conn.FlushTimeout(timeout)
}

func (p *Publisher) IsConnected() bool {
	return p.conn != nil && p.conn.IsConnected()
}

func (p *Publisher) Close() {
	if p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		log.Warn().Err(err).Msg("Failed to drain NATS connection gracefully, closing immediately")
		p.conn.Close()
	}
}
