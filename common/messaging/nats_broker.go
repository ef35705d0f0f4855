package messaging

import (
	"context"
	"errors"
	"fmt"

	"github.com/bpresles/CasaNova/common"
	"github.com/bpresles/CasaNova/common/config"
	"github.com/bpresles/CasaNova/common/constants"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"
)

var errNoJetStream = errors.New("JetStream not initialized")

// NatsBroker carries scrape events over NATS JetStream.
type NatsBroker struct {
	conn *nats.Conn
	js   jetstream.JetStream
}

func NewNatsBroker(cfg config.Config) (*NatsBroker, error) {
	conn, err := nats.Connect(cfg.Nats.URL(), connOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	log.Info().Str("server", conn.ConnectedUrl()).Msg("Connected to NATS")
	return &NatsBroker{conn: conn, js: js}, nil
}

func connOptions(cfg config.Config) []nats.Option {
	opts := []nats.Option{
		nats.Name(common.AppName),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("Disconnected from NATS")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("server", nc.ConnectedUrl()).Msg("Reconnected to NATS")
		}),
		nats.ErrorHandler(func(_ *nats.Conn, sub *nats.Subscription, err error) {
			event := log.Error().Err(err)
			if sub != nil {
				event = event.Str("subject", sub.Subject)
			}
			event.Msg("NATS async error")
		}),
	}
	if cfg.Nats.Username != "" && cfg.Nats.Password != "" {
		opts = append(opts, nats.UserInfo(cfg.Nats.Username, cfg.Nats.Password))
	}
	return opts
}

// Close drains pending acks and subscriptions before closing.
func (b *NatsBroker) Close() error {
	if b.conn == nil || !b.conn.IsConnected() {
		return nil
	}
	return b.conn.Drain()
}

// Publish sends data to subject and waits for the stream acknowledgement.
func (b *NatsBroker) Publish(ctx context.Context, subject string, data []byte) error {
	if b.js == nil {
		return errNoJetStream
	}

	ack, err := b.js.Publish(ctx, subject, data)
	if err != nil {
		return fmt.Errorf("failed to publish message to %s: %w", subject, err)
	}

	log.Debug().
		Str("subject", subject).
		Str("stream", ack.Stream).
		Uint64("seq", ack.Sequence).
		Bool("duplicate", ack.Duplicate).
		Msg("Published scrape event")
	return nil
}

func (b *NatsBroker) stream(ctx context.Context, name string) (jetstream.Stream, error) {
	if b.js == nil {
		return nil, errNoJetStream
	}
	return b.js.Stream(ctx, name)
}

func (b *NatsBroker) upsertStream(ctx context.Context, cfg jetstream.StreamConfig) (jetstream.Stream, error) {
	if b.js == nil {
		return nil, errNoJetStream
	}

	stream, err := b.js.CreateOrUpdateStream(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create stream %s: %w", cfg.Name, err)
	}

	log.Info().Str("name", cfg.Name).Strs("subjects", cfg.Subjects).Msg("JetStream stream ready")
	return stream, nil
}

// CreateConsumer creates or updates a consumer on streamName.
func (b *NatsBroker) CreateConsumer(ctx context.Context, streamName string, cfg jetstream.ConsumerConfig) (jetstream.Consumer, error) {
	if b.js == nil {
		return nil, errNoJetStream
	}

	consumer, err := b.js.CreateOrUpdateConsumer(ctx, streamName, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer %s: %w", cfg.Durable, err)
	}

	log.Info().Str("name", cfg.Durable).Str("stream", streamName).Msg("Created JetStream consumer")
	return consumer, nil
}

// SetupNatsBroker connects to NATS and makes sure the scrape event stream exists.
// It returns a nil broker when NATS is disabled.
func SetupNatsBroker(ctx context.Context, cfg config.Config) (*NatsBroker, error) {
	if !cfg.Nats.Enabled {
		log.Info().Msg("NATS disabled, scrape events will not be published")
		return nil, nil
	}

	broker, err := NewNatsBroker(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating NATS client: %w", err)
	}

	if cfg.Nats.JetStreamEnabled {
		if _, err := EnsureStream(ctx, broker, cfg.Nats.StreamName, []string{constants.ScrapeStreamSubjects}); err != nil {
			_ = broker.Close()
			return nil, fmt.Errorf("ensuring stream %s: %w", cfg.Nats.StreamName, err)
		}
	}

	return broker, nil
}
