package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bpresles/CasaNova/common/constants"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// consumerName derives a durable name from a subject filter, e.g.
// casanova.scrape.completed.> becomes casanova_casanova-scrape-completed-all.
func consumerName(subject string) string {
	return "casanova_" + strings.NewReplacer(".", "-", ">", "all", "*", "any").Replace(subject)
}

// GetJetStreamConsumer returns a durable pull consumer filtered on subject
func GetJetStreamConsumer(broker *NatsBroker, streamName, subject string) (jetstream.Consumer, error) {
	if broker == nil {
		return nil, errNoJetStream
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := EnsureStream(ctx, broker, streamName, []string{subject}); err != nil {
		return nil, err
	}

	name := consumerName(subject)
	return broker.CreateConsumer(ctx, streamName, jetstream.ConsumerConfig{
		Durable:       name,
		FilterSubject: subject,
		AckPolicy:     jetstream.AckExplicitPolicy,
		DeliverPolicy: jetstream.DeliverNewPolicy,
	})
}

// EnsureStream creates the stream, or adds the subjects it is missing.
func EnsureStream(ctx context.Context, broker *NatsBroker, name string, subjects []string) (jetstream.Stream, error) {
	stream, err := broker.stream(ctx, name)
	if errors.Is(err, jetstream.ErrStreamNotFound) {
		return broker.upsertStream(ctx, jetstream.StreamConfig{
			Name:     name,
			Subjects: subjects,
		})
	}
	if err != nil {
		log.Error().Err(err).Str("stream_name", name).Msg("Failed to look up stream")
		return nil, err
	}

	info, err := stream.Info(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get stream info: %w", err)
	}

	cfg := info.Config
	missing, _ := lo.Difference(subjects, cfg.Subjects)
	if len(missing) == 0 {
		return stream, nil
	}

	cfg.Subjects = append(cfg.Subjects, missing...)
	return broker.upsertStream(ctx, cfg)
}

// ScrapeEventHandler receives decoded scrape events. Returning an error naks the message.
type ScrapeEventHandler func(ctx context.Context, event ScrapeCompletedEvent) error

// WatchScrapeEvents consumes the scrape completed events published from now on,
// until the returned context is stopped.
func WatchScrapeEvents(ctx context.Context, broker *NatsBroker, streamName string, handler ScrapeEventHandler) (jetstream.ConsumeContext, error) {
	consumer, err := GetJetStreamConsumer(broker, streamName, constants.ScrapeCompletedSubjectPrefix+".>")
	if err != nil {
		return nil, err
	}

	return consumer.Consume(func(msg jetstream.Msg) {
		handleScrapeEvent(ctx, msg, handler)
	})
}

// ackable is the part of jetstream.Msg a scrape event handler settles.
type ackable interface {
	Data() []byte
	Subject() string
	Ack() error
	Nak() error
	Term() error
}

func handleScrapeEvent(ctx context.Context, msg ackable, handler ScrapeEventHandler) {
	var event ScrapeCompletedEvent
	if err := json.Unmarshal(msg.Data(), &event); err != nil {
		log.Error().Err(err).Str("subject", msg.Subject()).Msg("Dropping malformed scrape event")
		_ = msg.Term()
		return
	}
	if err := handler(ctx, event); err != nil {
		log.Warn().Err(err).Str("subject", msg.Subject()).Msg("Scrape event handler failed")
		_ = msg.Nak()
		return
	}
	_ = msg.Ack()
}
