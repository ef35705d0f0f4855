package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bpresles/CasaNova/common/constants"
)

// Broker publishes raw payloads; *NatsBroker implements it.
type Broker interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// ScrapeEventPublisher announces finished country scrapes.
type ScrapeEventPublisher struct {
	broker Broker
}

func NewScrapeEventPublisher(broker Broker) *ScrapeEventPublisher {
	return &ScrapeEventPublisher{broker: broker}
}

func (p *ScrapeEventPublisher) PublishScrapeCompleted(ctx context.Context, event ScrapeCompletedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding scrape event: %w", err)
	}
	return p.broker.Publish(ctx, constants.ScrapeCompletedSubject(event.Category), data)
}
