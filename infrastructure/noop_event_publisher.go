package infrastructure

import (
	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/events"

	log "github.com/sirupsen/logrus"
)

// NoopEventPublisher drops events; used when no NATS servers are configured
type NoopEventPublisher struct{}

// NewNoopEventPublisher creates a new no-op event publisher
func NewNoopEventPublisher() *NoopEventPublisher {
	return &NoopEventPublisher{}
}

// Publish logs the event type at trace level and discards it
func (n *NoopEventPublisher) Publish(event events.Event) error {
	log.WithField("eventType", event.Type()).Trace("Dropping event, no event bus configured")
	return nil
}
