package broadcast

import (
	"log"
	"time"

	"pickup/internal/observability"
)

// Broadcaster fans a domain event out to the websocket hub and the Kafka
// stream. All sinks are best effort; a failed publish never fails the
// mutation that produced the event.
type Broadcaster struct {
	hub       *Hub
	publisher *EventPublisher
}

// NewBroadcaster creates a Broadcaster. Either sink may be nil.
func NewBroadcaster(hub *Hub, publisher *EventPublisher) *Broadcaster {
	return &Broadcaster{hub: hub, publisher: publisher}
}

// Publish pushes the event to the listed profiles' websocket sessions and
// onto the event stream.
func (b *Broadcaster) Publish(eventType, entity, id, status string, profileIDs ...string) {
	if b == nil {
		return
	}

	ev := Event{
		Type:   eventType,
		Entity: entity,
		ID:     id,
		Status: status,
		At:     time.Now(),
	}

	if b.hub != nil {
		for _, profileID := range profileIDs {
			if b.hub.Send(profileID, ev) {
				observability.EventsPublished.WithLabelValues("ws").Inc()
			}
		}
	}

	if b.publisher != nil {
		if err := b.publisher.Publish(ev); err != nil {
			log.Printf("event stream publish failed: %v", err)
		} else {
			observability.EventsPublished.WithLabelValues("kafka").Inc()
		}
	}
}
