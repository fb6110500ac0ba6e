package events

import (
	"context"
	"fmt"
	"time"
)

// Event is a domain change published after it has been committed.
type Event struct {
	Type       string    `json:"type"` // e.g. "user-registered", "gift-removed"
	EntityID   int       `json:"entity_id"`
	Payload    any       `json:"payload,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// New stamps an event with the current time.
func New(eventType string, entityID int, payload any) Event {
	return Event{Type: eventType, EntityID: entityID, Payload: payload, OccurredAt: time.Now().UTC()}
}

// Key is the message key, "user-registered-1" style.
func (e Event) Key() string {
	return fmt.Sprintf("%s-%d", e.Type, e.EntityID)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error { return nil }

// NewPublisher returns a kafka publisher, or a NopPublisher when brokers is empty.
func NewPublisher(brokers []string, topic string) Publisher {
	if len(brokers) == 0 {
		return NopPublisher{}
	}
	return NewKafkaPublisher(brokers, topic)
}
