package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	EventTypeClientCreated = "client.created"
	EventTypeClientUpdated = "client.updated"
	EventTypeClientDeleted = "client.deleted"
)

// ClientEventTypes lists every event the service publishes.
var ClientEventTypes = []string{
	EventTypeClientCreated,
	EventTypeClientUpdated,
	EventTypeClientDeleted,
}

// DomainEvent represents a domain event
type DomainEvent interface {
	GetEventID() string
	GetEventType() string
	GetAggregateID() int64
	GetOccurredAt() time.Time
	GetPayload() interface{}
}

// BaseEvent provides common event fields
type BaseEvent struct {
	EventID     string    `json:"event_id"`
	EventType   string    `json:"event_type"`
	AggregateID int64     `json:"aggregate_id"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func (e BaseEvent) GetEventID() string       { return e.EventID }
func (e BaseEvent) GetEventType() string     { return e.EventType }
func (e BaseEvent) GetAggregateID() int64    { return e.AggregateID }
func (e BaseEvent) GetOccurredAt() time.Time { return e.OccurredAt }

// ClientEvent - a client was created, updated or deleted
type ClientEvent struct {
	BaseEvent
	Payload ClientEventPayload `json:"payload"`
}

func (e ClientEvent) GetPayload() interface{} { return e.Payload }

// ClientEventPayload carries the client state after the change. Deleted
// events only carry the ID.
type ClientEventPayload struct {
	ClientID  int64     `json:"client_id"`
	Name      string    `json:"name,omitempty"`
	CPF       string    `json:"cpf,omitempty"`
	Income    float64   `json:"income,omitempty"`
	BirthDate time.Time `json:"birth_date,omitempty"`
	Children  int       `json:"children,omitempty"`
}

func NewClientEvent(eventType string, clientID int64, client *Client) *ClientEvent {
	payload := ClientEventPayload{ClientID: clientID}
	if client != nil {
		payload.Name = client.Name
		payload.CPF = client.CPF
		payload.Income = client.Income
		payload.BirthDate = client.BirthDate
		payload.Children = client.Children
	}

	return &ClientEvent{
		BaseEvent: BaseEvent{
			EventID:     uuid.New().String(),
			EventType:   eventType,
			AggregateID: clientID,
			OccurredAt:  time.Now().UTC(),
		},
		Payload: payload,
	}
}

// EventPublisher interface
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
}

// EventSubscriber interface
type EventSubscriber interface {
	Subscribe(ctx context.Context, eventType string, handler EventHandler) error
}

// EventHandler processes events
type EventHandler func(ctx context.Context, event DomainEvent) error
