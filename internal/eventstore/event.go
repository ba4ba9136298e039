package eventstore

import "time"

// Event is one entry of the content audit log.
type Event interface {
	// ID is assigned by the store on append.
	ID() int64
	// CorrelationID ties together the events of one user action.
	CorrelationID() string
	Type() string
	Timestamp() time.Time
	// Payload is the JSON encoding of the typed event fields.
	Payload() []byte
	Metadata() map[string]string
}

// BaseEvent provides a default implementation of Event.
type BaseEvent struct {
	EventID            int64
	EventCorrelationID string
	EventType          string
	EventTimestamp     time.Time
	EventPayload       []byte
	EventMetadata      map[string]string
}

func (e *BaseEvent) ID() int64                   { return e.EventID }
func (e *BaseEvent) CorrelationID() string       { return e.EventCorrelationID }
func (e *BaseEvent) Type() string                { return e.EventType }
func (e *BaseEvent) Timestamp() time.Time        { return e.EventTimestamp }
func (e *BaseEvent) Payload() []byte             { return e.EventPayload }
func (e *BaseEvent) Metadata() map[string]string { return e.EventMetadata }
