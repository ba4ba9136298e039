package eventstore

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/salonsite/internal/foundation/errors"
)

// Event type names.
const (
	TypeContentSaved      = "ContentSaved"
	TypeContentSaveFailed = "ContentSaveFailed"
	TypeContentReset      = "ContentReset"
	TypePreviewSent       = "PreviewSent"
	TypeImageUploaded     = "ImageUploaded"
)

// NewCorrelationID returns a fresh id for grouping the events of one action.
func NewCorrelationID() string { return uuid.NewString() }

func newBase(correlationID, eventType string, payload any) (BaseEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return BaseEvent{}, errors.WrapError(err, errors.CategoryInternal, "marshal event payload").
			WithContext("type", eventType).
			WithContext("correlation_id", correlationID).
			Build()
	}
	return BaseEvent{
		EventCorrelationID: correlationID,
		EventType:          eventType,
		EventTimestamp:     time.Now(),
		EventPayload:       data,
	}, nil
}

// ContentSaved is emitted after a document was persisted.
type ContentSaved struct {
	BaseEvent
	Backend string `json:"backend"`
	Bytes   int    `json:"bytes"`
	Commit  string `json:"commit,omitempty"`
}

func NewContentSaved(correlationID, backend string, size int, commit string) (*ContentSaved, error) {
	e := &ContentSaved{Backend: backend, Bytes: size, Commit: commit}
	base, err := newBase(correlationID, TypeContentSaved, map[string]any{
		"backend": backend,
		"bytes":   size,
		"commit":  commit,
	})
	e.BaseEvent = base
	return e, err
}

// ContentSaveFailed is emitted when Save returned an error.
type ContentSaveFailed struct {
	BaseEvent
	Backend string `json:"backend"`
	Error   string `json:"error"`
}

func NewContentSaveFailed(correlationID, backend string, cause error) (*ContentSaveFailed, error) {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	e := &ContentSaveFailed{Backend: backend, Error: msg}
	base, err := newBase(correlationID, TypeContentSaveFailed, map[string]any{
		"backend": backend,
		"error":   msg,
	})
	e.BaseEvent = base
	return e, err
}

// ContentReset is emitted when the editor was reset to the default document.
type ContentReset struct {
	BaseEvent
}

func NewContentReset(correlationID string) (*ContentReset, error) {
	base, err := newBase(correlationID, TypeContentReset, map[string]any{})
	return &ContentReset{BaseEvent: base}, err
}

// PreviewSent is emitted for preview messages that originate from an explicit action.
type PreviewSent struct {
	BaseEvent
	MessageID string `json:"message_id"`
	Kind      string `json:"kind"`
	Source    string `json:"source"`
}

func NewPreviewSent(correlationID, messageID, kind, source string) (*PreviewSent, error) {
	e := &PreviewSent{MessageID: messageID, Kind: kind, Source: source}
	base, err := newBase(correlationID, TypePreviewSent, map[string]any{
		"message_id": messageID,
		"kind":       kind,
		"source":     source,
	})
	e.BaseEvent = base
	return e, err
}

// ImageUploaded is emitted when an image was turned into a data URI.
type ImageUploaded struct {
	BaseEvent
	Filename string `json:"filename"`
	Field    string `json:"field"`
	Bytes    int    `json:"bytes"`
}

func NewImageUploaded(correlationID, filename, field string, size int) (*ImageUploaded, error) {
	e := &ImageUploaded{Filename: filename, Field: field, Bytes: size}
	base, err := newBase(correlationID, TypeImageUploaded, map[string]any{
		"filename": filename,
		"field":    field,
		"bytes":    size,
	})
	e.BaseEvent = base
	return e, err
}
