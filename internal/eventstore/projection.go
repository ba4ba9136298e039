// Package eventstore keeps an audit log of content actions and a read model over it.
package eventstore

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Entry is one line of the activity feed.
type Entry struct {
	CorrelationID string    `json:"correlation_id"`
	Type          string    `json:"type"`
	At            time.Time `json:"at"`
	Detail        string    `json:"detail,omitempty"`
}

// ActivitySummary is the read model over the audit log.
type ActivitySummary struct {
	Saves        int        `json:"saves"`
	SaveFailures int        `json:"save_failures"`
	Resets       int        `json:"resets"`
	Previews     int        `json:"previews"`
	Uploads      int        `json:"uploads"`
	LastSavedAt  *time.Time `json:"last_saved_at,omitempty"`
	LastCommit   string     `json:"last_commit,omitempty"`
	LastError    string     `json:"last_error,omitempty"`
	Recent       []Entry    `json:"recent"`
}

// ActivityProjection maintains an in-memory ActivitySummary, reconstructed from
// the store on Rebuild and kept current through Apply.
type ActivityProjection struct {
	mu       sync.RWMutex
	store    Store
	summary  ActivitySummary
	maxSize  int
	lastSync time.Time
}

// NewActivityProjection creates a projection keeping at most maxRecent feed entries.
func NewActivityProjection(store Store, maxRecent int) *ActivityProjection {
	if maxRecent <= 0 {
		maxRecent = 50
	}
	return &ActivityProjection{store: store, maxSize: maxRecent}
}

// Rebuild reconstructs the projection from all events in the store.
func (p *ActivityProjection) Rebuild(ctx context.Context) error {
	events, err := p.store.GetRange(ctx, time.Time{}, time.Now().Add(time.Hour))
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.summary = ActivitySummary{}
	for _, event := range events {
		p.applyEventLocked(event)
	}
	p.lastSync = time.Now()
	return nil
}

// Apply processes a single event.
func (p *ActivityProjection) Apply(event Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.applyEventLocked(event)
}

func (p *ActivityProjection) applyEventLocked(event Event) {
	entry := Entry{CorrelationID: event.CorrelationID(), Type: event.Type(), At: event.Timestamp()}
	s := &p.summary

	switch event.Type() {
	case TypeContentSaved:
		s.Saves++
		at := event.Timestamp()
		s.LastSavedAt = &at
		var payload struct {
			Backend string `json:"backend"`
			Commit  string `json:"commit"`
		}
		if err := json.Unmarshal(event.Payload(), &payload); err == nil {
			entry.Detail = payload.Backend
			if payload.Commit != "" {
				s.LastCommit = payload.Commit
			}
		}

	case TypeContentSaveFailed:
		s.SaveFailures++
		var payload struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(event.Payload(), &payload); err == nil {
			s.LastError = payload.Error
			entry.Detail = payload.Error
		}

	case TypeContentReset:
		s.Resets++

	case TypePreviewSent:
		s.Previews++
		var payload struct {
			Source string `json:"source"`
		}
		if err := json.Unmarshal(event.Payload(), &payload); err == nil {
			entry.Detail = payload.Source
		}

	case TypeImageUploaded:
		s.Uploads++
		var payload struct {
			Filename string `json:"filename"`
		}
		if err := json.Unmarshal(event.Payload(), &payload); err == nil {
			entry.Detail = payload.Filename
		}

	default:
		return
	}

	s.Recent = append([]Entry{entry}, s.Recent...)
	if len(s.Recent) > p.maxSize {
		s.Recent = s.Recent[:p.maxSize]
	}
}

// Summary returns a copy of the current summary.
func (p *ActivityProjection) Summary() ActivitySummary {
	p.mu.RLock()
	defer p.mu.RUnlock()

	cp := p.summary
	cp.Recent = append([]Entry{}, p.summary.Recent...)
	if p.summary.LastSavedAt != nil {
		at := *p.summary.LastSavedAt
		cp.LastSavedAt = &at
	}
	return cp
}

// LastSyncTime returns when the projection was last rebuilt.
func (p *ActivityProjection) LastSyncTime() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastSync
}
