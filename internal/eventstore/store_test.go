package eventstore

import (
	"bytes"
	"testing"
	"time"
)

const testCorrelationID = "corr-1"

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestEventStoreAppendAndRetrieve(t *testing.T) {
	store := newTestStore(t)
	ctx := t.Context()
	payload := []byte(`{"backend": "file"}`)

	if err := store.Append(ctx, testCorrelationID, TypeContentSaved, payload, map[string]string{"key": "value"}); err != nil {
		t.Fatalf("failed to append event: %v", err)
	}

	events, err := store.GetByCorrelationID(ctx, testCorrelationID)
	if err != nil {
		t.Fatalf("failed to get events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	event := events[0]
	if event.CorrelationID() != testCorrelationID {
		t.Errorf("expected correlation id %s, got %s", testCorrelationID, event.CorrelationID())
	}
	if event.Type() != TypeContentSaved {
		t.Errorf("expected type %s, got %s", TypeContentSaved, event.Type())
	}
	if !bytes.Equal(event.Payload(), payload) {
		t.Errorf("expected payload %s, got %s", payload, event.Payload())
	}
	if event.Metadata()["key"] != "value" {
		t.Errorf("expected metadata key=value, got %v", event.Metadata())
	}
	if event.ID() == 0 {
		t.Error("expected store-assigned id")
	}
}

func TestEventStoreGetRange(t *testing.T) {
	store := newTestStore(t)
	ctx := t.Context()
	now := time.Now()

	for range 3 {
		if err := store.Append(ctx, testCorrelationID, TypePreviewSent, []byte("{}"), nil); err != nil {
			t.Fatalf("failed to append event: %v", err)
		}
	}

	events, err := store.GetRange(ctx, now.Add(-time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatalf("failed to get range: %v", err)
	}
	if len(events) != 3 {
		t.Errorf("expected 3 events, got %d", len(events))
	}

	events, err = store.GetRange(ctx, now.Add(-2*time.Hour), now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("failed to get range: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected no events in the past, got %d", len(events))
	}
}

func TestEventStoreRecentNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := t.Context()

	_ = store.Append(ctx, "a", TypeContentSaved, nil, nil)
	_ = store.Append(ctx, "b", TypeContentReset, nil, nil)
	_ = store.Append(ctx, "c", TypePreviewSent, nil, nil)

	events, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("failed to get recent: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].CorrelationID() != "c" || events[1].CorrelationID() != "b" {
		t.Errorf("unexpected order: %s, %s", events[0].CorrelationID(), events[1].CorrelationID())
	}
	if string(events[0].Payload()) != "{}" {
		t.Errorf("expected empty object payload, got %s", events[0].Payload())
	}
}

func TestEventStorePrune(t *testing.T) {
	store := newTestStore(t)
	ctx := t.Context()

	_ = store.Append(ctx, "a", TypeContentSaved, nil, nil)
	_ = store.Append(ctx, "b", TypeContentSaved, nil, nil)

	n, err := store.Prune(ctx, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if n != 0 {
		t.Errorf("expected nothing pruned, got %d", n)
	}

	n, err = store.Prune(ctx, time.Now().Add(time.Minute))
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 pruned, got %d", n)
	}

	events, _ := store.Recent(ctx, 10)
	if len(events) != 0 {
		t.Errorf("expected empty store, got %d events", len(events))
	}
}
