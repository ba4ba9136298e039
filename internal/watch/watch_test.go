package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_DebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "content.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))

	w, err := New(50*time.Millisecond, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	var calls atomic.Int32
	got := make(chan string, 4)
	require.NoError(t, w.Watch(path, func(_ context.Context, p string) {
		calls.Add(1)
		got <- p
	}))
	w.Start(t.Context())

	for i := range 3 {
		require.NoError(t, os.WriteFile(path, []byte(`{"n":`+string(rune('0'+i))+`}`), 0o600))
	}

	select {
	case p := <-got:
		abs, _ := filepath.Abs(path)
		assert.Equal(t, abs, p)
	case <-time.After(3 * time.Second):
		t.Fatal("handler not called")
	}
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWatcher_EventDuringFiredCallbackRunsOnce(t *testing.T) {
	const debounce = 30 * time.Millisecond
	w, err := New(debounce, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	var calls atomic.Int32
	h := func(context.Context, string) { calls.Add(1) }
	abs, err := filepath.Abs(filepath.Join(t.TempDir(), "content.json"))
	require.NoError(t, err)

	w.mu.Lock()
	w.schedule(t.Context(), abs, h)
	w.mu.Unlock()

	// The timer fires while the lock is held, so its callback waits on it while a
	// second change arrives.
	w.mu.Lock()
	time.Sleep(3 * debounce)
	w.schedule(t.Context(), abs, h)
	w.mu.Unlock()

	// A third change within the debounce window coalesces with the second.
	w.mu.Lock()
	w.schedule(t.Context(), abs, h)
	w.mu.Unlock()

	require.Eventually(t, func() bool { return calls.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
	time.Sleep(5 * debounce)
	assert.Equal(t, int32(2), calls.Load())

	w.mu.Lock()
	defer w.mu.Unlock()
	assert.Empty(t, w.timers)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "content.json")

	w, err := New(20*time.Millisecond, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	called := make(chan struct{}, 1)
	require.NoError(t, w.Watch(path, func(context.Context, string) { called <- struct{}{} }))
	w.Start(t.Context())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o600))

	select {
	case <-called:
		t.Fatal("handler called for unrelated file")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_CloseIsIdempotent(t *testing.T) {
	w, err := New(0, nil)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}
