package background

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePendingStore struct {
	mu      sync.Mutex
	cutoffs []time.Time
	err     error
	called  chan struct{}
}

func newFakePendingStore() *fakePendingStore {
	return &fakePendingStore{called: make(chan struct{}, 10)}
}

func (f *fakePendingStore) DeletePendingBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	f.cutoffs = append(f.cutoffs, cutoff)
	f.mu.Unlock()
	select {
	case f.called <- struct{}{}:
	default:
	}
	return 2, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCleanupManager_SweepsOnStartWithTTLCutoff(t *testing.T) {
	store := newFakePendingStore()
	cm := NewCleanupManager(store, discardLogger(), 24*time.Hour, time.Hour)
	fixed := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	cm.now = func() time.Time { return fixed }

	done := make(chan struct{})
	go func() {
		cm.Start(context.Background())
		close(done)
	}()

	select {
	case <-store.called:
	case <-time.After(2 * time.Second):
		t.Fatal("cleanup did not run on start")
	}
	cm.Stop()
	cm.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("cleanup manager did not stop")
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	require.Len(t, store.cutoffs, 1)
	assert.Equal(t, fixed.Add(-24*time.Hour), store.cutoffs[0])
}

func TestCleanupManager_StopsOnContextCancel(t *testing.T) {
	store := newFakePendingStore()
	store.err = errors.New("connection reset")
	cm := NewCleanupManager(store, discardLogger(), time.Hour, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		cm.Start(ctx)
		close(done)
	}()

	// Errors are logged and the loop keeps ticking
	for i := 0; i < 2; i++ {
		select {
		case <-store.called:
		case <-time.After(2 * time.Second):
			t.Fatal("cleanup did not keep running after an error")
		}
	}
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("cleanup manager ignored cancellation")
	}
}

func TestCleanupManager_ZeroTTLDisables(t *testing.T) {
	store := newFakePendingStore()
	cm := NewCleanupManager(store, discardLogger(), 0, time.Hour)

	assert.False(t, cm.Enabled())
	cm.Start(context.Background())

	assert.Empty(t, store.cutoffs)
}
