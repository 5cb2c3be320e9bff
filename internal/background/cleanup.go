package background

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// PendingAccountStore removes accounts that never finished verification
type PendingAccountStore interface {
	DeletePendingBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// CleanupManager periodically removes accounts that stayed pending longer
// than the configured TTL, freeing their email and phone for a new signup.
type CleanupManager struct {
	store    PendingAccountStore
	logger   *slog.Logger
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewCleanupManager creates a new cleanup manager
func NewCleanupManager(store PendingAccountStore, logger *slog.Logger, ttl, interval time.Duration) *CleanupManager {
	return &CleanupManager{
		store:    store,
		logger:   logger,
		ttl:      ttl,
		interval: interval,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
}

// Enabled reports whether the sweeper has anything to do. A zero TTL keeps
// pending accounts forever.
func (cm *CleanupManager) Enabled() bool {
	return cm.ttl > 0 && cm.interval > 0
}

// Start runs the sweep until ctx is cancelled or Stop is called
func (cm *CleanupManager) Start(ctx context.Context) {
	if !cm.Enabled() {
		cm.logger.Info("pending account cleanup disabled")
		return
	}

	ticker := time.NewTicker(cm.interval)
	defer ticker.Stop()

	// Run immediately on startup
	cm.runCleanup(ctx)

	for {
		select {
		case <-ticker.C:
			cm.runCleanup(ctx)
		case <-cm.stopCh:
			cm.logger.Info("cleanup manager stopped")
			return
		case <-ctx.Done():
			cm.logger.Info("cleanup manager context cancelled")
			return
		}
	}
}

func (cm *CleanupManager) runCleanup(ctx context.Context) {
	cleanupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cutoff := cm.now().Add(-cm.ttl)
	rowsDeleted, err := cm.store.DeletePendingBefore(cleanupCtx, cutoff)
	if err != nil {
		cm.logger.Error("failed to delete stale pending accounts", slog.Any("error", err))
		return
	}

	if rowsDeleted > 0 {
		cm.logger.Info("stale pending accounts deleted",
			slog.Int64("rows_deleted", rowsDeleted),
			slog.Time("cutoff", cutoff))
	}
}

// Stop signals the cleanup manager to stop. It is safe to call more than once.
func (cm *CleanupManager) Stop() {
	cm.stopOnce.Do(func() { close(cm.stopCh) })
}
