package archive

import (
	"context"
	"sync"
	"time"

	"github.com/mikey/deepguard/internal/core"
	"go.uber.org/zap"
)

type memoryEntry struct {
	record     core.ScanRecord
	archivedAt time.Time
}

// MemoryArchive is an in-memory implementation of the ScanArchive interface.
// Entries live until the retention window passes.
type MemoryArchive struct {
	entries   []memoryEntry
	mu        sync.RWMutex
	logger    *zap.Logger
	retention time.Duration
	now       func() time.Time
	cleaner   *cleaner
	stopped   bool
}

// NewMemoryArchive creates a new in-memory archive
func NewMemoryArchive(logger *zap.Logger, retention, cleanupFreq time.Duration) *MemoryArchive {
	a := &MemoryArchive{
		logger:    logger,
		retention: retention,
		now:       time.Now,
	}
	a.cleaner = startCleaner(cleanupFreq, logger, func() error {
		return a.Cleanup(context.Background())
	})
	return a
}

// Append stores a scan record
func (a *MemoryArchive) Append(ctx context.Context, record *core.ScanRecord) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopped {
		return ErrStopped
	}
	a.entries = append(a.entries, memoryEntry{record: *record, archivedAt: a.now()})
	return nil
}

// Cleanup removes entries older than the retention window
func (a *MemoryArchive) Cleanup(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	cutoff := a.now().Add(-a.retention)
	kept := a.entries[:0]
	for _, e := range a.entries {
		if e.archivedAt.After(cutoff) {
			kept = append(kept, e)
		}
	}
	expired := len(a.entries) - len(kept)
	a.entries = kept

	a.logger.Debug("Cleaned up expired archive entries", zap.Int("expired_count", expired))
	return nil
}

// Records returns the archived records, oldest first
func (a *MemoryArchive) Records() []core.ScanRecord {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]core.ScanRecord, len(a.entries))
	for i, e := range a.entries {
		out[i] = e.record
	}
	return out
}

// Stop stops the background cleanup task
func (a *MemoryArchive) Stop() {
	a.mu.Lock()
	a.stopped = true
	a.mu.Unlock()
	a.cleaner.stop()
}
