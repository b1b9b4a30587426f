// Package archive provides write-only audit trails for scan records.
//
// Archives are never read back into the scan ledger; analytics always start
// empty after a restart.
package archive

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mikey/deepguard/internal/core"
	"go.uber.org/zap"
)

// ErrStopped is returned when appending to an archive that has been stopped
var ErrStopped = errors.New("archive stopped")

func encodeKeywords(keywords []string) (string, error) {
	if keywords == nil {
		keywords = []string{}
	}
	b, err := json.Marshal(keywords)
	if err != nil {
		return "", fmt.Errorf("failed to encode keywords: %w", err)
	}
	return string(b), nil
}

// cleaner runs Cleanup on a ticker until stopped
type cleaner struct {
	freq    time.Duration
	cleanup func() error
	logger  *zap.Logger
	stopCh  chan struct{}
	once    sync.Once
}

func startCleaner(freq time.Duration, logger *zap.Logger, cleanup func() error) *cleaner {
	c := &cleaner{
		freq:    freq,
		cleanup: cleanup,
		logger:  logger,
		stopCh:  make(chan struct{}),
	}
	if freq > 0 {
		go c.run()
	}
	return c
}

func (c *cleaner) run() {
	ticker := time.NewTicker(c.freq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.cleanup(); err != nil {
				c.logger.Error("Failed to clean up archive", zap.Error(err))
			}
		case <-c.stopCh:
			return
		}
	}
}

func (c *cleaner) stop() {
	c.once.Do(func() { close(c.stopCh) })
}

// archivedRow is the flattened form stored by the SQL archives
type archivedRow struct {
	keywords   string
	archivedAt int64
}

func newArchivedRow(record *core.ScanRecord, now time.Time) (*archivedRow, error) {
	keywords, err := encodeKeywords(record.Keywords)
	if err != nil {
		return nil, err
	}
	return &archivedRow{keywords: keywords, archivedAt: now.Unix()}, nil
}
