// Package history keeps the bounded scan history and the running scan counters.
package history

import (
	"container/list"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mikey/deepguard/internal/core"
	"github.com/mikey/deepguard/internal/utils"
)

const (
	// DefaultCapacity is the number of records kept when none is configured
	DefaultCapacity = 50
	// DefaultPreviewLength is the number of characters of text kept per record
	DefaultPreviewLength = 100
)

// Counters are the running scan totals
type Counters struct {
	TotalScans      int `json:"total_scans"`
	ThreatsDetected int `json:"threats_detected"`
}

// Snapshot is a consistent copy of the ledger at one instant.
// Records are ordered newest first.
type Snapshot struct {
	Counters
	Records []core.ScanRecord
}

// Ledger owns the scan history and counters. A single lock covers both so
// readers never see a counter bump without its record.
type Ledger struct {
	mu              sync.RWMutex
	records         *list.List
	capacity        int
	previewLength   int
	totalScans      int
	threatsDetected int

	text  *utils.TextProcessor
	now   func() time.Time
	newID func() string
}

// Option configures a Ledger
type Option func(*Ledger)

// WithClock overrides the clock used to timestamp records
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithIDGenerator overrides how record ids are generated
func WithIDGenerator(newID func() string) Option {
	return func(l *Ledger) { l.newID = newID }
}

// NewLedger creates an empty ledger. Non-positive sizes fall back to defaults.
func NewLedger(capacity, previewLength int, text *utils.TextProcessor, opts ...Option) *Ledger {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if previewLength <= 0 {
		previewLength = DefaultPreviewLength
	}
	l := &Ledger{
		records:       list.New(),
		capacity:      capacity,
		previewLength: previewLength,
		text:          text,
		now:           time.Now,
		newID:         uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Record implements core.ScanRecorder
func (l *Ledger) Record(verdict core.Verdict, text string, sender string) core.ScanRecord {
	record := core.ScanRecord{
		ID:           l.newID(),
		Text:         l.text.Preview(text, l.previewLength),
		Sender:       sender,
		IsHarassment: verdict.IsHarassment,
		Severity:     verdict.Severity,
		ThreatLevel:  verdict.ThreatLevel,
		RiskScore:    verdict.RiskScore(),
		Keywords:     append([]string{}, verdict.MatchedKeywords...),
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	record.Timestamp = l.now().Format(core.TimestampLayout)
	l.bump(verdict.IsHarassment)
	l.insert(record)

	return record
}

// bump must be called with mu held
func (l *Ledger) bump(isHarassment bool) {
	l.totalScans++
	if isHarassment {
		l.threatsDetected++
	}
}

// insert must be called with mu held
func (l *Ledger) insert(record core.ScanRecord) {
	l.records.PushFront(record)
	for l.records.Len() > l.capacity {
		l.records.Remove(l.records.Back())
	}
}

// Recent returns up to n of the newest records, newest first
func (l *Ledger) Recent(n int) []core.ScanRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.copyRecords(n)
}

// All returns every stored record, newest first
func (l *Ledger) All() []core.ScanRecord {
	return l.Recent(l.capacity)
}

// Counters returns the running totals
func (l *Ledger) Counters() Counters {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return Counters{TotalScans: l.totalScans, ThreatsDetected: l.threatsDetected}
}

// Len returns the number of stored records
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.records.Len()
}

// Snapshot returns the counters and every stored record as of one instant
func (l *Ledger) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return Snapshot{
		Counters: Counters{TotalScans: l.totalScans, ThreatsDetected: l.threatsDetected},
		Records:  l.copyRecords(l.records.Len()),
	}
}

// copyRecords must be called with mu held
func (l *Ledger) copyRecords(n int) []core.ScanRecord {
	if n > l.records.Len() {
		n = l.records.Len()
	}
	if n < 0 {
		n = 0
	}
	out := make([]core.ScanRecord, 0, n)
	for e := l.records.Front(); e != nil && len(out) < n; e = e.Next() {
		out = append(out, e.Value.(core.ScanRecord))
	}
	return out
}
