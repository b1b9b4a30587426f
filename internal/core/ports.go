package core

import (
	"context"
	"time"
)

// Classifier turns raw text into a verdict
type Classifier interface {
	// Classify never fails; every input yields a verdict
	Classify(text string) Verdict
}

// ScanRecorder commits a verdict to the scan history and counters
type ScanRecorder interface {
	// Record bumps the counters and stores the record as one step
	Record(verdict Verdict, text string, sender string) ScanRecord
}

// ScanArchive defines the interface for the write-only scan audit trail
type ScanArchive interface {
	// Append stores a committed scan record
	Append(ctx context.Context, record *ScanRecord) error

	// Cleanup removes records older than the retention window
	Cleanup(ctx context.Context) error
}

// ScanObserver receives every completed scan, typically for metrics
type ScanObserver interface {
	ObserveScan(verdict Verdict, elapsed time.Duration)
}
