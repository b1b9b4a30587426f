package core

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ScanService is the core service for harassment scanning
type ScanService struct {
	classifier Classifier
	recorder   ScanRecorder
	archive    ScanArchive
	observer   ScanObserver
	logger     *zap.Logger
}

// NewScanService creates a new scan service. archive and observer may be nil.
func NewScanService(
	classifier Classifier,
	recorder ScanRecorder,
	archive ScanArchive,
	observer ScanObserver,
	logger *zap.Logger,
) *ScanService {
	return &ScanService{
		classifier: classifier,
		recorder:   recorder,
		archive:    archive,
		observer:   observer,
		logger:     logger,
	}
}

// Scan classifies a message and records the verdict
func (s *ScanService) Scan(ctx context.Context, msg *Message) *ScanResult {
	start := time.Now()
	verdict := s.classifier.Classify(msg.Text)
	record := s.recorder.Record(verdict, msg.Text, msg.Sender)
	elapsed := time.Since(start)

	if s.observer != nil {
		s.observer.ObserveScan(verdict, elapsed)
	}

	s.logger.Debug("Scanned message",
		zap.String("scan_id", record.ID),
		zap.String("sender", msg.Sender),
		zap.Bool("is_harassment", verdict.IsHarassment),
		zap.String("threat_level", string(verdict.ThreatLevel)),
		zap.String("severity", string(verdict.Severity)),
		zap.Strings("keywords", verdict.MatchedKeywords),
		zap.Duration("elapsed", elapsed))

	if s.archive != nil {
		// The record is already committed; a departing caller must not drop it
		if err := s.archive.Append(context.WithoutCancel(ctx), &record); err != nil {
			s.logger.Error("Failed to archive scan record",
				zap.Error(err),
				zap.String("scan_id", record.ID))
		}
	}

	return &ScanResult{Verdict: verdict, Record: record}
}
