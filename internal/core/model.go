package core

import (
	"math"
)

// TimestampLayout is the ISO-8601 layout used for scan record timestamps.
// Analytics bucket on its string prefixes, so the layout must keep the
// date before "T" and the hour before the first ":".
const TimestampLayout = "2006-01-02T15:04:05.000000"

// ThreatLevel is the coarse threat bucket of a verdict
type ThreatLevel string

const (
	ThreatNone   ThreatLevel = "NONE"
	ThreatLow    ThreatLevel = "LOW"
	ThreatMedium ThreatLevel = "MEDIUM"
	ThreatHigh   ThreatLevel = "HIGH"
)

// Severity is the severity label of a verdict
type Severity string

const (
	SeverityNone     Severity = "none"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// HarassmentThreshold is the score a verdict must exceed to be flagged
const HarassmentThreshold = 0.30

// Message represents a piece of text submitted for scanning
type Message struct {
	Text   string
	Sender string
}

// Verdict represents the result of classifying a message
type Verdict struct {
	ToxicScore      float64     `json:"toxic_score"`
	IsHarassment    bool        `json:"is_harassment"`
	ThreatLevel     ThreatLevel `json:"threat_level"`
	Severity        Severity    `json:"severity"`
	Confidence      float64     `json:"confidence"`
	MatchedKeywords []string    `json:"keywords"`
}

// RiskScore returns the toxic score as a 0-100 integer
func (v Verdict) RiskScore() int {
	return int(math.Round(v.ToxicScore * 100))
}

// ScanRecord is a verdict as kept in the scan history
type ScanRecord struct {
	ID           string      `json:"id"`
	Text         string      `json:"text"`
	Sender       string      `json:"sender,omitempty"`
	IsHarassment bool        `json:"is_harassment"`
	Severity     Severity    `json:"severity"`
	ThreatLevel  ThreatLevel `json:"threat_level"`
	RiskScore    int         `json:"risk_score"`
	Timestamp    string      `json:"timestamp"`
	Keywords     []string    `json:"keywords"`
}

// ScanResult pairs a verdict with the record stored for it
type ScanResult struct {
	Verdict Verdict
	Record  ScanRecord
}
