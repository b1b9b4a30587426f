package analytics

import "github.com/mikey/deepguard/internal/core"

// UserStats is the headline block of the dashboard
type UserStats struct {
	TotalScans         int     `json:"total_scans"`
	HarassmentDetected int     `json:"harassment_detected"`
	DeepfakesDetected  int     `json:"deepfakes_detected"`
	SafetyScore        float64 `json:"safety_score"`
	LastScan           *string `json:"last_scan"`
}

// DailyStat counts the scans stored for one calendar date
type DailyStat struct {
	Date            string `json:"date"`
	ScansCount      int    `json:"scans_count"`
	HarassmentCount int    `json:"harassment_count"`
	DeepfakeCount   int    `json:"deepfake_count"`
}

// TrendPoint is one entry of the weekly or monthly trend.
// Monthly points carry the YYYY-MM key in Week.
type TrendPoint struct {
	Week         string  `json:"week"`
	RiskLevel    float64 `json:"risk_level"`
	TotalThreats int     `json:"total_threats"`
}

// ScanSummary is the safe/harmful split of all scans
type ScanSummary struct {
	SafeFiles    int    `json:"safe_files"`
	AIGenerated  int    `json:"ai_generated"`
	HarmfulMedia int    `json:"harmful_media"`
	LastUpdated  string `json:"last_updated"`
}

// Dashboard bundles the views shown on the user dashboard
type Dashboard struct {
	UserStats   UserStats    `json:"user_stats"`
	DailyStats  []DailyStat  `json:"daily_stats"`
	WeeklyTrend []TrendPoint `json:"weekly_trend"`
	ScanSummary ScanSummary  `json:"scan_summary"`
}

// LevelBreakdown counts stored records per threat level
type LevelBreakdown struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// SeverityBreakdown counts stored records per severity
type SeverityBreakdown struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// Overview is the analytics overview with breakdowns and recent activity
type Overview struct {
	TotalScans        int               `json:"total_scans"`
	ThreatsDetected   int               `json:"threats_detected"`
	ThreatsBlocked    int               `json:"threats_blocked"`
	SafeMessages      int               `json:"safe_messages"`
	DetectionRate     float64           `json:"detection_rate"`
	ThreatBreakdown   LevelBreakdown    `json:"threat_breakdown"`
	SeverityBreakdown SeverityBreakdown `json:"severity_breakdown"`
	RecentActivity    []core.ScanRecord `json:"recent_activity"`
}

// HourlyBucket counts stored scans whose timestamp falls in one hour of the day
type HourlyBucket struct {
	Hour    int `json:"hour"`
	Scans   int `json:"scans"`
	Threats int `json:"threats"`
}

// KeywordCount is how often a keyword appears across stored records
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// ActivityStats feeds the activity charts
type ActivityStats struct {
	HourlyActivity   []HourlyBucket `json:"hourly_activity"`
	TopKeywords      []KeywordCount `json:"top_keywords"`
	TotalScans       int            `json:"total_scans"`
	ThreatPercentage float64        `json:"threat_percentage"`
}

// ThreatTypeCounts counts flagged records per reporting category
type ThreatTypeCounts struct {
	Cyberbullying int `json:"cyberbullying"`
	HateSpeech    int `json:"hate_speech"`
	Threats       int `json:"threats"`
	Profanity     int `json:"profanity"`
}

// ThreatSummary is the scan summary with a per-category breakdown
type ThreatSummary struct {
	ScanSummary
	ThreatBreakdown  ThreatTypeCounts `json:"threat_breakdown"`
	AverageRiskScore float64          `json:"average_risk_score"`
}
