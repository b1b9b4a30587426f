// Package analytics derives dashboard views from the scan ledger.
//
// Every query takes one snapshot of the ledger and recomputes from it; nothing
// is cached between calls. Ratios divide by max(total, 1), so an empty ledger
// reads as fully safe instead of failing.
package analytics

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mikey/deepguard/internal/core"
	"github.com/mikey/deepguard/internal/history"
	"github.com/mikey/deepguard/internal/lexicon"
)

const (
	dailyLimit          = 7
	weeklyTrendEntries  = 4
	monthlyLimit        = 12
	recentActivityLimit = 10
	topKeywordsLimit    = 10
	hoursPerDay         = 24
)

// Source provides consistent ledger snapshots
type Source interface {
	Snapshot() history.Snapshot
}

// Aggregator answers analytics queries over a ledger
type Aggregator struct {
	source Source
	lex    *lexicon.Lexicon
	now    func() time.Time
}

// Option configures an Aggregator
type Option func(*Aggregator)

// WithClock overrides the clock used for query-time timestamps
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

// NewAggregator creates an aggregator reading from source
func NewAggregator(source Source, lex *lexicon.Lexicon, opts ...Option) *Aggregator {
	a := &Aggregator{source: source, lex: lex, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Dashboard returns user stats, daily stats, weekly trend and scan summary
// computed from a single snapshot
func (a *Aggregator) Dashboard() Dashboard {
	snap := a.source.Snapshot()
	return Dashboard{
		UserStats:   userStats(snap),
		DailyStats:  dailyStats(snap),
		WeeklyTrend: weeklyTrend(snap),
		ScanSummary: a.scanSummary(snap),
	}
}

// UserStats returns the headline counters
func (a *Aggregator) UserStats() UserStats {
	return userStats(a.source.Snapshot())
}

// DailyStats returns per-date counts for the most recent dates in the history
func (a *Aggregator) DailyStats() []DailyStat {
	return dailyStats(a.source.Snapshot())
}

// WeeklyTrend returns four entries that all carry the global threat ratio
func (a *Aggregator) WeeklyTrend() []TrendPoint {
	return weeklyTrend(a.source.Snapshot())
}

// ScanSummary returns the safe/harmful split stamped with the query time
func (a *Aggregator) ScanSummary() ScanSummary {
	return a.scanSummary(a.source.Snapshot())
}

// Overview returns totals, level and severity breakdowns and recent records
func (a *Aggregator) Overview() Overview {
	snap := a.source.Snapshot()
	safe := snap.TotalScans - snap.ThreatsDetected

	o := Overview{
		TotalScans:      snap.TotalScans,
		ThreatsDetected: snap.ThreatsDetected,
		ThreatsBlocked:  snap.ThreatsDetected,
		SafeMessages:    safe,
		DetectionRate:   threatRatio(snap.Counters),
	}

	for _, r := range snap.Records {
		switch r.ThreatLevel {
		case core.ThreatHigh:
			o.ThreatBreakdown.High++
		case core.ThreatMedium:
			o.ThreatBreakdown.Medium++
		case core.ThreatLow:
			o.ThreatBreakdown.Low++
		}
		switch r.Severity {
		case core.SeverityCritical:
			o.SeverityBreakdown.Critical++
		case core.SeverityHigh:
			o.SeverityBreakdown.High++
		case core.SeverityMedium:
			o.SeverityBreakdown.Medium++
		case core.SeverityLow:
			o.SeverityBreakdown.Low++
		}
	}

	n := min(len(snap.Records), recentActivityLimit)
	o.RecentActivity = append([]core.ScanRecord{}, snap.Records[:n]...)
	return o
}

// ActivityStats returns hourly activity and the most frequent keywords
func (a *Aggregator) ActivityStats() ActivityStats {
	snap := a.source.Snapshot()
	return ActivityStats{
		HourlyActivity:   hourlyActivity(snap),
		TopKeywords:      topKeywords(snap),
		TotalScans:       snap.TotalScans,
		ThreatPercentage: threatRatio(snap.Counters),
	}
}

// HourlyActivity returns 24 hour-of-day buckets
func (a *Aggregator) HourlyActivity() []HourlyBucket {
	return hourlyActivity(a.source.Snapshot())
}

// TopKeywords returns the most frequent matched keywords
func (a *Aggregator) TopKeywords() []KeywordCount {
	return topKeywords(a.source.Snapshot())
}

// MonthlyTrend returns the threat ratio per YYYY-MM present in the history
func (a *Aggregator) MonthlyTrend() []TrendPoint {
	snap := a.source.Snapshot()

	type group struct {
		scans, threats int
	}
	groups := make(map[string]*group)
	for _, r := range snap.Records {
		key := monthKey(r.Timestamp)
		g, ok := groups[key]
		if !ok {
			g = &group{}
			groups[key] = g
		}
		g.scans++
		if r.IsHarassment {
			g.threats++
		}
	}

	trend := make([]TrendPoint, 0, len(groups))
	for key, g := range groups {
		trend = append(trend, TrendPoint{
			Week:         key,
			RiskLevel:    round1(percent(g.threats, g.scans)),
			TotalThreats: g.threats,
		})
	}
	sort.Slice(trend, func(i, j int) bool { return trend[i].Week > trend[j].Week })

	if len(trend) > monthlyLimit {
		trend = trend[:monthlyLimit]
	}
	return trend
}

// ThreatSummary returns the scan summary with flagged records split by category
func (a *Aggregator) ThreatSummary() ThreatSummary {
	snap := a.source.Snapshot()
	summary := ThreatSummary{ScanSummary: a.scanSummary(snap)}

	riskTotal := 0
	for _, r := range snap.Records {
		riskTotal += r.RiskScore
		if !r.IsHarassment {
			continue
		}
		switch a.lex.Categorize(r.Keywords) {
		case lexicon.ThreatTypeThreats:
			summary.ThreatBreakdown.Threats++
		case lexicon.ThreatTypeHateSpeech:
			summary.ThreatBreakdown.HateSpeech++
		case lexicon.ThreatTypeProfanity:
			summary.ThreatBreakdown.Profanity++
		default:
			summary.ThreatBreakdown.Cyberbullying++
		}
	}
	summary.AverageRiskScore = round1(float64(riskTotal) / float64(max(len(snap.Records), 1)))

	return summary
}

func userStats(snap history.Snapshot) UserStats {
	stats := UserStats{
		TotalScans:         snap.TotalScans,
		HarassmentDetected: snap.ThreatsDetected,
		SafetyScore:        SafetyScore(snap.Counters),
	}
	if len(snap.Records) > 0 {
		last := snap.Records[0].Timestamp
		stats.LastScan = &last
	}
	return stats
}

func dailyStats(snap history.Snapshot) []DailyStat {
	byDate := make(map[string]*DailyStat)
	for _, r := range snap.Records {
		date := dateKey(r.Timestamp)
		d, ok := byDate[date]
		if !ok {
			d = &DailyStat{Date: date}
			byDate[date] = d
		}
		d.ScansCount++
		if r.IsHarassment {
			d.HarassmentCount++
		}
	}

	days := make([]DailyStat, 0, len(byDate))
	for _, d := range byDate {
		days = append(days, *d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date > days[j].Date })

	if len(days) > dailyLimit {
		days = days[:dailyLimit]
	}
	return days
}

func weeklyTrend(snap history.Snapshot) []TrendPoint {
	risk := threatRatio(snap.Counters)
	trend := make([]TrendPoint, weeklyTrendEntries)
	for i := range trend {
		trend[i] = TrendPoint{
			Week:         fmt.Sprintf("Week %d", i+1),
			RiskLevel:    risk,
			TotalThreats: snap.ThreatsDetected,
		}
	}
	return trend
}

func (a *Aggregator) scanSummary(snap history.Snapshot) ScanSummary {
	return ScanSummary{
		SafeFiles:    snap.TotalScans - snap.ThreatsDetected,
		HarmfulMedia: snap.ThreatsDetected,
		LastUpdated:  a.now().Format(core.TimestampLayout),
	}
}

func hourlyActivity(snap history.Snapshot) []HourlyBucket {
	buckets := make([]HourlyBucket, hoursPerDay)
	for i := range buckets {
		buckets[i].Hour = i
	}
	for _, r := range snap.Records {
		hour, ok := hourOf(r.Timestamp)
		if !ok {
			continue
		}
		buckets[hour].Scans++
		if r.IsHarassment {
			buckets[hour].Threats++
		}
	}
	return buckets
}

func topKeywords(snap history.Snapshot) []KeywordCount {
	counts := make(map[string]int)
	var order []string
	for _, r := range snap.Records {
		for _, k := range r.Keywords {
			if _, seen := counts[k]; !seen {
				order = append(order, k)
			}
			counts[k]++
		}
	}

	ranked := make([]KeywordCount, 0, len(order))
	for _, k := range order {
		ranked = append(ranked, KeywordCount{Keyword: k, Count: counts[k]})
	}
	// Stable keeps first-seen order among equal counts
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Count > ranked[j].Count })

	if len(ranked) > topKeywordsLimit {
		ranked = ranked[:topKeywordsLimit]
	}
	return ranked
}

// SafetyScore is the share of scans not flagged, as a percentage
func SafetyScore(c history.Counters) float64 {
	return round1((1 - float64(c.ThreatsDetected)/float64(max(c.TotalScans, 1))) * 100)
}

func threatRatio(c history.Counters) float64 {
	return round1(percent(c.ThreatsDetected, c.TotalScans))
}

func percent(part, total int) float64 {
	return float64(part) / float64(max(total, 1)) * 100
}

// round1 rounds the exact binary value to one decimal, ties to even
func round1(x float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 1, 64), 64)
	return r
}

// dateKey is everything before the time separator; no validation is done
func dateKey(ts string) string {
	date, _, _ := strings.Cut(ts, "T")
	return date
}

func monthKey(ts string) string {
	date := dateKey(ts)
	if len(date) > 7 {
		return date[:7]
	}
	return date
}

// hourOf extracts the hour from an ISO timestamp. Malformed values report false.
func hourOf(ts string) (int, bool) {
	_, clock, found := strings.Cut(ts, "T")
	if !found {
		return 0, false
	}
	h, _, _ := strings.Cut(clock, ":")
	hour, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil || hour < 0 || hour >= hoursPerDay {
		return 0, false
	}
	return hour, true
}
