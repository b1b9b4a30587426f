// Package classifier implements the tiered keyword harassment classifier.
package classifier

import (
	"strings"

	"github.com/mikey/deepguard/internal/core"
	"github.com/mikey/deepguard/internal/lexicon"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type tierOutcome struct {
	score    float64
	level    core.ThreatLevel
	severity core.Severity
}

var outcomes = map[lexicon.Tier]tierOutcome{
	lexicon.TierHigh:      {0.85, core.ThreatHigh, core.SeverityCritical},
	lexicon.TierMedium:    {0.65, core.ThreatMedium, core.SeverityHigh},
	lexicon.TierLow:       {0.40, core.ThreatLow, core.SeverityMedium},
	lexicon.TierProfanity: {0.30, core.ThreatLow, core.SeverityLow},
}

var baseline = tierOutcome{0.05, core.ThreatNone, core.SeverityNone}

// KeywordClassifier scores text by the highest lexicon tier it hits
type KeywordClassifier struct {
	lex *lexicon.Lexicon
}

// NewKeywordClassifier creates a classifier over the given lexicon
func NewKeywordClassifier(lex *lexicon.Lexicon) *KeywordClassifier {
	return &KeywordClassifier{lex: lex}
}

// Classify implements core.Classifier
func (c *KeywordClassifier) Classify(text string) core.Verdict {
	// cases.Caser is stateful, so each call gets its own
	lowered := cases.Lower(language.Und).String(text)

	outcome := baseline
	decided := false
	keywords := []string{}

	for _, tier := range lexicon.Tiers {
		matches := matchTerms(lowered, c.lex.Terms(tier))
		if len(matches) == 0 {
			continue
		}
		if !decided {
			outcome = outcomes[tier]
			decided = true
		}
		keywords = append(keywords, matches...)
	}

	isHarassment := outcome.score > core.HarassmentThreshold
	confidence := outcome.score
	if !isHarassment {
		confidence = 1.0 - outcome.score
	}

	return core.Verdict{
		ToxicScore:      outcome.score,
		IsHarassment:    isHarassment,
		ThreatLevel:     outcome.level,
		Severity:        outcome.severity,
		Confidence:      confidence,
		MatchedKeywords: keywords,
	}
}

// matchTerms returns every term contained in text, once each, in term order
func matchTerms(text string, terms []string) []string {
	var matches []string
	for _, term := range terms {
		if strings.Contains(text, term) {
			matches = append(matches, term)
		}
	}
	return matches
}
