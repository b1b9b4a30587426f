package classifier

import (
	"testing"

	"github.com/mikey/deepguard/internal/core"
	"github.com/mikey/deepguard/internal/lexicon"
	"github.com/stretchr/testify/assert"
)

func TestClassifyTiers(t *testing.T) {
	c := NewKeywordClassifier(lexicon.Default())

	tests := []struct {
		name       string
		text       string
		score      float64
		harassment bool
		level      core.ThreatLevel
		severity   core.Severity
		confidence float64
		keywords   []string
	}{
		{"high", "I will kill you", 0.85, true, core.ThreatHigh, core.SeverityCritical, 0.85, []string{"kill"}},
		{"medium", "you are such a loser", 0.65, true, core.ThreatMedium, core.SeverityHigh, 0.65, []string{"loser"}},
		{"low", "that hat is ugly", 0.40, true, core.ThreatLow, core.SeverityMedium, 0.40, []string{"ugly"}},
		{"profanity only", "damn it", 0.30, false, core.ThreatLow, core.SeverityLow, 0.70, []string{"damn"}},
		{"clean", "have a nice day", 0.05, false, core.ThreatNone, core.SeverityNone, 0.95, []string{}},
		{"empty", "", 0.05, false, core.ThreatNone, core.SeverityNone, 0.95, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := c.Classify(tt.text)
			assert.Equal(t, tt.score, v.ToxicScore)
			assert.Equal(t, tt.harassment, v.IsHarassment)
			assert.Equal(t, tt.level, v.ThreatLevel)
			assert.Equal(t, tt.severity, v.Severity)
			assert.InDelta(t, tt.confidence, v.Confidence, 1e-9)
			assert.Equal(t, tt.keywords, v.MatchedKeywords)
		})
	}
}

func TestClassifyHighestTierWinsAndKeywordsConcatenate(t *testing.T) {
	c := NewKeywordClassifier(lexicon.Default())

	v := c.Classify("You stupid idiot, I will hurt you")
	assert.Equal(t, 0.85, v.ToxicScore)
	assert.Equal(t, core.ThreatHigh, v.ThreatLevel)
	assert.Equal(t, core.SeverityCritical, v.Severity)
	assert.Equal(t, []string{"hurt", "stupid", "idiot"}, v.MatchedKeywords)
	assert.Equal(t, 85, v.RiskScore())
}

func TestClassifyIsCaseInsensitive(t *testing.T) {
	c := NewKeywordClassifier(lexicon.Default())

	v := c.Classify("YOU ARE AN IDIOT")
	assert.True(t, v.IsHarassment)
	assert.Equal(t, []string{"idiot"}, v.MatchedKeywords)
}

func TestClassifyMatchesSubstrings(t *testing.T) {
	c := NewKeywordClassifier(lexicon.Default())

	// "ass" is contained in "class"
	v := c.Classify("see you in class")
	assert.Equal(t, []string{"ass"}, v.MatchedKeywords)
	assert.False(t, v.IsHarassment)
	assert.Equal(t, core.SeverityLow, v.Severity)

	// "die" is contained in "studied"
	v = c.Classify("I studied all night")
	assert.Equal(t, core.ThreatHigh, v.ThreatLevel)
}

func TestClassifyTermsAppearOncePerTier(t *testing.T) {
	c := NewKeywordClassifier(lexicon.Default())

	v := c.Classify("hate hate hate")
	assert.Equal(t, []string{"hate"}, v.MatchedKeywords)
}

func TestClassifyCustomLexicon(t *testing.T) {
	lex := lexicon.New(map[lexicon.Tier][]string{
		lexicon.TierLow: {"meh", ""},
	})
	c := NewKeywordClassifier(lex)

	v := c.Classify("meh, idiot")
	assert.Equal(t, 0.40, v.ToxicScore)
	assert.Equal(t, []string{"meh"}, v.MatchedKeywords)
}

func TestClassifySentences(t *testing.T) {
	c := NewKeywordClassifier(lexicon.Default())

	v := c.Classify("you are so stupid and annoying")
	assert.Equal(t, core.Verdict{
		ToxicScore:      0.65,
		IsHarassment:    true,
		ThreatLevel:     core.ThreatMedium,
		Severity:        core.SeverityHigh,
		Confidence:      0.65,
		MatchedKeywords: []string{"stupid", "annoying"},
	}, v)

	v = c.Classify("have a nice day")
	assert.Equal(t, core.SeverityNone, v.Severity)
	assert.Equal(t, 0.05, v.ToxicScore)
	assert.False(t, v.IsHarassment)
	assert.Empty(t, v.MatchedKeywords)
}
