// Package lexicon holds the keyword lists used to score messages.
package lexicon

// Tier names a keyword list by the severity it signals
type Tier string

const (
	TierHigh      Tier = "high"
	TierMedium    Tier = "medium"
	TierLow       Tier = "low"
	TierProfanity Tier = "profanity"
)

// Tiers lists every tier in precedence order, highest first
var Tiers = []Tier{TierHigh, TierMedium, TierLow, TierProfanity}

// ThreatType is the category a flagged message is filed under in reports
type ThreatType string

const (
	ThreatTypeThreats       ThreatType = "threats"
	ThreatTypeHateSpeech    ThreatType = "hate_speech"
	ThreatTypeProfanity     ThreatType = "profanity"
	ThreatTypeCyberbullying ThreatType = "cyberbullying"
)

// Lexicon is an immutable set of lowercase terms per tier.
// Terms within a tier keep their declared order.
type Lexicon struct {
	terms map[Tier][]string

	// categories are checked in order; anything unmatched is cyberbullying
	categories []category
}

type category struct {
	threatType ThreatType
	terms      map[string]struct{}
}

var (
	defaultHigh      = []string{"kill", "murder", "die", "threat", "hurt", "harm"}
	defaultMedium    = []string{"hate", "stupid", "idiot", "loser", "pathetic"}
	defaultLow       = []string{"annoying", "weird", "dumb", "ugly"}
	defaultProfanity = []string{"fuck", "shit", "bitch", "ass", "damn"}

	// Reporting categories only cover the most unambiguous terms of each tier
	threatTerms     = []string{"kill", "murder", "die", "threat"}
	hateSpeechTerms = []string{"hate", "stupid", "idiot"}
	profanityTerms  = []string{"fuck", "shit", "bitch"}
)

// Default returns the built-in lexicon
func Default() *Lexicon {
	return New(map[Tier][]string{
		TierHigh:      defaultHigh,
		TierMedium:    defaultMedium,
		TierLow:       defaultLow,
		TierProfanity: defaultProfanity,
	})
}

// New builds a lexicon from per-tier term lists. The lists are copied and
// empty terms dropped.
func New(terms map[Tier][]string) *Lexicon {
	l := &Lexicon{terms: make(map[Tier][]string, len(Tiers))}
	for _, tier := range Tiers {
		for _, t := range terms[tier] {
			if t != "" {
				l.terms[tier] = append(l.terms[tier], t)
			}
		}
	}
	l.categories = []category{
		{threatType: ThreatTypeThreats, terms: toSet(threatTerms)},
		{threatType: ThreatTypeHateSpeech, terms: toSet(hateSpeechTerms)},
		{threatType: ThreatTypeProfanity, terms: toSet(profanityTerms)},
	}
	return l
}

// Terms returns the terms of a tier
func (l *Lexicon) Terms(tier Tier) []string {
	return l.terms[tier]
}

// Categorize files a set of matched keywords under a threat type
func (l *Lexicon) Categorize(keywords []string) ThreatType {
	for _, c := range l.categories {
		for _, k := range keywords {
			if _, ok := c.terms[k]; ok {
				return c.threatType
			}
		}
	}
	return ThreatTypeCyberbullying
}

func toSet(terms []string) map[string]struct{} {
	set := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		set[t] = struct{}{}
	}
	return set
}
