// Package classify scores submissions at intake: sentiment polarity, a spam
// heuristic, and keyword-based category detection. Everything here is a pure
// function of the content string — no I/O, no failure modes.
package classify

import (
	"strings"
	"unicode/utf8"

	"github.com/grassmudhorses/vader-go/lexicon"
	"github.com/grassmudhorses/vader-go/sentitext"
)

// Result holds the derived fields stored alongside a suggestion.
type Result struct {
	Sentiment    float64
	IsSpam       bool
	AutoCategory *string
}

// spamMinLength is the shortest content that is not automatically flagged.
const spamMinLength = 10

var spamKeywords = []string{
	"buy now",
	"free",
	"click here",
	"subscribe",
	"visit",
	"winner",
	"prize",
}

// categoryRule maps a content keyword to a suggested category label. The
// label is free text and may not match any seeded category name.
type categoryRule struct {
	Keyword string
	Label   string
}

// categoryRules is scanned in order; the first matching entry wins even when
// a later keyword appears earlier in the text.
var categoryRules = []categoryRule{
	{"library", "Library & Study Spaces"},
	{"book", "Library & Study Spaces"},
	{"parking", "Transportation & Parking"},
	{"bus", "Transportation & Parking"},
	{"food", "Cafeteria & Food"},
	{"canteen", "Cafeteria & Food"},
	{"classroom", "Classroom & Academic"},
	{"teacher", "Classroom & Academic"},
	{"maintenance", "Facilities & Maintenance"},
	{"clean", "Facilities & Maintenance"},
}

// Classify derives sentiment, a spam flag, and a suggested category from
// submission content. It never fails: empty content scores neutral
// sentiment, trips the length rule, and suggests no category.
func Classify(content string) Result {
	return Result{
		Sentiment:    Sentiment(content),
		IsSpam:       IsSpam(content),
		AutoCategory: AutoCategory(content),
	}
}

// Sentiment returns the VADER compound polarity in [-1, 1]; more positive
// language yields a higher score.
func Sentiment(content string) float64 {
	if strings.TrimSpace(content) == "" {
		return 0
	}
	parsed := sentitext.Parse(content, lexicon.DefaultLexicon)
	return sentitext.PolarityScore(parsed).Compound
}

// IsSpam flags content that is shorter than spamMinLength characters or
// contains any denylisted phrase. The length rule counts characters, not
// bytes. Matching is case-insensitive and the first hit short-circuits.
func IsSpam(content string) bool {
	if utf8.RuneCountInString(content) < spamMinLength {
		return true
	}
	lower := strings.ToLower(content)
	for _, keyword := range spamKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// AutoCategory returns the label of the first rule whose keyword occurs in
// the content, or nil when none match.
func AutoCategory(content string) *string {
	lower := strings.ToLower(content)
	for _, rule := range categoryRules {
		if strings.Contains(lower, rule.Keyword) {
			label := rule.Label
			return &label
		}
	}
	return nil
}
