package demand

import (
	"math"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/okian/pathwise/internal/domain/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// minTokenRunes is the shortest free-text token, exclusive, that counts as a skill.
const minTokenRunes = 2

const hoursPerDay = 24

// Extract counts skill mentions across listings with weight 1 each.
func Extract(listings []model.JobListing) *Frequency {
	return extract(listings, func(model.JobListing) float64 { return 1 })
}

// ExtractWeighted counts mentions with exponential time decay: a listing
// posted ageDays before now contributes 0.5^(ageDays/halfLifeDays) per
// mention. Listings without a date or dated in the future weigh 1. A
// non-positive half-life disables decay.
func ExtractWeighted(listings []model.JobListing, now time.Time, halfLifeDays float64) *Frequency {
	if halfLifeDays <= 0 {
		return Extract(listings)
	}
	return extract(listings, func(l model.JobListing) float64 {
		return DecayWeight(l.PostedAt, now, halfLifeDays)
	})
}

// DecayWeight is the contribution of a listing posted at postedAt.
func DecayWeight(postedAt, now time.Time, halfLifeDays float64) float64 {
	if postedAt.IsZero() || !postedAt.Before(now) || halfLifeDays <= 0 {
		return 1
	}
	ageDays := now.Sub(postedAt).Hours() / hoursPerDay
	return math.Pow(0.5, ageDays/halfLifeDays)
}

func extract(listings []model.JobListing, weight func(model.JobListing) float64) *Frequency {
	// Casers are stateful; one per extraction keeps concurrent calls independent.
	lower := cases.Lower(language.Und)
	freq := NewFrequency()
	for _, l := range listings {
		w := weight(l)
		if l.HasSkills() {
			for _, s := range l.Skills {
				if tok := lower.String(strings.TrimSpace(s)); tok != "" {
					freq.Add(tok, w)
				}
			}
			continue
		}
		for _, tok := range freeTextTokens(l, lower) {
			freq.Add(tok, w)
		}
	}
	return freq
}

// freeTextTokens tokenizes the description, or the title when the
// description is empty, keeping alphabetic tokens longer than two runes.
func freeTextTokens(l model.JobListing, lower cases.Caser) []string {
	text := l.Description
	if strings.TrimSpace(text) == "" {
		text = l.Title
	}
	var out []string
	for _, field := range strings.Fields(strings.ReplaceAll(text, ",", " ")) {
		tok := lower.String(field)
		if utf8.RuneCountInString(tok) > minTokenRunes && isAlpha(tok) {
			out = append(out, tok)
		}
	}
	return out
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}
