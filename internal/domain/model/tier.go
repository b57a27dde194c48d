// Package model contains domain models passed between layers.
package model

// Tier is the predicted curriculum difficulty class.
type Tier int

// Difficulty tiers in their total order.
const (
	Beginner Tier = iota
	Intermediate
	Advanced
)

// NumTiers is the number of difficulty classes produced by the classifier.
const NumTiers = 3

var tierLabels = [NumTiers]string{"beginner", "intermediate", "advanced"}

// ClampTier coerces any integer into the valid tier range.
func ClampTier(v int) Tier {
	switch {
	case v < int(Beginner):
		return Beginner
	case v > int(Advanced):
		return Advanced
	default:
		return Tier(v)
	}
}

// String returns the tier label. Out-of-range values are clamped first.
func (t Tier) String() string {
	return tierLabels[ClampTier(int(t))]
}

// Valid reports whether t is one of the three tiers.
func (t Tier) Valid() bool {
	return t >= Beginner && t <= Advanced
}

// Level is a coarse intensity bucket used by roadmap settings.
type Level string

// Intensity levels.
const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)
