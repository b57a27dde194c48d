// Package training generates the synthetic learner dataset and fits the
// difficulty classifier and its feature scaler.
package training

import (
	"math"
	"math/rand"

	"github.com/okian/pathwise/internal/domain/model"
)

// Composite score weights and tier thresholds used to label samples.
const (
	WeightEngagement  = 0.28
	WeightVelocity    = 0.26
	WeightMastery     = 0.26
	WeightCredibility = 0.12
	WeightExperience  = 0.08
	ExperienceSpan    = 40.0

	IntermediateThreshold = 35.0
	AdvancedThreshold     = 65.0

	noiseStdDev = 8.0
)

// Sample is one labelled training example.
type Sample struct {
	X [model.NumFeatures]float64
	Y model.Tier
}

// CompositeScore is the noiseless difficulty score of a feature vector.
func CompositeScore(x [model.NumFeatures]float64) float64 {
	return WeightEngagement*x[0] +
		WeightVelocity*x[1] +
		WeightMastery*x[2] +
		WeightCredibility*x[3] +
		WeightExperience*ExperienceSpan*x[4]
}

// LabelFor maps a composite score to its tier.
func LabelFor(score float64) model.Tier {
	switch {
	case score >= AdvancedThreshold:
		return model.Advanced
	case score >= IntermediateThreshold:
		return model.Intermediate
	default:
		return model.Beginner
	}
}

// Generate draws n samples with uniform metrics, a uniform experience
// level and Gaussian label noise. The same seed yields the same dataset.
func Generate(n int, seed int64) []Sample {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // reproducible synthetic data
	out := make([]Sample, n)
	for i := range out {
		x := [model.NumFeatures]float64{
			rng.Float64() * model.MaxMetric,
			rng.Float64() * model.MaxMetric,
			rng.Float64() * model.MaxMetric,
			rng.Float64() * model.MaxMetric,
			float64(rng.Intn(model.MaxExperienceLevel + 1)),
		}
		score := CompositeScore(x) + rng.NormFloat64()*noiseStdDev
		score = math.Max(model.MinMetric, math.Min(model.MaxMetric, score))
		out[i] = Sample{X: x, Y: LabelFor(score)}
	}
	return out
}

// Split holds out valRatio of samples for validation, stratified by tier so
// both halves keep the dataset's class balance. The same seed yields the
// same split.
func Split(samples []Sample, valRatio float64, seed int64) (train, val []Sample) {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // reproducible split

	nVal := int(math.Round(float64(len(samples)) * valRatio))
	if nVal >= len(samples) {
		nVal = len(samples) - 1
	}
	if nVal <= 0 {
		out := append([]Sample(nil), samples...)
		rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
		return out, nil
	}

	var groups [model.NumTiers][]Sample
	for _, s := range samples {
		groups[s.Y] = append(groups[s.Y], s)
	}

	// Largest remainder keeps the per-tier quotas summing to nVal.
	var quota [model.NumTiers]int
	var frac [model.NumTiers]float64
	taken := 0
	for c, g := range groups {
		exact := float64(len(g)) * float64(nVal) / float64(len(samples))
		quota[c] = int(exact)
		frac[c] = exact - float64(quota[c])
		taken += quota[c]
	}
	for ; taken < nVal; taken++ {
		best := -1
		for c := range groups {
			if quota[c] < len(groups[c]) && (best < 0 || frac[c] > frac[best]) {
				best = c
			}
		}
		quota[best]++
		frac[best] = -1
	}

	for c, g := range groups {
		rng.Shuffle(len(g), func(i, j int) { g[i], g[j] = g[j], g[i] })
		val = append(val, g[:quota[c]]...)
		train = append(train, g[quota[c]:]...)
	}
	rng.Shuffle(len(train), func(i, j int) { train[i], train[j] = train[j], train[i] })
	rng.Shuffle(len(val), func(i, j int) { val[i], val[j] = val[j], val[i] })
	return train, val
}
