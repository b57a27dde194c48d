package loadgen

import (
	"math/rand/v2"

	"github.com/okian/pathwise/internal/domain/model"
)

// profile is a band of metric values typical of one kind of learner.
type profile struct {
	min, span  float64
	experience [2]int // inclusive range
}

// Performer profiles, weighted towards the middle of the distribution.
var profiles = []profile{
	{min: 5, span: 25, experience: [2]int{0, 0}},
	{min: 35, span: 30, experience: [2]int{0, 1}},
	{min: 40, span: 25, experience: [2]int{1, 1}},
	{min: 65, span: 20, experience: [2]int{1, 2}},
	{min: 85, span: 15, experience: [2]int{2, 2}},
	{min: 0, span: 100, experience: [2]int{0, 2}},
}

// Generator produces reproducible metric vectors.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator seeded with seed.
func NewGenerator(seed uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Next returns one metric vector drawn from a random profile. Values stay
// within the accepted ranges.
func (g *Generator) Next() model.MetricVector {
	p := profiles[g.rng.IntN(len(profiles))]
	draw := func() float64 {
		return clamp(p.min + g.rng.Float64()*p.span)
	}
	lo, hi := p.experience[0], p.experience[1]
	return model.MetricVector{
		Engagement:      draw(),
		Velocity:        draw(),
		Mastery:         draw(),
		Credibility:     draw(),
		ExperienceLevel: lo + g.rng.IntN(hi-lo+1),
	}
}

// Batch returns n metric vectors.
func (g *Generator) Batch(n int) []model.MetricVector {
	out := make([]model.MetricVector, n)
	for i := range out {
		out[i] = g.Next()
	}
	return out
}

func clamp(v float64) float64 {
	switch {
	case v < model.MinMetric:
		return model.MinMetric
	case v > model.MaxMetric:
		return model.MaxMetric
	default:
		return v
	}
}
