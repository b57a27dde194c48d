package demand

// Frequency accumulates skill mentions in first-seen order. Each mention
// carries a weight; without decay every weight is 1.
type Frequency struct {
	order   []string
	counts  map[string]int
	weights map[string]float64
	total   float64
}

// NewFrequency returns an empty accumulator.
func NewFrequency() *Frequency {
	return &Frequency{
		counts:  make(map[string]int),
		weights: make(map[string]float64),
	}
}

// Add records one mention of skill with the given weight.
func (f *Frequency) Add(skill string, weight float64) {
	if _, ok := f.counts[skill]; !ok {
		f.order = append(f.order, skill)
	}
	f.counts[skill]++
	f.weights[skill] += weight
	f.total += weight
}

// Count returns the number of mentions of skill.
func (f *Frequency) Count(skill string) int { return f.counts[skill] }

// Weight returns the accumulated weight of skill.
func (f *Frequency) Weight(skill string) float64 { return f.weights[skill] }

// Skills returns the skills in first-seen order.
func (f *Frequency) Skills() []string { return append([]string(nil), f.order...) }

// Total returns the sum of all mention weights.
func (f *Frequency) Total() float64 { return f.total }

// Len returns the number of distinct skills.
func (f *Frequency) Len() int { return len(f.order) }

// Counts returns a copy of the raw mention counts.
func (f *Frequency) Counts() map[string]int {
	out := make(map[string]int, len(f.counts))
	for k, v := range f.counts {
		out[k] = v
	}
	return out
}
