package model

import (
	"fmt"
	"math"
)

// NumFeatures is the width of the classifier input vector.
const NumFeatures = 5

// Metric bounds accepted by the classifier.
const (
	MinMetric          = 0.0
	MaxMetric          = 100.0
	MinExperienceLevel = 0
	MaxExperienceLevel = 2
)

// FeatureNames lists the classifier inputs in artifact order.
var FeatureNames = [NumFeatures]string{"engagement", "velocity", "mastery", "credibility", "experience_level"}

// MetricVector holds the behavioural metrics of one learner.
type MetricVector struct {
	Engagement      float64 `json:"engagement"`
	Velocity        float64 `json:"velocity"`
	Mastery         float64 `json:"mastery"`
	Credibility     float64 `json:"credibility"`
	ExperienceLevel int     `json:"experience_level"`
}

// Features returns the vector in the fixed feature order.
func (m MetricVector) Features() [NumFeatures]float64 {
	return [NumFeatures]float64{
		m.Engagement,
		m.Velocity,
		m.Mastery,
		m.Credibility,
		float64(m.ExperienceLevel),
	}
}

// Validate checks every metric against its accepted range.
func (m MetricVector) Validate() error {
	scores := [...]struct {
		name string
		v    float64
	}{
		{"engagement", m.Engagement},
		{"velocity", m.Velocity},
		{"mastery", m.Mastery},
		{"credibility", m.Credibility},
	}
	for _, s := range scores {
		if math.IsNaN(s.v) || s.v < MinMetric || s.v > MaxMetric {
			return fmt.Errorf("%s must be within [%g, %g], got %v", s.name, MinMetric, MaxMetric, s.v)
		}
	}
	if m.ExperienceLevel < MinExperienceLevel || m.ExperienceLevel > MaxExperienceLevel {
		return fmt.Errorf("experience_level must be within [%d, %d], got %d",
			MinExperienceLevel, MaxExperienceLevel, m.ExperienceLevel)
	}
	return nil
}
