package training

import "github.com/okian/pathwise/internal/domain/classifier"

// baselineGain sets how sharply the baseline separates neighbouring tiers.
const baselineGain = 0.2

// Baseline returns a hand-built network that reproduces the noiseless
// labelling rule on raw, unscaled metrics: the first hidden unit computes
// the composite score and the output layer compares it to the thresholds.
// Scores exactly on a threshold tie and resolve to the lower tier.
func Baseline() *classifier.Network {
	n := classifier.NewNetwork()

	copy(n.FC1.Weight[:n.FC1.In], []float64{
		WeightEngagement,
		WeightVelocity,
		WeightMastery,
		WeightCredibility,
		WeightExperience * ExperienceSpan,
	})
	n.FC2.Weight[0] = 1

	// logit1 - logit0 crosses zero at 35, logit2 - logit1 at 65.
	n.FC3.Weight[1*n.FC3.In] = baselineGain
	n.FC3.Bias[1] = -IntermediateThreshold * baselineGain
	n.FC3.Weight[2*n.FC3.In] = 2 * baselineGain
	n.FC3.Bias[2] = -(IntermediateThreshold + AdvancedThreshold) * baselineGain
	return n
}
