// Package roadmap derives a learning-path configuration from a difficulty tier.
package roadmap

import (
	"strings"

	"github.com/okian/pathwise/internal/domain/model"
	"github.com/okian/pathwise/internal/domain/types"
)

// settings is one row of the tier table.
type settings struct {
	quiz       model.Level
	quizWeight float64
	project    model.Level
	projWeight float64
	peerReview float64
	paceDays   int
	hint       model.Level
}

var table = [model.NumTiers]settings{
	model.Beginner:     {model.LevelLow, 0.30, model.LevelLow, 0.25, 0.15, 5, model.LevelHigh},
	model.Intermediate: {model.LevelMedium, 0.50, model.LevelMedium, 0.50, 0.25, 3, model.LevelMedium},
	model.Advanced:     {model.LevelHigh, 0.80, model.LevelHigh, 0.85, 0.35, 2, model.LevelLow},
}

// Build returns the configuration for tier. Out-of-range tiers are clamped.
// A blank topic is omitted and skills are copied; a nil skills slice yields
// an empty priority list.
func Build(tier int, topic string, skills []types.SkillRank) model.RoadmapConfig {
	t := model.ClampTier(tier)
	row := table[t]

	priority := make([]types.SkillRank, len(skills))
	copy(priority, skills)

	cfg := model.RoadmapConfig{
		RoadmapDifficulty:      t,
		DifficultyLabel:        t.String(),
		QuizFrequency:          row.quiz,
		QuizFrequencyValue:     row.quizWeight,
		ProjectComplexity:      row.project,
		ProjectComplexityValue: row.projWeight,
		PeerReviewWeight:       row.peerReview,
		SuggestedPaceDays:      row.paceDays,
		HintLevel:              row.hint,
		SkillPriority:          priority,
	}
	if topic = strings.TrimSpace(topic); topic != "" {
		cfg.Topic = topic
	}
	return cfg
}
