package model

import (
	"time"

	"github.com/okian/pathwise/internal/domain/types"
)

// RoadmapConfig is the learning-path configuration derived from a tier.
type RoadmapConfig struct {
	RoadmapDifficulty      Tier              `json:"roadmap_difficulty"`
	DifficultyLabel        string            `json:"difficulty_label"`
	QuizFrequency          Level             `json:"quiz_frequency"`
	QuizFrequencyValue     float64           `json:"quiz_frequency_value"`
	ProjectComplexity      Level             `json:"project_complexity"`
	ProjectComplexityValue float64           `json:"project_complexity_value"`
	PeerReviewWeight       float64           `json:"peer_review_weight"`
	SuggestedPaceDays      int               `json:"suggested_pace_days_per_module"`
	HintLevel              Level             `json:"hint_level"`
	Topic                  string            `json:"topic,omitempty"`
	SkillPriority          []types.SkillRank `json:"skill_priority"`

	// Set only when market skills were folded in.
	MarketUpdatedAt         *time.Time `json:"market_updated_at,omitempty"`
	MarketDrivenSkillsCount *int       `json:"market_driven_skills_count,omitempty"`
}

// MarketDriven reports whether the config carries market-derived priorities.
func (c RoadmapConfig) MarketDriven() bool {
	return c.MarketUpdatedAt != nil
}
