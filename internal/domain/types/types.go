// Package types contains common types used across the application
package types

// SkillRank is one entry of a skill demand ranking.
type SkillRank struct {
	Skill       string  `json:"skill"`
	DemandScore float64 `json:"demand_score"`
	Rank        int     `json:"rank"`
}
