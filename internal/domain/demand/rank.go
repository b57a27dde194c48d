package demand

import (
	"sort"

	"github.com/okian/pathwise/internal/domain/types"
	"github.com/okian/pathwise/internal/errkind"
)

// DefaultTopN is the ranking size used when callers have no preference.
const DefaultTopN = 50

// Rank scores each skill as its share of the total weight, sorts by score
// descending with ties kept in first-seen order, and returns at most topN
// entries ranked 1..k. topN must be positive.
func Rank(freq *Frequency, topN int) ([]types.SkillRank, error) {
	if topN <= 0 {
		return nil, errkind.WrapKind("demand.rank", errkind.ErrInvalidInput, ErrInvalidTopN)
	}
	if freq == nil || freq.Len() == 0 || freq.Total() <= 0 {
		return []types.SkillRank{}, nil
	}

	skills := freq.Skills()
	total := freq.Total()
	sort.SliceStable(skills, func(i, j int) bool {
		return freq.Weight(skills[i]) > freq.Weight(skills[j])
	})
	if len(skills) > topN {
		skills = skills[:topN]
	}

	out := make([]types.SkillRank, len(skills))
	for i, s := range skills {
		out[i] = types.SkillRank{
			Skill:       s,
			DemandScore: freq.Weight(s) / total,
			Rank:        i + 1,
		}
	}
	return out, nil
}
