package roadmap_test

import (
	"testing"

	"github.com/okian/pathwise/internal/domain/model"
	"github.com/okian/pathwise/internal/domain/roadmap"
	"github.com/okian/pathwise/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBuild(t *testing.T) {
	Convey("Given the tier table", t, func() {
		Convey("When building an intermediate backend roadmap", func() {
			cfg := roadmap.Build(1, "backend", nil)

			Convey("Then the medium settings apply", func() {
				So(cfg.RoadmapDifficulty, ShouldEqual, model.Intermediate)
				So(cfg.DifficultyLabel, ShouldEqual, "intermediate")
				So(cfg.QuizFrequency, ShouldEqual, model.LevelMedium)
				So(cfg.QuizFrequencyValue, ShouldEqual, 0.50)
				So(cfg.ProjectComplexity, ShouldEqual, model.LevelMedium)
				So(cfg.ProjectComplexityValue, ShouldEqual, 0.50)
				So(cfg.PeerReviewWeight, ShouldEqual, 0.25)
				So(cfg.SuggestedPaceDays, ShouldEqual, 3)
				So(cfg.HintLevel, ShouldEqual, model.LevelMedium)
				So(cfg.Topic, ShouldEqual, "backend")
				So(cfg.SkillPriority, ShouldNotBeNil)
				So(cfg.SkillPriority, ShouldBeEmpty)
				So(cfg.MarketDriven(), ShouldBeFalse)
			})
		})

		Convey("When building each tier", func() {
			cases := []struct {
				tier  int
				quiz  model.Level
				proj  float64
				peer  float64
				pace  int
				hint  model.Level
				label string
			}{
				{0, model.LevelLow, 0.25, 0.15, 5, model.LevelHigh, "beginner"},
				{1, model.LevelMedium, 0.50, 0.25, 3, model.LevelMedium, "intermediate"},
				{2, model.LevelHigh, 0.85, 0.35, 2, model.LevelLow, "advanced"},
			}
			for _, c := range cases {
				cfg := roadmap.Build(c.tier, "", nil)
				So(cfg.QuizFrequency, ShouldEqual, c.quiz)
				So(cfg.ProjectComplexityValue, ShouldEqual, c.proj)
				So(cfg.PeerReviewWeight, ShouldEqual, c.peer)
				So(cfg.SuggestedPaceDays, ShouldEqual, c.pace)
				So(cfg.HintLevel, ShouldEqual, c.hint)
				So(cfg.DifficultyLabel, ShouldEqual, c.label)
			}
		})

		Convey("When the tier is out of range", func() {
			So(roadmap.Build(-1, "x", nil), ShouldResemble, roadmap.Build(0, "x", nil))
			So(roadmap.Build(5, "x", nil), ShouldResemble, roadmap.Build(2, "x", nil))
		})

		Convey("When the topic is blank", func() {
			So(roadmap.Build(0, "", nil).Topic, ShouldEqual, "")
			So(roadmap.Build(0, "   ", nil).Topic, ShouldEqual, "")
		})

		Convey("When building the same input twice", func() {
			skills := []types.SkillRank{{Skill: "go", DemandScore: 1, Rank: 1}}
			So(roadmap.Build(2, "cloud", skills), ShouldResemble, roadmap.Build(2, "cloud", skills))
		})

		Convey("When skills are supplied", func() {
			skills := []types.SkillRank{
				{Skill: "python", DemandScore: 0.6, Rank: 1},
				{Skill: "sql", DemandScore: 0.4, Rank: 2},
			}
			cfg := roadmap.Build(1, "", skills)

			Convey("Then they are copied rather than aliased", func() {
				So(cfg.SkillPriority, ShouldResemble, skills)
				skills[0].Skill = "mutated"
				So(cfg.SkillPriority[0].Skill, ShouldEqual, "python")
			})
		})
	})
}
