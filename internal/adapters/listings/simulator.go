package listings

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/pathwise/internal/domain/model"
)

const simulatorSource = "simulator"

// Simulator defaults.
const (
	DefaultSimulatorSeed = 42
	minSkillsPerListing  = 2
	maxSkillsPerListing  = 6
	maxListingAgeDays    = 60
)

// DefaultSkillPool is the vocabulary the simulator draws skills from.
var DefaultSkillPool = []string{
	"python", "javascript", "react", "node.js", "sql", "aws", "docker",
	"kubernetes", "machine learning", "data analysis", "rest api", "graphql",
	"typescript", "java", "go", "rust", "postgresql", "mongodb", "redis",
	"ci/cd", "terraform", "system design", "algorithms", "communication",
	"leadership", "agile", "scrum", "testing", "security", "devops",
}

// SimulatorOption configures a Simulator.
type SimulatorOption func(*Simulator)

// WithSeed seeds the simulator's generator.
func WithSeed(seed int64) SimulatorOption {
	return func(s *Simulator) { s.seed = seed }
}

// WithSkillPool replaces the skill vocabulary. Pools smaller than the
// maximum skills per listing are ignored.
func WithSkillPool(pool []string) SimulatorOption {
	return func(s *Simulator) {
		if len(pool) >= maxSkillsPerListing {
			s.pool = append([]string(nil), pool...)
		}
	}
}

// WithSimulatorClock overrides the reference time for posting dates.
func WithSimulatorClock(now func() time.Time) SimulatorOption {
	return func(s *Simulator) {
		if now != nil {
			s.now = now
		}
	}
}

// Simulator generates plausible listings locally. It never fails unless
// ctx is done.
type Simulator struct {
	mu   sync.Mutex
	rng  *rand.Rand
	seed int64
	pool []string
	now  func() time.Time
}

// NewSimulator creates a simulator with configuration options.
func NewSimulator(opts ...SimulatorOption) *Simulator {
	s := &Simulator{
		seed: DefaultSimulatorSeed,
		pool: DefaultSkillPool,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.rng = rand.New(rand.NewSource(s.seed)) //nolint:gosec // reproducible simulated data
	return s
}

// Fetch implements Source.
func (s *Simulator) Fetch(ctx context.Context, limit int) ([]model.JobListing, error) {
	start := time.Now()
	out, err := s.generate(ctx, limit)
	recordFetch(simulatorSource, start, len(out), err)
	return out, err
}

func (s *Simulator) generate(ctx context.Context, limit int) ([]model.JobListing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []model.JobListing{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	base := s.now().UTC()
	out := make([]model.JobListing, limit)
	for i := range out {
		n := minSkillsPerListing + s.rng.Intn(maxSkillsPerListing-minSkillsPerListing+1)
		skills := make(model.SkillList, 0, n)
		for _, idx := range s.rng.Perm(len(s.pool))[:n] {
			skills = append(skills, s.pool[idx])
		}
		id, err := uuid.NewRandomFromReader(s.rng)
		if err != nil {
			return nil, fmt.Errorf("simulator: listing id: %w", err)
		}
		out[i] = model.JobListing{
			ID:          id.String(),
			Title:       fmt.Sprintf("Software Role %d", i),
			Description: strings.Join(skills, " "),
			Skills:      skills,
			PostedAt:    base.AddDate(0, 0, -s.rng.Intn(maxListingAgeDays+1)),
		}
	}
	return out, nil
}
