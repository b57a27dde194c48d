// Package scaler applies the pre-fit per-feature normalization used by the
// difficulty classifier.
package scaler

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"

	"github.com/goccy/go-json"
	"github.com/okian/pathwise/internal/domain/model"
)

// Epsilon is the floor applied to every scale value at use.
const Epsilon = 1e-8

// Vector is one feature vector in the fixed feature order.
type Vector = [model.NumFeatures]float64

// State is the persisted scaler artifact.
type State struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Scaler normalizes raw feature vectors. It is immutable once built.
type Scaler struct {
	mean     Vector
	scale    Vector
	fallback bool
}

// Identity returns a scaler that leaves vectors unchanged.
func Identity() *Scaler {
	s := &Scaler{}
	for i := range s.scale {
		s.scale[i] = 1
	}
	return s
}

// New builds a scaler from a state, validating lengths and finiteness.
func New(st State) (*Scaler, error) {
	if len(st.Mean) != model.NumFeatures || len(st.Scale) != model.NumFeatures {
		return nil, fmt.Errorf("%w: want %d means and scales, got %d and %d",
			ErrInvalidState, model.NumFeatures, len(st.Mean), len(st.Scale))
	}
	s := &Scaler{}
	for i := 0; i < model.NumFeatures; i++ {
		m, sc := st.Mean[i], st.Scale[i]
		if math.IsNaN(m) || math.IsInf(m, 0) || math.IsNaN(sc) || math.IsInf(sc, 0) {
			return nil, fmt.Errorf("%w: non-finite value for %s", ErrInvalidState, model.FeatureNames[i])
		}
		s.mean[i] = m
		s.scale[i] = sc
	}
	return s, nil
}

// Load reads a scaler artifact. A missing file yields ErrMissingArtifact.
func Load(path string) (*Scaler, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrMissingArtifact, err)
		}
		return nil, fmt.Errorf("scaler: %w", err)
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidState, err)
	}
	return New(st)
}

// LoadOrIdentity reads a scaler artifact, falling back to the identity
// scaler when the file does not exist. Malformed artifacts are still errors.
func LoadOrIdentity(path string) (*Scaler, error) {
	s, err := Load(path)
	if errors.Is(err, ErrMissingArtifact) {
		id := Identity()
		id.fallback = true
		return id, nil
	}
	return s, err
}

// Normalize returns (raw - mean) / max(scale, Epsilon) per feature.
func (s *Scaler) Normalize(raw Vector) Vector {
	var out Vector
	for i, v := range raw {
		out[i] = (v - s.mean[i]) / math.Max(s.scale[i], Epsilon)
	}
	return out
}

// Fallback reports whether this is the identity scaler substituted for a
// missing artifact.
func (s *Scaler) Fallback() bool { return s.fallback }

// State returns a copy of the scaler parameters.
func (s *Scaler) State() State {
	return State{
		Mean:  append([]float64(nil), s.mean[:]...),
		Scale: append([]float64(nil), s.scale[:]...),
	}
}

// Save writes the scaler parameters as a JSON artifact.
func (s *Scaler) Save(path string) error {
	data, err := json.MarshalIndent(s.State(), "", "  ")
	if err != nil {
		return fmt.Errorf("scaler: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("scaler: write: %w", err)
	}
	return nil
}
