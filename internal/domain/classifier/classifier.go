// Package classifier predicts a learner's difficulty tier with a small
// feed-forward network over normalized behavioural metrics.
package classifier

import (
	"context"
	"errors"
	"math"

	"github.com/okian/pathwise/internal/domain/model"
	"github.com/okian/pathwise/internal/domain/scaler"
	"github.com/okian/pathwise/internal/errkind"
)

// Prediction is the classifier output for one metric vector.
type Prediction struct {
	Tier          model.Tier
	Label         string
	Probabilities [model.NumTiers]float64
}

// Predictor abstracts difficulty prediction.
type Predictor interface {
	// Predict classifies m, honoring ctx for cancellation.
	Predict(ctx context.Context, m model.MetricVector) (Prediction, error)
}

// Classifier implements Predictor. It holds immutable state only and is
// safe for concurrent use.
type Classifier struct {
	net    *Network
	scaler *scaler.Scaler
}

// New creates a classifier over a validated network.
func New(net *Network, opts ...Option) (*Classifier, error) {
	const op = "classifier.new"
	if net == nil {
		return nil, errkind.NewKind(op, errkind.ErrModelUnavailable)
	}
	if err := net.Validate(); err != nil {
		return nil, errkind.Wrap(op, err)
	}
	c := &Classifier{net: net, scaler: scaler.Identity()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Predict validates m, normalizes it and runs the network.
func (c *Classifier) Predict(ctx context.Context, m model.MetricVector) (Prediction, error) {
	const op = "classifier.predict"
	if err := ctx.Err(); err != nil {
		return Prediction{}, errkind.Wrap(op, err)
	}
	if err := m.Validate(); err != nil {
		return Prediction{}, errkind.WrapKind(op, errkind.ErrInvalidInput, err)
	}

	logits := c.net.Logits(c.scaler.Normalize(m.Features()))
	probs := Softmax(logits)
	for _, p := range probs {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return Prediction{}, errkind.WrapKind(op, errkind.ErrInternal, ErrNonFinite)
		}
	}

	tier := model.Tier(Argmax(probs))
	return Prediction{
		Tier:          tier,
		Label:         tier.String(),
		Probabilities: probs,
	}, nil
}

// ScalerFallback reports whether the classifier runs on the identity scaler
// substituted for a missing artifact.
func (c *Classifier) ScalerFallback() bool {
	return c.scaler.Fallback()
}

// Load builds a classifier from artifact paths. When strictScaler is false a
// missing scaler artifact falls back to identity scaling; when true it is
// reported as errkind.ErrModelUnavailable.
func Load(modelPath, scalerPath string, strictScaler bool) (*Classifier, error) {
	const op = "classifier.load"
	net, err := LoadNetwork(modelPath)
	if err != nil {
		return nil, err
	}

	var s *scaler.Scaler
	if strictScaler {
		s, err = scaler.Load(scalerPath)
		if errors.Is(err, scaler.ErrMissingArtifact) {
			return nil, errkind.WrapKind(op, errkind.ErrModelUnavailable, err)
		}
	} else {
		s, err = scaler.LoadOrIdentity(scalerPath)
	}
	if err != nil {
		return nil, errkind.Wrap(op, err)
	}
	return New(net, WithScaler(s))
}
