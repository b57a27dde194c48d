package training

import "github.com/okian/pathwise/pkg/logger"

// Default hyperparameters.
const (
	DefaultSamples   = 2000
	DefaultEpochs    = 80
	DefaultBatchSize = 64
	DefaultLR        = 1e-3
	DefaultSeed      = 42
	DefaultValRatio  = 0.15
)

// Option applies a configuration option to the Trainer.
type Option func(*Trainer)

// WithEpochs sets the number of passes over the training split.
func WithEpochs(n int) Option {
	return func(t *Trainer) {
		if n > 0 {
			t.epochs = n
		}
	}
}

// WithBatchSize sets the mini-batch size.
func WithBatchSize(n int) Option {
	return func(t *Trainer) {
		if n > 0 {
			t.batchSize = n
		}
	}
}

// WithLearningRate sets the Adam step size.
func WithLearningRate(lr float64) Option {
	return func(t *Trainer) {
		if lr > 0 {
			t.lr = lr
		}
	}
}

// WithSeed sets the seed for initialization, splitting and shuffling.
func WithSeed(seed int64) Option {
	return func(t *Trainer) {
		t.seed = seed
	}
}

// WithValRatio sets the held-out fraction.
func WithValRatio(r float64) Option {
	return func(t *Trainer) {
		if r > 0 && r < 1 {
			t.valRatio = r
		}
	}
}

// WithLogger sets the logger used for epoch progress.
func WithLogger(l logger.Logger) Option {
	return func(t *Trainer) {
		if l != nil {
			t.logger = l
		}
	}
}
