package classifier

import "github.com/okian/pathwise/internal/domain/scaler"

// Option applies a configuration option to the Classifier.
type Option func(*Classifier)

// WithScaler sets the feature scaler. A nil scaler keeps the identity default.
func WithScaler(s *scaler.Scaler) Option {
	return func(c *Classifier) {
		if s != nil {
			c.scaler = s
		}
	}
}
