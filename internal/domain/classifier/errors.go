package classifier

import "errors"

var (
	// ErrInvalidCheckpoint indicates a checkpoint with missing tensors or wrong shapes.
	ErrInvalidCheckpoint = errors.New("invalid checkpoint")
	// ErrNonFinite indicates that inference produced NaN or infinite values.
	ErrNonFinite = errors.New("non-finite network output")
)
