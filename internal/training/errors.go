package training

import "errors"

var (
	// ErrEmptyDataset indicates there is nothing to train on.
	ErrEmptyDataset = errors.New("empty training dataset")
	// ErrDiverged indicates the loss became non-finite.
	ErrDiverged = errors.New("training diverged")
)
