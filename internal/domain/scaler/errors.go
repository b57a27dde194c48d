package scaler

import "errors"

var (
	// ErrInvalidState indicates a scaler artifact with wrong lengths or non-finite values.
	ErrInvalidState = errors.New("invalid scaler state")
	// ErrMissingArtifact indicates the scaler artifact does not exist.
	ErrMissingArtifact = errors.New("scaler artifact missing")
)
