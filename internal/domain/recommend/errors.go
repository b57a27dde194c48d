package recommend

import "errors"

var (
	// ErrNoSource indicates an orchestrator built without a listing source.
	ErrNoSource = errors.New("recommend: listing source is required")
	// ErrInvalidLimit indicates a non-positive listing limit.
	ErrInvalidLimit = errors.New("listing limit must be at least 1")
)
