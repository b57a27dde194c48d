package demand

import "errors"

// ErrInvalidTopN indicates a non-positive ranking size.
var ErrInvalidTopN = errors.New("topN must be at least 1")
