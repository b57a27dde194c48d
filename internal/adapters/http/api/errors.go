package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest  = errors.New("bad request")
	ErrMethod      = errors.New("method not allowed")
	ErrBodyTooBig  = errors.New("request body too large")
	ErrUnavailable = errors.New("service not ready")
)
