// Package errkind defines the error taxonomy shared by the recommendation
// pipeline and the HTTP boundary.
//
// Errors carry the operation that failed and a sentinel kind. The boundary
// maps kinds to status codes; callers use errors.Is(err, ErrX) to branch.
package errkind

import (
	"errors"
	"strings"
)

// Sentinel kinds.
var (
	// ErrModelUnavailable signals that classifier weights could not be loaded.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrInvalidInput signals malformed or out-of-range input.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInternal signals an unexpected computation fault.
	ErrInternal = errors.New("internal computation error")
	// ErrListingsUnavailable signals that the listing source could not serve a batch.
	ErrListingsUnavailable = errors.New("listings unavailable")
)

var kinds = []error{ErrModelUnavailable, ErrInvalidInput, ErrInternal, ErrListingsUnavailable}

// Error decorates an underlying error with an operation name and a kind.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	switch {
	case e.Kind != nil && e.Err != nil:
		b.WriteString(e.Kind.Error())
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	case e.Kind != nil:
		b.WriteString(e.Kind.Error())
	case e.Err != nil:
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind and the cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// NewKind returns an error of the given kind with no further cause.
func NewKind(op string, kind error) error {
	return &Error{Op: op, Kind: kind}
}

// WrapKind attaches op and kind to err. A nil err yields NewKind(op, kind).
func WrapKind(op string, kind, err error) error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// Wrap attaches op to err, keeping whatever kind err already has.
// A nil err returns nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// KindOf returns the first known kind found in err's chain, or ErrInternal
// when err carries no kind. KindOf(nil) is nil.
func KindOf(err error) error {
	if err == nil {
		return nil
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return ErrInternal
}

// Is reports whether err is of the given kind.
func Is(err, kind error) bool {
	return errors.Is(err, kind)
}
