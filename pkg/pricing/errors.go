package pricing

import (
	"errors"
	"fmt"
)

// Kind classifies why a calculation did not produce a result.
type Kind int

const (
	KindMissingFields Kind = iota + 1
	KindInvalidPlan
	KindInvalidModel
	KindInvalidRange
	KindInternal
)

var kindNames = map[Kind]string{
	KindMissingFields: "missing_fields",
	KindInvalidPlan:   "invalid_plan",
	KindInvalidModel:  "invalid_model",
	KindInvalidRange:  "invalid_range",
	KindInternal:      "internal",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Validation reports whether the kind is caused by bad input. Validation
// failures are permanent for a given input and must not be retried.
func (k Kind) Validation() bool {
	return k >= KindMissingFields && k <= KindInvalidRange
}

// Error is returned by Calculate. For validation kinds Message is the exact
// client-facing text; for KindInternal Err carries the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrInternal)
// holds for every internal failure regardless of cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinel errors, one per kind.
var (
	ErrMissingFields = &Error{Kind: KindMissingFields, Message: "Missing required fields: subscription, model, requests, developers"}
	ErrInvalidPlan   = &Error{Kind: KindInvalidPlan, Message: "Invalid subscription plan"}
	ErrInvalidModel  = &Error{Kind: KindInvalidModel, Message: "Invalid model"}
	ErrInvalidRange  = &Error{Kind: KindInvalidRange, Message: "Requests must be non-negative and developers must be at least 1"}
	ErrInternal      = &Error{Kind: KindInternal, Message: "calculation failed"}
)

func internalError(format string, args ...any) error {
	return &Error{Kind: KindInternal, Message: ErrInternal.Message, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind of a calculation error. Errors that did not come
// from this package are reported as KindInternal; a nil error has kind 0.
func KindOf(err error) Kind {
	if err == nil {
		return 0
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
