package classifier

import "errors"

// Kind classifies why a classification failed.
type Kind int

const (
	KindUnconfigured Kind = iota + 1
	KindUpstream
	KindInvalidResponse
)

func (k Kind) String() string {
	switch k {
	case KindUnconfigured:
		return "unconfigured"
	case KindUpstream:
		return "upstream_failure"
	case KindInvalidResponse:
		return "invalid_response"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is against an *Error of the matching kind.
var (
	ErrUnconfigured    = errors.New("AI service not configured.")
	ErrUpstream        = errors.New("classification failed")
	ErrInvalidResponse = errors.New("invalid response from AI service")
)

// ErrNoChoices is returned by a Completer when the provider answers without
// any completion.
var ErrNoChoices = errors.New("no completion choices returned")

// Error is returned by Service.Classify. Its message is the underlying
// provider error text when there is one, so the boundary can pass it through.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.sentinel().Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == e.sentinel()
}

func (e *Error) sentinel() error {
	switch e.Kind {
	case KindUnconfigured:
		return ErrUnconfigured
	case KindInvalidResponse:
		return ErrInvalidResponse
	default:
		return ErrUpstream
	}
}

// KindOf returns the Kind of err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return 0
}
