package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound     = errors.New("not found")
	ErrBusy         = errors.New("another request is already in flight")
	ErrInvalidInput = errors.New("invalid input")
	ErrNoRecipe     = errors.New("no current recipe")
	ErrIncomplete   = errors.New("incomplete response")

	// Taxonomy sentinels; match with errors.Is.
	ErrAuthentication = errors.New("authentication failed")
	ErrNetwork        = errors.New("network failure")
	ErrGeneration     = errors.New("generation failed")
)

// ErrorKind classifies a user-facing failure.
type ErrorKind int

const (
	KindAuthentication ErrorKind = iota
	KindNetwork
	KindGeneration
)

// String returns a human-readable kind.
func (k ErrorKind) String() string {
	switch k {
	case KindAuthentication:
		return "authentication"
	case KindNetwork:
		return "network"
	case KindGeneration:
		return "generation"
	default:
		return "unknown"
	}
}

// Error is a classified failure carrying the message to show the user.
// Kinds are disjoint: an Error matches only the sentinel of its own kind,
// and its cause must not match another kind's sentinel.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// NewError builds a classified error. An empty message falls back to
// the cause's message.
func NewError(kind ErrorKind, message string, cause error) *Error {
	if message == "" && cause != nil {
		message = cause.Error()
	}
	return &Error{Kind: kind, Message: message, Err: cause}
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Is matches the taxonomy sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrAuthentication:
		return e.Kind == KindAuthentication
	case ErrNetwork:
		return e.Kind == KindNetwork
	case ErrGeneration:
		return e.Kind == KindGeneration
	}
	return false
}

// ResponseStatus returns the HTTP status carried anywhere in err's chain,
// or 0 when the failure never produced a response.
func ResponseStatus(err error) int {
	var s interface{ HTTPStatus() int }
	if errors.As(err, &s) {
		return s.HTTPStatus()
	}
	return 0
}

// BackendMessage returns the error text the remote service supplied
// anywhere in err's chain, or "" when it supplied none.
func BackendMessage(err error) string {
	var m interface{ BackendMessage() string }
	if errors.As(err, &m) {
		return m.BackendMessage()
	}
	return ""
}

// Rejected reports whether err carries a non-2xx response status.
func Rejected(err error) bool {
	s := ResponseStatus(err)
	return s != 0 && (s < 200 || s > 299)
}
