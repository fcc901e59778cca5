package points

import "errors"

// Kind classifies a business-rule failure. Callers crossing the HTTP
// boundary only need the message; the kind exists so transports can pick a
// status code and tests can assert on outcomes.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuthorization
	KindNotFound
	KindSelfTarget
	KindConflict
	KindInsufficientBalance
	KindStore
)

// Error is a fully-handled business-rule violation. Its message is safe to
// show to users as-is.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NewError builds a business-rule failure for collaborating services that
// share the taxonomy (capability management).
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func validation(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

func unauthorized(msg string) error {
	return &Error{Kind: KindAuthorization, Message: msg}
}

func notFound(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func selfTarget(msg string) error {
	return &Error{Kind: KindSelfTarget, Message: msg}
}

func conflict(msg string) error {
	return &Error{Kind: KindConflict, Message: msg}
}

func insufficient(msg string) error {
	return &Error{Kind: KindInsufficientBalance, Message: msg}
}

// storeFailure translates a persistence fault into the generic failure
// message; the underlying error is for logs only, never for users.
func storeFailure() error {
	return &Error{Kind: KindStore, Message: "an unexpected error occurred"}
}

// KindOf returns the failure kind, or 0 for non-business errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
