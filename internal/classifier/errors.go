package classifier

import "fmt"

// Kind discriminates the failure modes of a classification attempt.
type Kind string

const (
	KindEmptyInput      Kind = "empty_input"
	KindConfiguration   Kind = "configuration"
	KindLLMCall         Kind = "llm_call"
	KindInvalidJSON     Kind = "invalid_json"
	KindSchemaViolation Kind = "schema_violation"
)

// Sentinels for errors.Is branching on failure kind.
var (
	ErrEmptyInput      = &Error{Kind: KindEmptyInput}
	ErrConfiguration   = &Error{Kind: KindConfiguration}
	ErrLLMCall         = &Error{Kind: KindLLMCall}
	ErrInvalidJSON     = &Error{Kind: KindInvalidJSON}
	ErrSchemaViolation = &Error{Kind: KindSchemaViolation}
)

// Error is the single failure value surfaced by Classify. Callers branch on
// Kind (or errors.Is against the sentinels), never on message text.
type Error struct {
	Kind  Kind
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Cause != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Cause)
	case e.Msg != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	case e.Cause != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any classification error of the same kind, so the sentinels
// above work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func wrapError(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Cause: cause}
}

// KindOf returns the failure kind of err, or "" when err is not a
// classification error.
func KindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return ""
}
