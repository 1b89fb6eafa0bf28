package errs

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies a failed command. The set is closed: every error that leaves
// the processing engine is reported with exactly one of these kinds.
type Kind string

const (
	KindInvalidState     Kind = "invalid_state"
	KindValidationFailed Kind = "validation_failed"
	KindAuthorization    Kind = "authorization"
	KindNotFound         Kind = "not_found"
	KindConflict         Kind = "conflict"
	KindInfrastructure   Kind = "infrastructure"
	KindAlreadyTerminal  Kind = "already_terminal"
)

var (
	ErrInvalidState     = errors.New("invalid state")
	ErrValidationFailed = errors.New("validation failed")
	ErrAuthorization    = errors.New("authorization failed")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrInfrastructure   = errors.New("infrastructure failure")
	ErrAlreadyTerminal  = errors.New("already terminal")
)

var kindSentinels = map[Kind]error{
	KindInvalidState:     ErrInvalidState,
	KindValidationFailed: ErrValidationFailed,
	KindAuthorization:    ErrAuthorization,
	KindNotFound:         ErrNotFound,
	KindConflict:         ErrConflict,
	KindInfrastructure:   ErrInfrastructure,
	KindAlreadyTerminal:  ErrAlreadyTerminal,
}

// Sentinel returns the sentinel error matching k. Unknown kinds map to
// ErrInfrastructure.
func (k Kind) Sentinel() error {
	if err, ok := kindSentinels[k]; ok {
		return err
	}
	return ErrInfrastructure
}

func (k Kind) String() string {
	return string(k)
}

// CommandError is the structured failure of a command: a kind, a human readable
// message and, when the failure came from a specific data source, its name.
//
// errors.Is matches both the kind sentinel and the wrapped cause:
//
//	err := errs.NewCommandErrorWithCause(errs.KindNotFound, "book does not exist", cause)
//	errors.Is(err, errs.ErrNotFound) // true
//	errors.Is(err, cause)            // true
type CommandError struct {
	Kind       Kind
	DataSource string
	Message    string
	Cause      error
}

func NewCommandError(kind Kind, message string) *CommandError {
	return &CommandError{Kind: kind, Message: message}
}

func NewCommandErrorWithCause(kind Kind, message string, cause error) *CommandError {
	return &CommandError{Kind: kind, Message: message, Cause: cause}
}

// WithDataSource returns a copy of e attributed to the given data source.
func (e *CommandError) WithDataSource(dataSource string) *CommandError {
	c := *e
	c.DataSource = dataSource
	return &c
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind.Sentinel(), e.Message)
	if e.DataSource != "" {
		msg = fmt.Sprintf("%s: %s: %s", e.Kind.Sentinel(), e.DataSource, e.Message)
	}
	if e.Cause != nil && e.Cause.Error() != e.Message {
		return fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

func (e *CommandError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind.Sentinel()}
	}
	return []error{e.Kind.Sentinel(), e.Cause}
}

// KindOf classifies err. A CommandError anywhere in the chain wins; value errors
// are validation failures; missing objects are not-found; cancellation and
// anything unrecognised are infrastructure failures.
func KindOf(err error) Kind {
	var cmdErr *CommandError
	switch {
	case errors.As(err, &cmdErr):
		return cmdErr.Kind
	case errors.Is(err, ErrObjectNotFound):
		return KindNotFound
	case errors.Is(err, ErrValueIsRequired),
		errors.Is(err, ErrValueIsInvalid),
		errors.Is(err, ErrValueIsOutOfRange):
		return KindValidationFailed
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindInfrastructure
	default:
		return KindInfrastructure
	}
}

// AsCommandError returns the CommandError in err's chain, or wraps err into a new
// one classified by KindOf. It returns nil for a nil error.
func AsCommandError(err error) *CommandError {
	if err == nil {
		return nil
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr
	}
	return NewCommandErrorWithCause(KindOf(err), err.Error(), err)
}
