// Package failure classifies errors that end a run.
package failure

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindConfig
	KindHost
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "configuration"
	case KindHost:
		return "host"
	default:
		return "unknown"
	}
}

// Error carries a Kind and supports errors.Is/As through Unwrap.
type Error struct {
	kind  Kind
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.msg
	}
	if e.msg == "" {
		return e.cause.Error()
	}
	return fmt.Sprintf("%s: %v", e.msg, e.cause)
}

func (e *Error) Unwrap() error { return e.cause }

func (e *Error) Kind() Kind { return e.kind }

// Configf reports a configuration error: missing credentials, wrong trigger
// event, missing pull request context.
func Configf(format string, args ...any) error {
	return &Error{kind: KindConfig, msg: fmt.Sprintf(format, args...)}
}

// Config wraps err as a configuration error.
func Config(err error) error {
	if err == nil {
		return nil
	}
	return &Error{kind: KindConfig, cause: err}
}

// Host wraps a failed repository host call. err already names the call.
func Host(err error) error {
	if err == nil {
		return nil
	}
	return &Error{kind: KindHost, cause: err}
}

// KindOf returns the Kind of the outermost *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return KindUnknown
}

// ExitCodeOf maps err to a process exit code.
func ExitCodeOf(err error) int {
	switch {
	case err == nil:
		return 0
	case KindOf(err) == KindConfig:
		return 2
	default:
		return 1
	}
}
