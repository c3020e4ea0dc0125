package core

import (
	"errors"
	"fmt"
)

// Kind categorizes a pipeline failure so callers can react without
// inspecting messages.
type Kind string

const (
	KindFetch           Kind = "fetch"
	KindParse           Kind = "parse"
	KindInvalidArgument Kind = "invalid_argument"
	KindBackend         Kind = "backend"
	KindStore           Kind = "store"
	KindUnknown         Kind = "unknown"
)

// Error is a categorized pipeline error. Op names the stage that failed.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s error", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// FetchErr wraps a network, transport, or status failure.
func FetchErr(op string, err error) error {
	return &Error{Kind: KindFetch, Op: op, Err: err}
}

// ParseErr wraps a markup failure.
func ParseErr(op string, err error) error {
	return &Error{Kind: KindParse, Op: op, Err: err}
}

// InvalidArg reports caller misuse.
func InvalidArg(op, format string, args ...any) error {
	return &Error{Kind: KindInvalidArgument, Op: op, Err: fmt.Errorf(format, args...)}
}

// BackendErr wraps a failure of the text-processing backend.
func BackendErr(op string, err error) error {
	return &Error{Kind: KindBackend, Op: op, Err: err}
}

// StoreErr wraps a history persistence failure.
func StoreErr(op string, err error) error {
	return &Error{Kind: KindStore, Op: op, Err: err}
}

// KindOf returns the category of the outermost categorized error in err's chain.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given category.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
