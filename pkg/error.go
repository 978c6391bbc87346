package pkg

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Error represents a chain of errors, innermost first.
//
// Sentinels declared with [MakeErrorf] are matched by [errors.Is] against any
// chain derived from them with [Error.Wrap] or [Error.Wrapf].
type Error []error

// Sentinel errors returned by the command-line interface.
var (
	// ErrUnknownKind is returned for an --arg whose kind is not registered.
	ErrUnknownKind = MakeErrorf("unknown argument kind")

	// ErrInvalidArgSpec is returned for an --arg that is not of the form
	// key:kind[=option].
	ErrInvalidArgSpec = MakeErrorf("invalid argument spec")

	// ErrDuplicateKey is returned when two --arg flags share a key.
	ErrDuplicateKey = MakeErrorf("duplicate argument key")

	// ErrReadInput is returned when reading command text from stdin fails.
	ErrReadInput = MakeErrorf("failed to read input")

	// ErrJSONMarshal is returned when JSON marshaling fails.
	ErrJSONMarshal = MakeErrorf("JSON marshal error")

	// ErrYAMLMarshal is returned when YAML marshaling fails.
	ErrYAMLMarshal = MakeErrorf("YAML marshal error")

	// ErrInvalidFormat is returned when an invalid output format is specified.
	ErrInvalidFormat = MakeErrorf("invalid format")

	// ErrInvalidRemote is returned when --remote is not an IP address.
	ErrInvalidRemote = MakeErrorf("invalid remote address")
)

// MakeError constructs an Error from the given errors.
// The errors are stored in the order they are provided:
// the first argument is the innermost error in the chain.
// Nil is returned if no errors are provided.
func MakeError(errs ...error) Error {
	var e Error

	for _, err := range errs {
		if err != nil {
			e = append(e, UnwrapErrors(err)...)
		}
	}

	return e
}

// MakeErrorf constructs an Error from a formatted error message.
func MakeErrorf(format string, args ...any) Error {
	return MakeError(fmt.Errorf(format, args...))
}

// Error returns a concatenated string representation of all errors
// in the error chain, separated by ": ", from innermost to outermost.
func (e Error) Error() string {
	var sb strings.Builder

	for i, err := range slices.All(e) {
		if i > 0 {
			sb.WriteString(": ")
		}

		sb.WriteString(err.Error())
	}

	return sb.String()
}

// Wrap returns a new chain with err appended to the receiver.
// The receiver is never modified, so sentinels can be wrapped concurrently.
func (e Error) Wrap(err ...error) Error {
	return slices.Concat(e, err)
}

// Wrapf returns a new chain with a formatted error appended to the receiver.
func (e Error) Wrapf(format string, args ...any) Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// Unwrap returns the slice of errors contained in the receiver.
func (e Error) Unwrap() []error {
	return e
}

// Is reports whether target is an Error whose chain is a prefix of the
// receiver's, comparing elements by identity.
func (e Error) Is(target error) bool {
	var t Error
	if !errors.As(target, &t) || len(t) == 0 || len(t) > len(e) {
		return false
	}

	for i := range t {
		if t[i] != e[i] {
			return false
		}
	}

	return true
}

// UnwrapErrors recursively unwraps an error chain and returns a slice
// containing all errors in the chain, starting from the innermost error.
// An Error is flattened into its elements rather than kept whole.
func UnwrapErrors(err error) Error {
	if err == nil {
		return nil
	}

	chain := Error{}

	if e, ok := err.(Error); ok {
		for _, wrapped := range e {
			chain = append(chain, UnwrapErrors(wrapped)...)
		}

		return chain
	}

	if e, ok := err.(interface{ Unwrap() []error }); ok {
		for _, wrapped := range e.Unwrap() {
			chain = append(chain, UnwrapErrors(wrapped)...)
		}
	} else if e, ok := err.(interface{ Unwrap() error }); ok {
		chain = append(chain, UnwrapErrors(e.Unwrap())...)
	}

	return append(chain, err)
}
