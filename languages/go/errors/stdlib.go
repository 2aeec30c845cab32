package errors

import (
	"github.com/gostdlib/base/errors"
)

// The functions below forward to the stdlib-compatible helpers in gostdlib so callers only
// import this package.

// New returns an error that formats as the given text.
func New(text string) error {
	return errors.New(text)
}

// Unwrap returns the error err wraps, or nil.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target, and if so, sets
// target to that error value and returns true.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Join returns an error that wraps the given errors, discarding nils.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
