// Package errors provides an errors package for this module. It includes all of the stdlib's
// functions and types, the categorized constructor used by context-aware packages, and the
// structured errors produced while building layouts.
package errors

import (
	"github.com/gostdlib/base/context"
	"github.com/gostdlib/base/errors"
)

// Category represents the category of the error.
type Category uint32

// Category implements errors.Category.
func (c Category) Category() string {
	return c.String()
}

func (c Category) String() string {
	switch c {
	case CatUser:
		return "User"
	case CatInternal:
		return "Internal"
	}
	return "Unknown"
}

const (
	// CatUnknown represents an unknown category. This should not be used.
	CatUnknown Category = Category(0) // Unknown
	// CatUser represents an error that is caused by bad user input, such as a schema that
	// cannot be laid out.
	CatUser Category = Category(1) // User
	// CatInternal represents an internal error.
	CatInternal Category = Category(2) // Internal
)

// Type represents the type of the error.
type Type uint16

// Type implements errors.Type.
func (t Type) Type() string {
	return t.String()
}

func (t Type) String() string {
	switch t {
	case TypeBug:
		return "Bug"
	case TypeParameter:
		return "Parameter"
	case TypeLayout:
		return "Layout"
	case TypeUnsupported:
		return "Unsupported"
	case TypeCodec:
		return "Codec"
	}
	return "Unknown"
}

const (
	// TypeUnknown represents an unknown type.
	TypeUnknown Type = Type(0) // Unknown
	// TypeBug represents a bug in the calling code. This is only bugs that are known bugs and
	// not because of bad user input. An example would be a switch statement that doesn't cover
	// all cases. The default case should return an error of this type.
	TypeBug Type = Type(1) // Bug
	// TypeParameter represents an error with a parameter that didn't pass validation.
	TypeParameter Type = Type(2) // Parameter

	// TypeLayout is a LayoutError.
	TypeLayout Type = Type(100) // Layout
	// TypeUnsupported is an UnsupportedFieldError.
	TypeUnsupported Type = Type(101) // Unsupported
	// TypeCodec is a failure while packing or unpacking a buffer.
	TypeCodec Type = Type(102) // Codec
)

// Error is the error type for this module. Error implements github.com/gostdlib/base/errors.E .
type Error = errors.Error

// EOption is an optional argument for E().
type EOption = errors.EOption

// WithCallNum is used if you need to set the runtime.CallNum() in order to get the correct filename and line.
// This can happen if you create a call wrapper around E(), because you would then need to look up one more stack frame
// for every wrapper. This defaults to 1 which sets to the frame of the caller of E().
func WithCallNum(i int) EOption {
	return errors.WithCallNum(i)
}

// E creates a new Error with the given parameters.
func E(ctx context.Context, c errors.Category, t errors.Type, msg error, options ...errors.EOption) Error {
	// This makes sure we do the correct call number since we are a wrapper. Now, if they set the
	// call number, this will not override it.
	opts := make([]errors.EOption, 0, len(options)+1)
	opts = append(opts, WithCallNum(2))
	opts = append(opts, options...)

	return errors.E(ctx, c, t, msg, opts...)
}

// TypeOf returns the Type that matches err's structured cause, or TypeUnknown.
func TypeOf(err error) Type {
	var le *LayoutError
	if As(err, &le) {
		return TypeLayout
	}
	var ue *UnsupportedFieldError
	if As(err, &ue) {
		return TypeUnsupported
	}
	return TypeUnknown
}
