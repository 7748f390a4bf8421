// Package errors provides error handling for javabind.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints and details for users
//   - Error marks for classification
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := render(); err != nil {
//	    return errors.Wrap(err, "failed to render component")
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "set [bindings.java].package_name")
//
//	// Classify generation failures
//	if errors.Is(err, errors.ErrLiteralTypeMismatch) {
//	    // bad default value in the interface description
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint           = crdb.WithHint
	WithHintf          = crdb.WithHintf
	WithDetail         = crdb.WithDetail
	WithDetailf        = crdb.WithDetailf
	WithSecondaryError = crdb.WithSecondaryError
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Marks and combination
var (
	Mark          = crdb.Mark
	CombineErrors = crdb.CombineErrors
)

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Generation error taxonomy. Every failure raised by the generator is marked
// with one of these so callers can classify it with errors.Is while the
// message keeps the offending type or identifier.
var (
	// ErrUnmappedType indicates a type or callable reached the generator
	// with no generation strategy
	ErrUnmappedType = New("unmapped type")

	// ErrLiteralTypeMismatch indicates a literal whose tag does not fit the
	// type it is rendered against
	ErrLiteralTypeMismatch = New("invalid literal for type")

	// ErrUnsupportedFfiRepresentation indicates a reference, struct-field or
	// default form requested for an FFI type that has none
	ErrUnsupportedFfiRepresentation = New("unsupported ffi representation")

	// ErrPartitionMiss indicates a rendered chunk that matched no declaration
	ErrPartitionMiss = New("partition miss")

	// ErrReservedWord indicates an identifier that collides with a Java keyword
	ErrReservedWord = New("reserved word")

	// ErrInvalidDescription indicates a malformed interface description
	ErrInvalidDescription = New("invalid interface description")

	// ErrInvalidConfig indicates configuration that cannot be used
	ErrInvalidConfig = New("invalid configuration")
)

// MarkUnmappedType creates an unmapped-type error with a formatted message
func MarkUnmappedType(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrUnmappedType)
}

// MarkLiteralMismatch creates a literal-mismatch error with a formatted message
func MarkLiteralMismatch(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrLiteralTypeMismatch)
}

// MarkUnsupportedFfi creates an unsupported-representation error with a formatted message
func MarkUnsupportedFfi(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrUnsupportedFfiRepresentation)
}

// MarkInvalidDescription wraps err as an invalid-description error with context
func MarkInvalidDescription(err error, context string) error {
	return Mark(Wrap(err, context), ErrInvalidDescription)
}

// MarkInvalidConfig creates an invalid-config error with a formatted message
func MarkInvalidConfig(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrInvalidConfig)
}

// IsUnmappedType checks if an error is or wraps ErrUnmappedType
func IsUnmappedType(err error) bool {
	return err != nil && Is(err, ErrUnmappedType)
}

// IsLiteralMismatch checks if an error is or wraps ErrLiteralTypeMismatch
func IsLiteralMismatch(err error) bool {
	return err != nil && Is(err, ErrLiteralTypeMismatch)
}

// IsUnsupportedFfi checks if an error is or wraps ErrUnsupportedFfiRepresentation
func IsUnsupportedFfi(err error) bool {
	return err != nil && Is(err, ErrUnsupportedFfiRepresentation)
}

// IsPartitionMiss checks if an error is or wraps ErrPartitionMiss
func IsPartitionMiss(err error) bool {
	return err != nil && Is(err, ErrPartitionMiss)
}

// IsReservedWord checks if an error is or wraps ErrReservedWord
func IsReservedWord(err error) bool {
	return err != nil && Is(err, ErrReservedWord)
}
