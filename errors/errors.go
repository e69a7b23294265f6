// Package errors defines the structured error taxonomy exposed by the module.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies decode failures for targeted handling and monitoring.
type Kind string

const (
	// KindDecoding marks a malformed or internally inconsistent bitstream.
	KindDecoding Kind = "decoding"
	// KindUnsupported marks a recognized but unimplemented feature.
	KindUnsupported Kind = "unsupported"
	// KindIO marks a failure of the underlying byte source, passed through
	// unchanged.
	KindIO Kind = "io"
)

// Error is the structured error type used throughout the module.  Every
// externally visible error is tagged with the originating format so hosts
// that multiplex several decoders can report which one failed.
type Error struct {
	Kind    Kind
	Format  string // originating format identifier, e.g. "jpeg"
	Feature string // human-readable description, set for KindUnsupported
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindUnsupported:
		return fmt.Sprintf("[%s] %s: unsupported feature: %s", e.Kind, e.Format, e.Feature)
	case KindIO:
		return fmt.Sprintf("[%s] %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Format, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// NewDecoding creates a format-tagged decoding error.
func NewDecoding(format string, err error) *Error {
	return &Error{Kind: KindDecoding, Format: format, Err: err}
}

// NewUnsupported creates a format-tagged error for a recognized but
// unimplemented feature.
func NewUnsupported(format, feature string) *Error {
	return &Error{Kind: KindUnsupported, Format: format, Feature: feature}
}

// NewIO wraps an underlying I/O failure without reinterpreting it.
func NewIO(err error) *Error {
	return &Error{Kind: KindIO, Err: err}
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// FormatOf returns the originating format tag of err, or "" when err is not
// an *Error or carries no tag.
func FormatOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Format
	}
	return ""
}

// Sentinel errors for common failure modes.
var (
	ErrNotJPEG     = errors.New("input does not start with a JPEG marker")
	ErrEmptyInput  = errors.New("empty input")
	ErrInputTooBig = errors.New("input exceeds configured size limit")
)
