// Package bitstream defines the contract of the underlying JPEG bitstream
// decoder and ships a default pure-Go implementation.  The adapter layer in
// the module root treats everything here as a black box: headers in, raw
// interleaved samples out.
package bitstream

import (
	"context"
	"fmt"
)

// PixelFormat is the sample layout a bitstream decoder reports and produces.
type PixelFormat int

const (
	// L8 is single-channel 8-bit grayscale.
	L8 PixelFormat = iota
	// RGB24 is 3-channel 8-bit red/green/blue.
	RGB24
	// CMYK32 is 4-channel 8-bit ink coverage, as found in Adobe JPEGs.
	CMYK32
)

// Channels returns the number of bytes per pixel.
func (f PixelFormat) Channels() int {
	switch f {
	case L8:
		return 1
	case CMYK32:
		return 4
	}
	return 3
}

func (f PixelFormat) String() string {
	switch f {
	case L8:
		return "l8"
	case RGB24:
		return "rgb24"
	case CMYK32:
		return "cmyk32"
	}
	return fmt.Sprintf("pixelformat(%d)", int(f))
}

// ImageInfo is the metadata a decoder reports after reading stream headers.
// JPEG dimensions are bounded by the 16-bit SOF fields.
type ImageInfo struct {
	Width       uint16
	Height      uint16
	PixelFormat PixelFormat
}

// Decoder is the bitstream decoding collaborator.  ReadInfo must succeed
// before Info or Decode are called.  Decode fully materialises the image and
// returns width*height*channels raw bytes in the reported pixel format; a
// Decoder supports at most one Decode call.
type Decoder interface {
	ReadInfo(ctx context.Context) error
	Info() (ImageInfo, bool)
	Decode(ctx context.Context) ([]byte, error)
}

// ErrorKind classifies failures a bitstream decoder can report.
type ErrorKind int

const (
	// KindFormat marks a malformed bitstream.
	KindFormat ErrorKind = iota
	// KindUnsupported marks a recognized but unimplemented feature.
	KindUnsupported
	// KindIO marks a failure of the underlying byte source.
	KindIO
	// KindInternal marks a logic error inside the decoder itself.
	KindInternal
)

// Error is the error type reported by bitstream decoders.
type Error struct {
	Kind ErrorKind
	Desc string // feature description, set for KindUnsupported
	Err  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindFormat:
		return fmt.Sprintf("bitstream: format: %v", e.Err)
	case KindUnsupported:
		return fmt.Sprintf("bitstream: unsupported: %s", e.Desc)
	case KindIO:
		return fmt.Sprintf("bitstream: io: %v", e.Err)
	}
	return fmt.Sprintf("bitstream: internal: %v", e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// FormatErr wraps err as a malformed-bitstream error.
func FormatErr(err error) *Error { return &Error{Kind: KindFormat, Err: err} }

// Unsupportedf builds an unsupported-feature error with a description.
func Unsupportedf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindUnsupported, Desc: fmt.Sprintf(format, args...)}
}

// IOErr wraps err as an underlying I/O failure.
func IOErr(err error) *Error { return &Error{Kind: KindIO, Err: err} }

// InternalErr wraps err as a decoder logic error.
func InternalErr(err error) *Error { return &Error{Kind: KindInternal, Err: err} }
