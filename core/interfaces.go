package core

import (
	"context"
	"io"
	"time"
)

// ImageDecoder is the contract this module satisfies toward a host image
// framework.  A decoder is single-use: IntoReader and ReadImage consume it,
// and at most one of them may be called, once.
type ImageDecoder interface {
	// Dimensions returns the probed width and height in pixels.
	Dimensions() (uint32, uint32)
	// ColorType returns the pixel layout of the decoded output.
	ColorType() ColorType
	// IntoReader decodes the image and returns a sequential reader over
	// exactly width*height*channels bytes.
	IntoReader(ctx context.Context) (io.Reader, error)
	// ReadImage decodes the image into buf, whose length must equal
	// width*height*channels exactly.
	ReadImage(ctx context.Context, buf []byte) error
}

// Logger is a minimal structured logging interface.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
}

// Hook is an optional observer invoked around the probe and decode phases.
// AfterProbe fires once per decoder construction; on failure meta is the
// zero Metadata.
type Hook interface {
	AfterProbe(ctx context.Context, meta Metadata, err error)
	BeforeDecode(ctx context.Context, meta Metadata)
	AfterDecode(ctx context.Context, meta Metadata, d time.Duration, err error)
}
