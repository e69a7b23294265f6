//go:build cgo

// Package vips provides a libvips-backed bitstream.Decoder via
// github.com/davidbyttow/govips.  Use it when decode throughput matters more
// than avoiding cgo; the default pure-Go backend stays the safe choice for
// portable builds.
package vips

import (
	"context"
	"fmt"
	"io"
	"runtime"

	govips "github.com/davidbyttow/govips/v2/vips"

	"github.com/Skryldev/jpeg-decoder/bitstream"
	"github.com/Skryldev/jpeg-decoder/utils"
)

// Startup initialises libvips.  Call once per process before decoding.
func Startup(workers int) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	govips.Startup(&govips.Config{ConcurrencyLevel: workers})
}

// Shutdown releases all libvips resources.  Call once at process exit.
func Shutdown() {
	govips.Shutdown()
}

// Decoder is a bitstream.Decoder backed by libvips.
type Decoder struct {
	src       io.Reader
	chunkSize int
	ref       *govips.ImageRef
	info      bitstream.ImageInfo
	probed    bool
}

// New returns a libvips-backed bitstream decoder reading from r.
// Startup must have been called first.
func New(r io.Reader) *Decoder {
	return NewSize(r, 0)
}

// NewSize is New with an explicit streaming read size in bytes; chunkSize <= 0
// selects the default.
func NewSize(r io.Reader, chunkSize int) *Decoder {
	return &Decoder{src: r, chunkSize: chunkSize}
}

func (d *Decoder) ReadInfo(ctx context.Context) error {
	if d.probed {
		return nil
	}

	buf, err := utils.DrainReader(ctx, d.src, d.chunkSize)
	if err != nil {
		return bitstream.IOErr(err)
	}
	raw := utils.CloneBytes(buf.Bytes())
	utils.ReleaseBuffer(buf)

	ref, err := govips.NewImageFromBuffer(raw)
	if err != nil {
		return bitstream.FormatErr(err)
	}
	runtime.SetFinalizer(ref, func(r *govips.ImageRef) { r.Close() })

	if ref.Format() != govips.ImageTypeJPEG {
		return bitstream.FormatErr(fmt.Errorf("not a JPEG stream: %v", ref.Format()))
	}
	w, h := ref.Width(), ref.Height()
	if w <= 0 || h <= 0 || w > 0xFFFF || h > 0xFFFF {
		return bitstream.FormatErr(fmt.Errorf("invalid dimensions %dx%d", w, h))
	}

	d.ref = ref
	d.info = bitstream.ImageInfo{
		Width:       uint16(w),
		Height:      uint16(h),
		PixelFormat: pixelFormatOf(ref.Interpretation()),
	}
	d.probed = true
	return nil
}

func (d *Decoder) Info() (bitstream.ImageInfo, bool) {
	return d.info, d.probed
}

func (d *Decoder) Decode(ctx context.Context) ([]byte, error) {
	if !d.probed {
		return nil, bitstream.InternalErr(fmt.Errorf("decode before read_info"))
	}
	if err := ctx.Err(); err != nil {
		return nil, bitstream.IOErr(err)
	}

	data, err := d.ref.ToBytes()
	if err != nil {
		return nil, bitstream.InternalErr(err)
	}

	want := int(d.info.Width) * int(d.info.Height) * d.info.PixelFormat.Channels()
	if len(data) != want {
		return nil, bitstream.InternalErr(fmt.Errorf("raw export %d bytes, want %d", len(data), want))
	}
	return data, nil
}

func pixelFormatOf(i govips.Interpretation) bitstream.PixelFormat {
	switch i {
	case govips.InterpretationBW:
		return bitstream.L8
	case govips.InterpretationCMYK:
		return bitstream.CMYK32
	default:
		return bitstream.RGB24
	}
}

var _ bitstream.Decoder = (*Decoder)(nil)
