// Package jpegdecoder exposes a uniform image-decoding contract over a
// pluggable JPEG bitstream decoder.  It probes stream metadata at
// construction, normalises the reported pixel format (CMYK streams are
// always surfaced as RGB), and materialises decoded pixel data through
// either a streaming reader or a caller-supplied buffer.
package jpegdecoder

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"time"

	"github.com/Skryldev/jpeg-decoder/bitstream"
	"github.com/Skryldev/jpeg-decoder/config"
	"github.com/Skryldev/jpeg-decoder/core"
	"github.com/Skryldev/jpeg-decoder/errors"
	"github.com/Skryldev/jpeg-decoder/pixconv"
	"github.com/Skryldev/jpeg-decoder/utils"
)

const jpegFormat = string(core.FormatJPEG)

// Decoder adapts a bitstream.Decoder to the core.ImageDecoder contract.
//
// A Decoder is single-use: IntoReader and ReadImage consume it, and calling
// either after the decoder has been consumed is a programming error that
// panics.  Dimensions and ColorType remain valid at any time.
type Decoder struct {
	bs     bitstream.Decoder
	meta   core.Metadata
	raw    bitstream.PixelFormat // format the bitstream decoder will hand back
	cfg    config.Config
	logger core.Logger
	hooks  []core.Hook
}

// Option configures a Decoder during construction.
type Option func(*Decoder)

// WithConfig overrides the default configuration.
func WithConfig(cfg config.Config) Option {
	return func(d *Decoder) { d.cfg = cfg }
}

// WithLogger attaches a structured logger.
func WithLogger(l core.Logger) Option {
	return func(d *Decoder) { d.logger = l }
}

// WithHook registers an observer for decode events.
func WithHook(h core.Hook) Option {
	return func(d *Decoder) { d.hooks = append(d.hooks, h) }
}

// New creates a Decoder reading from r using the default pure-Go bitstream
// backend.  The stream headers are parsed before New returns; a malformed or
// non-JPEG stream yields a decoding error tagged with the JPEG format.
func New(ctx context.Context, r io.Reader, opts ...Option) (*Decoder, error) {
	d := &Decoder{cfg: config.Default()}
	for _, opt := range opts {
		opt(d)
	}
	if err := config.Validate(d.cfg); err != nil {
		return nil, err
	}

	if d.cfg.MaxImageBytes > 0 {
		r = &utils.LimitedReader{R: r, Max: d.cfg.MaxImageBytes}
	}

	// Fail fast on streams that cannot be JPEG before handing them to the
	// bitstream decoder.
	br := bufio.NewReader(r)
	magic, err := br.Peek(3)
	if len(magic) < 3 {
		if stderrors.Is(err, errors.ErrInputTooBig) {
			return nil, errors.NewDecoding(jpegFormat, errors.ErrInputTooBig)
		}
		if err != nil && !stderrors.Is(err, io.EOF) {
			return nil, errors.NewIO(err)
		}
		return nil, errors.NewDecoding(jpegFormat, errors.ErrEmptyInput)
	}
	if !utils.SniffJPEG(magic) {
		return nil, errors.NewDecoding(jpegFormat, errors.ErrNotJPEG)
	}

	d.bs = bitstream.NewReaderSize(br, d.cfg.ChunkSize)
	if err := d.probe(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

// NewWithBackend creates a Decoder over a caller-supplied bitstream backend,
// e.g. the libvips one in bitstream/vips.
func NewWithBackend(ctx context.Context, bs bitstream.Decoder, opts ...Option) (*Decoder, error) {
	d := &Decoder{cfg: config.Default(), bs: bs}
	for _, opt := range opts {
		opt(d)
	}
	if err := config.Validate(d.cfg); err != nil {
		return nil, err
	}
	if err := d.probe(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

// probe parses stream headers and normalises the reported pixel format.
// CMYK32 is rewritten to RGB24 here, exactly once; callers never observe the
// 4-channel format.  The original format stays in d.raw because the decode
// step has to know what the bitstream decoder will actually produce.
func (d *Decoder) probe(ctx context.Context) error {
	if d.cfg.ProbeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.ProbeTimeout)
		defer cancel()
	}

	err := d.readInfo(ctx)
	for _, h := range d.hooks {
		h.AfterProbe(ctx, d.meta, err)
	}
	if err != nil {
		return err
	}

	if d.logger != nil {
		d.logger.Debug("probe.done",
			"width", d.meta.Width,
			"height", d.meta.Height,
			"color", d.meta.Color,
			"source_format", d.raw.String(),
		)
	}
	return nil
}

// readInfo runs the collaborator probe and normalises the result.
func (d *Decoder) readInfo(ctx context.Context) error {
	if err := d.bs.ReadInfo(ctx); err != nil {
		// An over-limit input is a policy rejection of this stream, not a
		// failure of the byte source; tag it like any other decode refusal.
		if stderrors.Is(err, errors.ErrInputTooBig) {
			return errors.NewDecoding(jpegFormat, errors.ErrInputTooBig)
		}
		return translateBitstream(err)
	}
	info, ok := d.bs.Info()
	if !ok {
		return errors.NewDecoding(jpegFormat, stderrors.New("bitstream decoder reported no metadata after probe"))
	}

	d.raw = info.PixelFormat
	normalized := info.PixelFormat
	if normalized == bitstream.CMYK32 {
		normalized = bitstream.RGB24
	}

	d.meta = core.Metadata{
		Width:  uint32(info.Width),
		Height: uint32(info.Height),
		Color:  colorTypeOf(normalized),
	}
	return nil
}

// Dimensions returns the probed width and height in pixels.
func (d *Decoder) Dimensions() (uint32, uint32) {
	return d.meta.Width, d.meta.Height
}

// ColorType returns the pixel layout of the decoded output.
func (d *Decoder) ColorType() core.ColorType {
	return d.meta.Color
}

// Metadata returns the full normalised metadata.
func (d *Decoder) Metadata() core.Metadata {
	return d.meta
}

// IntoReader decodes the image and returns a sequential reader yielding
// exactly width*height*channels bytes.  It consumes the Decoder.
//
// The returned io.Reader is a *Reader; assert to it for the zero-copy
// ReadAll and WriteTo paths.
func (d *Decoder) IntoReader(ctx context.Context) (io.Reader, error) {
	data, err := d.decode(ctx)
	if err != nil {
		return nil, err
	}
	return &Reader{buf: data}, nil
}

// ReadImage decodes the image into buf.  It consumes the Decoder.
//
// The length of buf must equal width*height*channels exactly; anything else
// is a caller-contract violation and panics.
func (d *Decoder) ReadImage(ctx context.Context, buf []byte) error {
	if want := d.meta.TotalBytes(); len(buf) != want {
		panic(fmt.Sprintf("jpegdecoder: ReadImage buffer is %d bytes, want exactly %d", len(buf), want))
	}
	data, err := d.decode(ctx)
	if err != nil {
		return err
	}
	copy(buf, data)
	return nil
}

// decode runs the single full-decode pass shared by both entry points,
// converting CMYK output to RGB when the stream reports ink samples.
func (d *Decoder) decode(ctx context.Context) ([]byte, error) {
	bs := d.consume()

	for _, h := range d.hooks {
		h.BeforeDecode(ctx, d.meta)
	}
	start := time.Now()

	data, err := bs.Decode(ctx)
	if err == nil && d.raw == bitstream.CMYK32 {
		data = pixconv.CMYKToRGB(data)
	}
	if err == nil && len(data) != d.meta.TotalBytes() {
		err = bitstream.InternalErr(fmt.Errorf("decoded %d bytes, want %d", len(data), d.meta.TotalBytes()))
	}
	if err != nil {
		err = translateBitstream(err)
		data = nil
	}

	elapsed := time.Since(start)
	for _, h := range d.hooks {
		h.AfterDecode(ctx, d.meta, elapsed, err)
	}
	if d.logger != nil && err == nil {
		d.logger.Debug("decode.done", "bytes", len(data), "duration_ms", elapsed.Milliseconds())
	}
	return data, err
}

// consume transfers ownership of the underlying bitstream decoder out of d.
// A Decoder supports exactly one decode call.
func (d *Decoder) consume() bitstream.Decoder {
	if d.bs == nil {
		panic("jpegdecoder: decoder already consumed")
	}
	bs := d.bs
	d.bs = nil
	return bs
}

// colorTypeOf maps a normalised pixel format onto the host color type.  The
// 4-channel ink format must have been rewritten before this point; seeing it
// here means the normalisation invariant is broken, which is unrecoverable.
func colorTypeOf(f bitstream.PixelFormat) core.ColorType {
	switch f {
	case bitstream.L8:
		return core.ColorTypeL8
	case bitstream.RGB24:
		return core.ColorTypeRGB8
	}
	panic(fmt.Sprintf("jpegdecoder: pixel format %s leaked past normalisation", f))
}

// translateBitstream maps collaborator errors onto the host taxonomy.
// Every failure is terminal for the decode attempt; nothing is retried.
func translateBitstream(err error) error {
	var be *bitstream.Error
	if !stderrors.As(err, &be) {
		return errors.NewDecoding(jpegFormat, err)
	}
	switch be.Kind {
	case bitstream.KindUnsupported:
		return errors.NewUnsupported(jpegFormat, be.Desc)
	case bitstream.KindIO:
		return errors.NewIO(be.Err)
	default:
		// Format and internal failures both surface as decoding errors
		// tagged with the originating format.
		return errors.NewDecoding(jpegFormat, be)
	}
}

var _ core.ImageDecoder = (*Decoder)(nil)
