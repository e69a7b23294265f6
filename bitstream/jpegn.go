package bitstream

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"io"

	"github.com/gen2brain/jpegn"

	"github.com/Skryldev/jpeg-decoder/utils"
)

// jpegnDecoder is the default Decoder, backed by github.com/gen2brain/jpegn.
// jpegn itself falls back to image/jpeg for streams it does not handle
// (progressive, CMYK), so the full baseline + extended JPEG surface is
// covered without cgo.
type jpegnDecoder struct {
	src       io.Reader
	chunkSize int
	data      []byte // full stream, retained between probe and decode
	info      ImageInfo
	probed    bool
}

// NewReader returns the default pure-Go bitstream decoder reading from r.
func NewReader(r io.Reader) Decoder {
	return NewReaderSize(r, 0)
}

// NewReaderSize is NewReader with an explicit streaming read size in bytes;
// chunkSize <= 0 selects the default.
func NewReaderSize(r io.Reader, chunkSize int) Decoder {
	return &jpegnDecoder{src: r, chunkSize: chunkSize}
}

func (d *jpegnDecoder) ReadInfo(ctx context.Context) error {
	if d.probed {
		return nil
	}

	buf, err := utils.DrainReader(ctx, d.src, d.chunkSize)
	if err != nil {
		return IOErr(err)
	}
	d.data = utils.CloneBytes(buf.Bytes())
	utils.ReleaseBuffer(buf)

	cfg, err := jpegn.DecodeConfig(utils.BytesReader(d.data))
	if err != nil {
		return translateJpegn(err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > 0xFFFF || cfg.Height > 0xFFFF {
		return FormatErr(fmt.Errorf("invalid dimensions %dx%d", cfg.Width, cfg.Height))
	}

	format, err := pixelFormatOf(cfg.ColorModel)
	if err != nil {
		return err
	}

	d.info = ImageInfo{
		Width:       uint16(cfg.Width),
		Height:      uint16(cfg.Height),
		PixelFormat: format,
	}
	d.probed = true
	return nil
}

func (d *jpegnDecoder) Info() (ImageInfo, bool) {
	return d.info, d.probed
}

func (d *jpegnDecoder) Decode(ctx context.Context) ([]byte, error) {
	if !d.probed {
		return nil, InternalErr(errors.New("decode before read_info"))
	}
	if err := ctx.Err(); err != nil {
		return nil, IOErr(err)
	}

	img, err := jpegn.Decode(utils.BytesReader(d.data))
	if err != nil {
		return nil, translateJpegn(err)
	}
	d.data = nil // decoded once; release the stream copy

	b := img.Bounds()
	if b.Dx() != int(d.info.Width) || b.Dy() != int(d.info.Height) {
		return nil, InternalErr(fmt.Errorf("decoded %dx%d, probed %dx%d",
			b.Dx(), b.Dy(), d.info.Width, d.info.Height))
	}

	return flattenImage(img, d.info.PixelFormat)
}

// pixelFormatOf maps a probed color model onto the reported PixelFormat.
func pixelFormatOf(cm color.Model) (PixelFormat, error) {
	switch cm {
	case color.GrayModel:
		return L8, nil
	case color.YCbCrModel, color.RGBAModel, color.NRGBAModel:
		return RGB24, nil
	case color.CMYKModel:
		return CMYK32, nil
	}
	return 0, Unsupportedf("color model %T", cm)
}

// flattenImage serialises a decoded image into tightly packed interleaved
// samples matching the probed pixel format.
func flattenImage(img image.Image, format PixelFormat) ([]byte, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]byte, w*h*format.Channels())

	switch src := img.(type) {
	case *image.Gray:
		if format != L8 {
			return nil, InternalErr(fmt.Errorf("grayscale output for %s stream", format))
		}
		for y := 0; y < h; y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(out[y*w:], src.Pix[off:off+w])
		}

	case *image.CMYK:
		if format != CMYK32 {
			return nil, InternalErr(fmt.Errorf("cmyk output for %s stream", format))
		}
		for y := 0; y < h; y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(out[y*4*w:], src.Pix[off:off+4*w])
		}

	case *image.YCbCr:
		if format != RGB24 {
			return nil, InternalErr(fmt.Errorf("ycbcr output for %s stream", format))
		}
		i := 0
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				yy := src.Y[src.YOffset(x, y)]
				ci := src.COffset(x, y)
				r, g, bl := color.YCbCrToRGB(yy, src.Cb[ci], src.Cr[ci])
				out[i], out[i+1], out[i+2] = r, g, bl
				i += 3
			}
		}

	case *image.RGBA:
		if format != RGB24 {
			return nil, InternalErr(fmt.Errorf("rgba output for %s stream", format))
		}
		flattenQuads(out, src.Pix[src.PixOffset(b.Min.X, b.Min.Y):], src.Stride, w, h)

	case *image.NRGBA:
		if format != RGB24 {
			return nil, InternalErr(fmt.Errorf("nrgba output for %s stream", format))
		}
		flattenQuads(out, src.Pix[src.PixOffset(b.Min.X, b.Min.Y):], src.Stride, w, h)

	default:
		return nil, Unsupportedf("decoded image type %T", img)
	}
	return out, nil
}

// flattenQuads copies 4-byte RGBA rows into tightly packed RGB, dropping the
// alpha channel (always opaque for JPEG output).
func flattenQuads(dst, pix []byte, stride, w, h int) {
	i := 0
	for y := 0; y < h; y++ {
		row := pix[y*stride : y*stride+4*w]
		for x := 0; x < 4*w; x += 4 {
			dst[i], dst[i+1], dst[i+2] = row[x], row[x+1], row[x+2]
			i += 3
		}
	}
}

// translateJpegn maps jpegn and image/jpeg fallback errors onto the
// bitstream error taxonomy.
func translateJpegn(err error) *Error {
	switch {
	case errors.Is(err, jpegn.ErrUnsupported):
		return Unsupportedf("%v", err)
	case errors.Is(err, jpegn.ErrNoJPEG), errors.Is(err, jpegn.ErrSyntax):
		return FormatErr(err)
	case errors.Is(err, jpegn.ErrInternal), errors.Is(err, jpegn.ErrOutOfMemory):
		return InternalErr(err)
	}

	var formatErr jpeg.FormatError
	if errors.As(err, &formatErr) {
		return FormatErr(err)
	}
	var unsupErr jpeg.UnsupportedError
	if errors.As(err, &unsupErr) {
		return Unsupportedf("%v", unsupErr)
	}
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return FormatErr(err)
	}
	return IOErr(err)
}
