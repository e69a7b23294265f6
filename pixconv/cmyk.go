// Package pixconv provides pure pixel-format conversions on raw sample buffers.
package pixconv

// CMYKChannels and RGBChannels are the per-pixel byte widths handled by
// CMYKToRGB.
const (
	CMYKChannels = 4
	RGBChannels  = 3
)

// CMYKToRGB converts interleaved 8-bit CMYK samples to interleaved 8-bit RGB.
// Each 4-byte group (c, m, y, k) yields one 3-byte group (r, g, b) computed
// with exact integer arithmetic:
//
//	r = (255-k)(255-c) / 255
//	g = (255-k)(255-m) / 255
//	b = (255-k)(255-y) / 255
//
// Division truncates toward zero.  Trailing bytes that do not form a complete
// 4-byte group are ignored.  The input is never modified.
func CMYKToRGB(src []byte) []byte {
	dst := make([]byte, RGBChannels*(len(src)/CMYKChannels))
	CMYKToRGBInto(dst, src)
	return dst
}

// CMYKToRGBInto converts like CMYKToRGB but writes into dst, which must hold
// at least 3*(len(src)/4) bytes.  It returns the number of bytes written.
func CMYKToRGBInto(dst, src []byte) int {
	count := len(src) / CMYKChannels
	for i := 0; i < count; i++ {
		p := src[CMYKChannels*i : CMYKChannels*i+CMYKChannels]
		o := dst[RGBChannels*i : RGBChannels*i+RGBChannels]

		c := 255 - uint16(p[0])
		m := 255 - uint16(p[1])
		y := 255 - uint16(p[2])
		k := 255 - uint16(p[3])

		// All products fit in 16 bits (255*255 = 65025).
		o[0] = byte((k * c) / 255)
		o[1] = byte((k * m) / 255)
		o[2] = byte((k * y) / 255)
	}
	return RGBChannels * count
}
