package core

// Format identifies an image codec for error tagging and host dispatch.
type Format string

const (
	FormatJPEG    Format = "jpeg"
	FormatUnknown Format = "unknown"
)

// ColorType is the pixel layout a decoder hands to the host.  The 4-channel
// CMYK layout some JPEG streams use internally is never exposed here; it is
// converted to RGB before any pixel data reaches a caller.
type ColorType string

const (
	// ColorTypeL8 is single-channel 8-bit grayscale.
	ColorTypeL8 ColorType = "l8"
	// ColorTypeRGB8 is 3-channel 8-bit red/green/blue.
	ColorTypeRGB8 ColorType = "rgb8"
)

// Channels returns the number of bytes per pixel for the color type.
func (c ColorType) Channels() int {
	if c == ColorTypeL8 {
		return 1
	}
	return 3
}

// Metadata holds probed image information without any pixel data.
// Width and Height are always positive for a successfully probed image.
type Metadata struct {
	Width  uint32
	Height uint32
	Color  ColorType
}

// TotalBytes returns the exact size of the fully decoded output.
func (m Metadata) TotalBytes() int {
	return int(m.Width) * int(m.Height) * m.Color.Channels()
}
