package jpegdecoder

import (
	"io"

	"github.com/Skryldev/jpeg-decoder/utils"
)

// Reader streams fully decoded pixel data sequentially.  It owns its buffer
// exclusively: a full drain via ReadAll before any Read hands the buffer
// over without copying, while a drain after partial consumption copies the
// remainder.  The distinction is part of the contract, not an incidental
// optimisation — a handed-over buffer is never aliased by the Reader again.
type Reader struct {
	buf []byte
	off int
}

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (int, error) {
	if r.off >= len(r.buf) {
		return 0, io.EOF
	}
	n := copy(p, r.buf[r.off:])
	r.off += n
	return n, nil
}

// ReadAll returns every unread byte and leaves the Reader drained.  When the
// cursor has not moved yet, ownership of the internal buffer transfers to
// the caller with no copy; otherwise the remainder is copied out.
func (r *Reader) ReadAll() []byte {
	if r.off == 0 {
		out := r.buf
		r.buf = nil
		return out
	}
	out := utils.CloneBytes(r.buf[r.off:])
	r.off = len(r.buf)
	return out
}

// WriteTo implements io.WriterTo, writing all unread bytes in one call.
func (r *Reader) WriteTo(w io.Writer) (int64, error) {
	if r.off >= len(r.buf) {
		return 0, nil
	}
	n, err := w.Write(r.buf[r.off:])
	r.off += n
	return int64(n), err
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	return len(r.buf) - r.off
}
