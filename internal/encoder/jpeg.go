package encoder

import (
	"bytes"
	"image/jpeg"

	"github.com/AnyUserName/pixcore/pixel"
)

// JPEGEncoder encodes buffers to JPEG using Go's standard library.
// Alpha is dropped.
type JPEGEncoder struct{}

func (e *JPEGEncoder) Format() string    { return "jpeg" }
func (e *JPEGEncoder) Extension() string { return "jpeg" }
func (e *JPEGEncoder) Available() bool   { return true }

func (e *JPEGEncoder) Encode(buf *pixel.Buffer, quality int) ([]byte, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	var out bytes.Buffer
	out.Grow(len(buf.Pix) / 8)

	// jpeg quality 0 is not meaningful; clamp into [1,100].
	q := min(100, max(1, quality))
	if err := jpeg.Encode(&out, buf.Image(), &jpeg.Options{Quality: q}); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
