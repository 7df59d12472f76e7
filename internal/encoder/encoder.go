package encoder

import (
	"github.com/AnyUserName/pixcore/pixel"
)

// Encoder serializes an RGBA8 buffer to a specific format.
type Encoder interface {
	// Format returns the output format name (e.g. "jpeg", "webp", "png8", "rgba").
	Format() string

	// Encode converts the buffer to bytes at the given quality (0-100).
	// Encoders must not modify buf.
	Encode(buf *pixel.Buffer, quality int) ([]byte, error)

	// Available returns true if the encoder is ready to use.
	// External encoders (cwebp, avifenc) may not be installed.
	Available() bool

	// Extension returns the file extension without dot.
	Extension() string
}
