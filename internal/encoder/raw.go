package encoder

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/AnyUserName/pixcore/pixel"
	"github.com/klauspost/compress/zstd"
)

// rawMagic starts every raw RGBA8 file, followed by big-endian uint32 width
// and height and a zstd frame holding width*height*4 pixel bytes.
var rawMagic = [4]byte{'P', 'X', 'R', '1'}

const rawHeaderLen = 12

var ErrBadRaw = errors.New("not a raw rgba8 stream")

// RawEncoder writes the buffer verbatim, zstd-compressed, for hosts that
// consume RGBA8 memory directly.
type RawEncoder struct{}

func (e *RawEncoder) Format() string    { return "rgba" }
func (e *RawEncoder) Extension() string { return "rgba.zst" }
func (e *RawEncoder) Available() bool   { return true }

func (e *RawEncoder) Encode(buf *pixel.Buffer, quality int) ([]byte, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	var out bytes.Buffer
	out.Grow(rawHeaderLen + len(buf.Pix)/4)
	out.Write(rawMagic[:])
	var dims [8]byte
	binary.BigEndian.PutUint32(dims[0:4], uint32(buf.Width))
	binary.BigEndian.PutUint32(dims[4:8], uint32(buf.Height))
	out.Write(dims[:])

	level := zstd.SpeedDefault
	if quality >= 90 {
		level = zstd.SpeedBestCompression
	}
	enc, err := zstd.NewWriter(&out, zstd.WithEncoderLevel(level))
	if err != nil {
		return nil, err
	}
	if _, err := enc.Write(buf.Pix); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// MaxRawPixels caps the pixel count DecodeRaw accepts from a header.
const MaxRawPixels = 1 << 26

// DecodeRaw reads a stream produced by RawEncoder. Memory grows with the
// pixel data actually present, never with what the header claims.
func DecodeRaw(r io.Reader) (*pixel.Buffer, error) {
	var hdr [rawHeaderLen]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if !bytes.Equal(hdr[:4], rawMagic[:]) {
		return nil, ErrBadRaw
	}
	w := int(binary.BigEndian.Uint32(hdr[4:8]))
	h := int(binary.BigEndian.Uint32(hdr[8:12]))
	n := pixel.Dimensions{Width: w, Height: h}.Len()
	if n < 0 {
		return nil, fmt.Errorf("%w: %dx%d is not a valid pixel grid", ErrBadRaw, w, h)
	}
	if n/pixel.BytesPerPixel > MaxRawPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrBadRaw, w, h, MaxRawPixels)
	}

	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	pix, err := io.ReadAll(io.LimitReader(dec, int64(n)+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read pixels: %v", ErrBadRaw, err)
	}
	if len(pix) != n {
		return nil, fmt.Errorf("%w: %d pixel bytes, header says %dx%d", ErrBadRaw, len(pix), w, h)
	}
	return pixel.Wrap(pix, w, h)
}
