package pixel

import (
	"image"
	"math"
	"unsafe"

	"github.com/disintegration/imaging"
)

// BytesPerPixel is the stride of one RGBA8 pixel.
const BytesPerPixel = 4

// Dimensions is a logical pixel grid.
type Dimensions struct {
	Width  int
	Height int
}

// Valid reports whether both sides are at least one pixel.
func (d Dimensions) Valid() bool {
	return d.Width >= 1 && d.Height >= 1
}

// Len returns the RGBA8 byte length of the grid, or -1 if it overflows int.
func (d Dimensions) Len() int {
	if !d.Valid() {
		return -1
	}
	if d.Width > math.MaxInt/BytesPerPixel/d.Height {
		return -1
	}
	return d.Width * d.Height * BytesPerPixel
}

// Buffer is a packed RGBA8 pixel buffer: row-major, R,G,B,A order, no padding.
// A Buffer does not own Pix when created with Wrap; callers keep it alive.
type Buffer struct {
	Pix    []byte
	Width  int
	Height int
}

// NewBuffer allocates a zeroed buffer of the given size.
func NewBuffer(width, height int) (*Buffer, error) {
	d := Dimensions{width, height}
	n := d.Len()
	if n < 0 {
		return nil, invalid("new", "dimensions", "%dx%d is not a valid pixel grid", width, height)
	}
	return &Buffer{Pix: make([]byte, n), Width: width, Height: height}, nil
}

// Wrap views caller-owned memory as a Buffer without copying it.
func Wrap(data []byte, width, height int) (*Buffer, error) {
	b := &Buffer{Pix: data, Width: width, Height: height}
	if err := b.validate("wrap"); err != nil {
		return nil, err
	}
	return b, nil
}

// Dimensions returns the buffer's pixel grid.
func (b *Buffer) Dimensions() Dimensions {
	return Dimensions{b.Width, b.Height}
}

// Validate checks the length/dimension invariant.
func (b *Buffer) Validate() error {
	return b.validate("validate")
}

func (b *Buffer) validate(op string) error {
	if b == nil {
		return invalid(op, "buffer", "nil")
	}
	n := b.Dimensions().Len()
	if n < 0 {
		return invalid(op, "dimensions", "%dx%d is not a valid pixel grid", b.Width, b.Height)
	}
	if len(b.Pix) != n {
		return invalid(op, "buffer", "length %d, want %d for %dx%d", len(b.Pix), n, b.Width, b.Height)
	}
	return nil
}

// PixOffset returns the index of the R byte of pixel (x, y).
func (b *Buffer) PixOffset(x, y int) int {
	return (y*b.Width + x) * BytesPerPixel
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	pix := make([]byte, len(b.Pix))
	copy(pix, b.Pix)
	return &Buffer{Pix: pix, Width: b.Width, Height: b.Height}
}

// Image views the buffer as an *image.NRGBA sharing the same memory.
func (b *Buffer) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: b.Width * BytesPerPixel,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// AvgColor returns the mean R,G,B over all pixels.
func (b *Buffer) AvgColor() [3]uint8 {
	count := uint64(b.Width) * uint64(b.Height)
	if count == 0 || len(b.Pix) == 0 {
		return [3]uint8{}
	}
	var rSum, gSum, bSum uint64
	for i := 0; i+3 < len(b.Pix); i += BytesPerPixel {
		rSum += uint64(b.Pix[i])
		gSum += uint64(b.Pix[i+1])
		bSum += uint64(b.Pix[i+2])
	}
	return [3]uint8{
		uint8(rSum / count),
		uint8(gSum / count),
		uint8(bSum / count),
	}
}

// Opaque reports whether every alpha byte is 255.
func (b *Buffer) Opaque() bool {
	for i := 3; i < len(b.Pix); i += BytesPerPixel {
		if b.Pix[i] != 0xff {
			return false
		}
	}
	return true
}

// FromImage converts any image to a tightly packed, non-premultiplied RGBA8
// buffer, the same layout a canvas ImageData uses.
func FromImage(img image.Image) *Buffer {
	nrgba := imaging.Clone(img)
	w, h := nrgba.Rect.Dx(), nrgba.Rect.Dy()
	if nrgba.Stride == w*BytesPerPixel {
		return &Buffer{Pix: nrgba.Pix[:w*h*BytesPerPixel], Width: w, Height: h}
	}
	pix := make([]byte, w*h*BytesPerPixel)
	for y := 0; y < h; y++ {
		copy(pix[y*w*BytesPerPixel:(y+1)*w*BytesPerPixel], nrgba.Pix[y*nrgba.Stride:])
	}
	return &Buffer{Pix: pix, Width: w, Height: h}
}

// overlaps reports whether two byte slices share any backing memory.
func overlaps(a, b []byte) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	aStart := uintptr(unsafe.Pointer(unsafe.SliceData(a)))
	bStart := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	return aStart < bStart+uintptr(len(b)) && bStart < aStart+uintptr(len(a))
}
