package encoder

import (
	"bytes"
	"image"
	"image/png"

	"github.com/AnyUserName/pixcore/pixel"
	"github.com/soniakeys/quant/median"
	"golang.org/x/image/draw"
)

// PNGEncoder encodes buffers to lossless 32-bit PNG.
// Used as fallback for buffers with transparency.
type PNGEncoder struct{}

func (e *PNGEncoder) Format() string    { return "png" }
func (e *PNGEncoder) Extension() string { return "png" }
func (e *PNGEncoder) Available() bool   { return true }

func (e *PNGEncoder) Encode(buf *pixel.Buffer, _ int) ([]byte, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	return encodePNG(buf.Image(), len(buf.Pix)/2)
}

// DefaultPaletteColors is used by PalettedPNGEncoder when Colors is unset.
const DefaultPaletteColors = 256

// PalettedPNGEncoder encodes buffers to an 8-bit paletted PNG whose palette is
// chosen by median cut.
type PalettedPNGEncoder struct {
	Colors int
}

func (e *PalettedPNGEncoder) Format() string    { return "png8" }
func (e *PalettedPNGEncoder) Extension() string { return "png" }
func (e *PalettedPNGEncoder) Available() bool   { return true }

func (e *PalettedPNGEncoder) Encode(buf *pixel.Buffer, _ int) ([]byte, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	return encodePNG(e.Paletted(buf), len(buf.Pix)/8)
}

// Paletted maps buf onto a median-cut palette of at most Colors entries.
func (e *PalettedPNGEncoder) Paletted(buf *pixel.Buffer) *image.Paletted {
	n := e.Colors
	if n <= 0 || n > DefaultPaletteColors {
		n = DefaultPaletteColors
	}
	img := buf.Image()
	paletted := median.Quantizer(n).Paletted(img)
	draw.Draw(paletted, img.Bounds(), img, image.Point{}, draw.Src)
	return paletted
}

func encodePNG(img image.Image, sizeHint int) ([]byte, error) {
	var out bytes.Buffer
	out.Grow(sizeHint)

	enc := &png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&out, img); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
