package encoder

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/AnyUserName/pixcore/pixel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradient(t *testing.T, w, h int, alpha uint8) *pixel.Buffer {
	t.Helper()
	buf, err := pixel.NewBuffer(w, h)
	require.NoError(t, err)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := buf.PixOffset(x, y)
			buf.Pix[i] = uint8(x * 255 / w)
			buf.Pix[i+1] = uint8(y * 255 / h)
			buf.Pix[i+2] = 128
			buf.Pix[i+3] = alpha
		}
	}
	return buf
}

type fakeEncoder struct {
	format    string
	available bool
}

func (f fakeEncoder) Format() string                             { return f.format }
func (f fakeEncoder) Extension() string                          { return f.format }
func (f fakeEncoder) Available() bool                            { return f.available }
func (f fakeEncoder) Encode(*pixel.Buffer, int) ([]byte, error) { return []byte(f.format), nil }

func TestRegistry_ResolveFormats(t *testing.T) {
	r := NewRegistryWith(
		fakeEncoder{"webp", false},
		&JPEGEncoder{},
		&PNGEncoder{},
	)
	assert.Equal(t, []string{"jpeg", "png"}, r.Available())

	assert.Equal(t, []string{"jpeg"}, r.ResolveFormats([]string{"webp", "JPEG", "jpeg"}, false))
	assert.Equal(t, []string{"jpeg", "png"}, r.ResolveFormats([]string{"jpeg"}, true))
	assert.Equal(t, []string{"jpeg"}, r.ResolveFormats([]string{"avif"}, false))
	assert.Equal(t, []string{"png"}, r.ResolveFormats(nil, true))
	assert.Nil(t, r.Get("webp"))
	assert.Equal(t, "encoders: jpeg, png", r.String())
}

func TestRegistry_ForPath(t *testing.T) {
	r := NewRegistry(0)
	assert.Equal(t, "jpeg", r.ForPath("out/a.JPG").Format())
	assert.Equal(t, "png", r.ForPath("a.png").Format())
	assert.Equal(t, "rgba", r.ForPath("a.rgba.zst").Format())
	assert.Nil(t, r.ForPath("a.gif"))
}

func TestJPEGEncoder(t *testing.T) {
	buf := gradient(t, 32, 16, 255)
	data, err := (&JPEGEncoder{}).Encode(buf, 0)
	require.NoError(t, err)
	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 32, 16), img.Bounds())
}

func TestPNGEncoder_Lossless(t *testing.T) {
	buf := gradient(t, 16, 16, 200)
	data, err := (&PNGEncoder{}).Encode(buf, 50)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, buf.Pix, pixel.FromImage(img).Pix)
}

func TestPalettedPNGEncoder(t *testing.T) {
	buf := gradient(t, 64, 64, 255)
	enc := &PalettedPNGEncoder{Colors: 8}
	pal := enc.Paletted(buf)
	assert.LessOrEqual(t, len(pal.Palette), 8)
	assert.Equal(t, buf.Image().Bounds(), pal.Bounds())

	data, err := enc.Encode(buf, 90)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	_, ok := img.(*image.Paletted)
	assert.True(t, ok, "expected paletted png, got %T", img)
}

func TestRawEncoder_RoundTrip(t *testing.T) {
	buf := gradient(t, 13, 7, 99)
	for _, q := range []int{0, 95} {
		data, err := (&RawEncoder{}).Encode(buf, q)
		require.NoError(t, err)
		assert.Equal(t, []byte("PXR1"), data[:4])

		got, err := DecodeRaw(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, buf.Dimensions(), got.Dimensions())
		assert.Equal(t, buf.Pix, got.Pix)
	}
}

func TestDecodeRaw_BadMagic(t *testing.T) {
	_, err := DecodeRaw(bytes.NewReader([]byte("NOPE00000000")))
	assert.ErrorIs(t, err, ErrBadRaw)

	_, err = DecodeRaw(bytes.NewReader([]byte{'P', 'X', 'R', '1', 0, 0, 0, 0, 0, 0, 0, 1}))
	assert.ErrorIs(t, err, ErrBadRaw)
}

func rawHeader(w, h uint32) []byte {
	hdr := []byte{'P', 'X', 'R', '1', 0, 0, 0, 0, 0, 0, 0, 0}
	binary.BigEndian.PutUint32(hdr[4:8], w)
	binary.BigEndian.PutUint32(hdr[8:12], h)
	return hdr
}

func TestDecodeRaw_ForgedHeader(t *testing.T) {
	// Header only: the claimed size must not be allocated up front.
	_, err := DecodeRaw(bytes.NewReader(rawHeader(1000, 1000)))
	assert.ErrorIs(t, err, ErrBadRaw)

	_, err = DecodeRaw(bytes.NewReader(rawHeader(10000, 10000)))
	assert.ErrorIs(t, err, ErrBadRaw)

	_, err = DecodeRaw(bytes.NewReader(rawHeader(0xffffffff, 0xffffffff)))
	assert.ErrorIs(t, err, ErrBadRaw)

	data, err := (&RawEncoder{}).Encode(gradient(t, 4, 4, 255), 50)
	require.NoError(t, err)
	for _, dims := range [][2]uint32{{8, 8}, {2, 2}, {4, 3}} {
		forged := append(rawHeader(dims[0], dims[1]), data[rawHeaderLen:]...)
		_, err := DecodeRaw(bytes.NewReader(forged))
		assert.ErrorIs(t, err, ErrBadRaw, "%dx%d", dims[0], dims[1])
	}
}

func TestEncoders_RejectInvalidBuffers(t *testing.T) {
	bad := &pixel.Buffer{Pix: make([]byte, 3), Width: 1, Height: 1}
	for _, enc := range []Encoder{&JPEGEncoder{}, &PNGEncoder{}, &PalettedPNGEncoder{}, &RawEncoder{}} {
		_, err := enc.Encode(bad, 50)
		assert.ErrorIs(t, err, pixel.ErrInvalidArgument, enc.Format())
	}
}
