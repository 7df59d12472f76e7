package pixel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pixelAt(buf *Buffer, x, y int) []byte {
	i := buf.PixOffset(x, y)
	return buf.Pix[i : i+4]
}

func TestResample_SameSizeIsCopy(t *testing.T) {
	src := patterned(t, 7, 5)
	dst, err := NewBuffer(7, 5)
	require.NoError(t, err)
	require.NoError(t, Resample(src, dst))
	assert.Equal(t, src.Pix, dst.Pix)
}

func TestResample_Downscale4x4To2x2(t *testing.T) {
	src := patterned(t, 4, 4)
	dst, err := ResampleTo(src, 2, 2)
	require.NoError(t, err)

	cases := []struct{ dx, dy, sx, sy int }{
		{0, 0, 0, 0},
		{1, 0, 2, 0},
		{0, 1, 0, 2},
		{1, 1, 2, 2},
	}
	for _, c := range cases {
		assert.Equal(t, pixelAt(src, c.sx, c.sy), pixelAt(dst, c.dx, c.dy),
			"dst (%d,%d) should come from src (%d,%d)", c.dx, c.dy, c.sx, c.sy)
	}
}

func TestResample_UpscaleDuplicates(t *testing.T) {
	src := patterned(t, 2, 2)
	dst, err := ResampleTo(src, 4, 8)
	require.NoError(t, err)
	for y := 0; y < 8; y++ {
		for x := 0; x < 4; x++ {
			assert.Equal(t, pixelAt(src, x/2, y/4), pixelAt(dst, x, y), "dst (%d,%d)", x, y)
		}
	}
}

func TestResample_NonIntegerScaleStaysInBounds(t *testing.T) {
	src := patterned(t, 7, 3)
	for _, d := range []Dimensions{{1, 1}, {3, 2}, {5, 7}, {13, 11}} {
		dst, err := ResampleTo(src, d.Width, d.Height)
		require.NoError(t, err, "dst %v", d)
		require.NoError(t, dst.Validate())
		// First pixel always maps to the source origin.
		assert.Equal(t, pixelAt(src, 0, 0), pixelAt(dst, 0, 0))
	}
}

func TestResample_RejectsAliasing(t *testing.T) {
	backing := make([]byte, 64)
	src, err := Wrap(backing[:16], 2, 2)
	require.NoError(t, err)

	same, err := Wrap(backing[:16], 2, 2)
	require.NoError(t, err)
	assert.ErrorIs(t, Resample(src, same), ErrInvalidArgument)

	shifted, err := Wrap(backing[8:24], 2, 2)
	require.NoError(t, err)
	assert.ErrorIs(t, Resample(src, shifted), ErrInvalidArgument)

	disjoint, err := Wrap(backing[16:32], 2, 2)
	require.NoError(t, err)
	assert.NoError(t, Resample(src, disjoint))
}

func TestResample_InvalidArguments(t *testing.T) {
	src := patterned(t, 4, 4)
	assert.ErrorIs(t, Resample(src, &Buffer{Pix: make([]byte, 15), Width: 2, Height: 2}), ErrInvalidArgument)
	assert.ErrorIs(t, Resample(src, &Buffer{Width: 0, Height: 2}), ErrInvalidArgument)
	assert.ErrorIs(t, Resample(nil, src), ErrInvalidArgument)

	_, err := ResampleTo(src, 0, 3)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	assert.ErrorIs(t, ResampleRGBA(src.Pix, make([]byte, 8), 4, 4, 2, 2), ErrInvalidArgument)
	assert.NoError(t, ResampleRGBA(src.Pix, make([]byte, 16), 4, 4, 2, 2))
}

func BenchmarkResample(b *testing.B) {
	src := patterned(b, 1024, 768)
	dst, _ := NewBuffer(640, 480)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Resample(src, dst)
	}
}
