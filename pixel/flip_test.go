package pixel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlipHorizontal(t *testing.T) {
	for _, w := range []int{1, 4, 5} {
		orig := patterned(t, w, 3)
		buf := orig.Clone()
		require.NoError(t, FlipHorizontal(buf))
		for y := 0; y < 3; y++ {
			for x := 0; x < w; x++ {
				got := buf.Pix[buf.PixOffset(x, y) : buf.PixOffset(x, y)+4]
				want := orig.Pix[orig.PixOffset(w-1-x, y) : orig.PixOffset(w-1-x, y)+4]
				assert.Equal(t, want, got, "w=%d (%d,%d)", w, x, y)
			}
		}

		require.NoError(t, FlipHorizontal(buf))
		assert.Equal(t, orig.Pix, buf.Pix, "double flip, w=%d", w)
	}
}

func TestFlipVertical(t *testing.T) {
	for _, h := range []int{1, 4, 5} {
		orig := patterned(t, 3, h)
		buf := orig.Clone()
		require.NoError(t, FlipVertical(buf))
		for y := 0; y < h; y++ {
			for x := 0; x < 3; x++ {
				got := buf.Pix[buf.PixOffset(x, y) : buf.PixOffset(x, y)+4]
				want := orig.Pix[orig.PixOffset(x, h-1-y) : orig.PixOffset(x, h-1-y)+4]
				assert.Equal(t, want, got, "h=%d (%d,%d)", h, x, y)
			}
		}

		require.NoError(t, FlipVertical(buf))
		assert.Equal(t, orig.Pix, buf.Pix, "double flip, h=%d", h)
	}
}

func TestFlip_Invalid(t *testing.T) {
	bad := &Buffer{Pix: make([]byte, 7), Width: 2, Height: 1}
	assert.ErrorIs(t, FlipHorizontal(bad), ErrInvalidArgument)
	assert.ErrorIs(t, FlipVertical(bad), ErrInvalidArgument)
	assert.ErrorIs(t, FlipVertical(nil), ErrInvalidArgument)
}
