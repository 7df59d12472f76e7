package pixel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKernelSizeAndRadius(t *testing.T) {
	assert.Equal(t, 1, Identity(1).Size())
	assert.Equal(t, 0, Identity(1).Radius())
	assert.Equal(t, 3, Sharpen().Size())
	assert.Equal(t, 1, Sharpen().Radius())
	assert.Equal(t, 5, Box(5).Size())
	assert.Equal(t, 2, Box(5).Radius())
	// Truncated size for a non-square length.
	assert.Equal(t, 2, make(Kernel, 8).Size())
}

func TestBoxKernelSumsToOne(t *testing.T) {
	for _, n := range []int{1, 3, 5, 7} {
		var sum float64
		for _, w := range Box(n) {
			sum += w
		}
		assert.InDelta(t, 1.0, sum, 1e-12, "Box(%d)", n)
	}
}

func TestGaussian3SumsToOne(t *testing.T) {
	var sum float64
	for _, w := range Gaussian3() {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
}

func TestIdentityCenter(t *testing.T) {
	k := Identity(5)
	for i, w := range k {
		if i == 12 {
			assert.Equal(t, 1.0, w)
		} else {
			assert.Zero(t, w, "index %d", i)
		}
	}
}

func TestKernelByName(t *testing.T) {
	for _, name := range KernelNames() {
		k, err := KernelByName(name)
		require.NoError(t, err, name)
		assert.NoError(t, k.Validate(), name)
	}

	k, err := KernelByName("SHARPEN")
	require.NoError(t, err)
	k[0] = 99
	fresh, _ := KernelByName("sharpen")
	assert.Equal(t, 0.0, fresh[0], "presets must not share backing arrays")

	_, err = KernelByName("nope")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestParseKernel(t *testing.T) {
	k, err := ParseKernel("0,-1,0, -1,5,-1; 0 -1 0")
	require.NoError(t, err)
	assert.Equal(t, Sharpen(), k)

	_, err = ParseKernel("1,2,3")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = ParseKernel("1,x,3,4")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = ParseKernel("")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestResolveKernel(t *testing.T) {
	k, err := ResolveKernel("emboss")
	require.NoError(t, err)
	assert.Equal(t, Emboss(), k)

	k, err = ResolveKernel("2")
	require.NoError(t, err)
	assert.Equal(t, Kernel{2}, k)
}

func TestKernelValidate_NonFinite(t *testing.T) {
	assert.ErrorIs(t, Kernel{math.Inf(-1)}.Validate(), ErrInvalidArgument)
}
