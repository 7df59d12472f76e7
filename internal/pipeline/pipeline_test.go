package pipeline

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/AnyUserName/pixcore/internal/encoder"
	"github.com/AnyUserName/pixcore/internal/hasher"
	"github.com/AnyUserName/pixcore/internal/manifest"
	"github.com/AnyUserName/pixcore/internal/profile"
	"github.com/AnyUserName/pixcore/pixel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, w, h int, alpha uint8) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: 128,
				A: alpha,
			})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testProfile() profile.Profile {
	return profile.Profile{
		Name:    "test",
		Widths:  []int{8, 16},
		Formats: []string{"png", "rgba"},
		Quality: 0,
		Kernel:  "box",
		Filter:  "invert",
	}
}

func TestScanImages(t *testing.T) {
	in := t.TempDir()
	writePNG(t, filepath.Join(in, "b.png"), 4, 4, 255)
	writePNG(t, filepath.Join(in, "cards", "a.png"), 4, 4, 255)
	writePNG(t, filepath.Join(in, ".cache", "hidden.png"), 4, 4, 255)
	writePNG(t, filepath.Join(in, "out", "old.png"), 4, 4, 255)
	require.NoError(t, os.WriteFile(filepath.Join(in, "notes.txt"), []byte("x"), 0o644))

	sources, err := ScanImages(in, filepath.Join(in, "out"))
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "b", sources[0].Key)
	assert.Equal(t, "cards/a", sources[1].Key)
	assert.Equal(t, "cards/a.png", sources[1].RelPath)
	assert.Equal(t, "png", sources[1].Format)
	assert.Positive(t, sources[1].Size)
}

func writeRaw(t *testing.T, path string, w, h int) []byte {
	t.Helper()
	buf, err := pixel.NewBuffer(w, h)
	require.NoError(t, err)
	for i := range buf.Pix {
		buf.Pix[i] = uint8(i * 3)
	}
	data, err := (&encoder.RawEncoder{}).Encode(buf, 50)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return buf.Pix
}

func TestScanImages_RawSources(t *testing.T) {
	in := t.TempDir()
	writePNG(t, filepath.Join(in, "card.png"), 4, 4, 255)
	writeRaw(t, filepath.Join(in, "card.rgba.zst"), 4, 4)
	writeRaw(t, filepath.Join(in, "dump.RGBA.ZST"), 2, 2)
	writePNG(t, filepath.Join(in, "pair.png"), 4, 4, 255)
	writePNG(t, filepath.Join(in, "pair.jpg"), 4, 4, 255)

	sources, err := ScanImages(in, "")
	require.NoError(t, err)
	require.Len(t, sources, 3)

	assert.Equal(t, "card", sources[0].Key)
	assert.Equal(t, "rgba", sources[0].Format)
	assert.Equal(t, "card.rgba.zst", sources[0].RelPath)
	assert.Equal(t, "dump", sources[1].Key)
	assert.Equal(t, "rgba", sources[1].Format)
	assert.Equal(t, "pair", sources[2].Key)
	assert.Equal(t, "pair.jpg", sources[2].RelPath)
}

func TestLoadBuffer_Raw(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.rgba.zst")
	pix := writeRaw(t, path, 5, 3)

	buf, err := LoadBuffer(path)
	require.NoError(t, err)
	assert.Equal(t, 5, buf.Width)
	assert.Equal(t, 3, buf.Height)
	assert.Equal(t, pix, buf.Pix)

	forged := filepath.Join(t.TempDir(), "forged.rgba.zst")
	require.NoError(t, os.WriteFile(forged, []byte{'P', 'X', 'R', '1', 0, 0, 0x27, 0x10, 0, 0, 0x27, 0x10}, 0o644))
	_, err = LoadBuffer(forged)
	assert.ErrorIs(t, err, encoder.ErrBadRaw)
}

func TestResolveOps(t *testing.T) {
	ops, err := ResolveOps(testProfile())
	require.NoError(t, err)
	assert.Equal(t, pixel.FilterInvert, ops.Filter)
	assert.Equal(t, pixel.Box(3), ops.Kernel)

	p := testProfile()
	p.Kernel = "1,2,3"
	_, err = ResolveOps(p)
	assert.ErrorIs(t, err, pixel.ErrInvalidArgument)

	p = testProfile()
	p.Quality = 101
	_, err = ResolveOps(p)
	assert.ErrorIs(t, err, pixel.ErrInvalidArgument)

	p = testProfile()
	p.Filter = "vintage"
	_, err = ResolveOps(p)
	assert.ErrorIs(t, err, pixel.ErrInvalidArgument)
}

func TestPipelineRun(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writePNG(t, filepath.Join(in, "banner.png"), 32, 18, 255)
	writePNG(t, filepath.Join(in, "icons", "logo.png"), 16, 16, 128)

	p, err := New(Config{
		InputDir:  in,
		OutputDir: out,
		Profile:   testProfile(),
		Workers:   2,
		Logger:    quietLogger(),
	})
	require.NoError(t, err)

	m, err := p.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, manifest.WriteJSON(m, filepath.Join(out, manifest.FileName)))
	assert.Empty(t, manifest.Validate(m, out))

	require.Len(t, m.Assets, 2)
	assert.Equal(t, 2, m.BuildInfo.Workers)

	banner := m.Assets["banner"]
	assert.False(t, banner.Original.HasAlpha)
	bannerBytes, err := os.ReadFile(filepath.Join(in, "banner.png"))
	require.NoError(t, err)
	assert.Equal(t, hasher.ContentHash(bannerBytes, 16), banner.Original.Hash)
	assert.Equal(t, 32, banner.Original.Width)
	assert.Equal(t, manifest.Ops{Filter: "invert", Kernel: "box", Quality: 0, Levels: 2}, banner.Ops)
	// 8 and 16 wide, two formats each.
	assert.Len(t, banner.Variants, 4)

	logo := m.Assets["icons/logo"]
	assert.True(t, logo.Original.HasAlpha)
	// png is already requested, so alpha adds no extra fallback format.
	assert.Len(t, logo.Variants, 4)

	for _, v := range banner.Variants {
		f, err := os.Open(filepath.Join(out, v.Path))
		require.NoError(t, err)
		var buf *pixel.Buffer
		if v.Format == "rgba" {
			buf, err = encoder.DecodeRaw(f)
		} else {
			var img image.Image
			img, err = png.Decode(f)
			if err == nil {
				buf = pixel.FromImage(img)
			}
		}
		f.Close()
		require.NoError(t, err, v.Path)

		assert.Equal(t, v.Width, buf.Width)
		assert.Equal(t, v.Height, buf.Height)
		for i := 0; i < len(buf.Pix); i += 4 {
			for c := 0; c < 3; c++ {
				assert.Contains(t, []byte{0, 255}, buf.Pix[i+c], "%s byte %d", v.Path, i+c)
			}
			assert.Equal(t, byte(255), buf.Pix[i+3])
		}
	}
}

func TestPipelineRun_RawInput(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writeRaw(t, filepath.Join(in, "dump.rgba.zst"), 20, 10)

	p, err := New(Config{InputDir: in, OutputDir: out, Profile: testProfile(), Logger: quietLogger()})
	require.NoError(t, err)
	m, err := p.Run(context.Background())
	require.NoError(t, err)

	dump := m.Assets["dump"]
	assert.Equal(t, "rgba", dump.Original.Format)
	assert.Equal(t, 20, dump.Original.Width)
	assert.True(t, dump.Original.HasAlpha)
	require.NotEmpty(t, dump.Variants)
	for _, v := range dump.Variants {
		_, err := os.Stat(filepath.Join(out, v.Path))
		assert.NoError(t, err, v.Path)
	}
}

func TestPipelineRun_AllFail(t *testing.T) {
	in := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(in, "broken.png"), []byte("not a png"), 0o644))

	p, err := New(Config{InputDir: in, OutputDir: t.TempDir(), Profile: testProfile(), Logger: quietLogger()})
	require.NoError(t, err)
	_, err = p.Run(context.Background())
	assert.ErrorContains(t, err, "all 1 images failed")
}

func TestPipelineRun_PartialFailure(t *testing.T) {
	in := t.TempDir()
	writePNG(t, filepath.Join(in, "ok.png"), 8, 8, 255)
	require.NoError(t, os.WriteFile(filepath.Join(in, "broken.png"), []byte("not a png"), 0o644))

	p, err := New(Config{InputDir: in, OutputDir: t.TempDir(), Profile: testProfile(), Logger: quietLogger()})
	require.NoError(t, err)
	m, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, m.Assets, 1)
	assert.Contains(t, m.Assets, "ok")
}

func TestPipelineRun_Cancelled(t *testing.T) {
	in := t.TempDir()
	writePNG(t, filepath.Join(in, "a.png"), 8, 8, 255)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p, err := New(Config{InputDir: in, OutputDir: t.TempDir(), Profile: testProfile(), Logger: quietLogger()})
	require.NoError(t, err)
	_, err = p.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPipelineRun_Empty(t *testing.T) {
	p, err := New(Config{InputDir: t.TempDir(), OutputDir: t.TempDir(), Profile: testProfile(), Logger: quietLogger()})
	require.NoError(t, err)
	_, err = p.Run(context.Background())
	assert.ErrorContains(t, err, "no images found")
}
