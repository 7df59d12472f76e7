package pipeline

import (
	"fmt"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/AnyUserName/pixcore/internal/encoder"
	"github.com/AnyUserName/pixcore/internal/hasher"
	"github.com/AnyUserName/pixcore/internal/manifest"
	"github.com/AnyUserName/pixcore/internal/profile"
	"github.com/AnyUserName/pixcore/pixel"
	"github.com/disintegration/imaging"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// processResult holds the result of processing a single source image.
type processResult struct {
	key            string
	asset          manifest.Asset
	err            error
	skippedRegress int // variants skipped because larger than original
}

// Ops is the resolved, validated form of a profile's pixel operations.
type Ops struct {
	Filter     pixel.ColorFilter
	Kernel     pixel.Kernel // nil = no convolution
	KernelName string
	Quality    int
}

// ResolveOps validates the filter, kernel and quality named by a profile.
func ResolveOps(p profile.Profile) (Ops, error) {
	ops := Ops{Quality: p.Quality, KernelName: p.Kernel}
	if p.Quality < 0 || p.Quality > 100 {
		return ops, fmt.Errorf("quality %d: %w", p.Quality, pixel.ErrInvalidArgument)
	}
	f, err := pixel.ParseColorFilter(p.Filter)
	if err != nil {
		return ops, err
	}
	ops.Filter = f
	if p.Kernel != "" {
		k, err := pixel.ResolveKernel(p.Kernel)
		if err != nil {
			return ops, fmt.Errorf("kernel %q: %w", p.Kernel, err)
		}
		ops.Kernel = k
	}
	return ops, nil
}

// Apply runs the full-resolution operations (color filter, then convolution)
// on buf in place.
func (o Ops) Apply(buf *pixel.Buffer) error {
	if err := pixel.ApplyColorFilter(buf, o.Filter); err != nil {
		return fmt.Errorf("filter: %w", err)
	}
	if o.Kernel != nil {
		if err := pixel.Convolve(buf, o.Kernel); err != nil {
			return fmt.Errorf("convolve: %w", err)
		}
	}
	return nil
}

// Variant resamples buf to w x h and quantizes the result.
func (o Ops) Variant(buf *pixel.Buffer, w, h int) (*pixel.Buffer, error) {
	dst, err := pixel.ResampleTo(buf, w, h)
	if err != nil {
		return nil, fmt.Errorf("resample %dx%d: %w", w, h, err)
	}
	if err := pixel.Quantize(dst, o.Quality); err != nil {
		return nil, fmt.Errorf("quantize: %w", err)
	}
	return dst, nil
}

// LoadBuffer decodes an image file into an RGBA8 buffer, applying any EXIF
// orientation. Raw .rgba.zst files are read back as written.
func LoadBuffer(path string) (*pixel.Buffer, error) {
	if IsRaw(path) {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return encoder.DecodeRaw(f)
	}
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	return pixel.FromImage(img), nil
}

// processImage handles a single source image: decode, filter, convolve, then
// resample + quantize + encode per target width.
func processImage(src Source, cfg Config, ops Ops, registry *encoder.Registry, log *slog.Logger) processResult {
	result := processResult{key: src.Key}

	buf, err := LoadBuffer(src.AbsPath)
	if err != nil {
		result.err = fmt.Errorf("decode %s: %w", src.RelPath, err)
		return result
	}

	sourceHash, err := hasher.FileHash(src.AbsPath, 16)
	if err != nil {
		result.err = fmt.Errorf("hash %s: %w", src.RelPath, err)
		return result
	}

	origW, origH := buf.Width, buf.Height
	hasAlpha := !buf.Opaque()
	pixelHash := hasher.PixelHash(buf, 16)

	if err := ops.Apply(buf); err != nil {
		result.err = fmt.Errorf("%s: %w", src.RelPath, err)
		return result
	}
	avg := buf.AvgColor()

	result.asset = manifest.Asset{
		Original: manifest.OriginalInfo{
			Width:    origW,
			Height:   origH,
			Format:   src.Format,
			Size:     src.Size,
			HasAlpha: hasAlpha,
			Hash:     sourceHash,
		},
		PixelHash:   pixelHash,
		AspectRatio: float64(origW) / float64(origH),
		AvgColor:    &avg,
		Ops: manifest.Ops{
			Filter:  filterName(ops.Filter),
			Kernel:  ops.KernelName,
			Quality: ops.Quality,
			Levels:  pixel.QuantizeLevels(ops.Quality),
		},
	}

	widths := cfg.Profile.EffectiveWidths(origW)
	formats := registry.ResolveFormats(cfg.Profile.Formats, hasAlpha)

	keyDir := filepath.Dir(src.Key)
	if keyDir != "." {
		if err := os.MkdirAll(filepath.Join(cfg.OutputDir, keyDir), 0o755); err != nil {
			result.err = fmt.Errorf("create dir for %s: %w", src.Key, err)
			return result
		}
	}

	for _, w := range widths {
		h := profile.ProportionalHeight(origW, origH, w)

		variant, err := ops.Variant(buf, w, h)
		if err != nil {
			result.err = fmt.Errorf("%s@%dx%d: %w", src.Key, w, h, err)
			return result
		}

		for _, format := range formats {
			enc := registry.Get(format)
			if enc == nil {
				continue
			}

			data, err := enc.Encode(variant, ops.Quality)
			if err != nil {
				log.Warn("encode failed", "key", src.Key, "width", w, "height", h, "format", format, "error", err)
				continue
			}

			if cfg.NoRegressSize && int64(len(data)) >= src.Size {
				log.Debug("skip variant larger than original",
					"key", src.Key, "width", w, "height", h, "format", format,
					"encoded", len(data), "original", src.Size)
				result.skippedRegress++
				continue
			}

			contentHash := hasher.ContentHash(data, 16)

			// key.w.h.hash.ext
			fileName := fmt.Sprintf("%s.%d.%d.%s.%s",
				filepath.Base(src.Key), w, h, contentHash[:8], enc.Extension())
			relPath := filepath.ToSlash(filepath.Join(keyDir, fileName))

			if err := os.WriteFile(filepath.Join(cfg.OutputDir, relPath), data, 0o644); err != nil {
				result.err = fmt.Errorf("write %s: %w", relPath, err)
				return result
			}

			result.asset.Variants = append(result.asset.Variants, manifest.Variant{
				Format: format,
				Width:  w,
				Height: h,
				Size:   int64(len(data)),
				Hash:   contentHash,
				Path:   relPath,
			})
		}
	}

	return result
}

func filterName(f pixel.ColorFilter) string {
	if f == pixel.FilterNone {
		return ""
	}
	return f.String()
}
