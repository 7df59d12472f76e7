package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/AnyUserName/pixcore/internal/encoder"
	"github.com/AnyUserName/pixcore/internal/pipeline"
	"github.com/AnyUserName/pixcore/internal/profile"
	"github.com/AnyUserName/pixcore/pixel"
	"github.com/spf13/cobra"
)

var (
	applyQuality int
	applySize    string
	applyScale   float64
	applyKernel  string
	applyFilter  string
	applyPalette int
	applyFlip    []string
)

var applyCmd = &cobra.Command{
	Use:   "apply <input> <output>",
	Short: "Run pixel operations on a single image",
	Long: `Decodes <input> (any supported image or a .rgba.zst buffer), then in
order: flips, color filter, convolution, nearest-neighbor resample, quantize.
The encoder is picked from <output>'s extension (.png, .jpg, .webp, .avif,
.rgba.zst).

Sizes accept WxH, a single side (W, Wx or xH, the other side keeps the aspect
ratio) or a preset: hd, fhd, 2k, 4k, 8k.`,
	Args: cobra.ExactArgs(2),
	RunE: runApply,
}

func init() {
	f := applyCmd.Flags()
	f.IntVarP(&applyQuality, "quality", "q", profile.DefaultQuality, "quality 0-100 (100 = no quantization)")
	f.StringVarP(&applySize, "size", "s", "", "output size WxH or preset")
	f.Float64Var(&applyScale, "scale", 0, "output size as a percentage of the input")
	f.StringVarP(&applyKernel, "kernel", "k", "", "convolution preset or comma separated weights")
	f.StringVar(&applyFilter, "filter", "", "color filter (grayscale, sepia, invert, brighten, darken)")
	f.IntVar(&applyPalette, "palette", 0, "write an 8-bit paletted png with this many colors")
	f.StringSliceVar(&applyFlip, "flip", nil, "mirror the image: h (horizontal), v (vertical), or both")
	applyCmd.MarkFlagsMutuallyExclusive("size", "scale")
	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	in, out := args[0], args[1]

	ops, err := pipeline.ResolveOps(profile.Profile{
		Quality: applyQuality,
		Kernel:  applyKernel,
		Filter:  applyFilter,
	})
	if err != nil {
		return err
	}

	flips, err := parseFlips(applyFlip)
	if err != nil {
		return err
	}

	registry := encoder.NewRegistry(applyPalette)
	enc := registry.ForPath(out)
	if enc == nil {
		return fmt.Errorf("no encoder for %s (available: %v)", out, registry.Available())
	}
	if applyPalette > 0 {
		if enc.Format() != "png" {
			return fmt.Errorf("--palette needs a .png output")
		}
		enc = registry.Get("png8")
	}

	buf, err := pipeline.LoadBuffer(in)
	if err != nil {
		return fmt.Errorf("decode %s: %w", in, err)
	}
	logVerbose(ctx, "decoded %s: %dx%d", in, buf.Width, buf.Height)

	for _, flip := range flips {
		if err := flip(buf); err != nil {
			return fmt.Errorf("flip: %w", err)
		}
	}
	if err := ops.Apply(buf); err != nil {
		return err
	}

	size := profile.Size{Width: buf.Width, Height: buf.Height}
	switch {
	case applySize != "":
		if size, err = profile.ParseSize(applySize); err != nil {
			return err
		}
		size = size.Resolve(buf.Width, buf.Height)
	case applyScale > 0:
		size = profile.Scale(buf.Width, buf.Height, applyScale)
	}

	var result *pixel.Buffer
	if size.Width == buf.Width && size.Height == buf.Height {
		result = buf
		if err := pixel.Quantize(result, ops.Quality); err != nil {
			return fmt.Errorf("quantize: %w", err)
		}
	} else if result, err = ops.Variant(buf, size.Width, size.Height); err != nil {
		return err
	}
	logVerbose(ctx, "quantized to %d levels", pixel.QuantizeLevels(ops.Quality))

	data, err := enc.Encode(result, ops.Quality)
	if err != nil {
		return fmt.Errorf("encode %s: %w", enc.Format(), err)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	fmt.Printf("  %s -> %s  %dx%d %s (%s)\n",
		in, out, result.Width, result.Height, enc.Format(), formatBytes(int64(len(data))))
	return nil
}

func parseFlips(names []string) ([]func(*pixel.Buffer) error, error) {
	var flips []func(*pixel.Buffer) error
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "h", "horizontal":
			flips = append(flips, pixel.FlipHorizontal)
		case "v", "vertical":
			flips = append(flips, pixel.FlipVertical)
		case "both", "hv", "vh":
			flips = append(flips, pixel.FlipHorizontal, pixel.FlipVertical)
		default:
			return nil, fmt.Errorf("flip %q: want h, v or both", name)
		}
	}
	return flips, nil
}
