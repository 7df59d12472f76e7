package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/AnyUserName/pixcore/internal/manifest"
	"github.com/AnyUserName/pixcore/internal/pipeline"
	"github.com/AnyUserName/pixcore/internal/profile"
	"github.com/spf13/cobra"
)

var (
	buildOutDir    string
	buildProfile   string
	buildWorkers   int
	buildWidths    []int
	buildFormats   []string
	buildQuality   int
	buildKernel    string
	buildFilter    string
	buildPalette   int
	buildNoRegress bool
)

var buildCmd = &cobra.Command{
	Use:   "build <input_dir>",
	Short: "Process a directory of images through a profile and write a manifest",
	Long: `Scans input directory for images (png, jpg, jpeg, webp, gif, bmp, tiff),
decodes each to an RGBA8 buffer, applies the profile's color filter and
convolution kernel, then for every target width resamples (nearest neighbor),
quantizes at the profile quality and encodes every requested format.

Output filenames are content-addressed: <key>.<w>.<h>.<hash>.ext`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	f := buildCmd.Flags()
	f.StringVarP(&buildOutDir, "out", "o", "./pixcore_out", "output directory")
	f.StringVarP(&buildProfile, "profile", "p", "web", "processing profile (web, web-hq, thumbnail, poster)")
	f.IntVarP(&buildWorkers, "workers", "w", 0, "parallel workers (0 = NumCPU)")
	f.IntSliceVar(&buildWidths, "widths", nil, "custom widths (overrides profile)")
	f.StringSliceVar(&buildFormats, "formats", nil, "output formats (avif, webp, jpeg, png8, png, rgba)")
	f.IntVarP(&buildQuality, "quality", "q", -1, "quality 0-100 (-1 = profile default)")
	f.StringVarP(&buildKernel, "kernel", "k", "", "convolution preset or comma separated weights")
	f.StringVar(&buildFilter, "filter", "", "color filter (grayscale, sepia, invert, brighten, darken)")
	f.IntVar(&buildPalette, "palette", 0, "png8 palette size (0 = profile default)")
	f.BoolVar(&buildNoRegress, "no-regress-size", true, "skip variants larger than original file")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	start := time.Now()

	absInput, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	absOutput, err := filepath.Abs(buildOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	prof := profile.Get(buildProfile)
	if !profile.Known(buildProfile) {
		logVerbose(ctx, "unknown profile %q, using web defaults", buildProfile)
	}
	if buildWidths != nil {
		prof.Widths = buildWidths
	}
	if buildFormats != nil {
		prof.Formats = buildFormats
	}
	if buildQuality >= 0 {
		prof.Quality = buildQuality
	}
	if cmd.Flags().Changed("kernel") {
		prof.Kernel = buildKernel
	}
	if cmd.Flags().Changed("filter") {
		prof.Filter = buildFilter
	}
	if buildPalette > 0 {
		prof.PaletteColors = buildPalette
	}

	logVerbose(ctx, "input:   %s", absInput)
	logVerbose(ctx, "output:  %s", absOutput)
	logVerbose(ctx, "profile: %s (widths=%v, formats=%v, quality=%d, kernel=%q, filter=%q)",
		prof.Name, prof.Widths, prof.Formats, prof.Quality, prof.Kernel, prof.Filter)

	if err := os.MkdirAll(absOutput, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	p, err := pipeline.New(pipeline.Config{
		InputDir:      absInput,
		OutputDir:     absOutput,
		Profile:       prof,
		Workers:       buildWorkers,
		NoRegressSize: buildNoRegress,
	})
	if err != nil {
		return err
	}

	m, err := p.Run(ctx)
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	manifestPath := filepath.Join(absOutput, manifest.FileName)
	if err := manifest.WriteJSON(m, manifestPath); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	printBuildReport(m, time.Since(start))
	return nil
}

func printBuildReport(m *manifest.Manifest, elapsed time.Duration) {
	fmt.Println()
	fmt.Println("  pixcore build complete")
	fmt.Println()

	stats := m.Stats
	ratio := float64(0)
	if stats.TotalInputBytes > 0 {
		ratio = float64(stats.TotalOutputBytes) / float64(stats.TotalInputBytes) * 100
	}

	fmt.Printf("  Assets:      %d\n", stats.TotalAssets)
	fmt.Printf("  Variants:    %d\n", stats.TotalVariants)
	fmt.Printf("  Input size:  %s\n", formatBytes(stats.TotalInputBytes))
	fmt.Printf("  Output size: %s\n", formatBytes(stats.TotalOutputBytes))
	fmt.Printf("  Ratio:       %.1f%% of original\n", ratio)
	if stats.SkippedRegress > 0 {
		fmt.Printf("  Skipped:     %d variants (larger than original)\n", stats.SkippedRegress)
	}
	fmt.Printf("  Time:        %s\n", elapsed.Round(time.Millisecond))
	if m.BuildInfo != nil {
		fmt.Printf("  Workers:     %d\n", m.BuildInfo.Workers)
		fmt.Printf("  Build:       %s\n", m.BuildInfo.ID)
	}
	fmt.Println()

	// Top 10 heaviest assets.
	if len(m.Assets) > 0 {
		type assetSize struct {
			key        string
			inputSize  int64
			outputSize int64
		}
		var items []assetSize
		for key, a := range m.Assets {
			var outSum int64
			for _, v := range a.Variants {
				outSum += v.Size
			}
			items = append(items, assetSize{key, a.Original.Size, outSum})
		}
		sort.Slice(items, func(i, j int) bool {
			return items[i].inputSize > items[j].inputSize
		})
		n := min(len(items), 10)
		fmt.Printf("  Top %d heaviest (original -> all variants):\n", n)
		for _, it := range items[:n] {
			fmt.Printf("    %-40s %8s -> %8s\n",
				truncKey(it.key, 40),
				formatBytes(it.inputSize),
				formatBytes(it.outputSize),
			)
		}
		fmt.Println()
	}

	fmt.Printf("  Formats:     %s\n", strings.Join(detectOutputFormats(m), ", "))

	data, _ := json.Marshal(m)
	fmt.Printf("  Manifest:    %s (%s)\n", manifest.FileName, formatBytes(int64(len(data))))
	fmt.Println()
}

var formatOrder = []string{"avif", "webp", "jpeg", "png8", "png", "rgba"}

func detectOutputFormats(m *manifest.Manifest) []string {
	set := map[string]bool{}
	for _, a := range m.Assets {
		for _, v := range a.Variants {
			set[v.Format] = true
		}
	}
	var out []string
	for _, f := range formatOrder {
		if set[f] {
			out = append(out, f)
		}
	}
	return out
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func truncKey(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
