package cmd

import (
	"fmt"
	"sort"

	"github.com/AnyUserName/pixcore/internal/manifest"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <out_dir_or_manifest>",
	Short: "Display statistics for a built asset directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(_ *cobra.Command, args []string) error {
	m, _, err := manifest.Load(args[0])
	if err != nil {
		return err
	}
	printStats(m)
	return nil
}

func printStats(m *manifest.Manifest) {
	fmt.Println()
	fmt.Printf("  Manifest version: %d\n", m.Version)
	fmt.Printf("  Generated:        %s\n", m.GeneratedAt)
	fmt.Printf("  Profile:          %s\n", m.Profile)
	if m.BuildInfo != nil {
		fmt.Printf("  Build:            %s (%d workers)\n", m.BuildInfo.ID, m.BuildInfo.Workers)
	}
	fmt.Println()

	s := m.Stats
	fmt.Printf("  Total assets:     %d\n", s.TotalAssets)
	fmt.Printf("  Total variants:   %d\n", s.TotalVariants)
	fmt.Printf("  Input size:       %s\n", formatBytes(s.TotalInputBytes))
	fmt.Printf("  Output size:      %s\n", formatBytes(s.TotalOutputBytes))
	if s.TotalInputBytes > 0 {
		ratio := float64(s.TotalOutputBytes) / float64(s.TotalInputBytes) * 100
		fmt.Printf("  Compression:      %.1f%% of original\n", ratio)
	}
	fmt.Println()

	formatStats := map[string]struct {
		count int
		bytes int64
	}{}
	widthStats := map[int]int{}
	levelStats := map[int]int{}
	kernelStats := map[string]int{}
	for _, a := range m.Assets {
		levelStats[a.Ops.Levels]++
		if a.Ops.Kernel != "" {
			kernelStats[a.Ops.Kernel]++
		}
		for _, v := range a.Variants {
			fs := formatStats[v.Format]
			fs.count++
			fs.bytes += v.Size
			formatStats[v.Format] = fs
			widthStats[v.Width]++
		}
	}

	fmt.Println("  Format breakdown:")
	for _, f := range formatOrder {
		if fs, ok := formatStats[f]; ok {
			fmt.Printf("    %-6s  %4d files  %s\n", f, fs.count, formatBytes(fs.bytes))
		}
	}
	fmt.Println()

	fmt.Println("  Width breakdown:")
	for _, w := range sortedKeys(widthStats) {
		fmt.Printf("    %5dpx  %4d variants\n", w, widthStats[w])
	}
	fmt.Println()

	fmt.Println("  Quantization:")
	for _, l := range sortedKeys(levelStats) {
		label := fmt.Sprintf("%d levels", l)
		if l == 0 {
			label = "untouched"
		}
		fmt.Printf("    %-12s %4d assets\n", label, levelStats[l])
	}
	if len(kernelStats) > 0 {
		fmt.Println("  Kernels:")
		for k, n := range kernelStats {
			fmt.Printf("    %-12s %4d assets\n", k, n)
		}
	}

	var warnings []string
	for key, a := range m.Assets {
		if len(a.Variants) == 0 {
			warnings = append(warnings, fmt.Sprintf("asset %q has no variants", key))
		}
	}
	if len(warnings) > 0 {
		sort.Strings(warnings)
		fmt.Println()
		fmt.Printf("  Warnings (%d):\n", len(warnings))
		for _, w := range warnings {
			fmt.Printf("    ! %s\n", w)
		}
	}
	fmt.Println()
}

func sortedKeys(m map[int]int) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
