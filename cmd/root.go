package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/AnyUserName/pixcore/internal/logging"
	"github.com/AnyUserName/pixcore/pixel"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	verbose bool

	logLevel string
	logJSON  bool
	logFile  string

	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "pixcore",
	Short: "RGBA8 pixel operations: quantize, resample, convolve",
	Long: `pixcore runs in-place transformations over packed RGBA8 pixel buffers:
quality-driven per-channel quantization, nearest-neighbor resampling and
square-kernel convolution.

Use "build" to push a directory of images through a profile, or "apply"
for a single file.`,
	Version:            version,
	SilenceUsage:       true,
	PersistentPreRunE:  setupLogging,
	PersistentPostRunE: closeLogging,
}

// Execute runs the root command. ctx is cancelled on SIGINT/SIGTERM.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output (same as --log-level debug)")
	pf.StringVar(&logLevel, "log-level", "INFO", "log level (DEBUG, INFO, WARN, ERROR)")
	pf.BoolVar(&logJSON, "log-json", false, "emit JSON log records")
	pf.StringVar(&logFile, "log-file", "", "also write logs to this file (rotated at 10 MB)")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"pixcore %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

func setupLogging(cmd *cobra.Command, _ []string) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(logLevel))); err != nil {
		return fmt.Errorf("log level %q: %w", logLevel, err)
	}
	if verbose {
		level = slog.LevelDebug
	}

	var w io.Writer = os.Stderr
	if logFile != "" {
		fw := logging.FileWriter(logFile, 10, 3)
		logCloser = fw
		w = io.MultiWriter(os.Stderr, fw)
	}

	l := logging.Logger(w, logJSON, level)
	slog.SetDefault(l)
	if level <= slog.LevelDebug {
		pixel.SetLogger(l.With("pkg", "pixel"))
	}

	ctx := logging.AppendCtx(cmd.Context(), slog.String("cmd", cmd.Name()))
	cmd.SetContext(ctx)
	return nil
}

func closeLogging(*cobra.Command, []string) error {
	if logCloser == nil {
		return nil
	}
	err := logCloser.Close()
	logCloser = nil
	return err
}

// logVerbose logs a formatted message at debug level, shown with --verbose.
func logVerbose(ctx context.Context, format string, args ...any) {
	slog.DebugContext(ctx, fmt.Sprintf(format, args...))
}
