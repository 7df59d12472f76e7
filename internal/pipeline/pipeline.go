package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/AnyUserName/pixcore/internal/encoder"
	"github.com/AnyUserName/pixcore/internal/manifest"
	"github.com/AnyUserName/pixcore/internal/profile"
)

// Config holds all parameters for a build pipeline run.
type Config struct {
	InputDir      string
	OutputDir     string
	Profile       profile.Profile
	Workers       int
	NoRegressSize bool // skip variants larger than original
	Logger        *slog.Logger
}

// Pipeline orchestrates image processing. Each worker owns the buffers of the
// image it is processing, so pixel operations never share memory.
type Pipeline struct {
	cfg      Config
	ops      Ops
	registry *encoder.Registry
	log      *slog.Logger
}

// New creates a configured pipeline, rejecting profiles whose pixel
// operations do not resolve.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	ops, err := ResolveOps(cfg.Profile)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", cfg.Profile.Name, err)
	}
	return &Pipeline{
		cfg:      cfg,
		ops:      ops,
		registry: encoder.NewRegistry(cfg.Profile.PaletteColors),
		log:      cfg.Logger,
	}, nil
}

// Run executes the full build pipeline and returns the manifest. Cancelling
// ctx stops new images from starting; images already in flight finish.
func (p *Pipeline) Run(ctx context.Context) (*manifest.Manifest, error) {
	p.log.Debug("encoders", "available", p.registry.Available())

	sources, err := ScanImages(p.cfg.InputDir, p.cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no images found in %s", p.cfg.InputDir)
	}
	p.log.Info("scanned", "images", len(sources), "workers", p.cfg.Workers)

	results := make([]processResult, len(sources))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.cfg.Workers)

	for i, src := range sources {
		wg.Add(1)
		go func(idx int, s Source) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			if err := ctx.Err(); err != nil {
				results[idx] = processResult{key: s.Key, err: fmt.Errorf("%s: %w", s.RelPath, err)}
				return
			}

			log := p.log.With("key", s.Key)
			log.Debug("processing")
			results[idx] = processImage(s, p.cfg, p.ops, p.registry, log)
			if results[idx].err == nil {
				log.Debug("done", "variants", len(results[idx].asset.Variants))
			}
		}(i, src)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("build cancelled: %w", err)
	}

	m := manifest.New(p.cfg.Profile.Name)

	var errs []error
	var totalSkipped int
	for _, r := range results {
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		m.Assets[r.key] = r.asset
		totalSkipped += r.skippedRegress
	}

	// Partial failures are reported but don't fail the build.
	if len(errs) > 0 {
		for _, e := range errs {
			p.log.Error("image failed", "error", e)
		}
		if len(errs) == len(sources) {
			return nil, fmt.Errorf("all %d images failed to process", len(errs))
		}
		p.log.Warn("some images had errors", "failed", len(errs), "total", len(sources))
	}

	m.BuildInfo = manifest.NewBuildInfo(p.cfg.Workers)
	m.Stats.SkippedRegress = totalSkipped
	m.ComputeStats()
	return m, nil
}
