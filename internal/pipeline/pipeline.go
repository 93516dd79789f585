// Package pipeline drives a render run: decode a source image, describe it,
// then render, encode and hash a sequence of glitch frames.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/AnyUserName/glitchart-cli/internal/analyzer"
	"github.com/AnyUserName/glitchart-cli/internal/descriptor"
	"github.com/AnyUserName/glitchart-cli/internal/encoder"
	"github.com/AnyUserName/glitchart-cli/internal/glitch"
	"github.com/AnyUserName/glitchart-cli/internal/manifest"
	"github.com/AnyUserName/glitchart-cli/internal/preset"
	"github.com/AnyUserName/glitchart-cli/internal/raster"
)

// Defaults applied by New.
const (
	DefaultFrames = 1
	DefaultFPS    = 30
	DefaultFormat = "png"
)

// ErrDescriptorMismatch is returned when a supplied descriptor was computed
// for an image of a different size.
var ErrDescriptorMismatch = errors.New("descriptor does not match source")

// Config holds all parameters for a render run.
type Config struct {
	InputPath  string
	OutputDir  string
	Preset     preset.Preset
	Frames     int
	FPS        float64
	Start      float64 // time of the first frame in seconds
	Format     string
	Quality    int
	Workers    int // frames rendered concurrently
	RowWorkers int // goroutines per frame (0 = NumCPU)
	Pad        descriptor.PadPolicy
	Palette    [][3]uint8 // replaces the leading dominant colours
	Analyzer   analyzer.Options
	Descriptor *descriptor.ImageDescriptor // skips analysis when set
	Verbose    bool
}

// Pipeline orchestrates a render run.
type Pipeline struct {
	cfg      Config
	registry *encoder.Registry
}

// New creates a configured pipeline.
func New(cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Frames <= 0 {
		cfg.Frames = DefaultFrames
	}
	if cfg.FPS <= 0 {
		cfg.FPS = DefaultFPS
	}
	if cfg.Format == "" {
		cfg.Format = DefaultFormat
	}
	if cfg.Start < 0 {
		cfg.Start = 0
	}
	cfg.Preset = cfg.Preset.Clamp()
	return &Pipeline{
		cfg:      cfg,
		registry: encoder.NewRegistry(),
	}
}

// Run executes the full render pipeline and returns the manifest. Frame
// failures are reported on stderr; the run fails only if every frame fails.
func (p *Pipeline) Run(ctx context.Context) (*manifest.Manifest, error) {
	p.logf("%s", p.registry.String())

	enc, err := p.registry.Resolve(p.cfg.Format)
	if err != nil {
		return nil, err
	}

	// Step 1: Decode and describe the source (once per run).
	src, err := SourceFromFile(p.cfg.InputPath)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	buf, err := Load(&src)
	if err != nil {
		return nil, err
	}
	desc := p.cfg.Descriptor
	if desc != nil && (desc.Width != buf.Width || desc.Height != buf.Height) {
		return nil, fmt.Errorf("%w: descriptor is %dx%d, %s is %dx%d",
			ErrDescriptorMismatch, desc.Width, desc.Height, src.RelPath, buf.Width, buf.Height)
	}
	if desc == nil {
		if desc, err = analyzer.Analyze(buf, p.cfg.Analyzer); err != nil {
			return nil, fmt.Errorf("%s: %w", src.RelPath, err)
		}
	}
	p.logf("described %s: %dx%d, %d dominant colours", src.RelPath, buf.Width, buf.Height, len(desc.DominantColors))

	// Step 2: Set up the renderer on the display-sized surface.
	w, h := raster.FitSize(buf.Width, buf.Height, p.cfg.Preset.MaxSize)
	surface := glitch.Surface{Width: w, Height: h}
	tex := buf.Fit(glitch.DefaultMaxTextureSize)
	r, err := glitch.NewRenderer(surface, tex, glitch.Options{Workers: p.cfg.RowWorkers})
	if err != nil {
		return nil, err
	}
	defer r.Close()

	pal := desc.Palette(p.cfg.Pad)
	if len(p.cfg.Palette) > 0 {
		pal = descriptor.Override(desc.DominantColors, p.cfg.Palette, p.cfg.Pad)
	}
	p.logf("surface %dx%d, effect %s, %d frames at %g fps", w, h, p.cfg.Preset.Effect, p.cfg.Frames, p.cfg.FPS)

	if err := os.MkdirAll(p.cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	// Step 3: Render frames in parallel.
	results := make([]frameResult, p.cfg.Frames)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Workers)
	for i := range results {
		job := frameJob{index: i, params: p.cfg.Preset.Params(p.frameTime(i), surface)}
		g.Go(func() error {
			results[job.index] = renderFrame(gctx, r, pal, job, enc, p.cfg.Quality, p.cfg.OutputDir)
			if err := results[job.index].err; err == nil {
				p.logf("frame %d: %s", job.index, results[job.index].frame.Path)
			}
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	// Step 4: Collect results into manifest.
	m := manifest.New(p.cfg.Preset.Name)
	m.RenderInfo = &manifest.RenderInfo{
		Workers:      p.cfg.Workers,
		RowWorkers:   p.cfg.RowWorkers,
		PadPolicy:    p.cfg.Pad.String(),
		PaletteFixed: len(p.cfg.Palette) > 0,
	}
	m.Source = manifest.SourceInfo{
		Path:     src.RelPath,
		Width:    buf.Width,
		Height:   buf.Height,
		Format:   src.Format,
		Size:     src.Size,
		HasAlpha: buf.HasAlpha(),
	}
	m.Surface = manifest.Size{Width: w, Height: h}
	m.Params = p.cfg.Preset.Params(p.cfg.Start, surface)
	m.FPS = p.cfg.FPS
	m.Descriptor = desc

	var errs []error
	for _, res := range results {
		if res.err != nil {
			errs = append(errs, res.err)
			continue
		}
		m.Frames = append(m.Frames, res.frame)
	}

	// Report errors but don't fail the entire run for partial failures.
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "[glitchart] error: %v\n", e)
		}
		if len(errs) == len(results) {
			return nil, fmt.Errorf("all %d frames failed to render", len(errs))
		}
		fmt.Fprintf(os.Stderr, "[glitchart] warning: %d of %d frames had errors\n",
			len(errs), len(results))
	}

	m.Stats.FailedFrames = len(errs)
	m.ComputeStats()
	return m, nil
}

// frameTime is the time uniform of frame i.
func (p *Pipeline) frameTime(i int) float64 {
	return p.cfg.Start + float64(i)/p.cfg.FPS
}

func (p *Pipeline) logf(format string, args ...any) {
	if p.cfg.Verbose {
		fmt.Fprintf(os.Stderr, "[glitchart] "+format+"\n", args...)
	}
}
