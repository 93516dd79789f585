package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/AnyUserName/glitchart-cli/internal/colorspace"
	"github.com/AnyUserName/glitchart-cli/internal/descriptor"
	"github.com/AnyUserName/glitchart-cli/internal/glitch"
	"github.com/AnyUserName/glitchart-cli/internal/manifest"
	"github.com/AnyUserName/glitchart-cli/internal/pipeline"
	"github.com/AnyUserName/glitchart-cli/internal/preset"
	"github.com/spf13/cobra"
)

var (
	renderOutDir        string
	renderPreset        string
	renderEffect        string
	renderIntensity     float64
	renderColorWeight   float64
	renderTextureWeight float64
	renderPatternWeight float64
	renderFrames        int
	renderFPS           float64
	renderStart         float64
	renderMaxSize       int
	renderFormat        string
	renderQuality       int
	renderWorkers       int
	renderRowWorkers    int
	renderPalette       []string
	renderPad           string
	renderDescriptor    string
)

var renderCmd = &cobra.Command{
	Use:   "render <image>",
	Short: "Render glitch frames from an image and write a manifest",
	Long: `Analyzes the image, fits it to the render surface (--max-size) and renders
--frames frames at --fps, starting at --start seconds. Each frame is
encoded (png or jpeg) and written with a content-addressed name:
frame-<index>.<hash>.<ext>.

Presets set the effect and the four weights (intensity, colour, texture,
pattern; each 0-100). Explicit flags override the preset.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	f := renderCmd.Flags()
	f.StringVarP(&renderOutDir, "out", "o", "./glitchart_out", "output directory")
	f.StringVarP(&renderPreset, "preset", "p", preset.DefaultName,
		fmt.Sprintf("control preset (%s)", strings.Join(preset.Names(), ", ")))
	f.StringVarP(&renderEffect, "effect", "e", "", "effect name or index 0-4 (overrides preset)")
	f.Float64Var(&renderIntensity, "intensity", 0, "glitch intensity 0-100 (overrides preset)")
	f.Float64Var(&renderColorWeight, "color-weight", 0, "colour weight 0-100 (overrides preset)")
	f.Float64Var(&renderTextureWeight, "texture-weight", 0, "texture weight 0-100 (overrides preset)")
	f.Float64Var(&renderPatternWeight, "pattern-weight", 0, "pattern weight 0-100 (overrides preset)")
	f.IntVarP(&renderFrames, "frames", "n", pipeline.DefaultFrames, "number of frames")
	f.Float64Var(&renderFPS, "fps", pipeline.DefaultFPS, "frames per second")
	f.Float64Var(&renderStart, "start", 0, "time of the first frame in seconds")
	f.IntVar(&renderMaxSize, "max-size", 0, "longest side of the render surface (0 = preset default)")
	f.StringVarP(&renderFormat, "format", "f", pipeline.DefaultFormat, "frame format (png, jpeg)")
	f.IntVarP(&renderQuality, "quality", "q", 0, "jpeg quality 1-100 (0 = encoder default)")
	f.IntVarP(&renderWorkers, "workers", "w", 0, "frames rendered in parallel (0 = NumCPU)")
	f.IntVar(&renderRowWorkers, "row-workers", 0, "goroutines per frame (0 = NumCPU)")
	f.StringSliceVar(&renderPalette, "palette", nil, "CSS colours replacing the leading palette slots")
	f.StringVar(&renderPad, "pad", descriptor.PadReplicate.String(), "palette padding: replicate or black")
	f.StringVar(&renderDescriptor, "descriptor", "", "reuse a descriptor JSON written by analyze --out")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	start := time.Now()

	absInput, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	absOutput, err := filepath.Abs(renderOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	prof, err := resolvePreset(cmd)
	if err != nil {
		return err
	}
	pad, err := descriptor.ParsePadPolicy(renderPad)
	if err != nil {
		return err
	}
	palette, err := parsePalette(renderPalette)
	if err != nil {
		return err
	}
	var desc *descriptor.ImageDescriptor
	if renderDescriptor != "" {
		if desc, err = descriptor.ReadJSON(renderDescriptor); err != nil {
			return err
		}
		logVerbose("descriptor: %s", renderDescriptor)
	}

	logVerbose("input:   %s", absInput)
	logVerbose("output:  %s", absOutput)
	logVerbose("preset:  %s (effect=%s, intensity=%g, color=%g, texture=%g, pattern=%g, max=%d)",
		prof.Name, prof.Effect, prof.Intensity, prof.ColorWeight, prof.TextureWeight, prof.PatternWeight, prof.MaxSize)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	p := pipeline.New(pipeline.Config{
		InputPath:  absInput,
		OutputDir:  absOutput,
		Preset:     prof,
		Frames:     renderFrames,
		FPS:        renderFPS,
		Start:      renderStart,
		Format:     renderFormat,
		Quality:    renderQuality,
		Workers:    renderWorkers,
		RowWorkers: renderRowWorkers,
		Pad:        pad,
		Palette:    palette,
		Descriptor: desc,
		Verbose:    verbose,
	})

	m, err := p.Run(ctx)
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	manifestPath := filepath.Join(absOutput, manifest.FileName)
	if err := manifest.WriteJSON(m, manifestPath); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	printRenderReport(m, time.Since(start))
	return nil
}

// resolvePreset applies explicitly set flags on top of the named preset.
func resolvePreset(cmd *cobra.Command) (preset.Preset, error) {
	prof := preset.Get(renderPreset)
	flags := cmd.Flags()

	if flags.Changed("effect") {
		e, err := glitch.ParseEffect(renderEffect)
		if err != nil {
			return prof, err
		}
		prof.Effect = e
	}
	if flags.Changed("intensity") {
		prof.Intensity = renderIntensity
	}
	if flags.Changed("color-weight") {
		prof.ColorWeight = renderColorWeight
	}
	if flags.Changed("texture-weight") {
		prof.TextureWeight = renderTextureWeight
	}
	if flags.Changed("pattern-weight") {
		prof.PatternWeight = renderPatternWeight
	}
	if renderMaxSize > 0 {
		prof.MaxSize = renderMaxSize
	}
	return prof.Clamp(), nil
}

func parsePalette(values []string) ([][3]uint8, error) {
	if len(values) > descriptor.PaletteSize {
		return nil, fmt.Errorf("palette: at most %d colours, got %d", descriptor.PaletteSize, len(values))
	}
	var out [][3]uint8
	for _, v := range values {
		c, err := colorspace.ParseCSS(v)
		if err != nil {
			return nil, fmt.Errorf("palette: %w", err)
		}
		out = append(out, c)
	}
	return out, nil
}

func printRenderReport(m *manifest.Manifest, elapsed time.Duration) {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════╗")
	fmt.Println("║             glitchart render complete            ║")
	fmt.Println("╚══════════════════════════════════════════════════╝")
	fmt.Println()

	s := m.Stats
	fmt.Printf("  Source:      %s (%dx%d %s, %s)\n", truncKey(m.Source.Path, 40),
		m.Source.Width, m.Source.Height, m.Source.Format, formatBytes(m.Source.Size))
	fmt.Printf("  Surface:     %dx%d\n", m.Surface.Width, m.Surface.Height)
	fmt.Printf("  Effect:      %s (preset %s)\n", m.Params.Effect, m.Preset)
	fmt.Printf("  Weights:     intensity %g, colour %g, texture %g, pattern %g\n",
		m.Params.Intensity, m.Params.ColorWeight, m.Params.TextureWeight, m.Params.PatternWeight)
	fmt.Printf("  Frames:      %d at %g fps\n", s.TotalFrames, m.FPS)
	if s.FailedFrames > 0 {
		fmt.Printf("  Failed:      %d frames\n", s.FailedFrames)
	}
	fmt.Printf("  Output size: %s\n", formatBytes(s.TotalBytes))
	fmt.Printf("  Time:        %s\n", elapsed.Round(time.Millisecond))
	if m.RenderInfo != nil {
		fmt.Printf("  Workers:     %d\n", m.RenderInfo.Workers)
	}
	fmt.Println()

	if m.Descriptor != nil && len(m.Descriptor.DominantColors) > 0 {
		fmt.Print("  Palette:    ")
		for _, c := range m.Descriptor.DominantColors {
			fmt.Printf(" %s", c.Hex)
		}
		fmt.Println()
		fmt.Println()
	}

	data, _ := json.Marshal(m)
	fmt.Printf("  Manifest:    %s (%s)\n", manifest.FileName, formatBytes(int64(len(data))))
	fmt.Println()
}
