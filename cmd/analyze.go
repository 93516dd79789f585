package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/AnyUserName/glitchart-cli/internal/analyzer"
	"github.com/AnyUserName/glitchart-cli/internal/descriptor"
	"github.com/AnyUserName/glitchart-cli/internal/pipeline"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	analyzeJSON      bool
	analyzeOutDir    string
	analyzeMaxColors int
	analyzeStride    int
	analyzeWorkers   int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <image_or_dir>",
	Short: "Describe an image: dominant colours, texture and pattern metrics",
	Long: `Analyzes one image, or every image below a directory, and prints the
image descriptor the renderer uses: up to 8 dominant colours, brightness,
contrast, colour distribution, texture and pattern metrics.

With --out, each descriptor is written to <out>/<key>.descriptor.json.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print descriptors as JSON")
	analyzeCmd.Flags().StringVarP(&analyzeOutDir, "out", "o", "", "write descriptor JSON files to this directory")
	analyzeCmd.Flags().IntVar(&analyzeMaxColors, "max-colors", analyzer.DefaultMaxColors, "dominant colours to keep")
	analyzeCmd.Flags().IntVar(&analyzeStride, "stride", analyzer.DefaultStride, "colour sampling stride in pixels")
	analyzeCmd.Flags().IntVarP(&analyzeWorkers, "workers", "w", 0, "parallel workers (0 = NumCPU)")
	rootCmd.AddCommand(analyzeCmd)
}

type analyzed struct {
	src  pipeline.Source
	desc *descriptor.ImageDescriptor
	err  error
}

func runAnalyze(_ *cobra.Command, args []string) error {
	sources, err := pipeline.Discover(args[0])
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return fmt.Errorf("no images found in %s", args[0])
	}
	logVerbose("found %d images", len(sources))

	opts := analyzer.Options{MaxColors: analyzeMaxColors, Stride: analyzeStride}
	workers := analyzeWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]analyzed, len(sources))
	var g errgroup.Group
	g.SetLimit(workers)
	for i := range sources {
		i := i
		g.Go(func() error {
			src := sources[i]
			logVerbose("analyzing: %s", src.RelPath)
			d, err := pipeline.Describe(&src, opts)
			results[i] = analyzed{src: src, desc: d, err: err}
			return nil
		})
	}
	g.Wait()

	if analyzeOutDir != "" {
		if err := os.MkdirAll(analyzeOutDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	var failed int
	for _, r := range results {
		if r.err != nil {
			fmt.Fprintf(os.Stderr, "[glitchart] error: %v\n", r.err)
			failed++
			continue
		}
		if analyzeOutDir != "" {
			path := filepath.Join(analyzeOutDir, r.src.Key+".descriptor.json")
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
			if err := descriptor.WriteJSON(r.desc, path); err != nil {
				return fmt.Errorf("write descriptor: %w", err)
			}
			logVerbose("wrote %s", path)
		}
	}
	if failed == len(results) {
		return fmt.Errorf("all %d images failed to analyze", failed)
	}

	if analyzeJSON {
		return printDescriptorsJSON(results)
	}
	for _, r := range results {
		if r.err == nil {
			printDescriptor(r.src.RelPath, r.desc)
		}
	}
	return nil
}

func printDescriptorsJSON(results []analyzed) error {
	out := map[string]*descriptor.ImageDescriptor{}
	for _, r := range results {
		if r.err == nil {
			out[r.src.Key] = r.desc
		}
	}
	var v any = out
	if len(results) == 1 {
		v = results[0].desc
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func printDescriptor(name string, d *descriptor.ImageDescriptor) {
	fmt.Println()
	fmt.Printf("  %s  (%dx%d, %d of %d sampled pixels opaque)\n",
		name, d.Width, d.Height, d.OpaquePixels, d.SampledPixels)
	fmt.Println()

	fmt.Println("  Palette:")
	if len(d.DominantColors) == 0 {
		fmt.Println("    (no opaque pixels)")
	}
	for _, c := range d.DominantColors {
		bar := strings.Repeat("█", int(c.Percentage/5))
		fmt.Printf("    %s  %5.1f%%  %s\n", c.Hex, c.Percentage, bar)
	}
	fmt.Println()

	cd := d.ColorDistribution
	fmt.Println("  Colour:")
	fmt.Printf("    Brightness:     %d\n", d.Brightness)
	fmt.Printf("    Contrast:       %d%%\n", d.Contrast)
	fmt.Printf("    Average RGB:    %d, %d, %d\n", cd.AverageR, cd.AverageG, cd.AverageB)
	fmt.Printf("    Saturation:     %d%%\n", cd.Saturation)
	fmt.Printf("    Hue variation:  %d°\n", cd.HueVariation)
	fmt.Println()

	tx := d.Texture
	fmt.Println("  Texture:")
	fmt.Printf("    Edge density:   %d%%\n", tx.EdgeDensity)
	fmt.Printf("    Roughness:      %d\n", tx.Roughness)
	fmt.Printf("    Directionality: %d%%\n", tx.Directionality)
	fmt.Printf("    Uniformity:     %d%%\n", tx.Uniformity)
	fmt.Println()

	pt := d.Pattern
	fmt.Println("  Pattern:")
	fmt.Printf("    Repetitiveness: %d%%\n", pt.Repetitiveness)
	fmt.Printf("    Symmetry:       %d%%\n", pt.Symmetry)
	fmt.Printf("    Complexity:     %d%%\n", pt.Complexity)
	fmt.Printf("    Orientation:    %d°\n", pt.Orientation)
	fmt.Println()
}
