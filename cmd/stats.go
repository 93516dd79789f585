package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/AnyUserName/glitchart-cli/internal/manifest"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <out_dir_or_manifest>",
	Short: "Display statistics for a rendered frame directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(_ *cobra.Command, args []string) error {
	path, err := resolveManifestPath(args[0])
	if err != nil {
		return err
	}

	m, err := manifest.ReadJSON(path)
	if err != nil {
		return err
	}

	printStats(m)
	return nil
}

// resolveManifestPath accepts a manifest file or a directory holding one.
func resolveManifestPath(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		path = filepath.Join(path, manifest.FileName)
	}
	return path, nil
}

func printStats(m *manifest.Manifest) {
	fmt.Println()
	fmt.Printf("  Manifest version: %d\n", m.Version)
	fmt.Printf("  Generated:        %s\n", m.GeneratedAt)
	fmt.Printf("  Preset:           %s\n", m.Preset)
	fmt.Printf("  Effect:           %s\n", m.Params.Effect)
	if m.RenderInfo != nil {
		fmt.Printf("  Workers:          %d frames, %d rows\n", m.RenderInfo.Workers, m.RenderInfo.RowWorkers)
		fmt.Printf("  Palette padding:  %s\n", m.RenderInfo.PadPolicy)
	}
	fmt.Println()

	s := m.Stats
	fmt.Printf("  Source:           %s (%dx%d %s)\n", m.Source.Path, m.Source.Width, m.Source.Height, m.Source.Format)
	fmt.Printf("  Surface:          %dx%d\n", m.Surface.Width, m.Surface.Height)
	fmt.Printf("  Total frames:     %d\n", s.TotalFrames)
	fmt.Printf("  Output size:      %s\n", formatBytes(s.TotalBytes))
	if s.TotalFrames > 0 {
		fmt.Printf("  Average frame:    %s\n", formatBytes(s.TotalBytes/int64(s.TotalFrames)))
	}
	if len(m.Frames) > 0 {
		first, last := m.Frames[0].Time, m.Frames[len(m.Frames)-1].Time
		fmt.Printf("  Time span:        %.3fs – %.3fs at %g fps\n", first, last, m.FPS)
	}
	fmt.Println()

	// Per-format breakdown.
	formatStats := map[string]struct {
		count int
		bytes int64
	}{}
	for _, f := range m.Frames {
		fs := formatStats[f.Format]
		fs.count++
		fs.bytes += f.Size
		formatStats[f.Format] = fs
	}
	var formats []string
	for f := range formatStats {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	fmt.Println("  Format breakdown:")
	for _, f := range formats {
		fs := formatStats[f]
		fmt.Printf("    %-6s  %4d files  %s\n", f, fs.count, formatBytes(fs.bytes))
	}
	fmt.Println()

	if d := m.Descriptor; d != nil {
		fmt.Printf("  Descriptor:       brightness %d, contrast %d%%, %d colours\n",
			d.Brightness, d.Contrast, len(d.DominantColors))
		fmt.Printf("  Texture:          edges %d%%, roughness %d\n", d.Texture.EdgeDensity, d.Texture.Roughness)
		fmt.Printf("  Pattern:          symmetry %d%%, complexity %d%%, orientation %d°\n",
			d.Pattern.Symmetry, d.Pattern.Complexity, d.Pattern.Orientation)
	}

	// Warnings.
	var warnings []string
	if m.Descriptor == nil {
		warnings = append(warnings, "manifest has no descriptor")
	} else if len(m.Descriptor.DominantColors) == 0 {
		warnings = append(warnings, "source has no opaque pixels; palette is black")
	}
	if s.FailedFrames > 0 {
		warnings = append(warnings, fmt.Sprintf("%d frames failed to render", s.FailedFrames))
	}
	seen := map[string]bool{}
	for _, f := range m.Frames {
		if seen[f.Hash] {
			warnings = append(warnings, fmt.Sprintf("frame %d duplicates an earlier frame (%s)", f.Index, f.Hash))
		}
		seen[f.Hash] = true
	}
	if len(warnings) > 0 {
		fmt.Println()
		fmt.Printf("  Warnings (%d):\n", len(warnings))
		for _, w := range warnings {
			fmt.Printf("    ⚠ %s\n", w)
		}
	}
	fmt.Println()
}
