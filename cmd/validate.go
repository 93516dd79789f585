package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AnyUserName/glitchart-cli/internal/hasher"
	"github.com/AnyUserName/glitchart-cli/internal/manifest"
	"github.com/spf13/cobra"
)

var validateHashes bool

var validateCmd = &cobra.Command{
	Use:   "validate <manifest_or_dir>",
	Short: "Validate a glitchart manifest and check referenced frames exist",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateHashes, "hashes", true, "re-hash frame files and compare")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, args []string) error {
	manifestPath, err := resolveManifestPath(args[0])
	if err != nil {
		return err
	}

	m, err := manifest.ReadJSON(manifestPath)
	if err != nil {
		return err
	}

	baseDir := filepath.Join(filepath.Dir(manifestPath), m.BasePath)
	errors := validateManifest(m, baseDir, validateHashes)

	if len(errors) == 0 {
		fmt.Println("  ✓ Manifest is valid")
		fmt.Printf("  ✓ %d frames — all files present\n", m.Stats.TotalFrames)
		return nil
	}

	fmt.Printf("  ✗ Manifest has %d error(s):\n", len(errors))
	for _, e := range errors {
		fmt.Printf("    • %s\n", e)
	}
	return fmt.Errorf("validation failed with %d errors", len(errors))
}

func validateManifest(m *manifest.Manifest, baseDir string, checkHashes bool) []string {
	var errs []string

	// Check version.
	if m.Version != manifest.SupportedManifestVersion {
		errs = append(errs, fmt.Sprintf("unsupported manifest version: %d", m.Version))
	}

	// Check source and surface.
	if m.Source.Width <= 0 || m.Source.Height <= 0 {
		errs = append(errs, fmt.Sprintf("invalid source dimensions %dx%d", m.Source.Width, m.Source.Height))
	}
	if m.Surface.Width <= 0 || m.Surface.Height <= 0 {
		errs = append(errs, fmt.Sprintf("invalid surface dimensions %dx%d", m.Surface.Width, m.Surface.Height))
	}
	if m.Params.Resolution != [2]int{m.Surface.Width, m.Surface.Height} {
		errs = append(errs, fmt.Sprintf("params resolution %v does not match surface %dx%d",
			m.Params.Resolution, m.Surface.Width, m.Surface.Height))
	}
	if !m.Params.Effect.Valid() {
		errs = append(errs, fmt.Sprintf("unknown effect %d", int(m.Params.Effect)))
	}

	// Check descriptor.
	if d := m.Descriptor; d == nil {
		errs = append(errs, "missing descriptor")
	} else {
		var pct float64
		for i, c := range d.DominantColors {
			if c.Percentage < 0 || c.Percentage > 100 {
				errs = append(errs, fmt.Sprintf("descriptor colour[%d]: percentage %.2f out of range", i, c.Percentage))
			}
			if i > 0 && c.Count > d.DominantColors[i-1].Count {
				errs = append(errs, fmt.Sprintf("descriptor colour[%d]: not in frequency order", i))
			}
			pct += c.Percentage
		}
		if pct > 100.01 {
			errs = append(errs, fmt.Sprintf("descriptor colour percentages sum to %.2f", pct))
		}
	}

	// Check frames.
	if len(m.Frames) == 0 {
		errs = append(errs, "no frames")
	}

	seenPaths := map[string]bool{}
	seenIndex := map[int]bool{}
	for i, f := range m.Frames {
		if f.Format == "" {
			errs = append(errs, fmt.Sprintf("frame[%d]: empty format", i))
		}
		if seenIndex[f.Index] {
			errs = append(errs, fmt.Sprintf("frame[%d]: duplicate index %d", i, f.Index))
		}
		seenIndex[f.Index] = true
		if f.Hash == "" {
			errs = append(errs, fmt.Sprintf("frame[%d]: missing hash", i))
		}
		if f.Path == "" {
			errs = append(errs, fmt.Sprintf("frame[%d]: missing path", i))
			continue
		}

		// Check duplicate paths.
		if seenPaths[f.Path] {
			errs = append(errs, fmt.Sprintf("frame[%d]: duplicate path %q", i, f.Path))
		}
		seenPaths[f.Path] = true

		// Check file exists.
		fullPath := filepath.Join(baseDir, f.Path)
		info, err := os.Stat(fullPath)
		if err != nil {
			errs = append(errs, fmt.Sprintf("frame[%d]: file not found: %s", i, f.Path))
			continue
		}
		if f.Size > 0 && info.Size() != f.Size {
			errs = append(errs, fmt.Sprintf("frame[%d]: size mismatch: manifest=%d, disk=%d",
				i, f.Size, info.Size()))
		}
		if checkHashes && f.Hash != "" {
			got, err := hasher.FileHash(fullPath, len(f.Hash))
			if err != nil {
				errs = append(errs, fmt.Sprintf("frame[%d]: %v", i, err))
			} else if got != f.Hash {
				errs = append(errs, fmt.Sprintf("frame[%d]: hash mismatch: manifest=%s, disk=%s", i, f.Hash, got))
			}
		}
	}

	// Verify stats consistency.
	var total int64
	for _, f := range m.Frames {
		total += f.Size
	}
	if m.Stats.TotalFrames != len(m.Frames) {
		errs = append(errs, fmt.Sprintf("stats.total_frames mismatch: %d != %d", m.Stats.TotalFrames, len(m.Frames)))
	}
	if m.Stats.TotalBytes != total {
		errs = append(errs, fmt.Sprintf("stats.total_bytes mismatch: %d != %d", m.Stats.TotalBytes, total))
	}

	return errs
}
