package pipeline

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/AnyUserName/glitchart-cli/internal/analyzer"
	"github.com/AnyUserName/glitchart-cli/internal/descriptor"
	"github.com/AnyUserName/glitchart-cli/internal/encoder"
	"github.com/AnyUserName/glitchart-cli/internal/glitch"
	"github.com/AnyUserName/glitchart-cli/internal/hasher"
	"github.com/AnyUserName/glitchart-cli/internal/manifest"
	"github.com/AnyUserName/glitchart-cli/internal/raster"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Load decodes a source image into a raster buffer. The decoder's format
// name replaces the extension-derived one.
func Load(src *Source) (*raster.Buffer, error) {
	f, err := os.Open(src.AbsPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", src.RelPath, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", src.RelPath, err)
	}
	src.Format = format

	buf, err := raster.FromImage(img)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", src.RelPath, err)
	}
	return buf, nil
}

// Describe loads a source and runs the descriptor analyzer on it at full
// resolution.
func Describe(src *Source, opts analyzer.Options) (*descriptor.ImageDescriptor, error) {
	buf, err := Load(src)
	if err != nil {
		return nil, err
	}
	d, err := analyzer.Analyze(buf, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.RelPath, err)
	}
	return d, nil
}

// frameJob is one frame to render.
type frameJob struct {
	index  int
	params glitch.Params
}

// frameResult holds the outcome of rendering a single frame.
type frameResult struct {
	frame manifest.Frame
	err   error
}

// renderFrame shades one frame, encodes it and writes it under outDir with
// a content-addressed name: frame-<index>.<hash8>.<ext>.
func renderFrame(ctx context.Context, r *glitch.Renderer, pal descriptor.Palette, job frameJob,
	enc encoder.Encoder, quality int, outDir string) frameResult {
	result := frameResult{frame: manifest.Frame{Index: job.index, Time: job.params.Time, Format: enc.Format()}}

	if err := ctx.Err(); err != nil {
		result.err = err
		return result
	}

	target := r.NewTarget()
	if err := r.Render(pal, job.params, target); err != nil {
		result.err = fmt.Errorf("render frame %d: %w", job.index, err)
		return result
	}

	data, err := enc.Encode(target.ToNRGBA(), quality)
	if err != nil {
		result.err = fmt.Errorf("encode frame %d as %s: %w", job.index, enc.Format(), err)
		return result
	}

	contentHash := hasher.ContentHash(data, hasher.DefaultHexLen)
	fileName := fmt.Sprintf("frame-%04d.%s.%s", job.index, contentHash[:8], enc.Extension())
	if err := os.WriteFile(filepath.Join(outDir, fileName), data, 0o644); err != nil {
		result.err = fmt.Errorf("write %s: %w", fileName, err)
		return result
	}

	result.frame.Size = int64(len(data))
	result.frame.Hash = contentHash
	result.frame.Path = fileName
	return result
}
