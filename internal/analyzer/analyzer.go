// Package analyzer computes an ImageDescriptor from a raster buffer:
// dominant colours, brightness/contrast/saturation, texture metrics and
// pattern metrics.
//
// Analysis is deterministic and read-only with respect to the input. Scratch
// buffers live only for the duration of one Analyze call.
package analyzer

import (
	"fmt"

	"github.com/AnyUserName/glitchart-cli/internal/descriptor"
	"github.com/AnyUserName/glitchart-cli/internal/raster"
)

const (
	// DefaultMaxColors is the number of dominant colours kept.
	DefaultMaxColors = descriptor.PaletteSize
	// DefaultStride samples every 4th pixel for colour and hue statistics.
	DefaultStride = 4
)

// Options tunes the sampling cost of Analyze.
type Options struct {
	MaxColors int // dominant colours to keep (0 = DefaultMaxColors)
	Stride    int // pixel sampling stride (0 = DefaultStride)
}

func (o Options) withDefaults() Options {
	if o.MaxColors <= 0 {
		o.MaxColors = DefaultMaxColors
	}
	if o.Stride <= 0 {
		o.Stride = DefaultStride
	}
	return o
}

// Analyze computes the descriptor of buf. The only error is a malformed
// buffer; an image without opaque pixels yields zeroed colour statistics.
func Analyze(buf *raster.Buffer, opts Options) (*descriptor.ImageDescriptor, error) {
	if err := buf.Validate(); err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	opts = opts.withDefaults()

	d := &descriptor.ImageDescriptor{
		Width:  buf.Width,
		Height: buf.Height,
	}
	extractColors(buf, opts, d)
	colorStatistics(buf, opts, d)

	gray := Grayscale(buf)
	d.Texture = analyzeTexture(gray, buf.Width, buf.Height)
	d.Pattern = analyzePattern(gray, buf.Width, buf.Height)
	return d, nil
}

// ratio returns num/den·100, or 0 when den is zero.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den * 100
}
