package analyzer

import (
	"math"
	"sort"

	"github.com/AnyUserName/glitchart-cli/internal/colorspace"
	"github.com/AnyUserName/glitchart-cli/internal/descriptor"
	"github.com/AnyUserName/glitchart-cli/internal/raster"
)

// quantStep buckets each channel into 8 levels (512 colours total).
const quantStep = 32

type bucket struct {
	rgb   [3]uint8
	count uint32
}

// extractColors samples every opts.Stride-th pixel, quantizes it and keeps
// the opts.MaxColors most frequent buckets.
func extractColors(buf *raster.Buffer, opts Options, d *descriptor.ImageDescriptor) {
	pix := buf.Pix
	index := make(map[[3]uint8]int)
	var buckets []bucket
	var hsv []colorspace.HSV
	sampled := 0

	for off := 0; off < len(pix); off += opts.Stride * 4 {
		r, g, b, a := pix[off], pix[off+1], pix[off+2], pix[off+3]
		if !raster.Opaque(a) {
			continue
		}
		sampled++
		hsv = append(hsv, colorspace.RGBToHSV(r, g, b))

		key := [3]uint8{quantize(r), quantize(g), quantize(b)}
		if i, ok := index[key]; ok {
			buckets[i].count++
			continue
		}
		index[key] = len(buckets)
		buckets = append(buckets, bucket{rgb: key, count: 1})
	}

	// Stable sort keeps first-encounter order among equal counts.
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].count > buckets[j].count
	})
	if len(buckets) > opts.MaxColors {
		buckets = buckets[:opts.MaxColors]
	}

	d.SampledPixels = sampled
	d.HSV = hsv
	d.DominantColors = make([]descriptor.DominantColor, len(buckets))
	for i, bk := range buckets {
		d.DominantColors[i] = descriptor.DominantColor{
			RGB:        bk.rgb,
			Hex:        colorspace.Hex(bk.rgb[0], bk.rgb[1], bk.rgb[2]),
			Count:      bk.count,
			Percentage: ratio(float64(bk.count), float64(sampled)),
		}
	}
}

func quantize(c uint8) uint8 {
	return c / quantStep * quantStep
}

// colorStatistics fills brightness, contrast and the colour distribution
// from every opaque pixel; hue variation uses the sampling stride.
func colorStatistics(buf *raster.Buffer, opts Options, d *descriptor.ImageDescriptor) {
	pix := buf.Pix
	var sumR, sumG, sumB, sumBright, sumSat float64
	minBright, maxBright := 255.0, 0.0
	opaque := 0

	for off := 0; off < len(pix); off += 4 {
		r, g, b, a := pix[off], pix[off+1], pix[off+2], pix[off+3]
		if !raster.Opaque(a) {
			continue
		}
		opaque++
		sumR += float64(r)
		sumG += float64(g)
		sumB += float64(b)

		bright := (float64(r) + float64(g) + float64(b)) / 3
		sumBright += bright
		minBright = math.Min(minBright, bright)
		maxBright = math.Max(maxBright, bright)

		sumSat += colorspace.Saturation(r, g, b)
	}

	d.OpaquePixels = opaque
	if opaque == 0 {
		return
	}
	n := float64(opaque)
	d.Brightness = round(sumBright / n)
	d.Contrast = round((maxBright - minBright) / 255 * 100)
	d.ColorDistribution = descriptor.ColorDistribution{
		AverageR:     round(sumR / n),
		AverageG:     round(sumG / n),
		AverageB:     round(sumB / n),
		Saturation:   round(sumSat / n * 100),
		HueVariation: hueVariation(buf, opts.Stride),
	}
}

// hueVariation is the standard deviation of hue over chromatic samples,
// measured with circular distance so 359° and 1° are 2° apart.
func hueVariation(buf *raster.Buffer, stride int) int {
	pix := buf.Pix
	var hues []float64
	for off := 0; off < len(pix); off += stride * 4 {
		if !raster.Opaque(pix[off+3]) {
			continue
		}
		if h, ok := colorspace.Hue(pix[off], pix[off+1], pix[off+2]); ok {
			hues = append(hues, h)
		}
	}
	if len(hues) == 0 {
		return 0
	}

	var mean float64
	for _, h := range hues {
		mean += h
	}
	mean /= float64(len(hues))

	var variance float64
	for _, h := range hues {
		diff := math.Abs(h - mean)
		diff = math.Min(diff, 360-diff)
		variance += diff * diff
	}
	variance /= float64(len(hues))
	return round(math.Sqrt(variance))
}

func round(v float64) int {
	return int(math.Round(v))
}
