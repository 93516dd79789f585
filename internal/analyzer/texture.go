package analyzer

import (
	"math"

	"github.com/AnyUserName/glitchart-cli/internal/colorspace"
	"github.com/AnyUserName/glitchart-cli/internal/descriptor"
	"github.com/AnyUserName/glitchart-cli/internal/raster"
)

// edgeThreshold is the gradient magnitude above which a pixel is an edge.
const edgeThreshold = 30

// Grayscale converts every pixel (alpha ignored) to Rec. 601 luma,
// indexed by y·width + x.
func Grayscale(buf *raster.Buffer) []uint8 {
	gray := make([]uint8, buf.Width*buf.Height)
	for i := range gray {
		off := i * 4
		gray[i] = colorspace.Luma(buf.Pix[off], buf.Pix[off+1], buf.Pix[off+2])
	}
	return gray
}

// gradient returns the central differences at interior index idx:
// gx = left − right, gy = top − bottom.
func gradient(gray []uint8, w, idx int) (gx, gy float64) {
	gx = float64(gray[idx-1]) - float64(gray[idx+1])
	gy = float64(gray[idx-w]) - float64(gray[idx+w])
	return gx, gy
}

func isEdge(gx, gy float64) bool {
	return math.Sqrt(gx*gx+gy*gy) > edgeThreshold
}

func analyzeTexture(gray []uint8, w, h int) descriptor.Texture {
	var edges, horizontal, vertical int
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			gx, gy := gradient(gray, w, y*w+x)
			if isEdge(gx, gy) {
				edges++
			}
			ax, ay := math.Abs(gx), math.Abs(gy)
			switch {
			case ax > ay:
				horizontal++
			case ay > ax:
				vertical++
			}
		}
	}

	directionality := 50
	if total := horizontal + vertical; total > 0 {
		directionality = round(ratio(float64(horizontal), float64(total)))
	}

	hist := histogram(gray)
	return descriptor.Texture{
		EdgeDensity:    round(ratio(float64(edges), float64(w*h))),
		Roughness:      round(stddev(gray)),
		Directionality: directionality,
		Uniformity:     round(energy(hist, len(gray)) * 100),
	}
}

func histogram(gray []uint8) *[256]int {
	var hist [256]int
	for _, v := range gray {
		hist[v]++
	}
	return &hist
}

// energy is Σp² over the histogram.
func energy(hist *[256]int, total int) float64 {
	if total == 0 {
		return 0
	}
	var e float64
	for _, n := range hist {
		p := float64(n) / float64(total)
		e += p * p
	}
	return e
}

// stddev is the population standard deviation of the luma values.
func stddev(gray []uint8) float64 {
	if len(gray) == 0 {
		return 0
	}
	var sum float64
	for _, v := range gray {
		sum += float64(v)
	}
	mean := sum / float64(len(gray))
	var variance float64
	for _, v := range gray {
		d := float64(v) - mean
		variance += d * d
	}
	return math.Sqrt(variance / float64(len(gray)))
}
