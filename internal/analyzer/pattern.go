package analyzer

import (
	"math"

	"github.com/AnyUserName/glitchart-cli/internal/descriptor"
)

func analyzePattern(gray []uint8, w, h int) descriptor.Pattern {
	return descriptor.Pattern{
		Repetitiveness: round(repetitiveness(gray, w, h) * 100),
		Symmetry:       round(symmetry(gray, w, h) * 100),
		Complexity:     round(entropy(histogram(gray), len(gray)) / 8 * 100),
		Orientation:    orientation(gray, w, h),
	}
}

// symmetry compares each pixel left of centre with its horizontal mirror.
// Odd widths compare the centre column with itself.
func symmetry(gray []uint8, w, h int) float64 {
	var score float64
	comparisons := 0
	for y := 0; y < h; y++ {
		row := y * w
		for x := 0; 2*x < w; x++ {
			diff := math.Abs(float64(gray[row+x]) - float64(gray[row+w-1-x]))
			score += (255 - diff) / 255
			comparisons++
		}
	}
	if comparisons == 0 {
		return 0
	}
	return score / float64(comparisons)
}

// entropy is the Shannon entropy of the histogram in bits (max 8).
func entropy(hist *[256]int, total int) float64 {
	if total == 0 {
		return 0
	}
	var e float64
	for _, n := range hist {
		if n == 0 {
			continue
		}
		p := float64(n) / float64(total)
		e -= p * math.Log2(p)
	}
	return e
}

// orientation estimates the dominant gradient direction in degrees [0, 180)
// from the structure tensor of the interior central differences. Angles are
// measured from the +x axis; a vertical edge has orientation 0.
func orientation(gray []uint8, w, h int) int {
	var jxx, jyy, jxy float64
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			gx, gy := gradient(gray, w, y*w+x)
			jxx += gx * gx
			jyy += gy * gy
			jxy += gx * gy
		}
	}
	if jxx+jyy == 0 {
		return 0
	}
	deg := 0.5 * math.Atan2(2*jxy, jxx-jyy) * 180 / math.Pi
	if deg < 0 {
		deg += 180
	}
	o := round(deg)
	if o >= 180 {
		o -= 180
	}
	return o
}
