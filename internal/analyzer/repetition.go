package analyzer

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// maxLines caps how many rows and columns feed the autocorrelation.
const maxLines = 64

// repetitiveness averages the strongest periodic autocorrelation peak over
// evenly spaced rows and columns. Result in [0, 1].
func repetitiveness(gray []uint8, w, h int) float64 {
	var sum float64
	n := 0

	rows := newAutocorr(w)
	for _, y := range spread(h) {
		line := make([]float64, w)
		for x := 0; x < w; x++ {
			line[x] = float64(gray[y*w+x])
		}
		if p, ok := rows.peak(line); ok {
			sum += p
			n++
		}
	}

	cols := newAutocorr(h)
	for _, x := range spread(w) {
		line := make([]float64, h)
		for y := 0; y < h; y++ {
			line[y] = float64(gray[y*w+x])
		}
		if p, ok := cols.peak(line); ok {
			sum += p
			n++
		}
	}

	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// spread picks up to maxLines evenly spaced indices in [0, n).
func spread(n int) []int {
	count := n
	if count > maxLines {
		count = maxLines
	}
	idx := make([]int, count)
	for i := range idx {
		idx[i] = i * n / count
	}
	return idx
}

// autocorr computes linear autocorrelation of fixed-length lines through a
// zero-padded FFT (Wiener–Khinchin).
type autocorr struct {
	n      int
	fft    *fourier.FFT
	seq    []float64
	coeff  []complex128
	result []float64
}

func newAutocorr(n int) *autocorr {
	if n < 4 {
		return &autocorr{n: n}
	}
	size := 1
	for size < 2*n {
		size <<= 1
	}
	return &autocorr{
		n:   n,
		fft: fourier.NewFFT(size),
		seq: make([]float64, size),
	}
}

// peak returns the highest unbiased, normalized autocorrelation at lags
// 2..n/2 after its first zero crossing. ok is false for flat or short lines.
// Lines that never cross zero (ramps, smooth gradients) score 0.
func (a *autocorr) peak(line []float64) (float64, bool) {
	if a.fft == nil {
		return 0, false
	}

	var mean float64
	for _, v := range line {
		mean += v
	}
	mean /= float64(a.n)

	var power float64
	for i := range a.seq {
		a.seq[i] = 0
	}
	for i, v := range line {
		d := v - mean
		a.seq[i] = d
		power += d * d
	}
	if power == 0 {
		return 0, false
	}

	a.coeff = a.fft.Coefficients(a.coeff, a.seq)
	for i, c := range a.coeff {
		re, im := real(c), imag(c)
		a.coeff[i] = complex(re*re+im*im, 0)
	}
	a.result = a.fft.Sequence(a.result, a.coeff)

	zero := a.result[0] / float64(a.n)
	crossed := false
	best := 0.0
	for lag := 1; lag <= a.n/2; lag++ {
		r := a.result[lag] / float64(a.n-lag) / zero
		if !crossed {
			crossed = r <= 0
			continue
		}
		if lag >= 2 && r > best {
			best = r
		}
	}
	return math.Min(best, 1), true
}
