package glitch

import (
	"math"

	"github.com/AnyUserName/glitchart-cli/internal/raster"
)

type rgb = [3]float64

// texture is the uploaded source image: normalized RGB, sampled with
// bilinear filtering and clamp-to-edge addressing.
type texture struct {
	w, h int
	pix  []float32 // 3 floats per texel
}

func newTexture(src *raster.Buffer) *texture {
	t := &texture{w: src.Width, h: src.Height, pix: make([]float32, src.Width*src.Height*3)}
	for i, j := 0, 0; i < len(src.Pix); i, j = i+4, j+3 {
		t.pix[j] = float32(src.Pix[i]) / 255
		t.pix[j+1] = float32(src.Pix[i+1]) / 255
		t.pix[j+2] = float32(src.Pix[i+2]) / 255
	}
	return t
}

// sample returns the bilinearly filtered colour at (u, v). Texel centres
// sit at (i+0.5)/w; coordinates outside [0,1] clamp to the edge texels.
func (t *texture) sample(u, v float64) rgb {
	x := u*float64(t.w) - 0.5
	y := v*float64(t.h) - 0.5
	fx0, fy0 := math.Floor(x), math.Floor(y)
	fx, fy := x-fx0, y-fy0

	x0 := clampIndex(int(fx0), t.w)
	x1 := clampIndex(int(fx0)+1, t.w)
	y0 := clampIndex(int(fy0), t.h)
	y1 := clampIndex(int(fy0)+1, t.h)

	var out rgb
	for c := 0; c < 3; c++ {
		a := float64(t.pix[(y0*t.w+x0)*3+c])
		b := float64(t.pix[(y0*t.w+x1)*3+c])
		cc := float64(t.pix[(y1*t.w+x0)*3+c])
		d := float64(t.pix[(y1*t.w+x1)*3+c])
		top := a + (b-a)*fx
		bot := cc + (d-cc)*fx
		out[c] = top + (bot-top)*fy
	}
	return out
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
