package glitch

import (
	"math"

	"github.com/AnyUserName/glitchart-cli/internal/descriptor"
	"github.com/AnyUserName/glitchart-cli/internal/noise"
)

// Band maps s to a palette index in [0, n): the first i, scanning upward,
// with mod(s·n, n) < i+1. The last band catches everything left, including
// values that round up to the top edge.
func Band(s float64, n int) int {
	idx := noise.Mod(s*float64(n), float64(n))
	for i := 0; i < n-1; i++ {
		if idx < float64(i+1) {
			return i
		}
	}
	return n - 1
}

// shader holds the per-frame uniforms. It is read-only while rows are shaded.
type shader struct {
	tex       *texture
	pal       *descriptor.Palette
	p         Params
	intensity float64 // Intensity / 100
}

func newShader(tex *texture, pal *descriptor.Palette, p Params) *shader {
	return &shader{tex: tex, pal: pal, p: p, intensity: p.Intensity / 100}
}

// shade evaluates one output pixel.
func (s *shader) shade(u, v float64) rgb {
	color := s.rgbSplit(u, v)

	switch s.p.Effect {
	case DataCorruption:
		color = s.dataCorruption(u, v, color)
	case SignalDistortion:
		color = s.signalDistortion(u, v, color)
	case DigitalGlitch:
		color = s.digitalGlitch(u, v, color)
	case PixelThinning:
		color = s.pixelThinning(u, v, color)
	case Mixed:
		color = s.dataCorruption(u, v, color)
		color = s.signalDistortion(u, v, color)
		color = s.digitalGlitch(u, v, color)
		color = s.pixelThinning(u, v, color)
	}

	if influence := s.p.PatternWeight / 100; influence > 0.5 {
		wave := math.Sin(u*50+s.p.Time) * influence * 0.1
		color = mix3(color, s.tex.sample(u, v+wave), 0.3)
	}

	return clamp3(color)
}

// rgbSplit misregisters the channels horizontally: red from +offset,
// blue from −offset.
func (s *shader) rgbSplit(u, v float64) rgb {
	offset := s.intensity * 0.01
	return rgb{
		s.tex.sample(u+offset, v)[0],
		s.tex.sample(u, v)[1],
		s.tex.sample(u-offset, v)[2],
	}
}

func (s *shader) dataCorruption(u, v float64, color rgb) rgb {
	size := noise.Mix(0.01, 0.1, s.intensity)
	return corrupt(blockHash(u, v, size, s.p.Time*0.1), color, s.pal)
}

// corrupt is the DataCorruption decision for block hash c.
func corrupt(c float64, color rgb, pal *descriptor.Palette) rgb {
	switch {
	case c > 0.7:
		return pal[Band(c, 8)]
	case c > 0.4:
		return mix3(color, pal[Band(c, 4)], 0.6)
	}
	return color
}

// signalDistortion resamples the source through a sinusoidal warp; the
// incoming colour is replaced by the warped sample.
func (s *shader) signalDistortion(u, v float64, _ rgb) rgb {
	t := s.p.Time
	du := u + math.Sin(v*50+t*3)*0.02
	dv := v + math.Sin(u*30+t*2)*0.01
	warped := s.tex.sample(du, dv)
	return inject(noise.Value(u*20+t, v*20+t), warped, s.pal)
}

// inject is the SignalDistortion decision for noise value n.
func inject(n float64, color rgb, pal *descriptor.Palette) rgb {
	if n > 0.8 {
		return mix3(color, pal[Band(n, 6)], 0.7)
	}
	return color
}

func (s *shader) digitalGlitch(u, v float64, color rgb) rgb {
	size := noise.Mix(0.001, 0.02, s.intensity)
	return shatter(blockHash(u, v, size, s.p.Time*0.05), color, s.pal)
}

// shatter is the DigitalGlitch decision for block hash g.
func shatter(g float64, color rgb, pal *descriptor.Palette) rgb {
	switch {
	case g > 0.9:
		return pal[Band(g, 8)]
	case g > 0.7:
		return mix3(color, pal[Band(g, 4)], 0.5)
	}
	return color
}

func (s *shader) pixelThinning(u, v float64, color rgb) rgb {
	factor := noise.Mix(1, 8, s.intensity)
	tu := math.Floor(u*factor) / factor
	tv := math.Floor(v*factor) / factor
	t := s.p.Time * 0.1
	return thin(noise.Random(tu+t, tv+t), color, s.pal)
}

// thin is the PixelThinning decision for block mask m.
func thin(m float64, color rgb, pal *descriptor.Palette) rgb {
	if m <= 0.6 {
		return color
	}
	quantized := rgb{
		math.Floor(color[0]*4) / 4,
		math.Floor(color[1]*4) / 4,
		math.Floor(color[2]*4) / 4,
	}
	return mix3(quantized, pal[Band(m, 6)], 0.3)
}

// blockHash snaps (u, v) to a grid of the given cell size and hashes the
// cell corner shifted by offset.
func blockHash(u, v, size, offset float64) float64 {
	bu := math.Floor(u/size) * size
	bv := math.Floor(v/size) * size
	return noise.Random(bu+offset, bv+offset)
}

func mix3(a, b rgb, t float64) rgb {
	return rgb{
		noise.Mix(a[0], b[0], t),
		noise.Mix(a[1], b[1], t),
		noise.Mix(a[2], b[2], t),
	}
}

func clamp3(c rgb) rgb {
	for i, v := range c {
		switch {
		case v < 0 || math.IsNaN(v):
			c[i] = 0
		case v > 1:
			c[i] = 1
		}
	}
	return c
}
