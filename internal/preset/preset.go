// Package preset holds named glitch control states and clamps user input to
// the ranges the renderer expects.
package preset

import (
	"sort"

	"github.com/AnyUserName/glitchart-cli/internal/glitch"
)

// Preset defines the control state a render starts from.
type Preset struct {
	Name          string
	Intensity     float64
	ColorWeight   float64
	TextureWeight float64
	PatternWeight float64
	Effect        glitch.EffectType
	MaxSize       int // longest side of the render surface
}

// DefaultName is used when no preset is requested.
const DefaultName = "default"

// Built-in presets.
var presets = map[string]Preset{
	"default": {
		Name:          "default",
		Intensity:     50,
		ColorWeight:   60,
		TextureWeight: 40,
		PatternWeight: 30,
		Effect:        glitch.DataCorruption,
		MaxSize:       400,
	},
	"subtle": {
		Name:          "subtle",
		Intensity:     20,
		ColorWeight:   40,
		TextureWeight: 20,
		PatternWeight: 10,
		Effect:        glitch.SignalDistortion,
		MaxSize:       400,
	},
	"heavy": {
		Name:          "heavy",
		Intensity:     90,
		ColorWeight:   80,
		TextureWeight: 70,
		PatternWeight: 75,
		Effect:        glitch.DigitalGlitch,
		MaxSize:       400,
	},
	"mixed": {
		Name:          "mixed",
		Intensity:     65,
		ColorWeight:   60,
		TextureWeight: 50,
		PatternWeight: 60,
		Effect:        glitch.Mixed,
		MaxSize:       640,
	},
}

// Get returns a preset by name. Falls back to default if unknown.
func Get(name string) Preset {
	if p, ok := presets[name]; ok {
		return p
	}
	p := presets[DefaultName]
	p.Name = name // preserve requested name
	return p
}

// Names lists the built-in presets in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Clamp forces every weight into [0, 100] and the effect into range.
func (p Preset) Clamp() Preset {
	p.Intensity = clamp100(p.Intensity)
	p.ColorWeight = clamp100(p.ColorWeight)
	p.TextureWeight = clamp100(p.TextureWeight)
	p.PatternWeight = clamp100(p.PatternWeight)
	if !p.Effect.Valid() {
		p.Effect = glitch.DataCorruption
	}
	if p.MaxSize < 0 {
		p.MaxSize = 0
	}
	return p
}

// Params builds the per-frame parameters at time t for a surface.
func (p Preset) Params(t float64, surface glitch.Surface) glitch.Params {
	if t < 0 {
		t = 0
	}
	return glitch.Params{
		Intensity:     p.Intensity,
		ColorWeight:   p.ColorWeight,
		TextureWeight: p.TextureWeight,
		PatternWeight: p.PatternWeight,
		Effect:        p.Effect,
		Time:          t,
		Resolution:    [2]int{surface.Width, surface.Height},
	}
}

func clamp100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
