// Package glitch implements the per-pixel glitch render pipeline.
//
// Every output pixel is a pure function of its UV coordinate, the source
// texture, the 8-slot palette and the frame Params. No state is shared
// between pixels, so rows are shaded concurrently and repeated renders with
// identical inputs are byte-identical.
package glitch

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInit reports that a Renderer could not be created. Callers detect it
	// synchronously from NewRenderer and may fall back to another renderer.
	ErrInit = errors.New("glitch: initialization failed")
	// ErrClosed is returned by Render after Close.
	ErrClosed = errors.New("glitch: renderer closed")
	// ErrSurfaceMismatch is returned when the target does not match the surface.
	ErrSurfaceMismatch = errors.New("glitch: target does not match surface")
)

// EffectType selects one of the five corruption algorithms.
type EffectType int

const (
	DataCorruption EffectType = iota
	SignalDistortion
	DigitalGlitch
	PixelThinning
	Mixed
)

var effectNames = [...]string{
	DataCorruption:   "data-corruption",
	SignalDistortion: "signal-distortion",
	DigitalGlitch:    "digital-glitch",
	PixelThinning:    "pixel-thinning",
	Mixed:            "mixed",
}

func (e EffectType) String() string {
	if e >= 0 && int(e) < len(effectNames) {
		return effectNames[e]
	}
	return fmt.Sprintf("EffectType(%d)", int(e))
}

// Valid reports whether e is one of the five known effects.
func (e EffectType) Valid() bool {
	return e >= DataCorruption && e <= Mixed
}

// ParseEffect accepts an effect name ("pixel-thinning") or its index ("3").
func ParseEffect(s string) (EffectType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if e := EffectType(n); e.Valid() {
			return e, nil
		}
		return 0, fmt.Errorf("effect index %d out of range 0-%d", n, int(Mixed))
	}
	for i, name := range effectNames {
		if s == name {
			return EffectType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown effect %q (want one of %s)", s, strings.Join(effectNames[:], ", "))
}

// Params is the per-frame control state. Weights are 0–100 and are not
// clamped here; callers clamp upstream.
type Params struct {
	Intensity     float64    `json:"intensity"`
	ColorWeight   float64    `json:"color_weight"`
	TextureWeight float64    `json:"texture_weight"`
	PatternWeight float64    `json:"pattern_weight"`
	Effect        EffectType `json:"effect"`
	Time          float64    `json:"time"`       // seconds since the last regenerate
	Resolution    [2]int     `json:"resolution"` // informational; the surface decides output size
}
