// Package colorspace converts between 8-bit RGB, HSV, hex strings and luma.
package colorspace

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	css "github.com/mazznoer/csscolorparser"
)

// HSV holds hue in degrees [0, 360) and saturation/value as percentages.
type HSV struct {
	H int `json:"h"`
	S int `json:"s"`
	V int `json:"v"`
}

func toColorful(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// RGBToHSV converts 8-bit RGB to rounded HSV.
func RGBToHSV(r, g, b uint8) HSV {
	h, s, v := toColorful(r, g, b).Hsv()
	hi := int(math.Round(h))
	if hi >= 360 {
		hi -= 360
	}
	return HSV{
		H: hi,
		S: int(math.Round(s * 100)),
		V: int(math.Round(v * 100)),
	}
}

// HSVToRGB converts rounded HSV back to 8-bit RGB.
func HSVToRGB(c HSV) (r, g, b uint8) {
	h := math.Mod(float64(c.H), 360)
	if h < 0 {
		h += 360
	}
	return colorful.Hsv(h, clamp01(float64(c.S)/100), clamp01(float64(c.V)/100)).RGB255()
}

// Hue returns the hue in degrees [0, 360). ok is false for achromatic
// colours, whose hue is undefined.
func Hue(r, g, b uint8) (h float64, ok bool) {
	if r == g && g == b {
		return 0, false
	}
	h, _, _ = toColorful(r, g, b).Hsv()
	return h, true
}

// Saturation returns the HSV saturation (max−min)/max in [0, 1].
func Saturation(r, g, b uint8) float64 {
	_, s, _ := toColorful(r, g, b).Hsv()
	return s
}

// Hex formats an 8-bit colour as lowercase "#rrggbb".
func Hex(r, g, b uint8) string {
	return toColorful(r, g, b).Hex()
}

// Luma is the rounded Rec. 601 grayscale value.
func Luma(r, g, b uint8) uint8 {
	return uint8(math.Round(0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)))
}

// ParseCSS parses any CSS colour notation ("#f0a", "rgb(…)", "tomato")
// into 8-bit RGB. Alpha is ignored.
func ParseCSS(s string) ([3]uint8, error) {
	c, err := css.Parse(strings.TrimSpace(s))
	if err != nil {
		return [3]uint8{}, fmt.Errorf("parse colour %q: %w", s, err)
	}
	return [3]uint8{to255(c.R), to255(c.G), to255(c.B)}, nil
}

func to255(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
