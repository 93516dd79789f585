// Package descriptor defines the ImageDescriptor produced by the analyzer and
// the fixed 8-slot palette the renderer consumes.
package descriptor

import "fmt"

// PaletteSize is the number of colour slots the renderer addresses.
const PaletteSize = 8

// Palette holds PaletteSize RGB colours normalized to [0, 1].
type Palette [PaletteSize][3]float64

// PadPolicy decides what fills slots beyond the available dominant colours.
type PadPolicy int

const (
	// PadReplicate copies the most frequent colour (slot 0) into empty slots.
	PadReplicate PadPolicy = iota
	// PadBlack leaves empty slots black.
	PadBlack
)

func (p PadPolicy) String() string {
	switch p {
	case PadReplicate:
		return "replicate"
	case PadBlack:
		return "black"
	}
	return fmt.Sprintf("PadPolicy(%d)", int(p))
}

// ParsePadPolicy accepts "replicate" or "black".
func ParsePadPolicy(s string) (PadPolicy, error) {
	switch s {
	case "replicate", "":
		return PadReplicate, nil
	case "black":
		return PadBlack, nil
	}
	return 0, fmt.Errorf("unknown pad policy %q (want replicate or black)", s)
}

// NewPalette normalizes up to PaletteSize colours and pads the remaining
// slots per policy. With no colours at all every slot is black.
func NewPalette(colors [][3]uint8, policy PadPolicy) Palette {
	var p Palette
	n := len(colors)
	if n > PaletteSize {
		n = PaletteSize
	}
	for i := 0; i < n; i++ {
		p[i] = normalize(colors[i])
	}
	if n == 0 || policy == PadBlack {
		return p
	}
	for i := n; i < PaletteSize; i++ {
		p[i] = p[0]
	}
	return p
}

// Palette builds the renderer palette from the dominant colours.
func (d *ImageDescriptor) Palette(policy PadPolicy) Palette {
	colors := make([][3]uint8, len(d.DominantColors))
	for i, c := range d.DominantColors {
		colors[i] = c.RGB
	}
	return NewPalette(colors, policy)
}

// Override replaces the leading slots with explicit colours, e.g. from a
// user-supplied palette. Padding is reapplied over the merged list.
func Override(base []DominantColor, colors [][3]uint8, policy PadPolicy) Palette {
	merged := make([][3]uint8, 0, PaletteSize)
	merged = append(merged, colors...)
	for i := len(colors); i < len(base) && len(merged) < PaletteSize; i++ {
		merged = append(merged, base[i].RGB)
	}
	return NewPalette(merged, policy)
}

func normalize(c [3]uint8) [3]float64 {
	return [3]float64{float64(c[0]) / 255, float64(c[1]) / 255, float64(c[2]) / 255}
}
