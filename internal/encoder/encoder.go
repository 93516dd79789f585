package encoder

import (
	"image"
)

// Encoder encodes a rendered frame to a specific format.
type Encoder interface {
	// Format returns the output format name (e.g. "png", "jpeg").
	Format() string

	// Encode converts the frame to bytes at the given quality (1-100).
	// Lossless encoders ignore quality.
	Encode(img image.Image, quality int) ([]byte, error)

	// Extension returns the file extension without dot.
	Extension() string
}
