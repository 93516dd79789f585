// Package raster holds the RGBA8 pixel buffer shared by the analyzer and the
// glitch renderer.
//
// A Buffer is row-major with a top-left origin and exactly four bytes per
// pixel (non-premultiplied R, G, B, A). Consumers only read it; the renderer
// writes into a caller-supplied target Buffer.
package raster

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// OpaqueThreshold is the lowest alpha that still counts a pixel as
// substantially opaque for statistics.
const OpaqueThreshold = 128

// ErrMalformed is matched (via errors.Is) by every MalformedError.
var ErrMalformed = errors.New("raster: malformed buffer")

// MalformedError reports a buffer whose byte length disagrees with its
// declared dimensions.
type MalformedError struct {
	Width, Height int
	Len           int
}

func (e *MalformedError) Error() string {
	if e.Width <= 0 || e.Height <= 0 {
		return fmt.Sprintf("raster: malformed buffer: invalid dimensions %dx%d", e.Width, e.Height)
	}
	return fmt.Sprintf("raster: malformed buffer: %dx%d needs %d bytes, got %d",
		e.Width, e.Height, e.Width*e.Height*4, e.Len)
}

func (e *MalformedError) Unwrap() error { return ErrMalformed }

// Buffer is a width × height grid of RGBA8 pixels.
type Buffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// New allocates a zeroed (fully transparent black) buffer.
func New(width, height int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, &MalformedError{Width: width, Height: height}
	}
	return &Buffer{Width: width, Height: height, Pix: make([]uint8, width*height*4)}, nil
}

// Wrap validates pix against the dimensions and wraps it without copying.
func Wrap(width, height int, pix []uint8) (*Buffer, error) {
	b := &Buffer{Width: width, Height: height, Pix: pix}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate fails fast when width·height·4 != len(Pix).
func (b *Buffer) Validate() error {
	if b == nil {
		return &MalformedError{}
	}
	if b.Width <= 0 || b.Height <= 0 || b.Width*b.Height*4 != len(b.Pix) {
		return &MalformedError{Width: b.Width, Height: b.Height, Len: len(b.Pix)}
	}
	return nil
}

// Offset returns the byte offset of pixel (x, y).
func (b *Buffer) Offset(x, y int) int {
	return (y*b.Width + x) * 4
}

// Opaque reports whether an alpha value takes part in statistics.
func Opaque(a uint8) bool {
	return a >= OpaqueThreshold
}

// HasAlpha reports whether any pixel is less than fully opaque.
func (b *Buffer) HasAlpha() bool {
	for i := 3; i < len(b.Pix); i += 4 {
		if b.Pix[i] < 255 {
			return true
		}
	}
	return false
}

// FromImage converts any decoded image into a Buffer with a (0,0) origin.
func FromImage(img image.Image) (*Buffer, error) {
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, &MalformedError{Width: bounds.Dx(), Height: bounds.Dy()}
	}
	n := imaging.Clone(img)
	return fromNRGBA(n), nil
}

func fromNRGBA(n *image.NRGBA) *Buffer {
	w, h := n.Rect.Dx(), n.Rect.Dy()
	if n.Stride == w*4 && len(n.Pix) == w*h*4 {
		return &Buffer{Width: w, Height: h, Pix: n.Pix}
	}
	pix := make([]uint8, w*h*4)
	for y := 0; y < h; y++ {
		copy(pix[y*w*4:(y+1)*w*4], n.Pix[y*n.Stride:y*n.Stride+w*4])
	}
	return &Buffer{Width: w, Height: h, Pix: pix}
}

// ToNRGBA exposes the buffer as an *image.NRGBA. The pixel slice is shared.
func (b *Buffer) ToNRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: b.Width * 4,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// FitSize scales (w, h) so the longer side is at most maxSize, keeping the
// aspect ratio. Images already within bounds keep their size.
func FitSize(w, h, maxSize int) (int, int) {
	if w <= 0 || h <= 0 || maxSize <= 0 {
		return w, h
	}
	aspect := float64(w) / float64(h)
	var fw, fh float64
	if w > h {
		fw = math.Min(float64(w), float64(maxSize))
		fh = fw / aspect
	} else {
		fh = math.Min(float64(h), float64(maxSize))
		fw = fh * aspect
	}
	return max1(int(math.Round(fw))), max1(int(math.Round(fh)))
}

// Fit returns a Lanczos-resampled copy that fits within maxSize, or b itself
// when no resize is needed.
func (b *Buffer) Fit(maxSize int) *Buffer {
	w, h := FitSize(b.Width, b.Height, maxSize)
	if w == b.Width && h == b.Height {
		return b
	}
	return fromNRGBA(imaging.Resize(b.ToNRGBA(), w, h, imaging.Lanczos))
}

func max1(v int) int {
	if v < 1 {
		return 1
	}
	return v
}
