package glitch

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/AnyUserName/glitchart-cli/internal/descriptor"
	"github.com/AnyUserName/glitchart-cli/internal/raster"
)

// DefaultMaxTextureSize bounds either side of the source texture.
const DefaultMaxTextureSize = 16384

// Surface is the render target size in pixels.
type Surface struct {
	Width  int
	Height int
}

// Options configures a Renderer.
type Options struct {
	Workers        int // row workers per frame (0 = NumCPU)
	MaxTextureSize int // largest accepted source side (0 = DefaultMaxTextureSize)
}

// Renderer owns the uploaded source texture. Create it once per source
// image, render many frames, then Close it.
//
// Render may be called from several goroutines at once; Close waits for
// in-flight renders to finish.
type Renderer struct {
	surface Surface
	workers int

	mu  sync.RWMutex
	tex *texture // nil after Close
}

// NewRenderer validates the surface, uploads src and returns a ready
// renderer. Every failure wraps ErrInit.
func NewRenderer(surface Surface, src *raster.Buffer, opts Options) (*Renderer, error) {
	if surface.Width <= 0 || surface.Height <= 0 {
		return nil, fmt.Errorf("%w: invalid surface %dx%d", ErrInit, surface.Width, surface.Height)
	}
	if src == nil {
		return nil, fmt.Errorf("%w: no source image", ErrInit)
	}
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("%w: source texture: %v", ErrInit, err)
	}
	maxTex := opts.MaxTextureSize
	if maxTex <= 0 {
		maxTex = DefaultMaxTextureSize
	}
	if src.Width > maxTex || src.Height > maxTex {
		return nil, fmt.Errorf("%w: source %dx%d exceeds max texture size %d",
			ErrInit, src.Width, src.Height, maxTex)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > surface.Height {
		workers = surface.Height
	}

	return &Renderer{
		surface: surface,
		workers: workers,
		tex:     newTexture(src),
	}, nil
}

// Surface returns the output size.
func (r *Renderer) Surface() Surface {
	return r.surface
}

// NewTarget allocates a frame buffer matching the surface.
func (r *Renderer) NewTarget() *raster.Buffer {
	buf, _ := raster.New(r.surface.Width, r.surface.Height)
	return buf
}

// Render shades one full frame into target. The output is opaque and every
// channel is clamped to [0, 1] before quantization.
func (r *Renderer) Render(pal descriptor.Palette, p Params, target *raster.Buffer) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.tex == nil {
		return ErrClosed
	}
	if target == nil || target.Width != r.surface.Width || target.Height != r.surface.Height {
		return ErrSurfaceMismatch
	}
	if err := target.Validate(); err != nil {
		return fmt.Errorf("render target: %w", err)
	}

	s := newShader(r.tex, &pal, p)
	w, h := r.surface.Width, r.surface.Height

	var wg sync.WaitGroup
	for worker := 0; worker < r.workers; worker++ {
		wg.Add(1)
		go func(first int) {
			defer wg.Done()
			for y := first; y < h; y += r.workers {
				v := (float64(y) + 0.5) / float64(h)
				off := y * w * 4
				for x := 0; x < w; x++ {
					c := s.shade((float64(x)+0.5)/float64(w), v)
					target.Pix[off] = toByte(c[0])
					target.Pix[off+1] = toByte(c[1])
					target.Pix[off+2] = toByte(c[2])
					target.Pix[off+3] = 255
					off += 4
				}
			}
		}(worker)
	}
	wg.Wait()
	return nil
}

// Close releases the texture. It is safe to call more than once.
func (r *Renderer) Close() error {
	r.mu.Lock()
	r.tex = nil
	r.mu.Unlock()
	return nil
}

func toByte(c float64) uint8 {
	return uint8(math.Round(c * 255))
}
