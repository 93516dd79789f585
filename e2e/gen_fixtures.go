//go:build ignore

// gen_fixtures creates small source images for the E2E smoke test: one per
// analyzer trait (gradient, stripes, mirror symmetry, transparency).
// Usage: go run gen_fixtures.go <output_dir>
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	os.MkdirAll(filepath.Join(dir, "patterns"), 0o755)

	// Landscape gradient (JPEG, 640x360): fitted to 400x225 by render.
	writeJPEG(filepath.Join(dir, "gradient.jpg"), gradient(640, 360))

	// Stripes at three periods: high repetitiveness, strong orientation.
	for i, period := range []int{4, 8, 16} {
		name := fmt.Sprintf("stripes-%d.png", i+1)
		writeImage(filepath.Join(dir, "patterns", name), stripes(200, 150, period))
	}

	// Mirror-symmetric face-like blob.
	writeImage(filepath.Join(dir, "patterns", "mirror.png"), mirror(160, 160))

	// Half-transparent logo: left half below the opacity threshold.
	writeImage(filepath.Join(dir, "logo.png"), alphaGradient(100, 100))

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created 6 fixtures in %s\n", dir)
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

func stripes(w, h, period int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{R: 20, G: 20, B: 40, A: 255}
			if (x/period)%2 == 0 {
				c = color.NRGBA{R: 230, G: 60, B: 120, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func mirror(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx := x - w/2
			if dx < 0 {
				dx = -dx - 1
			}
			v := uint8((dx*dx + y*y/4) % 256)
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: 255 - v, B: 90, A: 255})
		}
	}
	return img
}

func alphaGradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: 220, G: 60, B: 30,
				A: uint8(x * 255 / w),
			})
		}
	}
	return img
}

func writeImage(path string, img *image.NRGBA) {
	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		panic(err)
	}
}

func writeJPEG(path string, img *image.NRGBA) {
	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 85}); err != nil {
		panic(err)
	}
}
