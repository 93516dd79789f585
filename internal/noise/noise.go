// Package noise implements the scalar hash and value-noise functions used by
// the glitch renderer. Arithmetic follows GLSL conventions (fract, mix, mod)
// so results line up with the fragment-program formulation of the effects.
package noise

import "math"

// Random hashes a 2D coordinate into [0, 1).
func Random(x, y float64) float64 {
	return Fract(math.Sin(x*12.9898+y*78.233) * 43758.5453123)
}

// Value is smooth 2D value noise: hashed lattice corners blended with a
// smoothstep weight. Output lies in [0, 1).
func Value(x, y float64) float64 {
	ix, iy := math.Floor(x), math.Floor(y)
	fx, fy := x-ix, y-iy

	a := Random(ix, iy)
	b := Random(ix+1, iy)
	c := Random(ix, iy+1)
	d := Random(ix+1, iy+1)

	ux := fx * fx * (3 - 2*fx)
	uy := fy * fy * (3 - 2*fy)

	return Mix(a, b, ux) + (c-a)*uy*(1-ux) + (d-b)*ux*uy
}

// Fract returns x - floor(x).
func Fract(x float64) float64 {
	return x - math.Floor(x)
}

// Mix linearly interpolates between a and b.
func Mix(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

// Mod is GLSL mod: the result takes the sign of y.
func Mod(x, y float64) float64 {
	return x - y*math.Floor(x/y)
}
