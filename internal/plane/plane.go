// Package plane maps between square grid cells and the [-2, 2] × [-2, 2]
// window of the complex plane.
//
// Cell i of a grid with side S covers the half-open interval
// [-2 + 4i/S, -2 + 4(i+1)/S). Coord returns the left edge of that interval and
// Cell is its inverse, so Cell(Coord(i, S), S) == i for every valid i.
package plane

import "math"

// Window bounds shared by every grid in the package.
const (
	Min = -2.0
	Max = 2.0

	// Span is Max - Min.
	Span = Max - Min
)

// cellEpsilon absorbs rounding when inverting Coord for side lengths that
// are not powers of two.
const cellEpsilon = 1e-9

// Point is a coordinate in the complex plane.
type Point struct {
	Re float64
	Im float64
}

// Complex returns p as a complex128.
func (p Point) Complex() complex128 {
	return complex(p.Re, p.Im)
}

// Coord returns the plane coordinate of grid index i for side length size.
func Coord(i, size int) float64 {
	return Min + Span*float64(i)/float64(size)
}

// Coord32 is the float32 variant of Coord used by the lattice rasterizer.
func Coord32(i, size int) float32 {
	return float32(Min) + float32(Span)*float32(i)/float32(size)
}

// Delta returns the width of one grid cell in plane units.
func Delta(size int) float64 {
	return Span / float64(size)
}

// Cell returns the grid index containing plane coordinate v, clamped to
// [0, size-1].
func Cell(v float64, size int) int {
	f := (v-Min)*float64(size)/Span + cellEpsilon
	i := int(math.Floor(f))
	if i < 0 {
		return 0
	}
	if i >= size {
		return size - 1
	}
	return i
}

// Contains reports whether both components of z lie within the window.
func Contains(z complex128) bool {
	re, im := real(z), imag(z)
	return re >= Min && re <= Max && im >= Min && im <= Max
}
