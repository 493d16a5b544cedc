// Package raster evaluates the escape-time test of the Mandelbrot set on a
// uniform lattice and produces a binary in/out bitmap.
//
// The pass runs in float32: it only has to classify cells for the edge
// selector, and single precision halves the cost of the inner loop. At the
// default lattice sizes the difference to float64 is confined to a few cells
// along the boundary, which the selector's dilation covers anyway.
package raster

import (
	"math/rand/v2"

	"github.com/gogpu/buddhabrot/internal/bitmap"
	"github.com/gogpu/buddhabrot/internal/parallel"
	"github.com/gogpu/buddhabrot/internal/plane"
)

// EscapeThreshold is the squared magnitude at which an orbit has escaped.
const EscapeThreshold = 4.0

// jitterFraction is the half-width of the per-sample jitter in cells.
const jitterFraction = 0.25

// rasterBands is the number of row bands, each with its own jitter stream.
// It is fixed so the bitmap for a seed does not change with the worker count.
const rasterBands = 64

// Options configures a rasterization pass.
type Options struct {
	// Size is the lattice side length.
	Size int

	// MaxIter is the iteration cap of the escape test.
	MaxIter int

	// Seed seeds the per-band jitter generators.
	Seed uint64
}

// Rasterize returns a bitmap whose cell (x, y) is set iff the jittered lattice
// point for that cell does not escape within opts.MaxIter iterations.
//
// Rows are split into a fixed number of bands on pool; each band owns a PCG
// generator seeded from (opts.Seed, band index), so the result depends only
// on the options, not on the worker count or scheduling.
func Rasterize(pool *parallel.WorkerPool, opts Options) *bitmap.Bitmap {
	size := opts.Size
	cells := make([]bool, size*size)

	delta := float32(plane.Delta(size))
	jitter := jitterFraction * delta

	pool.ForEachBandN(size, rasterBands, func(b parallel.Band) {
		rng := rand.New(rand.NewPCG(opts.Seed, uint64(b.Index))) //nolint:gosec // G115: band index is non-negative
		offset := func() float32 {
			return (2*rng.Float32() - 1) * jitter
		}

		for y := b.Start; y < b.End; y++ {
			im := plane.Coord32(y, size)
			row := cells[y*size : (y+1)*size]
			for x := range row {
				re := plane.Coord32(x, size)
				row[x] = Inside(re+offset(), im+offset(), opts.MaxIter)
			}
		}
	})

	bm, _ := bitmap.FromCells(size, cells)
	return bm
}

// Inside reports whether c = cr + ci·i stays below EscapeThreshold for maxIter
// iterations of z ← z² + c starting at z₀ = 0.
func Inside(cr, ci float32, maxIter int) bool {
	var zr, zi, zr2, zi2 float32
	for i := 0; i < maxIter && zr2+zi2 < EscapeThreshold; i++ {
		zi = 2*zr*zi + ci
		zr = zr2 - zi2 + cr
		zr2 = zr * zr
		zi2 = zi * zi
	}
	return zr2+zi2 < EscapeThreshold
}
