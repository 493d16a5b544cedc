// Package selector picks the seed points that bias orbit sampling toward the
// Mandelbrot boundary.
//
// Orbits that start near the boundary are long and wander across the whole
// image, so they carry most of the Buddhabrot signal. The selector brackets
// the boundary from both sides with morphological edges of the binary set and
// widens the band outward with repeated dilation.
package selector

import (
	"fmt"

	"github.com/gogpu/buddhabrot/internal/bitmap"
	"github.com/gogpu/buddhabrot/internal/parallel"
	"github.com/gogpu/buddhabrot/internal/plane"
	"github.com/gogpu/buddhabrot/internal/raster"
)

// Select returns the boundary band of set.
//
// The result is Edge(set) | Edge(Invert(set)). Each dilation round then grows
// set by one cell and adds the inner edge of its complement, pushing the band
// one cell further out per round.
func Select(set *bitmap.Bitmap, dilations int) (*bitmap.Bitmap, error) {
	band, err := set.Edge().Or(set.Invert().Edge())
	if err != nil {
		return nil, fmt.Errorf("selector: %w", err)
	}

	grown := set
	for range dilations {
		grown = grown.Dilate()
		band, err = band.Or(grown.Invert().Edge())
		if err != nil {
			return nil, fmt.Errorf("selector: dilation: %w", err)
		}
	}
	return band, nil
}

// Collect converts the set cells of sel into plane coordinates in row-major
// order using the lattice mapping of the rasterizer.
func Collect(sel *bitmap.Bitmap) []plane.Point {
	size := sel.Size()
	idx := sel.Indices()

	points := make([]plane.Point, 0, idx.GetCardinality())
	it := idx.Iterator()
	for it.HasNext() {
		i := int(it.Next())
		x, y := i%size, i/size
		points = append(points, plane.Point{
			Re: plane.Coord(x, size),
			Im: plane.Coord(y, size),
		})
	}
	return points
}

// Options configures FindGoodPoints.
type Options struct {
	Size      int
	MaxIter   int
	Dilations int
	Seed      uint64
}

// Result holds the intermediate products of FindGoodPoints.
type Result struct {
	// Set is the rasterized Mandelbrot bitmap.
	Set *bitmap.Bitmap

	// Selection is the boundary band chosen by Select.
	Selection *bitmap.Bitmap

	// Points are the collected good points, in row-major order.
	Points []plane.Point
}

// FindGoodPoints rasterizes the set, selects its boundary band and collects
// the band's points.
func FindGoodPoints(pool *parallel.WorkerPool, opts Options) (*Result, error) {
	set := raster.Rasterize(pool, raster.Options{
		Size:    opts.Size,
		MaxIter: opts.MaxIter,
		Seed:    opts.Seed,
	})

	sel, err := Select(set, opts.Dilations)
	if err != nil {
		return nil, err
	}

	return &Result{
		Set:       set,
		Selection: sel,
		Points:    Collect(sel),
	}, nil
}
