// Package buddhabrot renders Buddhabrot images: density plots of the orbits
// of points that escape the Mandelbrot iteration.
//
// # Overview
//
// A render runs in three passes:
//
//  1. The Mandelbrot set is rasterized on a square lattice over [-2, 2]² and
//     the cells along its boundary are selected by morphological edge
//     detection plus a few dilation rounds. The centers of those cells are
//     the good points.
//  2. A fixed number of samplers, one goroutine each, draw orbit start points
//     either uniformly over the window or near a random good point, iterate
//     them, and record the positions of escaping orbits into a private
//     histogram. Each recorded position is mirrored across the real axis.
//  3. The per-sampler histograms are summed once every sampler has finished,
//     log-scaled and mapped through a colormap.
//
// # Quick Start
//
//	r, err := buddhabrot.New(
//	    buddhabrot.WithSize(1024),
//	    buddhabrot.WithSamples(5_000_000),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	res, err := r.Render(context.Background(), nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := buddhabrot.SaveImage("buddhabrot.png", res.Image); err != nil {
//	    log.Fatal(err)
//	}
//
// # Concurrency
//
// Samplers share nothing but the read-only good points. Progress is exposed
// through one atomic counter per sampler and summed by a monitor goroutine,
// so reports may lag slightly behind the actual work. The merge waits for
// all samplers. The rasterize and colorize passes split the lattice into row
// bands on a work-stealing pool.
//
// # Coordinate System
//
// Lattice cell (x, y) of an S×S grid has its corner at
// (-2 + 4x/S) + (-2 + 4y/S)i. Row y=0 is the bottom of the window in the
// complex plane; images are written with row 0 first, which is harmless
// since the histogram is symmetric about the real axis.
package buddhabrot
