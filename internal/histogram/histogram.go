// Package histogram holds the orbit-visit counts of a Buddhabrot render.
//
// A Histogram is owned by exactly one sampler while sampling and is not safe
// for concurrent mutation. Merge combines the per-sampler histograms after
// every sampler has finished.
package histogram

import (
	"errors"
	"fmt"
	"math"
)

// Histogram errors.
var (
	// ErrSizeMismatch is returned when histograms of different sizes are combined.
	ErrSizeMismatch = errors.New("histogram: size mismatch")

	// ErrEmpty is returned by Merge when no histograms are given.
	ErrEmpty = errors.New("histogram: nothing to merge")
)

// Histogram is a dense Size×Size grid of visit counts, stored row-major.
type Histogram struct {
	size   int
	counts []uint64
}

// New returns a zeroed histogram with side length size.
func New(size int) *Histogram {
	return &Histogram{size: size, counts: make([]uint64, size*size)}
}

// Size returns the side length.
func (h *Histogram) Size() int {
	return h.size
}

// Counts returns the backing row-major counts. The slice aliases the
// histogram.
func (h *Histogram) Counts() []uint64 {
	return h.counts
}

// At returns the count of cell (x, y).
func (h *Histogram) At(x, y int) uint64 {
	return h.counts[y*h.size+x]
}

// Add increments cell (x, y) by one.
func (h *Histogram) Add(x, y int) {
	h.counts[y*h.size+x]++
}

// AddMirrored increments cell (x, y) and its mirror (x, Size-1-y) across the
// real axis.
func (h *Histogram) AddMirrored(x, y int) {
	h.counts[y*h.size+x]++
	h.counts[(h.size-1-y)*h.size+x]++
}

// Total returns the sum of all counts.
func (h *Histogram) Total() uint64 {
	var sum uint64
	for _, c := range h.counts {
		sum += c
	}
	return sum
}

// Nonzero returns the number of cells with a positive count.
func (h *Histogram) Nonzero() int {
	n := 0
	for _, c := range h.counts {
		if c != 0 {
			n++
		}
	}
	return n
}

// Equal reports whether h and o have identical size and counts.
func (h *Histogram) Equal(o *Histogram) bool {
	if h.size != o.size {
		return false
	}
	for i, c := range h.counts {
		if c != o.counts[i] {
			return false
		}
	}
	return true
}

// Merge returns a new histogram holding the element-wise sum of hs.
// The inputs are only read.
func Merge(hs ...*Histogram) (*Histogram, error) {
	if len(hs) == 0 {
		return nil, ErrEmpty
	}

	size := hs[0].size
	out := New(size)
	for i, h := range hs {
		if h.size != size {
			return nil, fmt.Errorf("histogram: merge input %d has size %d, want %d: %w", i, h.size, size, ErrSizeMismatch)
		}
		for j, c := range h.counts {
			out.counts[j] += c
		}
	}
	return out, nil
}

// LogScale returns log(max(1, count)) for every cell together with the
// minimum and maximum of the scaled values.
func (h *Histogram) LogScale() (values []float32, lo, hi float32) {
	values = make([]float32, len(h.counts))
	if len(values) == 0 {
		return values, 0, 0
	}

	lo, hi = float32(math.Inf(1)), float32(math.Inf(-1))
	for i, c := range h.counts {
		v := float32(math.Log(float64(max(c, 1))))
		values[i] = v
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return values, lo, hi
}
