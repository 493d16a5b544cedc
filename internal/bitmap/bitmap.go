// Package bitmap provides an immutable square boolean grid and the
// morphological transforms used to locate the Mandelbrot boundary.
//
// Cells are stored row-major: cell (x, y) lives at index y*Size()+x.
// Every transform returns a new Bitmap and leaves its inputs untouched, so
// pipelines such as Edge(Invert(Dilate(b))) compose without aliasing.
//
// Neighbourhoods are 4-connected (up, down, left, right). Neighbours outside
// the grid do not exist: rows do not wrap into each other.
package bitmap

import (
	"errors"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// ErrSizeMismatch is returned when combining bitmaps of different sizes.
var ErrSizeMismatch = errors.New("bitmap: size mismatch")

// Bitmap is a fixed-size square grid of booleans.
//
// The zero value is an empty 0×0 bitmap.
type Bitmap struct {
	size  int
	cells []bool
}

// New returns an all-false bitmap with the given side length.
// It panics if size is negative.
func New(size int) *Bitmap {
	if size < 0 {
		panic(fmt.Sprintf("bitmap: negative size %d", size))
	}
	return &Bitmap{size: size, cells: make([]bool, size*size)}
}

// FromCells wraps a row-major cell slice of length size*size.
// The bitmap takes ownership of cells; callers must not modify it afterwards.
func FromCells(size int, cells []bool) (*Bitmap, error) {
	if size < 0 || len(cells) != size*size {
		return nil, fmt.Errorf("bitmap: %d cells for side %d: %w", len(cells), size, ErrSizeMismatch)
	}
	return &Bitmap{size: size, cells: cells}, nil
}

// Size returns the side length.
func (b *Bitmap) Size() int {
	return b.size
}

// Len returns the number of cells (Size squared).
func (b *Bitmap) Len() int {
	return len(b.cells)
}

// At reports whether cell (x, y) is set. Out-of-range cells are false.
func (b *Bitmap) At(x, y int) bool {
	if x < 0 || y < 0 || x >= b.size || y >= b.size {
		return false
	}
	return b.cells[y*b.size+x]
}

// Count returns the number of set cells.
func (b *Bitmap) Count() int {
	n := 0
	for _, v := range b.cells {
		if v {
			n++
		}
	}
	return n
}

// Equal reports whether b and o have the same size and cells.
func (b *Bitmap) Equal(o *Bitmap) bool {
	if b.size != o.size {
		return false
	}
	for i, v := range b.cells {
		if v != o.cells[i] {
			return false
		}
	}
	return true
}

// SubsetOf reports whether every set cell of b is also set in o.
func (b *Bitmap) SubsetOf(o *Bitmap) bool {
	if b.size != o.size {
		return false
	}
	for i, v := range b.cells {
		if v && !o.cells[i] {
			return false
		}
	}
	return true
}

// Invert returns the cell-wise negation of b.
func (b *Bitmap) Invert() *Bitmap {
	out := New(b.size)
	for i, v := range b.cells {
		out.cells[i] = !v
	}
	return out
}

// Or returns the cell-wise union of b and o.
func (b *Bitmap) Or(o *Bitmap) (*Bitmap, error) {
	if b.size != o.size {
		return nil, fmt.Errorf("bitmap: or %d with %d: %w", b.size, o.size, ErrSizeMismatch)
	}
	out := New(b.size)
	for i, v := range b.cells {
		out.cells[i] = v || o.cells[i]
	}
	return out, nil
}

// Edge returns the inner boundary of b: cells that are set and have at least
// one existing 4-neighbour that is not set.
func (b *Bitmap) Edge() *Bitmap {
	n := b.size
	out := New(n)
	for y := 0; y < n; y++ {
		row := y * n
		for x := 0; x < n; x++ {
			i := row + x
			if !b.cells[i] {
				continue
			}
			out.cells[i] = (x > 0 && !b.cells[i-1]) ||
				(x < n-1 && !b.cells[i+1]) ||
				(y > 0 && !b.cells[i-n]) ||
				(y < n-1 && !b.cells[i+n])
		}
	}
	return out
}

// Dilate grows b by one cell: a cell is set if it or any existing
// 4-neighbour is set.
func (b *Bitmap) Dilate() *Bitmap {
	n := b.size
	out := New(n)
	for y := 0; y < n; y++ {
		row := y * n
		for x := 0; x < n; x++ {
			i := row + x
			out.cells[i] = b.cells[i] ||
				(x > 0 && b.cells[i-1]) ||
				(x < n-1 && b.cells[i+1]) ||
				(y > 0 && b.cells[i-n]) ||
				(y < n-1 && b.cells[i+n])
		}
	}
	return out
}

// Indices returns the row-major indices of all set cells as a roaring bitmap.
// The selection after edge detection is sparse, so the compressed form is
// far smaller than the dense grid.
func (b *Bitmap) Indices() *roaring.Bitmap {
	rb := roaring.New()
	for i, v := range b.cells {
		if v {
			rb.Add(uint32(i)) //nolint:gosec // G115: i < size*size, bounded by grid allocation
		}
	}
	rb.RunOptimize()
	return rb
}
