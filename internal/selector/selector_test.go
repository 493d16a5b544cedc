package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/buddhabrot/internal/bitmap"
	"github.com/gogpu/buddhabrot/internal/parallel"
	"github.com/gogpu/buddhabrot/internal/plane"
)

// disc returns a bitmap with a filled disc of radius r at the grid centre.
func disc(t *testing.T, size int, r float64) *bitmap.Bitmap {
	t.Helper()
	cells := make([]bool, size*size)
	c := float64(size-1) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x)-c, float64(y)-c
			cells[y*size+x] = dx*dx+dy*dy <= r*r
		}
	}
	b, err := bitmap.FromCells(size, cells)
	require.NoError(t, err)
	return b
}

func TestSelect_BracketsBoundary(t *testing.T) {
	set := disc(t, 32, 8)

	sel, err := Select(set, 0)
	require.NoError(t, err)

	inner := set.Edge()
	outer := set.Invert().Edge()
	assert.True(t, inner.SubsetOf(sel))
	assert.True(t, outer.SubsetOf(sel))
	assert.Equal(t, inner.Count()+outer.Count(), sel.Count(), "inner and outer edges are disjoint")

	// Interior and far exterior stay unselected.
	assert.False(t, sel.At(15, 15))
	assert.False(t, sel.At(0, 0))
}

func TestSelect_DilationWidensBand(t *testing.T) {
	set := disc(t, 48, 10)

	prev, err := Select(set, 0)
	require.NoError(t, err)
	for rounds := 1; rounds <= 3; rounds++ {
		sel, err := Select(set, rounds)
		require.NoError(t, err)
		assert.True(t, prev.SubsetOf(sel), "round %d keeps earlier cells", rounds)
		assert.Greater(t, sel.Count(), prev.Count(), "round %d adds cells", rounds)
		prev = sel
	}
}

func TestSelect_DoesNotMutateInput(t *testing.T) {
	set := disc(t, 16, 4)
	before := set.Count()
	_, err := Select(set, 2)
	require.NoError(t, err)
	assert.Equal(t, before, set.Count())
}

func TestSelect_Uniform(t *testing.T) {
	// A bitmap without a boundary yields no points.
	for _, set := range []*bitmap.Bitmap{bitmap.New(16), bitmap.New(16).Invert()} {
		sel, err := Select(set, 0)
		require.NoError(t, err)
		assert.Zero(t, sel.Count())
		assert.Empty(t, Collect(sel))
	}
}

func TestCollect_RoundTripsToSelectedCells(t *testing.T) {
	for _, size := range []int{17, 64} {
		sel, err := Select(disc(t, size, float64(size)/5), 1)
		require.NoError(t, err)

		points := Collect(sel)
		require.Len(t, points, sel.Count())
		for _, p := range points {
			x, y := plane.Cell(p.Re, size), plane.Cell(p.Im, size)
			assert.True(t, sel.At(x, y), "point %+v maps to unselected cell (%d,%d)", p, x, y)
		}
	}
}

func TestCollect_RowMajorOrder(t *testing.T) {
	sel, err := Select(disc(t, 20, 5), 0)
	require.NoError(t, err)

	points := Collect(sel)
	for i := 1; i < len(points); i++ {
		a, b := points[i-1], points[i]
		ordered := a.Im < b.Im || (a.Im == b.Im && a.Re < b.Re)
		require.True(t, ordered, "points %d and %d out of order", i-1, i)
	}
}

func TestFindGoodPoints(t *testing.T) {
	pool := parallel.NewWorkerPool(2)
	defer pool.Close()

	res, err := FindGoodPoints(pool, Options{Size: 64, MaxIter: 50, Dilations: 1, Seed: 3})
	require.NoError(t, err)
	require.NotEmpty(t, res.Points)
	assert.Equal(t, res.Selection.Count(), len(res.Points))

	for _, p := range res.Points {
		assert.True(t, res.Selection.At(plane.Cell(p.Re, 64), plane.Cell(p.Im, 64)))
	}
}
