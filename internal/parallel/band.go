package parallel

// Band is a half-open range of grid rows [Start, End).
type Band struct {
	Index int
	Start int
	End   int
}

// Rows returns the number of rows in the band.
func (b Band) Rows() int {
	return b.End - b.Start
}

// Bands splits rows into at most parts contiguous bands of near-equal size.
// The first rows%parts bands receive one extra row. Empty bands are never
// returned.
func Bands(rows, parts int) []Band {
	if rows <= 0 {
		return nil
	}
	parts = min(max(parts, 1), rows)

	base, extra := rows/parts, rows%parts
	bands := make([]Band, parts)
	start := 0
	for i := range bands {
		n := base
		if i < extra {
			n++
		}
		bands[i] = Band{Index: i, Start: start, End: start + n}
		start += n
	}
	return bands
}

// ForEachBand splits rows into bands and runs fn for each one on the pool,
// returning when every band is done. bandsPerWorker > 1 gives the stealing
// scheduler room to balance uneven bands.
func (p *WorkerPool) ForEachBand(rows, bandsPerWorker int, fn func(Band)) {
	p.run(Bands(rows, p.workers*max(bandsPerWorker, 1)), fn)
}

// ForEachBandN is ForEachBand with a fixed band count. Band boundaries and
// indices depend only on rows and bands, not on the pool's worker count.
func (p *WorkerPool) ForEachBandN(rows, bands int, fn func(Band)) {
	p.run(Bands(rows, bands), fn)
}
