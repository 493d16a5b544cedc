// Package sampler draws orbit start points, iterates them and accumulates
// the positions of escaping orbits into a private histogram.
//
// A Sampler is owned by one goroutine. The only state other goroutines may
// touch is the progress counter, which is written with atomic stores by the
// owner and may be read at any time through Progress.
//
// Arithmetic is complex128. The rasterizer that selects seed points runs in
// float32, but orbit positions land directly in the image, and at large
// histogram sizes single precision visibly bands long orbits.
package sampler

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync/atomic"

	"github.com/gogpu/buddhabrot/internal/histogram"
	"github.com/gogpu/buddhabrot/internal/plane"
)

// Defaults for the tunable thresholds.
const (
	// DefaultEscapeThreshold is the squared magnitude an orbit must reach to
	// count as escaping.
	DefaultEscapeThreshold = 4.0

	// DefaultTrackingMargin is the squared magnitude up to which orbit
	// positions are recorded. It is looser than the escape threshold so the
	// overshoot of orbits that leave near the boundary is kept.
	DefaultTrackingMargin = 8.0

	// DefaultProgressStride is the number of samples between progress
	// updates.
	DefaultProgressStride = 1000
)

// ErrInvalidConfig is returned by New for unusable configurations.
var ErrInvalidConfig = errors.New("sampler: invalid config")

// Config configures a Sampler.
type Config struct {
	// Size is the histogram side length.
	Size int

	// MaxIter caps the orbit length.
	MaxIter int

	// UniformProbability is the chance that a proposal is drawn uniformly over
	// the whole window instead of near a good point.
	UniformProbability float64

	// Radius is the half-width of the square drawn around a good point.
	Radius float64

	// EscapeThreshold defaults to DefaultEscapeThreshold when zero.
	EscapeThreshold float64

	// TrackingMargin defaults to DefaultTrackingMargin when zero.
	TrackingMargin float64

	// ProgressStride defaults to DefaultProgressStride when zero.
	ProgressStride uint64
}

func (c *Config) applyDefaults() {
	if c.EscapeThreshold == 0 {
		c.EscapeThreshold = DefaultEscapeThreshold
	}
	if c.TrackingMargin == 0 {
		c.TrackingMargin = DefaultTrackingMargin
	}
	if c.ProgressStride == 0 {
		c.ProgressStride = DefaultProgressStride
	}
}

func (c *Config) validate() error {
	switch {
	case c.Size <= 0:
		return fmt.Errorf("%w: size %d", ErrInvalidConfig, c.Size)
	case c.MaxIter <= 0:
		return fmt.Errorf("%w: max iterations %d", ErrInvalidConfig, c.MaxIter)
	case c.UniformProbability < 0 || c.UniformProbability > 1:
		return fmt.Errorf("%w: uniform probability %v", ErrInvalidConfig, c.UniformProbability)
	case c.Radius < 0:
		return fmt.Errorf("%w: radius %v", ErrInvalidConfig, c.Radius)
	case c.EscapeThreshold <= 0 || c.TrackingMargin < c.EscapeThreshold:
		return fmt.Errorf("%w: escape threshold %v with tracking margin %v", ErrInvalidConfig, c.EscapeThreshold, c.TrackingMargin)
	}
	return nil
}

// Stats counts what a sampler has done.
type Stats struct {
	// Samples is the number of proposals drawn.
	Samples uint64

	// Escaped is the number of proposals whose orbit escaped.
	Escaped uint64

	// Visits is the number of recorded in-window orbit positions. Each visit
	// adds two histogram counts (the cell and its mirror).
	Visits uint64
}

// Add returns the field-wise sum of s and o.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Samples: s.Samples + o.Samples,
		Escaped: s.Escaped + o.Escaped,
		Visits:  s.Visits + o.Visits,
	}
}

// Sampler accumulates escaping orbits into its own histogram.
type Sampler struct {
	cfg    Config
	points []plane.Point
	rng    *rand.Rand

	hist  *histogram.Histogram
	orbit []complex128
	stats Stats

	progress atomic.Uint64
}

// New returns a sampler drawing edge-biased proposals around points.
//
// points is shared and must not be modified while the sampler runs. When it
// is empty every proposal is drawn uniformly, whatever UniformProbability
// says.
func New(cfg Config, points []plane.Point, seed uint64) (*Sampler, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &Sampler{
		cfg:    cfg,
		points: points,
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		hist:   histogram.New(cfg.Size),
		orbit:  make([]complex128, 0, cfg.MaxIter),
	}, nil
}

// Sample draws n proposals and accumulates the escaping ones.
// Progress is published every ProgressStride samples and set to n on return.
func (s *Sampler) Sample(n uint64) {
	stride := s.cfg.ProgressStride
	for k := uint64(0); k < n; k++ {
		if k%stride == 0 {
			s.progress.Store(k)
		}
		s.Accumulate(s.propose())
	}
	s.stats.Samples += n
	s.progress.Store(n)
}

// propose draws the next start point.
func (s *Sampler) propose() complex128 {
	if len(s.points) == 0 || s.rng.Float64() < s.cfg.UniformProbability {
		return complex(s.uniform(plane.Min, plane.Max), s.uniform(plane.Min, plane.Max))
	}

	p := s.points[s.rng.IntN(len(s.points))]
	r := s.cfg.Radius
	return complex(s.uniform(p.Re-r, p.Re+r), s.uniform(p.Im-r, p.Im+r))
}

func (s *Sampler) uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*s.rng.Float64()
}

// Accumulate iterates the orbit of c and, if it escapes, adds every recorded
// in-window position and its mirror to the histogram. It reports whether the
// orbit escaped.
func (s *Sampler) Accumulate(c complex128) bool {
	orbit := s.Trace(c)
	if norm(lastOr(orbit, 0)) < s.cfg.EscapeThreshold {
		return false
	}

	s.stats.Escaped++
	size := s.cfg.Size
	for _, z := range orbit {
		if !plane.Contains(z) {
			continue
		}
		s.hist.AddMirrored(plane.Cell(real(z), size), plane.Cell(imag(z), size))
		s.stats.Visits++
	}
	return true
}

// Trace iterates z ← z² + c from z₀ = 0 while the iteration count is below
// MaxIter and |z|² is below the tracking margin, returning every visited z.
// The returned slice is scratch space reused by the next call.
func (s *Sampler) Trace(c complex128) []complex128 {
	orbit := s.orbit[:0]
	var z complex128
	for i := 0; i < s.cfg.MaxIter && norm(z) < s.cfg.TrackingMargin; i++ {
		z = z*z + c
		orbit = append(orbit, z)
	}
	s.orbit = orbit
	return orbit
}

// Progress returns the number of samples completed so far. It is safe to
// call from any goroutine; the value may lag by up to ProgressStride.
func (s *Sampler) Progress() uint64 {
	return s.progress.Load()
}

// Histogram returns the sampler's histogram. It must only be read once the
// owning goroutine has finished sampling.
func (s *Sampler) Histogram() *histogram.Histogram {
	return s.hist
}

// Stats returns the sampler's counters. Like Histogram, it must only be read
// after sampling has finished.
func (s *Sampler) Stats() Stats {
	return s.stats
}

func norm(z complex128) float64 {
	return real(z)*real(z) + imag(z)*imag(z)
}

func lastOr(orbit []complex128, def complex128) complex128 {
	if len(orbit) == 0 {
		return def
	}
	return orbit[len(orbit)-1]
}
