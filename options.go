package buddhabrot

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/gogpu/buddhabrot/internal/colormap"
	"github.com/gogpu/buddhabrot/internal/progress"
	"github.com/gogpu/buddhabrot/internal/sampler"
)

// ErrInvalidConfig is returned when a Config cannot be rendered.
var ErrInvalidConfig = errors.New("buddhabrot: invalid config")

// Defaults.
const (
	DefaultSize               = 4096
	DefaultOrbitIterations    = 20
	DefaultRasterIterations   = 1000
	DefaultDilations          = 2
	DefaultSamples            = 10_000_000
	DefaultUniformProbability = 1.0
	DefaultColormap           = "mako"
	DefaultEscapeThreshold    = sampler.DefaultEscapeThreshold
	DefaultTrackingMargin     = sampler.DefaultTrackingMargin
	DefaultProgressInterval   = progress.DefaultInterval
)

// Config holds every tunable of a render.
type Config struct {
	// Size is the side length of the square lattice, histogram and image.
	Size int

	// OrbitIterations caps the length of sampled orbits.
	OrbitIterations int

	// RasterIterations is the iteration budget of the membership test used
	// to find the set boundary.
	RasterIterations int

	// Dilations is the number of times the selected boundary band is grown.
	Dilations int

	// Workers is the number of concurrent samplers and pool workers.
	Workers int

	// Samples is the total number of orbit proposals, split across workers.
	Samples uint64

	// UniformProbability is the chance a proposal ignores the good points.
	UniformProbability float64

	// Radius is the half-width of the proposal square around a good point.
	// Zero selects two lattice cells (2/Size).
	Radius float64

	// Colormap names a catalog colormap.
	Colormap string

	// EscapeThreshold is the squared magnitude that classifies an orbit as
	// escaping.
	EscapeThreshold float64

	// TrackingMargin is the squared magnitude up to which orbit positions
	// are recorded. Must be at least EscapeThreshold.
	TrackingMargin float64

	// ProgressInterval is the polling cadence of progress reports.
	ProgressInterval time.Duration

	// Seed seeds every generator. Zero draws a random seed.
	Seed uint64

	// RangeMin, when non-nil, replaces the minimum of the log-scaled
	// histogram as the lower end of the color range.
	RangeMin *float32
}

// Option configures a Config.
//
// Example:
//
//	r, err := buddhabrot.New(
//	    buddhabrot.WithSize(1024),
//	    buddhabrot.WithSamples(1e6),
//	    buddhabrot.WithColormap("magma"),
//	)
type Option func(*Config)

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Size:               DefaultSize,
		OrbitIterations:    DefaultOrbitIterations,
		RasterIterations:   DefaultRasterIterations,
		Dilations:          DefaultDilations,
		Workers:            runtime.GOMAXPROCS(0),
		Samples:            DefaultSamples,
		UniformProbability: DefaultUniformProbability,
		Colormap:           DefaultColormap,
		EscapeThreshold:    DefaultEscapeThreshold,
		TrackingMargin:     DefaultTrackingMargin,
		ProgressInterval:   DefaultProgressInterval,
	}
}

// WithSize sets the lattice side length.
func WithSize(n int) Option {
	return func(c *Config) { c.Size = n }
}

// WithOrbitIterations sets the orbit length cap.
func WithOrbitIterations(n int) Option {
	return func(c *Config) { c.OrbitIterations = n }
}

// WithRasterIterations sets the membership iteration budget.
func WithRasterIterations(n int) Option {
	return func(c *Config) { c.RasterIterations = n }
}

// WithDilations sets the number of boundary dilation rounds.
func WithDilations(n int) Option {
	return func(c *Config) { c.Dilations = n }
}

// WithWorkers sets the number of samplers and pool workers.
func WithWorkers(n int) Option {
	return func(c *Config) { c.Workers = n }
}

// WithSamples sets the total number of proposals.
func WithSamples(n uint64) Option {
	return func(c *Config) { c.Samples = n }
}

// WithUniformProbability sets the chance of a uniform proposal.
func WithUniformProbability(p float64) Option {
	return func(c *Config) { c.UniformProbability = p }
}

// WithRadius sets the proposal half-width around good points.
func WithRadius(r float64) Option {
	return func(c *Config) { c.Radius = r }
}

// WithColormap selects a catalog colormap by name.
func WithColormap(name string) Option {
	return func(c *Config) { c.Colormap = name }
}

// WithThresholds sets the escape threshold and tracking margin, both as
// squared magnitudes.
func WithThresholds(escape, tracking float64) Option {
	return func(c *Config) {
		c.EscapeThreshold = escape
		c.TrackingMargin = tracking
	}
}

// WithProgressInterval sets the progress polling cadence.
func WithProgressInterval(d time.Duration) Option {
	return func(c *Config) { c.ProgressInterval = d }
}

// WithSeed fixes the generator seed, making renders reproducible for a given
// worker count.
func WithSeed(seed uint64) Option {
	return func(c *Config) { c.Seed = seed }
}

// WithRangeMin sets the lower end of the color range in log-count units.
func WithRangeMin(v float32) Option {
	return func(c *Config) { c.RangeMin = &v }
}

// Validate reports the first unusable setting of c.
func (c Config) Validate() error {
	switch {
	case c.Size <= 0:
		return fmt.Errorf("%w: size %d", ErrInvalidConfig, c.Size)
	case c.OrbitIterations <= 0:
		return fmt.Errorf("%w: orbit iterations %d", ErrInvalidConfig, c.OrbitIterations)
	case c.RasterIterations <= 0:
		return fmt.Errorf("%w: raster iterations %d", ErrInvalidConfig, c.RasterIterations)
	case c.Dilations < 0:
		return fmt.Errorf("%w: dilations %d", ErrInvalidConfig, c.Dilations)
	case c.Workers <= 0:
		return fmt.Errorf("%w: workers %d", ErrInvalidConfig, c.Workers)
	case c.Samples == 0:
		return fmt.Errorf("%w: samples must be positive", ErrInvalidConfig)
	case c.UniformProbability < 0 || c.UniformProbability > 1:
		return fmt.Errorf("%w: uniform probability %v outside [0, 1]", ErrInvalidConfig, c.UniformProbability)
	case c.Radius < 0:
		return fmt.Errorf("%w: radius %v", ErrInvalidConfig, c.Radius)
	case c.EscapeThreshold <= 0:
		return fmt.Errorf("%w: escape threshold %v", ErrInvalidConfig, c.EscapeThreshold)
	case c.TrackingMargin < c.EscapeThreshold:
		return fmt.Errorf("%w: tracking margin %v below escape threshold %v", ErrInvalidConfig, c.TrackingMargin, c.EscapeThreshold)
	}
	if _, err := colormap.ByName(c.Colormap); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// radius returns the effective proposal half-width.
func (c Config) radius() float64 {
	if c.Radius == 0 {
		return 2 / float64(c.Size)
	}
	return c.Radius
}

// share returns the number of samples assigned to worker i. The remainder of
// the division goes to the lowest-indexed workers.
func (c Config) share(i int) uint64 {
	w := uint64(c.Workers)
	n := c.Samples / w
	if uint64(i) < c.Samples%w {
		n++
	}
	return n
}
