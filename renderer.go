package buddhabrot

import (
	"context"
	"fmt"
	"image"
	"math/rand/v2"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/gogpu/buddhabrot/internal/colormap"
	"github.com/gogpu/buddhabrot/internal/histogram"
	"github.com/gogpu/buddhabrot/internal/imageio"
	"github.com/gogpu/buddhabrot/internal/parallel"
	"github.com/gogpu/buddhabrot/internal/plane"
	"github.com/gogpu/buddhabrot/internal/progress"
	"github.com/gogpu/buddhabrot/internal/sampler"
	"github.com/gogpu/buddhabrot/internal/selector"
)

// Histogram is a square grid of orbit visit counts.
type Histogram = histogram.Histogram

// Point is a location in the complex plane.
type Point = plane.Point

// Stats counts sampling work.
type Stats = sampler.Stats

// Report is one progress observation.
type Report = progress.Report

// colorBandsPerWorker is the row-band granularity of the colorize pass.
const colorBandsPerWorker = 4

// progressLogInterval throttles progress debug logs.
const progressLogInterval = time.Second

// Renderer runs the render pipeline with a fixed configuration.
// A Renderer owns a worker pool; call Close when done.
type Renderer struct {
	cfg  Config
	pool *parallel.WorkerPool
}

// New returns a renderer configured by opts applied over DefaultConfig.
// A zero seed is replaced by a random one, available from Config.
func New(opts ...Option) (*Renderer, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Seed == 0 {
		cfg.Seed = rand.Uint64() | 1
	}

	return &Renderer{
		cfg:  cfg,
		pool: parallel.NewWorkerPool(cfg.Workers),
	}, nil
}

// Config returns the effective configuration.
func (r *Renderer) Config() Config {
	return r.cfg
}

// Close stops the worker pool. Close is idempotent.
func (r *Renderer) Close() {
	r.pool.Close()
}

// GoodPoints is the result of FindGoodPoints.
type GoodPoints = selector.Result

// FindGoodPoints rasterizes the Mandelbrot set at the configured size and
// returns the points of its dilated boundary band.
func (r *Renderer) FindGoodPoints() (*GoodPoints, error) {
	start := time.Now()
	res, err := selector.FindGoodPoints(r.pool, selector.Options{
		Size:      r.cfg.Size,
		MaxIter:   r.cfg.RasterIterations,
		Dilations: r.cfg.Dilations,
		Seed:      r.cfg.Seed,
	})
	if err != nil {
		return nil, fmt.Errorf("buddhabrot: find good points: %w", err)
	}

	phaseLogger("points").Info("good points found",
		"points", len(res.Points),
		"inside", res.Set.Count(),
		"elapsed", time.Since(start))
	return res, nil
}

// Sample runs Config.Workers samplers concurrently over points and returns
// the merged histogram with the summed statistics.
//
// report, when non-nil, is called from a monitoring goroutine at the
// configured interval and once more when all samples are drawn. Cancelling
// ctx stops progress reporting and prevents sampling from starting, but
// samplers already running complete their share.
func (r *Renderer) Sample(ctx context.Context, points []Point, report func(Report)) (*Histogram, Stats, error) {
	cfg := r.cfg
	log := phaseLogger("sample")
	if len(points) == 0 && cfg.UniformProbability < 1 {
		log.Warn("no good points, sampling uniformly",
			"uniform_probability", cfg.UniformProbability)
	}

	samplers := make([]*sampler.Sampler, cfg.Workers)
	for i := range samplers {
		s, err := sampler.New(sampler.Config{
			Size:               cfg.Size,
			MaxIter:            cfg.OrbitIterations,
			UniformProbability: cfg.UniformProbability,
			Radius:             cfg.radius(),
			EscapeThreshold:    cfg.EscapeThreshold,
			TrackingMargin:     cfg.TrackingMargin,
		}, points, cfg.Seed+uint64(i))
		if err != nil {
			return nil, Stats{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		samplers[i] = s
	}

	if err := ctx.Err(); err != nil {
		return nil, Stats{}, err
	}

	start := time.Now()
	monCtx, stop := context.WithCancel(ctx)
	defer stop()

	throttle := rate.Sometimes{Interval: progressLogInterval}
	monDone := make(chan struct{})
	go func() {
		defer close(monDone)
		mon := progress.NewMonitor(samplers, cfg.Samples, cfg.ProgressInterval)
		_ = mon.Run(monCtx, func(rep Report) {
			throttle.Do(func() {
				log.Debug("progress", "done", rep.Done, "total", rep.Total, "elapsed", rep.Elapsed)
			})
			if report != nil {
				report(rep)
			}
		})
	}()

	var g errgroup.Group
	for i, s := range samplers {
		n := cfg.share(i)
		g.Go(func() error {
			s.Sample(n)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Stats{}, err
	}
	<-monDone

	hists := make([]*Histogram, len(samplers))
	var stats Stats
	for i, s := range samplers {
		hists[i] = s.Histogram()
		stats = stats.Add(s.Stats())
	}
	merged, err := histogram.Merge(hists...)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("buddhabrot: merge: %w", err)
	}

	log.Info("sampling done",
		"samples", stats.Samples,
		"escaped", stats.Escaped,
		"visits", stats.Visits,
		"elapsed", time.Since(start))
	return merged, stats, nil
}

// Colorize maps the log-scaled histogram through the configured colormap.
// The image has the histogram's size, which may differ from Config.Size
// when the histogram was loaded from a snapshot.
func (r *Renderer) Colorize(h *Histogram) (*image.RGBA, error) {
	cmap, err := colormap.ByName(r.cfg.Colormap)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	start := time.Now()
	values, lo, hi := h.LogScale()
	if r.cfg.RangeMin != nil {
		lo = *r.cfg.RangeMin
	}
	cmap.SetRange(lo, hi)

	size := h.Size()
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	r.pool.ForEachBand(size, colorBandsPerWorker, func(b parallel.Band) {
		for y := b.Start; y < b.End; y++ {
			row := values[y*size : (y+1)*size]
			pix := img.Pix[y*img.Stride : y*img.Stride+4*size]
			for x, v := range row {
				c := cmap.RGBA(v)
				pix[4*x] = c.R
				pix[4*x+1] = c.G
				pix[4*x+2] = c.B
				pix[4*x+3] = c.A
			}
		}
	})

	phaseLogger("colorize").Debug("colorized",
		"colormap", cmap.Name(),
		"min", lo,
		"max", hi,
		"elapsed", time.Since(start))
	return img, nil
}

// Result holds the products of a full render.
type Result struct {
	Points    *GoodPoints
	Histogram *Histogram
	Image     *image.RGBA
	Stats     Stats
	Elapsed   time.Duration
}

// Render runs the full pipeline: find good points, sample, colorize.
func (r *Renderer) Render(ctx context.Context, report func(Report)) (*Result, error) {
	start := time.Now()

	good, err := r.FindGoodPoints()
	if err != nil {
		return nil, err
	}

	hist, stats, err := r.Sample(ctx, good.Points, report)
	if err != nil {
		return nil, err
	}

	img, err := r.Colorize(hist)
	if err != nil {
		return nil, err
	}

	return &Result{
		Points:    good,
		Histogram: hist,
		Image:     img,
		Stats:     stats,
		Elapsed:   time.Since(start),
	}, nil
}

// SaveImage writes img to path. The format follows the extension: .ppm
// (plain text), .png, .tif/.tiff or .bmp.
func SaveImage(path string, img image.Image) error {
	return imageio.Save(path, img)
}
