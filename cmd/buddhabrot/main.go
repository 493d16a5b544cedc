// Command buddhabrot renders a Buddhabrot image.
//
// Usage:
//
//	buddhabrot -size 2048 -samples 50000000 -output buddhabrot.png
//
// The histogram can be saved and re-colored later without sampling again:
//
//	buddhabrot -save-histogram run.bhst -compression zstd -output a.ppm
//	buddhabrot -from-histogram run.bhst -colormap magma -output b.png
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/gogpu/buddhabrot"
	"github.com/gogpu/buddhabrot/internal/colormap"
	"github.com/gogpu/buddhabrot/internal/histogram"
	"github.com/gogpu/buddhabrot/internal/imageio"
	"github.com/gogpu/buddhabrot/internal/progress"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		log.Fatal(err)
	}
}

// run parses args and renders. Logs, the progress bar and the summary go to
// stderr; stdout only carries -list-colormaps output.
func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("buddhabrot", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		size        = fs.Int("size", buddhabrot.DefaultSize, "lattice, histogram and image side length")
		orbitIter   = fs.Int("orbit-iterations", buddhabrot.DefaultOrbitIterations, "maximum orbit length")
		rasterIter  = fs.Int("raster-iterations", buddhabrot.DefaultRasterIterations, "membership test iterations for boundary detection")
		dilations   = fs.Int("dilations", buddhabrot.DefaultDilations, "boundary band dilation rounds")
		workers     = fs.Int("workers", runtime.GOMAXPROCS(0), "number of concurrent samplers")
		samples     = fs.Uint64("samples", buddhabrot.DefaultSamples, "total number of orbit samples")
		uniform     = fs.Float64("uniform", buddhabrot.DefaultUniformProbability, "probability of a uniform proposal instead of one near the boundary")
		radius      = fs.Float64("radius", 0, "proposal half-width around boundary points (0 = two cells)")
		cmapName    = fs.String("colormap", buddhabrot.DefaultColormap, "colormap name")
		escape      = fs.Float64("escape", buddhabrot.DefaultEscapeThreshold, "squared magnitude classifying an orbit as escaping")
		margin      = fs.Float64("margin", buddhabrot.DefaultTrackingMargin, "squared magnitude up to which orbit positions are recorded")
		interval    = fs.Duration("progress-interval", buddhabrot.DefaultProgressInterval, "progress refresh interval")
		seed        = fs.Uint64("seed", 0, "random seed (0 = random)")
		output      = fs.String("output", "buddhabrot.ppm", "output image (.ppm, .png, .tif, .bmp)")
		saveHist    = fs.String("save-histogram", "", "write the raw histogram snapshot to this file")
		fromHist    = fs.String("from-histogram", "", "colorize a saved histogram snapshot instead of sampling")
		compression = fs.String("compression", "zstd", "snapshot compression (none, zstd, lz4)")
		quiet       = fs.Bool("quiet", false, "disable the progress bar")
		verbose     = fs.Bool("v", false, "enable info and debug logging")
		listCmaps   = fs.Bool("list-colormaps", false, "print the available colormaps and exit")
	)
	var rangeMin *float32
	fs.Func("range-min", "lower end of the color range in log-count units (default: histogram minimum)", func(s string) error {
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return err
		}
		f := float32(v)
		rangeMin = &f
		return nil
	})
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if *listCmaps {
		for _, n := range colormap.Names() {
			fmt.Fprintln(stdout, n)
		}
		return nil
	}

	logger := log.New(stderr, "", log.LstdFlags)
	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	buddhabrot.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))

	comp, err := histogram.ParseCompression(*compression)
	if err != nil {
		return fmt.Errorf("invalid compression: %w", err)
	}
	if _, err := imageio.EncoderFor(*output); err != nil {
		return fmt.Errorf("invalid output: %w", err)
	}

	opts := []buddhabrot.Option{
		buddhabrot.WithSize(*size),
		buddhabrot.WithOrbitIterations(*orbitIter),
		buddhabrot.WithRasterIterations(*rasterIter),
		buddhabrot.WithDilations(*dilations),
		buddhabrot.WithWorkers(*workers),
		buddhabrot.WithSamples(*samples),
		buddhabrot.WithUniformProbability(*uniform),
		buddhabrot.WithRadius(*radius),
		buddhabrot.WithColormap(*cmapName),
		buddhabrot.WithThresholds(*escape, *margin),
		buddhabrot.WithProgressInterval(*interval),
		buddhabrot.WithSeed(*seed),
	}
	if rangeMin != nil {
		opts = append(opts, buddhabrot.WithRangeMin(*rangeMin))
	}

	r, err := buddhabrot.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to configure: %w", err)
	}
	defer r.Close()

	var hist *buddhabrot.Histogram
	if *fromHist != "" {
		hist, err = histogram.LoadFile(*fromHist)
		if err != nil {
			return fmt.Errorf("failed to load histogram: %w", err)
		}
	} else {
		hist, err = sample(context.Background(), r, stderr, *quiet)
		if err != nil {
			return err
		}
	}

	if *saveHist != "" {
		if err := hist.SaveFile(*saveHist, comp); err != nil {
			return fmt.Errorf("failed to save histogram: %w", err)
		}
		logger.Printf("Histogram saved to %s (%s)", *saveHist, comp)
	}

	img, err := r.Colorize(hist)
	if err != nil {
		return fmt.Errorf("failed to colorize: %w", err)
	}
	if err := imageio.Save(*output, img); err != nil {
		return fmt.Errorf("failed to save: %w", err)
	}

	logger.Printf("Image saved to %s (%dx%d)", *output, hist.Size(), hist.Size())
	return nil
}

// sample finds the good points and samples the histogram, drawing a progress
// bar on w unless quiet is set.
func sample(ctx context.Context, r *buddhabrot.Renderer, w io.Writer, quiet bool) (*buddhabrot.Histogram, error) {
	good, err := r.FindGoodPoints()
	if err != nil {
		return nil, fmt.Errorf("failed to find good points: %w", err)
	}

	var report func(buddhabrot.Report)
	bar := progress.NewBar(w, progress.DefaultWidth)
	if !quiet {
		report = bar.Update
	}

	start := time.Now()
	hist, stats, err := r.Sample(ctx, good.Points, report)
	if err != nil {
		return nil, fmt.Errorf("failed to sample: %w", err)
	}
	if !quiet {
		bar.Finish()
	}

	if err := progress.Summary(w, stats.Samples, stats.Escaped, time.Since(start)); err != nil {
		return nil, fmt.Errorf("failed to write summary: %w", err)
	}
	return hist, nil
}
