package buddhabrot

import (
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/buddhabrot/internal/colormap"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 4096, cfg.Size)
	assert.Equal(t, 20, cfg.OrbitIterations)
	assert.Equal(t, 1000, cfg.RasterIterations)
	assert.Equal(t, 2, cfg.Dilations)
	assert.Equal(t, runtime.GOMAXPROCS(0), cfg.Workers)
	assert.EqualValues(t, 10_000_000, cfg.Samples)
	assert.InDelta(t, 1.0, cfg.UniformProbability, 0)
	assert.Equal(t, "mako", cfg.Colormap)
	assert.InDelta(t, 4.0, cfg.EscapeThreshold, 0)
	assert.InDelta(t, 8.0, cfg.TrackingMargin, 0)
	assert.Equal(t, 100*time.Millisecond, cfg.ProgressInterval)
	assert.Zero(t, cfg.Seed)
	assert.Nil(t, cfg.RangeMin)
	assert.InDelta(t, 2.0/4096, cfg.radius(), 1e-15)
}

func TestOptions(t *testing.T) {
	cfg := DefaultConfig()
	for _, opt := range []Option{
		WithSize(256),
		WithOrbitIterations(50),
		WithRasterIterations(300),
		WithDilations(0),
		WithWorkers(3),
		WithSamples(1234),
		WithUniformProbability(0.25),
		WithRadius(0.01),
		WithColormap("magma"),
		WithThresholds(4, 16),
		WithProgressInterval(time.Second),
		WithSeed(42),
		WithRangeMin(1.5),
	} {
		opt(&cfg)
	}

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 256, cfg.Size)
	assert.Equal(t, 50, cfg.OrbitIterations)
	assert.Equal(t, 300, cfg.RasterIterations)
	assert.Equal(t, 0, cfg.Dilations)
	assert.Equal(t, 3, cfg.Workers)
	assert.EqualValues(t, 1234, cfg.Samples)
	assert.InDelta(t, 0.25, cfg.UniformProbability, 0)
	assert.InDelta(t, 0.01, cfg.radius(), 0)
	assert.Equal(t, "magma", cfg.Colormap)
	assert.InDelta(t, 16.0, cfg.TrackingMargin, 0)
	assert.Equal(t, time.Second, cfg.ProgressInterval)
	assert.EqualValues(t, 42, cfg.Seed)
	require.NotNil(t, cfg.RangeMin)
	assert.InDelta(t, 1.5, *cfg.RangeMin, 0)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"zero size", WithSize(0)},
		{"negative orbit iterations", WithOrbitIterations(-1)},
		{"zero raster iterations", WithRasterIterations(0)},
		{"negative dilations", WithDilations(-1)},
		{"zero workers", WithWorkers(0)},
		{"zero samples", WithSamples(0)},
		{"probability above one", WithUniformProbability(1.5)},
		{"negative probability", WithUniformProbability(-0.1)},
		{"negative radius", WithRadius(-1)},
		{"zero escape threshold", WithThresholds(0, 8)},
		{"margin below threshold", WithThresholds(4, 2)},
		{"unknown colormap", WithColormap("jet")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.opt(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)

			_, err = New(tt.opt)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestConfigValidate_UnknownColormapWrapsBoth(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Colormap = "jet"
	err := cfg.Validate()
	assert.True(t, errors.Is(err, ErrInvalidConfig))
	assert.True(t, errors.Is(err, colormap.ErrUnknownColormap))
}

func TestConfigShare(t *testing.T) {
	tests := []struct {
		samples uint64
		workers int
		want    []uint64
	}{
		{10, 3, []uint64{4, 3, 3}},
		{9, 3, []uint64{3, 3, 3}},
		{2, 4, []uint64{1, 1, 0, 0}},
		{1, 1, []uint64{1}},
	}
	for _, tt := range tests {
		cfg := Config{Samples: tt.samples, Workers: tt.workers}
		var got []uint64
		var sum uint64
		for i := range tt.workers {
			got = append(got, cfg.share(i))
			sum += cfg.share(i)
		}
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.samples, sum)
	}
}
