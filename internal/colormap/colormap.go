// Package colormap maps scalar values to colors through a small catalog of
// named perceptual colormaps.
//
// A Colormap linearly remaps values from a configurable [min, max] range onto
// its control points and interpolates between adjacent points. RGBA uses a
// precomputed 4096-entry table so that colorizing a large histogram costs one
// lookup per pixel.
package colormap

import (
	"errors"
	"fmt"
	"image/color"
	"slices"
	"strings"
)

// ErrUnknownColormap is returned by ByName for names outside the catalog.
var ErrUnknownColormap = errors.New("colormap: unknown colormap")

// lutSize is the number of entries of the 8-bit lookup table.
const lutSize = 4096

// RGB is a color with components in [0, 1].
type RGB [3]float32

// Colormap is an immutable list of control points plus a value range.
// A Colormap is safe for concurrent use once SetRange is no longer called.
type Colormap struct {
	name  string
	stops []RGB
	vmin  float32
	vmax  float32
	lut   [lutSize]color.RGBA
}

// ByName returns the catalog colormap called name with range [0, 1].
// Names are case-insensitive.
func ByName(name string) (*Colormap, error) {
	key := strings.ToLower(name)
	hex, ok := catalog[key]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownColormap, name, strings.Join(Names(), ", "))
	}

	stops := make([]RGB, len(hex))
	for i, h := range hex {
		stops[i] = RGB{
			float32(h>>16&0xff) / 255,
			float32(h>>8&0xff) / 255,
			float32(h&0xff) / 255,
		}
	}

	c := &Colormap{name: key, stops: stops, vmin: 0, vmax: 1}
	for i := range c.lut {
		rgb := c.interpolate(float32(i) / (lutSize - 1))
		c.lut[i] = color.RGBA{R: To8(rgb[0]), G: To8(rgb[1]), B: To8(rgb[2]), A: 255}
	}
	return c, nil
}

// Names returns the catalog names in sorted order.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for n := range catalog {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Name returns the catalog name of c.
func (c *Colormap) Name() string {
	return c.name
}

// SetRange sets the value range mapped onto the colormap.
// Values outside the range are clamped.
func (c *Colormap) SetRange(vmin, vmax float32) {
	c.vmin, c.vmax = vmin, vmax
}

// Range returns the current value range.
func (c *Colormap) Range() (vmin, vmax float32) {
	return c.vmin, c.vmax
}

// At returns the interpolated color of v.
func (c *Colormap) At(v float32) RGB {
	return c.interpolate(c.normalize(v))
}

// RGBA returns the 8-bit color of v from the lookup table.
func (c *Colormap) RGBA(v float32) color.RGBA {
	return c.lut[int(c.normalize(v)*(lutSize-1)+0.5)]
}

// normalize maps v from the value range to [0, 1]. A degenerate range maps
// everything to 0.
func (c *Colormap) normalize(v float32) float32 {
	span := c.vmax - c.vmin
	if span <= 0 {
		return 0
	}
	return min(max((v-c.vmin)/span, 0), 1)
}

// interpolate returns the color at t ∈ [0, 1] along the control points.
func (c *Colormap) interpolate(t float32) RGB {
	last := len(c.stops) - 1
	pos := t * float32(last)
	left := min(int(pos), last)
	if left == last {
		return c.stops[last]
	}
	frac := pos - float32(left)

	l, r := c.stops[left], c.stops[left+1]
	return RGB{
		l[0] + (r[0]-l[0])*frac,
		l[1] + (r[1]-l[1])*frac,
		l[2] + (r[2]-l[2])*frac,
	}
}

// To8 converts a [0, 1] channel to a byte, scaling by 256 and clamping.
func To8(v float32) uint8 {
	return uint8(min(max(int(256*v), 0), 255)) //nolint:gosec // G115: clamped to [0,255]
}
