// Package density converts resolved ray crossings into a per-pixel density
// field.
package density

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/achilleasa/strokedensity/intersect"
	"github.com/achilleasa/strokedensity/types"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrInvalidDimensions = errors.New("density: width and height must be positive")
)

// Field is a row-major grid of density values in [0, 1].
type Field struct {
	Width, Height int

	Values []float64

	// False for pixels whose ray never crossed the hull boundary or whose
	// ray could not be generated. Their value is 0.
	Valid []bool
}

// Map computes the density of every color point. For point p with boundary
// crossing hit the density is 1 - clip(|p-hit| / |centroid-hit|, 0, 1).
//
// If the centroid to crossing distance is zero or not finite the ratio is
// taken to be 0. Rays without a crossing produce an invalid pixel.
func Map(centroid types.Vec3, res *intersect.Resolved, points []types.Vec3, width, height int) (*Field, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	numPixels := width * height
	if len(points) != numPixels || len(res.Locations) != numPixels || len(res.Hit) != numPixels {
		return nil, fmt.Errorf(
			"density: expected %d points and crossings for a %dx%d field; got %d points and %d crossings",
			numPixels, width, height, len(points), len(res.Locations),
		)
	}

	f := &Field{
		Width:  width,
		Height: height,
		Values: make([]float64, numPixels),
		Valid:  make([]bool, numPixels),
	}
	for i, p := range points {
		if !res.Hit[i] {
			continue
		}

		hit := res.Locations[i]
		f.Values[i] = 1 - ratio(p.Dist(hit), centroid.Dist(hit))
		f.Valid[i] = true
	}
	return f, nil
}

func ratio(num, denom float64) float64 {
	if denom == 0 || math.IsNaN(denom) || math.IsInf(denom, 0) {
		return 0
	}
	r := num / denom
	switch {
	case math.IsNaN(r) || r < 0:
		return 0
	case r > 1:
		return 1
	}
	return r
}

// At returns the density at pixel (x, y).
func (f *Field) At(x, y int) float64 {
	return f.Values[y*f.Width+x]
}

// Invalidate marks the pixels at the given row-major indices as invalid.
func (f *Field) Invalidate(indices []int) {
	for _, index := range indices {
		f.Values[index] = 0
		f.Valid[index] = false
	}
}

// InvalidCount returns the number of invalid pixels.
func (f *Field) InvalidCount() int {
	count := 0
	for _, ok := range f.Valid {
		if !ok {
			count++
		}
	}
	return count
}

// Channels broadcasts the field to 3 identical interleaved channels.
func (f *Field) Channels() []float64 {
	out := make([]float64, 3*len(f.Values))
	for i, v := range f.Values {
		out[3*i], out[3*i+1], out[3*i+2] = v, v, v
	}
	return out
}

// Image renders the field as an opaque gray image with each channel set to
// the density scaled by 255 and truncated.
func (f *Field) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			v := uint8(f.At(x, y) * 255)
			img.SetRGBA(x, y, color.RGBA{v, v, v, 255})
		}
	}
	return img
}

// Summary holds descriptive statistics over the valid pixels of a field.
type Summary struct {
	Valid  int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Summary computes statistics over the valid pixels. A field without valid
// pixels yields the zero Summary.
func (f *Field) Summary() Summary {
	values := make([]float64, 0, len(f.Values))
	for i, v := range f.Values {
		if f.Valid[i] {
			values = append(values, v)
		}
	}

	s := Summary{Valid: len(values)}
	switch len(values) {
	case 0:
		return s
	case 1:
		s.Mean = values[0]
	default:
		s.Mean, s.StdDev = stat.MeanStdDev(values, nil)
	}
	s.Min = floats.Min(values)
	s.Max = floats.Max(values)
	return s
}
