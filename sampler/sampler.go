// Package sampler extracts the flat color point cloud of an image.
package sampler

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/achilleasa/strokedensity/types"
	"github.com/lucasb-eyer/go-colorful"
)

var (
	ErrEmptyImage = errors.New("sampler: image has no pixels")
)

// ChannelOrder describes how the source stores the three color channels.
// Points emitted by the sampler are always in RGB order.
type ChannelOrder uint8

const (
	RGB ChannelOrder = iota
	BGR
)

// String implements fmt.Stringer.
func (o ChannelOrder) String() string {
	if o == BGR {
		return "bgr"
	}
	return "rgb"
}

// Parse a channel order name.
func ParseChannelOrder(name string) (ChannelOrder, error) {
	switch strings.ToLower(name) {
	case "rgb", "":
		return RGB, nil
	case "bgr":
		return BGR, nil
	}
	return RGB, fmt.Errorf("sampler: unsupported channel order %q", name)
}

// Apply the channel permutation that converts a point stored in this order
// into RGB order.
func (o ChannelOrder) toRGB(p types.Vec3) types.Vec3 {
	if o == BGR {
		p[0], p[2] = p[2], p[0]
	}
	return p
}

// Cloud is the ordered set of color points of one image. There is exactly
// one point per pixel in row-major order; duplicate colors are retained.
type Cloud struct {
	Points []types.Vec3
	Width  int
	Height int
}

// Len returns the number of points in the cloud.
func (c *Cloud) Len() int {
	return len(c.Points)
}

// Distinct returns the number of distinct colors in the cloud.
func (c *Cloud) Distinct() int {
	seen := make(map[types.Vec3]struct{}, len(c.Points))
	for _, p := range c.Points {
		seen[p] = struct{}{}
	}
	return len(seen)
}

// Extract the color cloud of an image. Pixel colors are converted to straight
// (non premultiplied) alpha and scaled to the 0-255 range; fully transparent
// pixels map to black.
func FromImage(img image.Image, order ChannelOrder) (*Cloud, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, ErrEmptyImage
	}

	cloud := &Cloud{
		Points: make([]types.Vec3, 0, w*h),
		Width:  w,
		Height: h,
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			col, _ := colorful.MakeColor(img.At(x, y))
			p := types.Vec3{col.R * 255, col.G * 255, col.B * 255}
			cloud.Points = append(cloud.Points, order.toRGB(p))
		}
	}

	return cloud, nil
}

// Extract the color cloud of an interleaved 3 channel pixel buffer with the
// given dimensions. Values are not rescaled.
func FromBuffer(pix []uint8, width, height int, order ChannelOrder) (*Cloud, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrEmptyImage
	}
	if len(pix) != width*height*3 {
		return nil, fmt.Errorf("sampler: expected %d bytes for a %dx%d buffer; got %d", width*height*3, width, height, len(pix))
	}

	cloud := &Cloud{
		Points: make([]types.Vec3, width*height),
		Width:  width,
		Height: height,
	}
	for i := range cloud.Points {
		p := types.Vec3{float64(pix[i*3]), float64(pix[i*3+1]), float64(pix[i*3+2])}
		cloud.Points[i] = order.toRGB(p)
	}

	return cloud, nil
}
