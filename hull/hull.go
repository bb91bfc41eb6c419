// Package hull builds the convex hull of a color point cloud and computes
// the area weighted centroid of its boundary.
package hull

import (
	"fmt"
	"math"
	"sort"

	"github.com/achilleasa/strokedensity/types"
)

// DegenerateGeometryError is returned when the point cloud does not span a
// 3D solid or the resulting hull has no usable surface.
type DegenerateGeometryError struct {
	Reason string
}

// Error implements error.
func (e *DegenerateGeometryError) Error() string {
	return fmt.Sprintf("hull: degenerate geometry: %s", e.Reason)
}

func degenerate(format string, args ...interface{}) error {
	return &DegenerateGeometryError{Reason: fmt.Sprintf(format, args...)}
}

// A Plane is stored in Hessian normal form; points p with
// Normal.Dot(p) - Offset > 0 lie outside.
type Plane struct {
	Normal types.Vec3
	Offset float64
}

// Distance returns the signed distance of p to the plane.
func (pl Plane) Distance(p types.Vec3) float64 {
	return pl.Normal.Dot(p) - pl.Offset
}

// Hull is the convex hull of a point cloud.
//
// Points holds the complete cloud the hull was built from (interior points
// included). Each face is a triple of indices into Points naming boundary
// points only; faces are wound counter-clockwise when seen from outside.
type Hull struct {
	Points []types.Vec3
	Faces  [][3]int

	// Total boundary surface area.
	Area float64
}

// Triangle returns the vertex positions of face i.
func (h *Hull) Triangle(i int) [3]types.Vec3 {
	f := h.Faces[i]
	return [3]types.Vec3{h.Points[f[0]], h.Points[f[1]], h.Points[f[2]]}
}

// FaceArea returns the area of face i.
func (h *Hull) FaceArea(i int) float64 {
	tri := h.Triangle(i)
	return 0.5 * tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0])).Len()
}

// Vertices returns the sorted indices of all points referenced by a face.
func (h *Hull) Vertices() []int {
	seen := make(map[int]struct{})
	for _, f := range h.Faces {
		for _, idx := range f {
			seen[idx] = struct{}{}
		}
	}

	out := make([]int, 0, len(seen))
	for idx := range seen {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

// Planes returns the supporting plane of every face. Faces with zero area
// get a zero normal.
func (h *Hull) Planes() []Plane {
	planes := make([]Plane, len(h.Faces))
	for i := range h.Faces {
		tri := h.Triangle(i)
		n, _ := tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0])).Normalize()
		planes[i] = Plane{Normal: n, Offset: n.Dot(tri[0])}
	}
	return planes
}

// SignedDistance returns the largest signed distance of p to any face plane.
// The value is <= 0 for points inside or on the hull.
func (h *Hull) SignedDistance(p types.Vec3) float64 {
	maxDist := math.Inf(-1)
	for _, pl := range h.Planes() {
		if d := pl.Distance(p); d > maxDist {
			maxDist = d
		}
	}
	return maxDist
}

// Volume returns the enclosed volume computed with the divergence theorem.
func (h *Hull) Volume() float64 {
	var vol float64
	for i := range h.Faces {
		tri := h.Triangle(i)
		vol += tri[0].Dot(tri[1].Cross(tri[2]))
	}
	return vol / 6
}
