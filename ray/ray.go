// Package ray generates the rays cast from the hull centroid through each
// color point.
package ray

import (
	"fmt"

	"github.com/achilleasa/strokedensity/types"
)

// Ray is a half line starting at Origin. Dir has unit length.
type Ray struct {
	Origin types.Vec3
	Dir    types.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) types.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// DegenerateRayError lists the points for which no ray direction exists
// because they coincide with the ray origin (or are not finite).
type DegenerateRayError struct {
	Indices []int
}

// Error implements error.
func (e *DegenerateRayError) Error() string {
	if len(e.Indices) == 1 {
		return fmt.Sprintf("ray: point %d coincides with the ray origin", e.Indices[0])
	}
	return fmt.Sprintf("ray: %d points coincide with the ray origin (first: %d)", len(e.Indices), e.Indices[0])
}

// Generate one ray per point. Rays share the given origin and point towards
// their color; the output order matches points.
//
// If some directions cannot be computed the corresponding rays are left as
// zero values and a *DegenerateRayError listing them is returned together
// with the full ray slice so that callers can apply their own policy.
func Generate(origin types.Vec3, points []types.Vec3) ([]Ray, error) {
	rays := make([]Ray, len(points))
	var bad []int
	for i, p := range points {
		dir, ok := p.Sub(origin).Normalize()
		if !ok {
			bad = append(bad, i)
			continue
		}
		rays[i] = Ray{Origin: origin, Dir: dir}
	}

	if len(bad) != 0 {
		return rays, &DegenerateRayError{Indices: bad}
	}
	return rays, nil
}
