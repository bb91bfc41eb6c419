package hull

import (
	"math"

	"github.com/achilleasa/strokedensity/types"
)

// Centroid returns the area weighted mean of the face centroids of h.
func Centroid(h *Hull) (types.Vec3, error) {
	var (
		weighted  types.Vec3
		totalArea float64
	)
	for i := range h.Faces {
		tri := h.Triangle(i)
		area := 0.5 * tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0])).Len()
		center := tri[0].Add(tri[1]).Add(tri[2]).Mul(1.0 / 3.0)

		weighted = weighted.Add(center.Mul(area))
		totalArea += area
	}

	if totalArea == 0 || math.IsNaN(totalArea) || math.IsInf(totalArea, 0) {
		return types.Vec3{}, degenerate("hull surface area is %g", totalArea)
	}

	return weighted.Mul(1 / totalArea), nil
}
