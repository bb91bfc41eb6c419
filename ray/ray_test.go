package ray

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/achilleasa/strokedensity/types"
)

func TestGenerateUnitDirections(t *testing.T) {
	origin := types.Vec3{127.5, 100, 80}
	rng := rand.New(rand.NewSource(3))
	points := make([]types.Vec3, 1000)
	for i := range points {
		points[i] = types.Vec3{rng.Float64() * 255, rng.Float64() * 255, rng.Float64() * 255}
	}

	rays, err := Generate(origin, points)
	if err != nil {
		t.Fatal(err)
	}
	if len(rays) != len(points) {
		t.Fatalf("expected %d rays; got %d", len(points), len(rays))
	}

	for i, r := range rays {
		if math.Abs(r.Dir.Len()-1) > 1e-12 {
			t.Fatalf("expected ray %d to have unit direction; got length %f", i, r.Dir.Len())
		}
		if r.Origin != origin {
			t.Fatalf("expected ray %d to start at %v; got %v", i, origin, r.Origin)
		}

		// The ray must pass through its own point
		dist := points[i].Dist(origin)
		if r.At(dist).Dist(points[i]) > 1e-9 {
			t.Fatalf("expected ray %d to pass through %v", i, points[i])
		}
	}
}

func TestGenerateDegeneratePoints(t *testing.T) {
	origin := types.Vec3{10, 10, 10}
	points := []types.Vec3{
		{20, 10, 10},
		{10, 10, 10},
		{math.Inf(1), 0, 0},
		{10, 0, 10},
	}

	rays, err := Generate(origin, points)
	var rayErr *DegenerateRayError
	if !errors.As(err, &rayErr) {
		t.Fatalf("expected a DegenerateRayError; got %v", err)
	}
	if len(rayErr.Indices) != 2 || rayErr.Indices[0] != 1 || rayErr.Indices[1] != 2 {
		t.Fatalf("expected degenerate indices [1 2]; got %v", rayErr.Indices)
	}

	expError := "ray: 2 points coincide with the ray origin (first: 1)"
	if err.Error() != expError {
		t.Fatalf("expected to get: %s; got %s", expError, err.Error())
	}

	if len(rays) != 4 || rays[1] != (Ray{}) {
		t.Fatalf("expected degenerate rays to be zero values")
	}
	if rays[3].Dir != (types.Vec3{0, -1, 0}) {
		t.Fatalf("expected ray 3 to point along -Y; got %v", rays[3].Dir)
	}
}
