package intersect

import (
	"math"
	"math/rand"
	"testing"

	"github.com/achilleasa/strokedensity/hull"
	"github.com/achilleasa/strokedensity/ray"
	"github.com/achilleasa/strokedensity/types"
)

func cubeHull(t *testing.T) *hull.Hull {
	var points []types.Vec3
	for _, x := range []float64{0, 255} {
		for _, y := range []float64{0, 255} {
			for _, z := range []float64{0, 255} {
				points = append(points, types.Vec3{x, y, z})
			}
		}
	}
	h, err := hull.Build(points, hull.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func TestTriangleIntersect(t *testing.T) {
	m := NewMesh(
		[]types.Vec3{{0, 0, 1}, {1, 0, 1}, {0, 1, 1}},
		[][3]int{{0, 1, 2}},
	)
	tri := m.triangles[0]

	type spec struct {
		origin types.Vec3
		dir    types.Vec3
		expHit bool
		expT   float64
	}
	specs := []spec{
		{types.Vec3{0.2, 0.2, 0}, types.Vec3{0, 0, 1}, true, 1},
		{types.Vec3{0.2, 0.2, 0}, types.Vec3{0, 0, -1}, false, 0},
		{types.Vec3{0.8, 0.8, 0}, types.Vec3{0, 0, 1}, false, 0},
		// Edge and vertex crossings are inclusive
		{types.Vec3{0.5, 0.5, 0}, types.Vec3{0, 0, 1}, true, 1},
		{types.Vec3{1, 0, 0}, types.Vec3{0, 0, 1}, true, 1},
		// Parallel to the triangle plane
		{types.Vec3{0.2, 0.2, 0}, types.Vec3{1, 0, 0}, false, 0},
	}

	for index, s := range specs {
		tHit, ok := tri.intersect(s.origin, s.dir)
		if ok != s.expHit {
			t.Fatalf("[spec %d] expected hit to be %t; got %t", index, s.expHit, ok)
		}
		if ok && math.Abs(tHit-s.expT) > 1e-12 {
			t.Fatalf("[spec %d] expected t = %f; got %f", index, s.expT, tHit)
		}
	}
}

func TestIntersectLocationsCube(t *testing.T) {
	h := cubeHull(t)
	centroid, err := hull.Centroid(h)
	if err != nil {
		t.Fatal(err)
	}

	rng := rand.New(rand.NewSource(11))
	points := make([]types.Vec3, 5000)
	for i := range points {
		points[i] = types.Vec3{rng.Float64() * 255, rng.Float64() * 255, rng.Float64() * 255}
	}
	rays, err := ray.Generate(centroid, points)
	if err != nil {
		t.Fatal(err)
	}

	raw := NewMesh(h.Points, h.Faces).IntersectLocations(rays, 3)
	if raw.NumRays != len(rays) {
		t.Fatalf("expected raw result for %d rays; got %d", len(rays), raw.NumRays)
	}

	res, err := Resolve(raw, len(rays), LastWins, nil)
	if err != nil {
		t.Fatal(err)
	}
	if missing := res.Missing(); len(missing) != 0 {
		t.Fatalf("expected every ray to cross the cube; %d missing", len(missing))
	}

	for i, loc := range res.Locations {
		if d := h.SignedDistance(loc); math.Abs(d) > 1e-6 {
			t.Fatalf("expected location %d to lie on the boundary; distance %g", i, d)
		}
		if loc.Dist(centroid) < points[i].Dist(centroid)-1e-9 {
			t.Fatalf("expected location %d to lie beyond its point", i)
		}
	}
}

func TestIntersectLocationsEdgeCrossing(t *testing.T) {
	h := cubeHull(t)
	centroid := types.Vec3{127.5, 127.5, 127.5}

	// The ray leaves the cube through the edge shared by the x=255 and
	// y=255 faces.
	rays, err := ray.Generate(centroid, []types.Vec3{{200, 200, 127.5}})
	if err != nil {
		t.Fatal(err)
	}

	raw := NewMesh(h.Points, h.Faces).IntersectLocations(rays, 1)
	if raw.Len() < 2 {
		t.Fatalf("expected the edge crossing to be reported by both faces; got %d", raw.Len())
	}

	exp := types.Vec3{255, 255, 127.5}
	for i, loc := range raw.Locations {
		if loc.Dist(exp) > 1e-6 {
			t.Fatalf("expected crossing %d at %v; got %v", i, exp, loc)
		}
	}
}

func TestIntersectLocationsDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	points := make([]types.Vec3, 2000)
	for i := range points {
		points[i] = types.Vec3{rng.Float64() * 255, rng.Float64() * 255, rng.Float64() * 255}
	}
	h, err := hull.Build(points, hull.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	centroid, err := hull.Centroid(h)
	if err != nil {
		t.Fatal(err)
	}
	rays, err := ray.Generate(centroid, points)
	if err != nil {
		t.Fatal(err)
	}

	first := NewMesh(h.Points, h.Faces).IntersectLocations(rays, 1)
	second := NewMesh(h.Points, h.Faces).IntersectLocations(rays, 8)
	if first.Len() != second.Len() {
		t.Fatalf("expected %d crossings; got %d", first.Len(), second.Len())
	}
	for i := range first.RayIndex {
		if first.RayIndex[i] != second.RayIndex[i] || first.Locations[i] != second.Locations[i] {
			t.Fatalf("expected crossing %d to match between runs", i)
		}
	}
}

func TestZeroDirectionRaysAreSkipped(t *testing.T) {
	h := cubeHull(t)
	rays := []ray.Ray{{Origin: types.Vec3{127.5, 127.5, 127.5}}}

	raw := NewMesh(h.Points, h.Faces).IntersectLocations(rays, 1)
	if raw.Len() != 0 || raw.NumRays != 1 {
		t.Fatalf("expected no crossings for a zero direction ray; got %d", raw.Len())
	}
}
