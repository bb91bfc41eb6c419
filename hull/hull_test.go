package hull

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/achilleasa/strokedensity/types"
)

func cubeCorners(size float64) []types.Vec3 {
	var out []types.Vec3
	for _, x := range []float64{0, size} {
		for _, y := range []float64{0, size} {
			for _, z := range []float64{0, size} {
				out = append(out, types.Vec3{x, y, z})
			}
		}
	}
	return out
}

func TestBuildTetrahedron(t *testing.T) {
	points := []types.Vec3{
		{255, 0, 0},
		{0, 255, 0},
		{0, 0, 255},
		{255, 255, 255},
	}

	h, err := Build(points, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	if len(h.Faces) != 4 {
		t.Fatalf("expected 4 faces; got %d", len(h.Faces))
	}
	if verts := h.Vertices(); len(verts) != 4 {
		t.Fatalf("expected 4 hull vertices; got %v", verts)
	}
	if h.Volume() <= 0 {
		t.Fatalf("expected faces to be wound outwards; got volume %f", h.Volume())
	}

	var expArea float64
	for i := range h.Faces {
		expArea += h.FaceArea(i)
	}
	if math.Abs(h.Area-expArea) > 1e-9 {
		t.Fatalf("expected area %f; got %f", expArea, h.Area)
	}
}

func TestBuildCubeWithInteriorPoints(t *testing.T) {
	points := cubeCorners(255)

	// Interior colors and duplicates of the corners
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		points = append(points, types.Vec3{
			float64(1 + rng.Intn(253)),
			float64(1 + rng.Intn(253)),
			float64(1 + rng.Intn(253)),
		})
	}
	points = append(points, cubeCorners(255)...)

	h, err := Build(points, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	if len(h.Points) != len(points) {
		t.Fatalf("expected hull to keep all %d points; got %d", len(points), len(h.Points))
	}

	verts := h.Vertices()
	if len(verts) != 8 {
		t.Fatalf("expected 8 hull vertices; got %d", len(verts))
	}
	for _, idx := range verts {
		if idx >= 8 {
			t.Fatalf("expected faces to reference the first occurrence of each corner; got index %d", idx)
		}
	}

	if len(h.Faces) != 12 {
		t.Fatalf("expected 12 faces; got %d", len(h.Faces))
	}
	if expArea := 6 * 255.0 * 255.0; math.Abs(h.Area-expArea) > 1e-6 {
		t.Fatalf("expected area %f; got %f", expArea, h.Area)
	}
	if expVol := 255.0 * 255.0 * 255.0; math.Abs(h.Volume()-expVol) > 1e-3 {
		t.Fatalf("expected volume %f; got %f", expVol, h.Volume())
	}
}

func TestRandomCloudContainment(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	points := make([]types.Vec3, 3000)
	for i := range points {
		points[i] = types.Vec3{rng.Float64() * 255, rng.Float64() * 255, rng.Float64() * 255}
	}

	h, err := Build(points, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	for i, p := range points {
		if d := h.SignedDistance(p); d > 1e-6 {
			t.Fatalf("expected point %d to be inside the hull; distance %g", i, d)
		}
	}

	// A closed triangulated surface satisfies F = 2V - 4
	if v, f := len(h.Vertices()), len(h.Faces); f != 2*v-4 {
		t.Fatalf("expected a closed triangulation; got %d vertices and %d faces", v, f)
	}

	// Every directed edge must have exactly one twin
	edges := make(map[[2]int]int)
	for _, f := range h.Faces {
		for k := 0; k < 3; k++ {
			edges[[2]int{f[k], f[(k+1)%3]}]++
		}
	}
	for edge, count := range edges {
		if count != 1 || edges[[2]int{edge[1], edge[0]}] != 1 {
			t.Fatalf("expected consistent winding for edge %v", edge)
		}
	}
}

func TestDegenerateClouds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	thin := make([]types.Vec3, 200)
	for i := range thin {
		x, y := rng.Float64()*255, rng.Float64()*255
		thin[i] = types.Vec3{x, y, 100 + (rng.Float64()-0.5)*1e-9}
	}

	type spec struct {
		name   string
		points []types.Vec3
	}
	specs := []spec{
		{"uniform", []types.Vec3{{10, 20, 30}, {10, 20, 30}, {10, 20, 30}, {10, 20, 30}, {10, 20, 30}}},
		{"three distinct", []types.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 1, 0}}},
		{"collinear", []types.Vec3{{0, 0, 0}, {1, 1, 1}, {2, 2, 2}, {3, 3, 3}, {4, 4, 4}}},
		{"coplanar", []types.Vec3{{0, 0, 5}, {255, 0, 5}, {0, 255, 5}, {255, 255, 5}, {10, 20, 5}}},
		{"near-planar", thin},
		{"non-finite", []types.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, math.NaN()}}},
	}

	for _, s := range specs {
		_, err := Build(s.points, DefaultOptions())
		var geomErr *DegenerateGeometryError
		if !errors.As(err, &geomErr) {
			t.Fatalf("[%s] expected a DegenerateGeometryError; got %v", s.name, err)
		}
	}
}

func TestCentroid(t *testing.T) {
	h, err := Build(cubeCorners(255), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	c, err := Centroid(h)
	if err != nil {
		t.Fatal(err)
	}
	if exp := (types.Vec3{127.5, 127.5, 127.5}); c.Dist(exp) > 1e-9 {
		t.Fatalf("expected cube centroid %v; got %v", exp, c)
	}

	// The centroid of a non degenerate hull lies strictly inside it
	points := []types.Vec3{{255, 0, 0}, {0, 255, 0}, {0, 0, 255}, {255, 255, 255}, {90, 90, 90}}
	h, err = Build(points, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	c, err = Centroid(h)
	if err != nil {
		t.Fatal(err)
	}
	if d := h.SignedDistance(c); d >= 0 {
		t.Fatalf("expected centroid to lie inside the hull; distance %g", d)
	}

	// Equal face areas reduce the centroid to the mean of face centroids
	var exp types.Vec3
	for i := range h.Faces {
		tri := h.Triangle(i)
		exp = exp.Add(tri[0].Add(tri[1]).Add(tri[2]).Mul(1.0 / 3.0))
	}
	exp = exp.Mul(1 / float64(len(h.Faces)))
	if c.Dist(exp) > 1e-9 {
		t.Fatalf("expected centroid %v; got %v", exp, c)
	}
}

func TestCentroidZeroArea(t *testing.T) {
	h := &Hull{
		Points: []types.Vec3{{0, 0, 0}, {1, 1, 1}, {2, 2, 2}},
		Faces:  [][3]int{{0, 1, 2}},
	}

	_, err := Centroid(h)
	var geomErr *DegenerateGeometryError
	if !errors.As(err, &geomErr) {
		t.Fatalf("expected a DegenerateGeometryError; got %v", err)
	}
}
