package intersect

import (
	"errors"
	"testing"

	"github.com/achilleasa/strokedensity/types"
)

func TestResolveLastWins(t *testing.T) {
	raw := &Raw{
		Locations: []types.Vec3{{3, 0, 0}, {1, 0, 0}, {1, 1, 0}, {2, 0, 0}},
		RayIndex:  []int{2, 0, 0, 1},
		NumRays:   4,
	}

	res, err := Resolve(raw, 4, LastWins, nil)
	if err != nil {
		t.Fatal(err)
	}

	expLoc := []types.Vec3{{1, 1, 0}, {2, 0, 0}, {3, 0, 0}, {}}
	expHit := []bool{true, true, true, false}
	expCandidates := []int{2, 1, 1, 0}
	for i := range expLoc {
		if res.Locations[i] != expLoc[i] || res.Hit[i] != expHit[i] || res.Candidates[i] != expCandidates[i] {
			t.Fatalf("unexpected resolution for ray %d: %v hit=%t candidates=%d", i, res.Locations[i], res.Hit[i], res.Candidates[i])
		}
	}

	if missing := res.Missing(); len(missing) != 1 || missing[0] != 3 {
		t.Fatalf("expected ray 3 to be missing; got %v", missing)
	}
}

func TestResolveNearestToPoint(t *testing.T) {
	raw := &Raw{
		Locations: []types.Vec3{{1, 0, 0}, {5, 0, 0}, {2, 0, 0}},
		RayIndex:  []int{0, 0, 0},
		NumRays:   1,
	}
	points := []types.Vec3{{4, 0, 0}}

	res, err := Resolve(raw, 1, NearestToPoint, points)
	if err != nil {
		t.Fatal(err)
	}
	if exp := (types.Vec3{5, 0, 0}); res.Locations[0] != exp {
		t.Fatalf("expected nearest location %v; got %v", exp, res.Locations[0])
	}

	if _, err = Resolve(raw, 1, NearestToPoint, nil); err == nil {
		t.Fatal("expected an error when points are missing")
	}
}

func TestResolveMismatch(t *testing.T) {
	specs := []*Raw{
		{Locations: []types.Vec3{{}}, RayIndex: []int{5}, NumRays: 2},
		{Locations: []types.Vec3{{}}, RayIndex: []int{-1}, NumRays: 2},
		{Locations: []types.Vec3{{}}, RayIndex: []int{0}, NumRays: 3},
		{Locations: []types.Vec3{{}, {}}, RayIndex: []int{0}, NumRays: 2},
	}

	for index, raw := range specs {
		_, err := Resolve(raw, 2, LastWins, nil)
		var mismatch *CacheMismatchError
		if !errors.As(err, &mismatch) {
			t.Fatalf("[spec %d] expected a CacheMismatchError; got %v", index, err)
		}
	}
}

func TestParsePolicy(t *testing.T) {
	if p, err := ParsePolicy("nearest"); err != nil || p != NearestToPoint {
		t.Fatalf("expected NearestToPoint; got %v, %v", p, err)
	}
	if p, err := ParsePolicy(""); err != nil || p != LastWins {
		t.Fatalf("expected LastWins; got %v, %v", p, err)
	}
	expError := `intersect: unknown resolution policy "first"`
	if _, err := ParsePolicy("first"); err == nil || err.Error() != expError {
		t.Fatalf("expected to get: %s; got %v", expError, err)
	}
}
