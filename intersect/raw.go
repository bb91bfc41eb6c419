package intersect

import (
	"fmt"
	"strings"

	"github.com/achilleasa/strokedensity/types"
)

// Raw is the unresolved output of a batched intersection: parallel lists of
// crossing locations and the index of the ray that produced them. Entries
// may appear in any ray order, rays may be repeated or missing.
type Raw struct {
	Locations []types.Vec3
	RayIndex  []int

	// The number of rays the result was computed for.
	NumRays int
}

// Len returns the number of location/ray index pairs.
func (r *Raw) Len() int {
	return len(r.RayIndex)
}

// CacheMismatchError is returned when a raw intersection result does not
// belong to the current set of rays.
type CacheMismatchError struct {
	Key    string
	Reason string
}

// Error implements error.
func (e *CacheMismatchError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("intersect: raw result mismatch: %s", e.Reason)
	}
	return fmt.Sprintf("intersect: cached result %q does not match current rays: %s", e.Key, e.Reason)
}

// Validate checks that the raw result is well formed and was produced for
// numRays rays.
func (r *Raw) Validate(numRays int) error {
	if len(r.Locations) != len(r.RayIndex) {
		return &CacheMismatchError{Reason: fmt.Sprintf("%d locations for %d ray indices", len(r.Locations), len(r.RayIndex))}
	}
	if r.NumRays != numRays {
		return &CacheMismatchError{Reason: fmt.Sprintf("expected %d rays; got %d", numRays, r.NumRays)}
	}
	for i, rIndex := range r.RayIndex {
		if rIndex < 0 || rIndex >= numRays {
			return &CacheMismatchError{Reason: fmt.Sprintf("entry %d references ray %d (ray count %d)", i, rIndex, numRays)}
		}
	}
	return nil
}

// Policy selects a single location for rays with more than one crossing.
type Policy uint8

const (
	// Keep the last location encountered in the raw result order.
	LastWins Policy = iota

	// Keep the location closest to the color point the ray was cast
	// through.
	NearestToPoint
)

// String implements fmt.Stringer.
func (p Policy) String() string {
	if p == NearestToPoint {
		return "nearest"
	}
	return "last"
}

// Parse a resolution policy name.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(name) {
	case "last", "":
		return LastWins, nil
	case "nearest":
		return NearestToPoint, nil
	}
	return LastWins, fmt.Errorf("intersect: unknown resolution policy %q", name)
}

// Resolved holds exactly one location per ray.
type Resolved struct {
	// Resolved crossing per ray. Rays without a crossing keep the zero
	// location.
	Locations []types.Vec3

	// True if the ray crossed the mesh.
	Hit []bool

	// Number of raw candidates that were reported for each ray.
	Candidates []int
}

// Missing returns the indices of rays without a crossing.
func (r *Resolved) Missing() []int {
	var out []int
	for i, ok := range r.Hit {
		if !ok {
			out = append(out, i)
		}
	}
	return out
}

// Resolve reduces a raw result to one location per ray using the given
// policy. points must hold the color point of every ray when policy is
// NearestToPoint.
func Resolve(raw *Raw, numRays int, policy Policy, points []types.Vec3) (*Resolved, error) {
	if err := raw.Validate(numRays); err != nil {
		return nil, err
	}
	if policy == NearestToPoint && len(points) != numRays {
		return nil, fmt.Errorf("intersect: nearest policy needs %d points; got %d", numRays, len(points))
	}

	res := &Resolved{
		Locations:  make([]types.Vec3, numRays),
		Hit:        make([]bool, numRays),
		Candidates: make([]int, numRays),
	}
	for i, rIndex := range raw.RayIndex {
		loc := raw.Locations[i]
		res.Candidates[rIndex]++

		if policy == NearestToPoint && res.Hit[rIndex] &&
			points[rIndex].Dist(loc) >= points[rIndex].Dist(res.Locations[rIndex]) {
			continue
		}

		res.Locations[rIndex] = loc
		res.Hit[rIndex] = true
	}
	return res, nil
}
