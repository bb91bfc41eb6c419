package hull

import (
	"math"
	"sort"
	"time"

	"github.com/achilleasa/strokedensity/log"
	"github.com/achilleasa/strokedensity/types"
)

const (
	// Relative tolerance used for all plane side tests. It is scaled by
	// the magnitude of the input coordinates.
	relEpsilon = 1e-12
)

// Options controls hull construction.
type Options struct {
	// Point clouds whose thickness along their thinnest principal axis is
	// below this fraction of their extent along the widest axis are
	// rejected as near-planar.
	PlanarTolerance float64
}

// DefaultOptions returns the options used when none are specified.
func DefaultOptions() Options {
	return Options{
		PlanarTolerance: 1e-9,
	}
}

type face struct {
	v      [3]int
	normal types.Vec3
	offset float64

	// Points that lie above this face and have not been processed yet.
	outside []int
	dead    bool
}

type builder struct {
	logger log.Logger

	// Distinct input points.
	points []types.Vec3

	faces []*face

	// Maps a directed edge to the index of the face that owns it.
	edges map[[2]int]int

	eps float64
}

// Build the convex hull of a point cloud.
//
// Duplicate points are collapsed before running quickhull; faces reference
// the first occurrence of each boundary color in points. The returned hull
// keeps the complete point slice.
func Build(points []types.Vec3, opts Options) (*Hull, error) {
	logger := log.New("hull builder")
	start := time.Now()

	distinct, origIndex, err := dedup(points)
	if err != nil {
		return nil, err
	}
	if len(distinct) < 4 {
		return nil, degenerate("need at least 4 distinct points; got %d", len(distinct))
	}

	if err = checkSpread(distinct, opts.PlanarTolerance); err != nil {
		return nil, err
	}

	b := &builder{
		logger: logger,
		points: distinct,
		edges:  make(map[[2]int]int),
		eps:    epsilonFor(distinct),
	}
	if err = b.initialSimplex(); err != nil {
		return nil, err
	}
	b.expand()

	h := &Hull{
		Points: points,
		Faces:  make([][3]int, 0, len(b.faces)),
	}
	for _, f := range b.faces {
		if f.dead {
			continue
		}
		h.Faces = append(h.Faces, [3]int{origIndex[f.v[0]], origIndex[f.v[1]], origIndex[f.v[2]]})
	}
	for i := range h.Faces {
		h.Area += h.FaceArea(i)
	}

	logger.Debugf(
		"built hull in %d ms; points: %d, distinct: %d, faces: %d, area: %.3f",
		time.Since(start).Nanoseconds()/1e6, len(points), len(distinct), len(h.Faces), h.Area,
	)
	return h, nil
}

// Collapse duplicate points. Returns the distinct points and, for each one,
// the index of its first occurrence in the input.
func dedup(points []types.Vec3) ([]types.Vec3, []int, error) {
	seen := make(map[types.Vec3]struct{}, len(points))
	distinct := make([]types.Vec3, 0)
	origIndex := make([]int, 0)
	for idx, p := range points {
		if !p.IsFinite() {
			return nil, nil, degenerate("point %d is not finite", idx)
		}
		if _, exists := seen[p]; exists {
			continue
		}
		seen[p] = struct{}{}
		distinct = append(distinct, p)
		origIndex = append(origIndex, idx)
	}
	return distinct, origIndex, nil
}

func epsilonFor(points []types.Vec3) float64 {
	var maxAbs types.Vec3
	for _, p := range points {
		for axis := 0; axis < 3; axis++ {
			maxAbs[axis] = math.Max(maxAbs[axis], math.Abs(p[axis]))
		}
	}
	scale := maxAbs[0] + maxAbs[1] + maxAbs[2]
	if scale < 1 {
		scale = 1
	}
	return relEpsilon * scale
}

// Select four extreme points that span a tetrahedron and create its faces.
func (b *builder) initialSimplex() error {
	pts := b.points

	var extremes [6]int
	for idx, p := range pts {
		for axis := 0; axis < 3; axis++ {
			if p[axis] < pts[extremes[axis*2]][axis] {
				extremes[axis*2] = idx
			}
			if p[axis] > pts[extremes[axis*2+1]][axis] {
				extremes[axis*2+1] = idx
			}
		}
	}

	// The two extremes furthest apart define the base edge
	var i0, i1 int
	var bestDist float64 = -1
	for i := 0; i < len(extremes); i++ {
		for j := i + 1; j < len(extremes); j++ {
			if d := pts[extremes[i]].Dist(pts[extremes[j]]); d > bestDist {
				bestDist = d
				i0, i1 = extremes[i], extremes[j]
			}
		}
	}
	if bestDist <= b.eps {
		return degenerate("all points coincide")
	}

	// The point furthest from the base edge
	dir := pts[i1].Sub(pts[i0]).Mul(1 / bestDist)
	i2, bestDist := -1, b.eps
	for idx, p := range pts {
		if d := p.Sub(pts[i0]).Cross(dir).Len(); d > bestDist {
			bestDist = d
			i2 = idx
		}
	}
	if i2 < 0 {
		return degenerate("all points are collinear")
	}

	// The point furthest from the base triangle plane
	n, _ := pts[i1].Sub(pts[i0]).Cross(pts[i2].Sub(pts[i0])).Normalize()
	i3, bestDist := -1, b.eps
	for idx, p := range pts {
		if d := math.Abs(n.Dot(p.Sub(pts[i0]))); d > bestDist {
			bestDist = d
			i3 = idx
		}
	}
	if i3 < 0 {
		return degenerate("all points are coplanar")
	}

	// Each entry lists a face and the tetrahedron vertex opposite to it.
	tetra := [4]int{i0, i1, i2, i3}
	for _, def := range [4][4]int{{0, 1, 2, 3}, {0, 3, 1, 2}, {0, 2, 3, 1}, {1, 3, 2, 0}} {
		a, c, d, opp := tetra[def[0]], tetra[def[1]], tetra[def[2]], tetra[def[3]]
		if pts[c].Sub(pts[a]).Cross(pts[d].Sub(pts[a])).Dot(pts[opp].Sub(pts[a])) > 0 {
			c, d = d, c
		}
		b.addFace(a, c, d)
	}

	for idx := range pts {
		if idx == i0 || idx == i1 || idx == i2 || idx == i3 {
			continue
		}
		b.assign(idx, []int{0, 1, 2, 3})
	}
	return nil
}

// Add a face and register its directed edges.
func (b *builder) addFace(a, c, d int) int {
	f := &face{v: [3]int{a, c, d}}
	f.normal, _ = b.points[c].Sub(b.points[a]).Cross(b.points[d].Sub(b.points[a])).Normalize()
	f.offset = f.normal.Dot(b.points[a])

	index := len(b.faces)
	b.faces = append(b.faces, f)
	for k := 0; k < 3; k++ {
		b.edges[[2]int{f.v[k], f.v[(k+1)%3]}] = index
	}
	return index
}

func (b *builder) distance(f *face, point int) float64 {
	return f.normal.Dot(b.points[point]) - f.offset
}

// Assign a point to the outside set of the first candidate face it lies
// above. Points that lie above none of the candidates are interior.
func (b *builder) assign(point int, candidates []int) {
	for _, fi := range candidates {
		f := b.faces[fi]
		if b.distance(f, point) > b.eps {
			f.outside = append(f.outside, point)
			return
		}
	}
}

// Process faces in creation order until no face has outside points left.
func (b *builder) expand() {
	for fi := 0; fi < len(b.faces); fi++ {
		f := b.faces[fi]
		if f.dead || len(f.outside) == 0 {
			continue
		}

		// Pick the point furthest above the face
		apex, apexDist := -1, math.Inf(-1)
		for _, p := range f.outside {
			if d := b.distance(f, p); d > apexDist {
				apex, apexDist = p, d
			}
		}

		visible := b.visibleFrom(fi, apex)
		horizon := b.horizon(visible)

		var orphans []int
		for fIndex := range visible {
			vf := b.faces[fIndex]
			vf.dead = true
			orphans = append(orphans, vf.outside...)
			vf.outside = nil
			for k := 0; k < 3; k++ {
				edge := [2]int{vf.v[k], vf.v[(k+1)%3]}
				if b.edges[edge] == fIndex {
					delete(b.edges, edge)
				}
			}
		}

		newFaces := make([]int, 0, len(horizon))
		for _, edge := range horizon {
			newFaces = append(newFaces, b.addFace(edge[0], edge[1], apex))
		}

		for _, p := range orphans {
			if p != apex {
				b.assign(p, newFaces)
			}
		}
	}
}

// Collect the set of faces visible from a point with a flood fill that
// starts at a face known to be visible.
func (b *builder) visibleFrom(start, point int) map[int]bool {
	visible := map[int]bool{start: true}
	visited := map[int]bool{start: true}
	queue := []int{start}
	for len(queue) > 0 {
		f := b.faces[queue[0]]
		queue = queue[1:]
		for k := 0; k < 3; k++ {
			neighbor, ok := b.edges[[2]int{f.v[(k+1)%3], f.v[k]}]
			if !ok || visited[neighbor] {
				continue
			}
			visited[neighbor] = true
			if b.distance(b.faces[neighbor], point) > b.eps {
				visible[neighbor] = true
				queue = append(queue, neighbor)
			}
		}
	}
	return visible
}

// Return the directed edges of visible faces whose twin belongs to a face
// that is not visible. Edges are returned in a deterministic order.
func (b *builder) horizon(visible map[int]bool) [][2]int {
	order := make([]int, 0, len(visible))
	for fIndex := range visible {
		order = append(order, fIndex)
	}
	sort.Ints(order)

	var edges [][2]int
	for _, fIndex := range order {
		f := b.faces[fIndex]
		for k := 0; k < 3; k++ {
			edge := [2]int{f.v[k], f.v[(k+1)%3]}
			if neighbor, ok := b.edges[[2]int{edge[1], edge[0]}]; ok && visible[neighbor] {
				continue
			}
			edges = append(edges, edge)
		}
	}
	return edges
}
