// Package intersect casts rays against the hull boundary mesh and resolves
// the batched results back to one location per ray.
package intersect

import (
	"math"
	"runtime"
	"time"

	"github.com/achilleasa/strokedensity/intersect/bvh"
	"github.com/achilleasa/strokedensity/log"
	"github.com/achilleasa/strokedensity/ray"
	"github.com/achilleasa/strokedensity/types"
	"golang.org/x/sync/errgroup"
)

const (
	// Minimum number of triangles in a BVH leaf.
	minTrianglesPerLeaf = 4

	// Number of rays processed by a single batch worker.
	raysPerChunk = 4096

	// Barycentric slack so that rays crossing an edge or a vertex register
	// on every incident triangle.
	baryEpsilon = 1e-9
)

// A triangle primitive
type triangle struct {
	index  int
	v0     types.Vec3
	e1, e2 types.Vec3

	bbox   [2]types.Vec3
	center types.Vec3
}

// Get the primitive AABB.
func (tri *triangle) BBox() [2]types.Vec3 {
	return tri.bbox
}

// Get primitive AABB center.
func (tri *triangle) Center() types.Vec3 {
	return tri.center
}

// Intersect a ray with the triangle using the Moller-Trumbore test. Returns
// the distance along the ray and true on a forward crossing.
func (tri *triangle) intersect(origin, dir types.Vec3) (float64, bool) {
	pvec := dir.Cross(tri.e2)
	det := tri.e1.Dot(pvec)
	if math.Abs(det) <= 1e-12*tri.e1.Len()*tri.e2.Len() {
		return 0, false
	}
	invDet := 1 / det

	tvec := origin.Sub(tri.v0)
	u := tvec.Dot(pvec) * invDet
	if u < -baryEpsilon || u > 1+baryEpsilon {
		return 0, false
	}

	qvec := tvec.Cross(tri.e1)
	v := dir.Dot(qvec) * invDet
	if v < -baryEpsilon || u+v > 1+baryEpsilon {
		return 0, false
	}

	t := tri.e2.Dot(qvec) * invDet
	if t <= 0 {
		return 0, false
	}
	return t, true
}

// Mesh is a triangle mesh with a BVH for batched ray queries.
type Mesh struct {
	logger log.Logger

	nodes     []bvh.Node
	triangles []*triangle

	// Slack applied to bounding box tests.
	slack float64
}

// Create a mesh from a vertex list and a list of triangles indexing it.
func NewMesh(vertices []types.Vec3, faces [][3]int) *Mesh {
	m := &Mesh{
		logger:    log.New("mesh"),
		triangles: make([]*triangle, 0, len(faces)),
	}

	volList := make([]bvh.BoundedVolume, len(faces))
	scale := 1.0
	for index, f := range faces {
		v0, v1, v2 := vertices[f[0]], vertices[f[1]], vertices[f[2]]
		tri := &triangle{
			index:  index,
			v0:     v0,
			e1:     v1.Sub(v0),
			e2:     v2.Sub(v0),
			bbox:   [2]types.Vec3{types.MinVec3(types.MinVec3(v0, v1), v2), types.MaxVec3(types.MaxVec3(v0, v1), v2)},
			center: v0.Add(v1).Add(v2).Mul(1.0 / 3.0),
		}
		volList[index] = tri
		scale = math.Max(scale, math.Max(tri.bbox[0].MaxAbs(), tri.bbox[1].MaxAbs()))
	}
	m.slack = 1e-9 * scale

	if len(volList) != 0 {
		m.nodes = bvh.Build(volList, minTrianglesPerLeaf, func(node *bvh.Node, workList []bvh.BoundedVolume) {
			node.SetPrimitives(uint32(len(m.triangles)), uint32(len(workList)))
			for _, item := range workList {
				m.triangles = append(m.triangles, item.(*triangle))
			}
		}, bvh.SurfaceAreaHeuristic)
	}

	return m
}

// A single ray crossing.
type hit struct {
	loc types.Vec3
	t   float64
}

// Collect every forward crossing of a ray in BVH traversal order.
func (m *Mesh) intersectRay(r ray.Ray, out []hit) []hit {
	out = out[:0]
	if len(m.nodes) == 0 || r.Dir == (types.Vec3{}) {
		return out
	}

	invDir := types.Vec3{1 / r.Dir[0], 1 / r.Dir[1], 1 / r.Dir[2]}
	stack := make([]uint32, 1, 64)
	for len(stack) > 0 {
		node := &m.nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]

		if !node.Hit(r.Origin, invDir, m.slack) {
			continue
		}

		if !node.IsLeaf() {
			// Push right first so that the left subtree is visited first
			left, right := node.GetChildNodes()
			stack = append(stack, right, left)
			continue
		}

		first, count := node.GetPrimitives()
		for _, tri := range m.triangles[first : first+count] {
			if t, ok := tri.intersect(r.Origin, r.Dir); ok {
				out = append(out, hit{loc: r.At(t), t: t})
			}
		}
	}
	return out
}

// IntersectLocations runs the batched ray/mesh test and returns every
// forward crossing as a location/ray index pair. A ray may appear zero,
// one or several times (e.g. when it crosses an edge shared by two faces).
//
// Rays are processed in contiguous chunks by up to workers goroutines
// (0 selects runtime.NumCPU). Chunk results are concatenated in chunk order
// so the output does not depend on scheduling.
func (m *Mesh) IntersectLocations(rays []ray.Ray, workers int) *Raw {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	start := time.Now()

	numChunks := (len(rays) + raysPerChunk - 1) / raysPerChunk
	chunks := make([]Raw, numChunks)

	var g errgroup.Group
	g.SetLimit(workers)
	for c := 0; c < numChunks; c++ {
		c := c
		g.Go(func() error {
			from := c * raysPerChunk
			to := from + raysPerChunk
			if to > len(rays) {
				to = len(rays)
			}

			var hits []hit
			out := &chunks[c]
			for rIndex := from; rIndex < to; rIndex++ {
				hits = m.intersectRay(rays[rIndex], hits)
				for _, h := range hits {
					out.Locations = append(out.Locations, h.loc)
					out.RayIndex = append(out.RayIndex, rIndex)
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	raw := &Raw{NumRays: len(rays)}
	for _, chunk := range chunks {
		raw.Locations = append(raw.Locations, chunk.Locations...)
		raw.RayIndex = append(raw.RayIndex, chunk.RayIndex...)
	}

	m.logger.Debugf(
		"intersected %d rays with %d triangles in %d ms; %d crossings",
		len(rays), len(m.triangles), time.Since(start).Nanoseconds()/1e6, raw.Len(),
	)
	return raw
}
