package bvh

import (
	"math"

	"github.com/achilleasa/strokedensity/types"
)

// Bvh nodes are comprised of two Vec3 and two multipurpose int32 parameters
// whose value depends on the node type:
//
// - For non-leaf nodes they are both >0 and point to the L/R child nodes
// - For leafs:
//   - left data is <= 0 and points to the first primitive index
//   - right data is >= 0 and contains the count of leaf primitives
type Node struct {
	Min   types.Vec3
	LData int32

	Max   types.Vec3
	RData int32
}

// Set bounding box.
func (n *Node) SetBBox(bbox [2]types.Vec3) {
	n.Min = bbox[0]
	n.Max = bbox[1]
}

// Set left and right child node indices.
func (n *Node) SetChildNodes(left, right uint32) {
	n.LData = int32(left)
	n.RData = int32(right)
}

// Get left and right child node indices.
func (n *Node) GetChildNodes() (left, right uint32) {
	return uint32(n.LData), uint32(n.RData)
}

// Set primitive index and count.
func (n *Node) SetPrimitives(firstPrimIndex, count uint32) {
	n.LData = -int32(firstPrimIndex)
	n.RData = int32(count)
}

// Get primitive index and count.
func (n *Node) GetPrimitives() (firstPrimIndex, count uint32) {
	return uint32(-n.LData), uint32(n.RData)
}

// Returns true if this is a leaf node.
func (n *Node) IsLeaf() bool {
	return n.LData <= 0
}

// Test whether a ray with the given origin and inverted direction crosses
// the node bounding box at a non-negative distance. Slack widens the slab
// interval so that rays grazing flat boxes are not rejected.
func (n *Node) Hit(origin, invDir types.Vec3, slack float64) bool {
	tMin, tMax := 0.0, math.Inf(1)
	for axis := 0; axis < 3; axis++ {
		t1 := (n.Min[axis] - origin[axis]) * invDir[axis]
		t2 := (n.Max[axis] - origin[axis]) * invDir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		// NaN values (0 * Inf) leave the interval untouched
		if t1 > tMin {
			tMin = t1
		}
		if t2 < tMax {
			tMax = t2
		}
	}
	return tMin <= tMax+slack
}
