package bvh

import (
	"math"
	"time"

	"github.com/achilleasa/strokedensity/log"
	"github.com/achilleasa/strokedensity/types"
)

type Axis uint8

const (
	XAxis Axis = iota
	YAxis
	ZAxis

	// The BVH builder will not attempt to calculate split candidates
	// if the node bbox along an axis is less than this threshold.
	minSideLength = 1e-9

	// Number of evenly spaced split planes evaluated per axis.
	splitCandidates = 32
)

var (
	// A split scoring strategy that uses the surface area heuristic (SAH).
	SurfaceAreaHeuristic = surfaceAreaHeuristic{}
)

// The BoundedVolume interface is implemented by all primitives that can
// be partitioned by the bvh builder.
type BoundedVolume interface {
	BBox() [2]types.Vec3
	Center() types.Vec3
}

// A callback that is called whenever the BVH builder creates a new leaf.
type LeafCallback func(leaf *Node, itemList []BoundedVolume)

// A split scoring strategy.
type ScoreStrategy interface {
	// Calculate a score for splitting workList at splitPoint along a particular Axis.
	ScoreSplit(workList []BoundedVolume, splitAxis Axis, splitPoint float64) (leftCount, rightCount int, score float64)

	// Calculate a score for all items in workList.
	ScorePartition(workList []BoundedVolume) (score float64)
}

type splitScore struct {
	axis       Axis
	splitPoint float64

	leftCount, rightCount int
	score                 float64
}

type stats struct {
	partitionedItems int
	totalItems       int
	nodes            int
	leafs            int
	maxDepth         int
}

type builder struct {
	logger log.Logger

	// Bvh nodes stored as a contiguous list
	nodes []Node

	// A callback invoked to set up BVH leafs.
	leafCb LeafCallback

	// The minimum number of items that are required for creating a leaf.
	minLeafItems int

	// The split scoring strategy to use.
	scoreStrategy ScoreStrategy

	// Stats
	stats stats
}

// Construct a BVH from a set of bounded volumes.
//
// The minLeafItems param should be used to specified the minimum number of
// items that can form a leaf. The BVH builder will automatically generate leafs
// if the incoming work length is <= minLeafItems.
//
// Split candidates for each axis are scored in parallel. The resulting tree
// only depends on the input order.
func Build(workList []BoundedVolume, minLeafItems int, leafCb LeafCallback, scoreStrategy ScoreStrategy) []Node {
	b := &builder{
		logger:        log.New("bvh builder"),
		nodes:         make([]Node, 0),
		leafCb:        leafCb,
		minLeafItems:  minLeafItems,
		scoreStrategy: scoreStrategy,
		stats: stats{
			totalItems: len(workList),
		},
	}

	start := time.Now()
	b.partition(workList, 0)
	b.logger.Debugf(
		"BVH tree build time: %d ms, maxDepth: %d, nodes: %d, leafs: %d",
		time.Since(start).Nanoseconds()/1e6,
		b.stats.maxDepth, b.stats.nodes, b.stats.leafs,
	)
	return b.nodes
}

// Partition worklist and return node index.
func (b *builder) partition(workList []BoundedVolume, depth int) uint32 {
	if depth > b.stats.maxDepth {
		b.stats.maxDepth = depth
	}

	bbox := types.EmptyBBox()
	for _, item := range workList {
		itemBBox := item.BBox()
		bbox[0] = types.MinVec3(bbox[0], itemBBox[0])
		bbox[1] = types.MaxVec3(bbox[1], itemBBox[1])
	}
	node := Node{}
	node.SetBBox(bbox)

	// Do we have enough items for partitioning? If not create a leaf
	if len(workList) <= b.minLeafItems {
		return b.createLeaf(&node, workList)
	}

	bestSplit := b.bestSplit(workList, bbox)

	// If we can't find a split that improves the current node score create a leaf
	if bestSplit == nil {
		return b.createLeaf(&node, workList)
	}

	// split work list into two sets
	leftWorkList := make([]BoundedVolume, 0, bestSplit.leftCount)
	rightWorkList := make([]BoundedVolume, 0, bestSplit.rightCount)
	for _, item := range workList {
		if item.Center()[bestSplit.axis] < bestSplit.splitPoint {
			leftWorkList = append(leftWorkList, item)
		} else {
			rightWorkList = append(rightWorkList, item)
		}
	}

	// Add node to list
	nodeIndex := len(b.nodes)
	b.nodes = append(b.nodes, node)
	b.stats.nodes++

	// Partition children and update node indices
	leftNodeIndex := b.partition(leftWorkList, depth+1)
	rightNodeIndex := b.partition(rightWorkList, depth+1)
	b.nodes[nodeIndex].SetChildNodes(leftNodeIndex, rightNodeIndex)

	return uint32(nodeIndex)
}

// Score split candidates along each axis in parallel and return the split
// with the lowest score or nil if no split improves on the unsplit node.
// Ties are broken by axis order and then by split position.
func (b *builder) bestSplit(workList []BoundedVolume, bbox [2]types.Vec3) *splitScore {
	var axisBest [3]*splitScore
	done := make(chan struct{})
	pending := 0

	side := bbox[1].Sub(bbox[0])
	for axis := XAxis; axis <= ZAxis; axis++ {
		// Skip axis if bbox dimension is too small
		if side[axis] < minSideLength {
			continue
		}

		pending++
		go func(axis Axis) {
			defer func() { done <- struct{}{} }()
			step := side[axis] / splitCandidates
			for i := 1; i < splitCandidates; i++ {
				splitPoint := bbox[0][axis] + float64(i)*step
				lCount, rCount, score := b.scoreStrategy.ScoreSplit(workList, axis, splitPoint)
				if axisBest[axis] == nil || score < axisBest[axis].score {
					axisBest[axis] = &splitScore{
						axis:       axis,
						splitPoint: splitPoint,
						leftCount:  lCount,
						rightCount: rCount,
						score:      score,
					}
				}
			}
		}(axis)
	}
	for ; pending > 0; pending-- {
		<-done
	}

	bestScore := b.scoreStrategy.ScorePartition(workList)
	var best *splitScore
	for _, candidate := range axisBest {
		if candidate != nil && candidate.score < bestScore {
			bestScore = candidate.score
			best = candidate
		}
	}
	return best
}

// Setup the given node item as a leaf node containing all items in the work list.
// Returns the index to the node in the bvh node array.
func (b *builder) createLeaf(node *Node, workList []BoundedVolume) uint32 {
	b.leafCb(node, workList)

	// append node to list
	nodeIndex := len(b.nodes)
	b.nodes = append(b.nodes, *node)

	// update stats
	b.stats.leafs++
	b.stats.partitionedItems += len(workList)

	return uint32(nodeIndex)
}

// A score implementation that uses surface area heuristic for calculating split scores.
type surfaceAreaHeuristic struct{}

// Score a BVH split based on the surface area heuristic. The SAH calculates
// the split score using the formula (lower score is better):
//
// left count * left BBOX area + rightCount * right BBOX area.
//
// SAH avoids splits that generate empty partitions by assigning the worst
// possible score (MaxFloat64) when it enounters such cases.
func (h surfaceAreaHeuristic) ScoreSplit(workList []BoundedVolume, axis Axis, splitPoint float64) (leftCount, rightCount int, score float64) {
	lbox := types.EmptyBBox()
	rbox := types.EmptyBBox()

	for _, item := range workList {
		itemBBox := item.BBox()
		if item.Center()[axis] < splitPoint {
			leftCount++
			lbox[0] = types.MinVec3(lbox[0], itemBBox[0])
			lbox[1] = types.MaxVec3(lbox[1], itemBBox[1])
		} else {
			rightCount++
			rbox[0] = types.MinVec3(rbox[0], itemBBox[0])
			rbox[1] = types.MaxVec3(rbox[1], itemBBox[1])
		}
	}

	// Make sure that we don't generate empty partitions
	if leftCount == 0 || rightCount == 0 {
		return leftCount, rightCount, math.MaxFloat64
	}

	score = float64(leftCount)*types.BBoxHalfArea(lbox) + float64(rightCount)*types.BBoxHalfArea(rbox)
	return leftCount, rightCount, score
}

// Calculate score for a partitioned workList using formula:
// count * BBOX area
//
// If the workList is empty, then this method returns the worst possible
// score (MaxFloat64).
func (h surfaceAreaHeuristic) ScorePartition(workList []BoundedVolume) (score float64) {
	if len(workList) == 0 {
		return math.MaxFloat64
	}

	bbox := types.EmptyBBox()
	for _, item := range workList {
		itemBBox := item.BBox()
		bbox[0] = types.MinVec3(bbox[0], itemBBox[0])
		bbox[1] = types.MaxVec3(bbox[1], itemBBox[1])
	}

	return float64(len(workList)) * types.BBoxHalfArea(bbox)
}
