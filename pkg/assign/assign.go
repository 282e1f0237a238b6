// Package assign implements the data-point-to-network assignment kernel:
// for every data point, find the two adjacent network nodes forming the
// street segment that most plausibly contains the point.
package assign

import (
	"math"

	"netmetrics/pkg/geo"
	"netmetrics/pkg/graph"
)

const sentinelNode = ^uint32(0)

// Anchors holds the two assigned node indices for a single data point, as
// NaN-able node indices matching the DataMap column convention.
type Anchors struct {
	Nearest     float64
	NextNearest float64
}

// Point assigns a single data point (px, py) to its nearest and
// next-nearest adjacent network nodes. It first finds the nearest node,
// then walks outward from it along incident edges to find the segment
// whose perpendicular distance to the point is smallest.
func Point(px, py float64, nodes *graph.NodeMap, idx *graph.EdgeIndex, maxAssignDist float64) Anchors {
	n0, _ := graph.NearestNode(px, py, nodes.X, nodes.Y, maxAssignDist)
	if n0 == -1 {
		return Anchors{Nearest: math.NaN(), NextNearest: math.NaN()}
	}

	from, n1, ratio, degree := walk(px, py, uint32(n0), nodes, idx)

	if n1 == sentinelNode {
		return Anchors{Nearest: float64(n0), NextNearest: math.NaN()}
	}

	// Dead-end: n0's only neighbour lies on the far side of n0 from p
	// (the perpendicular foot clamps to n0 itself) and that neighbour
	// is further than the assignment radius allows as a second anchor.
	if degree == 1 && ratio == 0 && geo.Dist(px, py, nodes.X[n1], nodes.Y[n1]) > maxAssignDist {
		return Anchors{Nearest: float64(n0), NextNearest: math.NaN()}
	}

	nearest, nextNearest := from, n1
	if geo.Dist(px, py, nodes.X[n1], nodes.Y[n1]) < geo.Dist(px, py, nodes.X[from], nodes.Y[from]) {
		nearest, nextNearest = n1, from
	}

	return Anchors{Nearest: float64(nearest), NextNearest: float64(nextNearest)}
}

// walk performs the segment-hugging search described in the assignment
// spec: starting at node n0, step to a neighbour whenever that lowers the
// perpendicular point-to-segment distance, stopping when no neighbour
// improves on the current best. Neighbours are considered in ascending
// index order (idx's CSR is sorted by (start, end)), so the first
// neighbour achieving the minimum wins ties deterministically. Returns
// the two endpoints (from, best) of the closest segment found, or the
// sentinel as best if n0 has no usable neighbour at all.
func walk(px, py float64, n0 uint32, nodes *graph.NodeMap, idx *graph.EdgeIndex) (from, best uint32, bestRatio float64, startDegree int) {
	cur := n0
	prev := sentinelNode
	from = n0
	best = sentinelNode
	bestDist := math.Inf(1)

	start, end := idx.EdgesFrom(n0)
	startDegree = int(end - start)

	for {
		s, e := idx.EdgesFrom(cur)
		found := false
		var foundNode uint32
		var foundRatio float64
		foundDist := math.Inf(1)

		for p := s; p < e; p++ {
			nb := idx.Head[p]
			if nb == prev {
				continue
			}
			d, ratio := geo.PointToSegmentDist(px, py, nodes.X[cur], nodes.Y[cur], nodes.X[nb], nodes.Y[nb])
			if d < foundDist {
				foundDist = d
				foundNode = nb
				foundRatio = ratio
				found = true
			}
		}

		if !found {
			break
		}
		if foundDist < bestDist {
			bestDist = foundDist
			from = cur
			best = foundNode
			bestRatio = foundRatio
			prev = cur
			cur = foundNode
			continue
		}
		break
	}

	return from, best, bestRatio, startDegree
}
