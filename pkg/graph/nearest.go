package graph

import (
	"math"

	"netmetrics/pkg/geo"
)

// NearestNode finds the node nearest to (px, py) within maxDist, breaking
// ties by lowest index. Returns (-1, +Inf) if no node qualifies.
func NearestNode(px, py float64, x, y []float64, maxDist float64) (idx int, dist float64) {
	best := -1
	bestDist := math.Inf(1)

	for i := range x {
		d := geo.Dist(px, py, x[i], y[i])
		if d < bestDist && d <= maxDist {
			best = i
			bestDist = d
		}
	}

	if best == -1 {
		return -1, math.Inf(1)
	}
	return best, bestDist
}
