package graph

import (
	"math"

	"netmetrics/pkg/geo"
)

// RadialFilter produces the bidirectional trim maps between the full
// index space of (x, y) and the subset lying within radius r of
// (srcX, srcY): trimToFull[j] is the full index of the j-th survivor,
// and fullToTrim[i] is the trimmed index of i, or NaN if i lies outside
// the radius. r = 0 keeps only points at exactly distance 0 from the
// source (typically the source itself).
func RadialFilter(x, y []float64, srcX, srcY, r float64) (trimToFull []uint32, fullToTrim []float64) {
	n := len(x)
	fullToTrim = make([]float64, n)
	trimToFull = make([]uint32, 0, n)

	for i := 0; i < n; i++ {
		if geo.Dist(x[i], y[i], srcX, srcY) <= r {
			fullToTrim[i] = float64(len(trimToFull))
			trimToFull = append(trimToFull, uint32(i))
		} else {
			fullToTrim[i] = math.NaN()
		}
	}

	return trimToFull, fullToTrim
}
