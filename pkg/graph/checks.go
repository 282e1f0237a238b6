package graph

import (
	"math"

	"netmetrics/pkg/errs"
)

// Validate confirms the invariants spec'd for packed node/edge arrays,
// failing fast on the first violation: shapes agree, coordinates and
// weights are finite, lengths are strictly positive, impedances are
// non-negative, every edge endpoint is a valid node index, and every
// directed edge has a reverse counterpart.
func Validate(nodes *NodeMap, edges *EdgeMap) error {
	n := nodes.Len()
	if len(nodes.Y) != n || len(nodes.Live) != n || len(nodes.Ghosted) != n || len(nodes.Weight) != n {
		return errs.NewValidationError("node array columns have mismatched lengths")
	}

	for i := 0; i < n; i++ {
		if !finite(nodes.X[i]) || !finite(nodes.Y[i]) {
			return errs.NewValidationError("node %d has non-finite coordinates", i)
		}
		if !finite(nodes.Weight[i]) || nodes.Weight[i] < 0 {
			return errs.NewValidationError("node %d has invalid weight %v", i, nodes.Weight[i])
		}
	}

	m := edges.Len()
	if len(edges.End) != m || len(edges.Length) != m || len(edges.Impedance) != m {
		return errs.NewValidationError("edge array columns have mismatched lengths")
	}

	reverse := make(map[uint64]bool, m)
	for i := 0; i < m; i++ {
		a, b := edges.Start[i], edges.End[i]
		if int(a) >= n || int(b) >= n {
			return errs.NewValidationError("edge %d references out-of-range node (%d, %d)", i, a, b)
		}
		if !finite(edges.Length[i]) || edges.Length[i] <= 0 {
			return errs.NewValidationError("edge %d has non-positive length %v", i, edges.Length[i])
		}
		if !finite(edges.Impedance[i]) || edges.Impedance[i] < 0 {
			return errs.NewValidationError("edge %d has negative impedance %v", i, edges.Impedance[i])
		}
		reverse[pairKey(a, b)] = true
	}

	for i := 0; i < m; i++ {
		a, b := edges.Start[i], edges.End[i]
		if !reverse[pairKey(b, a)] {
			return errs.NewValidationError("edge (%d, %d) has no reverse counterpart", a, b)
		}
	}

	return nil
}

func pairKey(a, b uint32) uint64 {
	return uint64(a)<<32 | uint64(b)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
