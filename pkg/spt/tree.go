package spt

import (
	"math"

	"netmetrics/pkg/geo"
	"netmetrics/pkg/graph"
)

// Mode selects the shortest-path-tree relaxation rule.
type Mode int

const (
	// Metric mode: impedance accumulates the edge impedance field.
	Metric Mode = iota
	// Angular mode: impedance accumulates turn-cost between successive
	// edges; distance still tracks metric length for the radius gate.
	Angular
)

// Tree holds the per-trimmed-node shortest-path-tree vectors produced by
// Build: impedance, metric distance, predecessor (trimmed index, -1 for
// the root or an unreached node) and simple-cycle-edge counts.
type Tree struct {
	Impedance []float64
	Distance  []float64
	Pred      []int32
	Cycles    []int
}

// Build runs a Dijkstra-like expansion from srcFull over the subgraph
// already restricted to trimToFull/fullToTrim (the output of
// graph.RadialFilter for srcFull at radius maxDist), using idx's CSR
// edges to find neighbours. It returns a Tree sized to len(trimToFull).
// It allocates a fresh MinHeap; callers iterating many sources should
// prefer BuildWithHeap with a reused, pooled heap.
func Build(nodes *graph.NodeMap, idx *graph.EdgeIndex, trimToFull []uint32, fullToTrim []float64, srcFull uint32, maxDist float64, mode Mode) *Tree {
	var heap MinHeap
	return BuildWithHeap(&heap, nodes, idx, trimToFull, fullToTrim, srcFull, maxDist, mode)
}

// BuildWithHeap is Build using a caller-supplied, reusable MinHeap
// (Reset before use), avoiding a fresh heap allocation per source when
// iterating many sources from a worker pool.
func BuildWithHeap(heap *MinHeap, nodes *graph.NodeMap, idx *graph.EdgeIndex, trimToFull []uint32, fullToTrim []float64, srcFull uint32, maxDist float64, mode Mode) *Tree {
	heap.Reset()
	n := len(trimToFull)
	tree := &Tree{
		Impedance: make([]float64, n),
		Distance:  make([]float64, n),
		Pred:      make([]int32, n),
		Cycles:    make([]int, n),
	}
	for i := 0; i < n; i++ {
		tree.Impedance[i] = math.Inf(1)
		tree.Distance[i] = math.Inf(1)
		tree.Pred[i] = -1
	}

	srcTrimF := fullToTrim[srcFull]
	if math.IsNaN(srcTrimF) {
		return tree
	}
	srcTrim := uint32(srcTrimF)
	tree.Impedance[srcTrim] = 0
	tree.Distance[srcTrim] = 0

	settled := make([]bool, n)

	heap.Push(srcTrim, 0)

	for heap.Len() > 0 {
		item := heap.Pop()
		u := item.Node
		if settled[u] {
			continue // stale heap entry from an earlier, worse-or-equal push
		}
		settled[u] = true
		uFull := trimToFull[u]

		start, end := idx.EdgesFrom(uFull)
		for e := start; e < end; e++ {
			vFull := idx.Head[e]
			vTrimF := fullToTrim[vFull]
			if math.IsNaN(vTrimF) {
				continue // outside the radial trim entirely
			}
			v := uint32(vTrimF)

			tentativeDist := tree.Distance[u] + idx.Length[e]
			if tentativeDist > maxDist {
				continue // radius gate on tentative path distance
			}

			var turnOrEdgeCost float64
			if mode == Angular {
				if tree.Pred[u] == -1 {
					turnOrEdgeCost = 0 // first edge out of the source
				} else {
					predFull := trimToFull[uint32(tree.Pred[u])]
					turnOrEdgeCost = geo.AngleBetween(
						nodes.X[predFull], nodes.Y[predFull],
						nodes.X[uFull], nodes.Y[uFull],
						nodes.X[vFull], nodes.Y[vFull],
					)
				}
			} else {
				turnOrEdgeCost = idx.Impedance[e]
			}
			tentativeImpedance := tree.Impedance[u] + turnOrEdgeCost

			switch {
			case settled[v]:
				if int32(v) != tree.Pred[u] {
					tree.Cycles[u]++
					tree.Cycles[v]++
				}
			case tentativeImpedance < tree.Impedance[v]:
				tree.Impedance[v] = tentativeImpedance
				tree.Distance[v] = tentativeDist
				tree.Pred[v] = int32(u)
				heap.Push(v, tentativeImpedance)
			case tentativeImpedance == tree.Impedance[v] && !math.IsInf(tree.Impedance[v], 1):
				if int32(v) != tree.Pred[u] {
					tree.Cycles[u]++
					tree.Cycles[v]++
				}
			}
		}
	}

	return tree
}
