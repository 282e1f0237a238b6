package graph

import "sort"

// EdgeIndex is a CSR (Compressed Sparse Row) view over an EdgeMap: for
// node i, its directed out-edges occupy positions
// Offsets[i]..Offsets[i+1] in Head/Length/Impedance, which are the
// EdgeMap's columns permuted into source-node order.
type EdgeIndex struct {
	Offsets   []uint32 // len NumNodes+1
	Head      []uint32
	Length    []float64
	Impedance []float64
	// Orig maps a CSR position back to its row in the original EdgeMap,
	// so a caller holding a CSR position can recover the EdgeMap row.
	Orig []uint32
}

// EdgesFrom returns the CSR range of out-edges for node u.
func (idx *EdgeIndex) EdgesFrom(u uint32) (start, end uint32) {
	return idx.Offsets[u], idx.Offsets[u+1]
}

// BuildEdgeIndex sorts an EdgeMap's directed edges by (source, target)
// node and produces the CSR offsets by counting out-edges per node and
// prefix-summing the counts.
func BuildEdgeIndex(edges *EdgeMap, numNodes int) *EdgeIndex {
	numEdges := edges.Len()

	order := make([]uint32, numEdges)
	for i := range order {
		order[i] = uint32(i)
	}
	sort.Slice(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if edges.Start[a] != edges.Start[b] {
			return edges.Start[a] < edges.Start[b]
		}
		return edges.End[a] < edges.End[b]
	})

	offsets := make([]uint32, numNodes+1)
	for _, e := range order {
		offsets[edges.Start[e]+1]++
	}
	for i := 1; i <= numNodes; i++ {
		offsets[i] += offsets[i-1]
	}

	head := make([]uint32, numEdges)
	length := make([]float64, numEdges)
	impedance := make([]float64, numEdges)
	orig := make([]uint32, numEdges)
	for pos, e := range order {
		head[pos] = edges.End[e]
		length[pos] = edges.Length[e]
		impedance[pos] = edges.Impedance[e]
		orig[pos] = e
	}

	return &EdgeIndex{
		Offsets:   offsets,
		Head:      head,
		Length:    length,
		Impedance: impedance,
		Orig:      orig,
	}
}
