package graph

import "testing"

// buildTriangle returns a 3-node, 6-directed-edge triangle graph.
//
//	0 --10-- 1 --20-- 2
//	 \________30________/
func buildTriangle() (*NodeMap, *EdgeMap) {
	nodes := &NodeMap{
		X:       []float64{0, 10, 0},
		Y:       []float64{0, 0, 10},
		Live:    []bool{true, true, true},
		Ghosted: []bool{false, false, false},
		Weight:  []float64{5, 15, 15},
	}
	edges := &EdgeMap{
		Start:     []uint32{0, 1, 1, 2, 2, 0},
		End:       []uint32{1, 0, 2, 1, 0, 2},
		Length:    []float64{10, 10, 20, 20, 30, 30},
		Impedance: []float64{10, 10, 20, 20, 30, 30},
	}
	return nodes, edges
}

func TestBuildEdgeIndexCSRInvariants(t *testing.T) {
	nodes, edges := buildTriangle()
	idx := BuildEdgeIndex(edges, nodes.Len())

	if len(idx.Offsets) != nodes.Len()+1 {
		t.Fatalf("Offsets length = %d, want %d", len(idx.Offsets), nodes.Len()+1)
	}
	for i := 1; i < len(idx.Offsets); i++ {
		if idx.Offsets[i] < idx.Offsets[i-1] {
			t.Errorf("Offsets not monotonic at %d", i)
		}
	}
	if int(idx.Offsets[nodes.Len()]) != edges.Len() {
		t.Errorf("Offsets[%d] = %d, want %d", nodes.Len(), idx.Offsets[nodes.Len()], edges.Len())
	}

	for u := 0; u < nodes.Len(); u++ {
		start, end := idx.EdgesFrom(uint32(u))
		for p := start; p < end; p++ {
			if edges.Start[idx.Orig[p]] != uint32(u) {
				t.Errorf("CSR position %d claims node %d but Orig edge starts at %d", p, u, edges.Start[idx.Orig[p]])
			}
			if idx.Head[p] != edges.End[idx.Orig[p]] {
				t.Errorf("CSR Head[%d] = %d, want %d", p, idx.Head[p], edges.End[idx.Orig[p]])
			}
		}
	}
}

func TestBuildEdgeIndexEmpty(t *testing.T) {
	edges := &EdgeMap{}
	idx := BuildEdgeIndex(edges, 0)
	if len(idx.Offsets) != 1 || idx.Offsets[0] != 0 {
		t.Fatalf("empty graph should yield a single zero offset, got %v", idx.Offsets)
	}
}
