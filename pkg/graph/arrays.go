// Package graph holds the packed columnar node/edge/data arrays that are
// the sole data representation crossing into the numeric kernels (pkg/spt,
// pkg/assign, pkg/centrality, pkg/diversity), plus the Checks, radial
// filter and nearest-node search operations defined over them.
package graph

import "math"

// NodeMap is the column-oriented node record array (width 5 per node:
// x, y, live, ghosted, weight).
type NodeMap struct {
	X, Y    []float64
	Live    []bool
	Ghosted []bool // reserved; passed through unmodified
	Weight  []float64
}

// Len returns the number of nodes.
func (n *NodeMap) Len() int { return len(n.X) }

// EdgeMap is the column-oriented directed edge record array (width 4:
// start_idx, end_idx, length, impedance). Each undirected street segment
// appears twice, once per direction.
type EdgeMap struct {
	Start     []uint32
	End       []uint32
	Length    []float64
	Impedance []float64
}

// Len returns the number of directed edges.
func (e *EdgeMap) Len() int { return len(e.Start) }

// DataMap is the column-oriented data-point record array (width 6: x, y,
// live, class_code, nearest_assigned, next_nearest_assigned).
type DataMap struct {
	X, Y                 []float64
	Live                 []bool
	ClassCode            []int32   // -1 until encoded against a class list
	NearestAssigned      []float64 // node index, or NaN if unassigned
	NextNearestAssigned  []float64 // node index, or NaN if unassigned
}

// Len returns the number of data points.
func (d *DataMap) Len() int { return len(d.X) }

// NewDataMap allocates a DataMap of n points with anchors initialised to
// NaN and class codes initialised to -1, per the external data-preparation
// contract (spec §6).
func NewDataMap(x, y []float64, live []bool) *DataMap {
	n := len(x)
	d := &DataMap{
		X:                   x,
		Y:                   y,
		Live:                live,
		ClassCode:           make([]int32, n),
		NearestAssigned:     make([]float64, n),
		NextNearestAssigned: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		d.ClassCode[i] = -1
		d.NearestAssigned[i] = math.NaN()
		d.NextNearestAssigned[i] = math.NaN()
	}
	return d
}
