package network

import (
	"encoding/json"
	"os"

	"netmetrics/pkg/errs"
	"netmetrics/pkg/graph"
)

// fileFormat is the on-disk JSON representation of a packed node/edge
// graph, the JSON analogue of the teacher's preprocessed CSR binary.
type fileFormat struct {
	NodeUIDs []string `json:"node_uids"`
	Nodes    struct {
		X       []float64 `json:"x"`
		Y       []float64 `json:"y"`
		Live    []bool    `json:"live"`
		Ghosted []bool    `json:"ghosted"`
		Weight  []float64 `json:"weight"`
	} `json:"nodes"`
	Edges struct {
		Start     []uint32  `json:"start"`
		End       []uint32  `json:"end"`
		Length    []float64 `json:"length"`
		Impedance []float64 `json:"impedance"`
	} `json:"edges"`
}

// requiredTopLevel, requiredNodeAttrs and requiredEdgeAttrs are the JSON
// keys LoadJSON demands before attempting the typed decode, so a column
// dropped by the external graph-preparation collaborator is reported as
// a MissingAttributeError rather than silently zero-valued by
// encoding/json.
var (
	requiredTopLevel  = []string{"node_uids", "nodes", "edges"}
	requiredNodeAttrs = []string{"x", "y", "live", "weight"}
	requiredEdgeAttrs = []string{"start", "end", "length", "impedance"}
)

// LoadJSON reads a packed node/edge graph from path and builds a Network,
// running the same validation and CSR-index construction as FromArrays.
func LoadJSON(path string) (*Network, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.NewValidationError("network: reading %s: %v", path, err)
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, errs.NewValidationError("network: parsing %s: %v", path, err)
	}
	if err := requireKeys(top, requiredTopLevel); err != nil {
		return nil, err
	}
	var nodeAttrs, edgeAttrs map[string]json.RawMessage
	if err := json.Unmarshal(top["nodes"], &nodeAttrs); err != nil {
		return nil, errs.NewValidationError("network: parsing %s: nodes: %v", path, err)
	}
	if err := requireKeys(nodeAttrs, requiredNodeAttrs); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(top["edges"], &edgeAttrs); err != nil {
		return nil, errs.NewValidationError("network: parsing %s: edges: %v", path, err)
	}
	if err := requireKeys(edgeAttrs, requiredEdgeAttrs); err != nil {
		return nil, err
	}

	var ff fileFormat
	if err := json.Unmarshal(raw, &ff); err != nil {
		return nil, errs.NewValidationError("network: parsing %s: %v", path, err)
	}

	// ghosted is not a required key; when absent every node is non-ghosted.
	ghosted := ff.Nodes.Ghosted
	if ghosted == nil {
		ghosted = make([]bool, len(ff.Nodes.X))
	}
	nodes := &graph.NodeMap{
		X: ff.Nodes.X, Y: ff.Nodes.Y,
		Live: ff.Nodes.Live, Ghosted: ghosted, Weight: ff.Nodes.Weight,
	}
	edges := &graph.EdgeMap{
		Start: ff.Edges.Start, End: ff.Edges.End,
		Length: ff.Edges.Length, Impedance: ff.Edges.Impedance,
	}

	return FromArrays(ff.NodeUIDs, nodes, edges)
}

// requireKeys returns a *errs.MissingAttributeError for the first attr in
// attrs absent from present.
func requireKeys(present map[string]json.RawMessage, attrs []string) error {
	for _, attr := range attrs {
		if _, ok := present[attr]; !ok {
			return errs.NewMissingAttributeError(attr)
		}
	}
	return nil
}
