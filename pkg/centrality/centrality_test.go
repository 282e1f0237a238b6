package centrality

import (
	"math"
	"testing"

	"netmetrics/pkg/graph"
)

// buildLine returns a 3-node line graph 0-1-2, each edge length 100.
func buildLine() (*graph.NodeMap, *graph.EdgeIndex) {
	nodes := &graph.NodeMap{
		X:       []float64{0, 100, 200},
		Y:       []float64{0, 0, 0},
		Live:    []bool{true, true, true},
		Ghosted: []bool{false, false, false},
		Weight:  []float64{1, 1, 1},
	}
	edges := &graph.EdgeMap{
		Start:     []uint32{0, 1, 1, 2},
		End:       []uint32{1, 0, 2, 1},
		Length:    []float64{100, 100, 100, 100},
		Impedance: []float64{100, 100, 100, 100},
	}
	idx := graph.BuildEdgeIndex(edges, nodes.Len())
	return nodes, idx
}

func TestNewConfigRejectsUnknownMetric(t *testing.T) {
	_, err := NewConfig([]float64{400}, []string{"not_a_metric"}, false, true, false)
	if err == nil {
		t.Fatal("expected an error for an unrecognised metric name")
	}
}

func TestComputeNodeDensityCountsReachableNodes(t *testing.T) {
	nodes, idx := buildLine()
	cfg, err := NewConfig([]float64{200}, []string{NodeDensity}, false, true, false)
	if err != nil {
		t.Fatal(err)
	}
	results, err := Compute(nodes, idx, cfg)
	if err != nil {
		t.Fatal(err)
	}
	// From node 0, both node 1 (dist 100) and node 2 (dist 200) are reachable.
	if got := results.Values[NodeDensity][200][0]; got != 2 {
		t.Errorf("node_density[200][0] = %v, want 2", got)
	}
	// From node 1, both neighbours are at distance 100.
	if got := results.Values[NodeDensity][200][1]; got != 2 {
		t.Errorf("node_density[200][1] = %v, want 2", got)
	}
}

func TestComputeGravityDecaysWithDistance(t *testing.T) {
	nodes, idx := buildLine()
	cfg, err := NewConfig([]float64{400}, []string{Gravity}, false, true, false)
	if err != nil {
		t.Fatal(err)
	}
	results, err := Compute(nodes, idx, cfg)
	if err != nil {
		t.Fatal(err)
	}
	betaD := math.Log(WMin) / 400
	want := math.Exp(betaD*100) + math.Exp(betaD*200)
	got := results.Values[Gravity][400][0]
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("gravity[400][0] = %v, want %v", got, want)
	}
}

func TestComputeBetweennessCountsIntermediateNode(t *testing.T) {
	nodes, idx := buildLine()
	cfg, err := NewConfig([]float64{400}, []string{Betweenness}, false, true, false)
	if err != nil {
		t.Fatal(err)
	}
	results, err := Compute(nodes, idx, cfg)
	if err != nil {
		t.Fatal(err)
	}
	// Node 1 is intermediate on the path 0->2 (source 0) and on the path
	// 2->0 (source 2), so it is counted once from each source.
	if got := results.Values[Betweenness][400][1]; got != 2 {
		t.Errorf("betweenness[400][1] = %v, want 2", got)
	}
	// Node 0 and node 2 are never an intermediate node on anyone's path.
	if got := results.Values[Betweenness][400][0]; got != 0 {
		t.Errorf("betweenness[400][0] = %v, want 0", got)
	}
}

func TestComputeImprovedClosenessDerivedFromDensityAndFarness(t *testing.T) {
	nodes, idx := buildLine()
	cfg, err := NewConfig([]float64{400}, []string{ImprovedCloseness}, false, true, false)
	if err != nil {
		t.Fatal(err)
	}
	results, err := Compute(nodes, idx, cfg)
	if err != nil {
		t.Fatal(err)
	}
	// From node 0: density = 2, farness_distance = 100 + 200 = 300.
	// improved_closeness = 2^2 / 300.
	want := 4.0 / 300.0
	got := results.Values[ImprovedCloseness][400][0]
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("improved_closeness[400][0] = %v, want %v", got, want)
	}
}

func TestComputeLiveOnlySkipsNonLiveSources(t *testing.T) {
	nodes, idx := buildLine()
	nodes.Live[0] = false
	cfg, err := NewConfig([]float64{400}, []string{NodeDensity}, false, true, false)
	if err != nil {
		t.Fatal(err)
	}
	results, err := Compute(nodes, idx, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if got := results.Values[NodeDensity][400][0]; got != 0 {
		t.Errorf("node_density[400][0] = %v, want 0 (source skipped when not live)", got)
	}
}

func TestComputeWeightedScalesBySourceAndTargetWeight(t *testing.T) {
	nodes, idx := buildLine()
	nodes.Weight = []float64{2, 1, 3}
	cfg, err := NewConfig([]float64{400}, []string{NodeDensity, FarnessDistance}, false, true, true)
	if err != nil {
		t.Fatal(err)
	}
	results, err := Compute(nodes, idx, cfg)
	if err != nil {
		t.Fatal(err)
	}
	// From node 0 (weight 2): node 1 (weight 1, dist 100) contributes 2*1,
	// node 2 (weight 3, dist 200) contributes 2*3.
	wantDensity := 2*1.0 + 2*3.0
	if got := results.Values[NodeDensity][400][0]; math.Abs(got-wantDensity) > 1e-9 {
		t.Errorf("weighted node_density[400][0] = %v, want %v", got, wantDensity)
	}
	wantFarness := 2*1.0*100 + 2*3.0*200
	if got := results.Values[FarnessDistance][400][0]; math.Abs(got-wantFarness) > 1e-9 {
		t.Errorf("weighted farness_distance[400][0] = %v, want %v", got, wantFarness)
	}
}
