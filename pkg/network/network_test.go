package network

import (
	"math"
	"testing"

	"netmetrics/pkg/centrality"
	"netmetrics/pkg/graph"
)

func buildLineNetwork(t *testing.T) *Network {
	t.Helper()
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
	net, err := FromArrays([]string{"a", "b", "c"}, nodes, edges)
	if err != nil {
		t.Fatalf("FromArrays: %v", err)
	}
	return net
}

func TestFromArraysRejectsMismatchedUIDCount(t *testing.T) {
	nodes := &graph.NodeMap{
		X: []float64{0, 1}, Y: []float64{0, 0},
		Live: []bool{true, true}, Ghosted: []bool{false, false}, Weight: []float64{1, 1},
	}
	edges := &graph.EdgeMap{
		Start: []uint32{0, 1}, End: []uint32{1, 0},
		Length: []float64{1, 1}, Impedance: []float64{1, 1},
	}
	_, err := FromArrays([]string{"only-one"}, nodes, edges)
	if err == nil {
		t.Fatal("expected an error for mismatched node_uids length")
	}
}

func TestComputeCentralitiesPopulatesResults(t *testing.T) {
	net := buildLineNetwork(t)
	cfg := DefaultConfig([]float64{400}, []string{centrality.NodeDensity})
	if err := net.ComputeCentralities(cfg); err != nil {
		t.Fatal(err)
	}
	got := net.Results.Values[centrality.NodeDensity][400][1]
	if math.Abs(got-2) > 1e-9 {
		t.Errorf("node_density[400][1] = %v, want 2", got)
	}
}

func TestMetricsToDictExposesRequestedMetric(t *testing.T) {
	net := buildLineNetwork(t)
	cfg := DefaultConfig([]float64{400}, []string{centrality.Gravity})
	if err := net.ComputeCentralities(cfg); err != nil {
		t.Fatal(err)
	}
	dict := net.MetricsToDict()
	if _, ok := dict[centrality.Gravity]; !ok {
		t.Errorf("dict missing key %q: %+v", centrality.Gravity, dict)
	}
}

func TestComputeCentralitiesSingleWorkerMatchesMultiWorker(t *testing.T) {
	net1 := buildLineNetwork(t)
	cfg1 := DefaultConfig([]float64{400}, []string{centrality.NodeDensity, centrality.Gravity})
	cfg1.Workers = 1
	if err := net1.ComputeCentralities(cfg1); err != nil {
		t.Fatal(err)
	}

	net2 := buildLineNetwork(t)
	cfg2 := DefaultConfig([]float64{400}, []string{centrality.NodeDensity, centrality.Gravity})
	cfg2.Workers = 8
	if err := net2.ComputeCentralities(cfg2); err != nil {
		t.Fatal(err)
	}

	for _, src := range []int{0, 1, 2} {
		a := net1.Results.Values[centrality.NodeDensity][400][src]
		b := net2.Results.Values[centrality.NodeDensity][400][src]
		if a != b {
			t.Errorf("node_density[400][%d] differs by worker count: %v vs %v", src, a, b)
		}
	}
}
