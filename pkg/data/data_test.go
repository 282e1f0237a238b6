package data

import (
	"math"
	"testing"

	"netmetrics/pkg/diversity"
	"netmetrics/pkg/graph"
	"netmetrics/pkg/network"
)

// buildLineNetwork builds a 3-node line graph: a(0,0) -- b(100,0) -- c(200,0).
func buildLineNetwork(t *testing.T) *network.Network {
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
	net, err := network.FromArrays([]string{"a", "b", "c"}, nodes, edges)
	if err != nil {
		t.Fatalf("network.FromArrays: %v", err)
	}
	return net
}

func buildDataPoints(xs, ys []float64) *graph.DataMap {
	live := make([]bool, len(xs))
	for i := range live {
		live[i] = true
	}
	return graph.NewDataMap(xs, ys, live)
}

func TestEncodeCategoricalRoundTrips(t *testing.T) {
	labels := []string{"retail", "office", "retail", "residential"}
	codes, classes := EncodeCategorical(labels)
	if len(classes) != 3 {
		t.Fatalf("expected 3 distinct classes, got %d: %v", len(classes), classes)
	}
	decoded := DecodeCategorical(codes, classes)
	for i, l := range labels {
		if decoded[i] != l {
			t.Errorf("decoded[%d] = %q, want %q", i, decoded[i], l)
		}
	}
	// classes sorted ascending
	for i := 1; i < len(classes); i++ {
		if classes[i-1] >= classes[i] {
			t.Errorf("classes not sorted: %v", classes)
		}
	}
}

func TestFromArraysRejectsMismatchedLength(t *testing.T) {
	points := buildDataPoints([]float64{0, 1}, []float64{0, 1})
	_, err := FromArrays([]string{"only-one"}, points)
	if err == nil {
		t.Fatal("expected error for mismatched data_uids length")
	}
}

func TestComputeLandusesBeforeAssignReturnsUsageError(t *testing.T) {
	points := buildDataPoints([]float64{50}, []float64{5})
	d, err := FromArrays([]string{"p0"}, points)
	if err != nil {
		t.Fatal(err)
	}
	net := buildLineNetwork(t)
	cfg := DefaultLanduseConfig([]float64{400}, []float64{0}, []string{diversity.Hill}, nil)
	err = d.ComputeLanduses(net, []string{"retail"}, cfg)
	if err == nil {
		t.Fatal("expected a usage error before assignment")
	}
}

func TestAssignThenComputeLandusesPopulatesHillResults(t *testing.T) {
	net := buildLineNetwork(t)
	points := buildDataPoints([]float64{50, 150}, []float64{5, 5})
	d, err := FromArrays([]string{"p0", "p1"}, points)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.AssignToNetwork(net, 100); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultLanduseConfig([]float64{400}, []float64{0}, []string{diversity.Hill}, nil)
	labels := []string{"retail", "office"}
	if err := d.ComputeLanduses(net, labels, cfg); err != nil {
		t.Fatal(err)
	}

	got := d.Results.Hill[diversity.Hill][0][400][0]
	if math.Abs(got-2) > 1e-9 {
		t.Errorf("hill[q=0][400][src=0] = %v, want 2 (two distinct reachable classes)", got)
	}
}

func TestComputeLandusesRejectsUnknownMetric(t *testing.T) {
	net := buildLineNetwork(t)
	points := buildDataPoints([]float64{50}, []float64{5})
	d, err := FromArrays([]string{"p0"}, points)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.AssignToNetwork(net, 50); err != nil {
		t.Fatal(err)
	}
	cfg := DefaultLanduseConfig([]float64{400}, []float64{0}, []string{"not_a_metric"}, nil)
	if err := d.ComputeLanduses(net, []string{"retail"}, cfg); err == nil {
		t.Fatal("expected error for unrecognised mixed-use metric")
	}
}

func TestComputeLandusesPopulatesAccessibility(t *testing.T) {
	net := buildLineNetwork(t)
	points := buildDataPoints([]float64{50, 150}, []float64{5, 5})
	d, err := FromArrays([]string{"p0", "p1"}, points)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.AssignToNetwork(net, 100); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultLanduseConfig([]float64{400}, []float64{0}, nil, []string{"retail"})
	labels := []string{"retail", "office"}
	if err := d.ComputeLanduses(net, labels, cfg); err != nil {
		t.Fatal(err)
	}

	codes, classes := EncodeCategorical(labels)
	_ = codes
	var retailCode int32 = -1
	for i, c := range classes {
		if c == "retail" {
			retailCode = int32(i)
		}
	}
	got := d.Results.Accessibility[retailCode].NonWeighted[400][0]
	if math.Abs(got-1) > 1e-9 {
		t.Errorf("accessibility[retail].non_weighted[400][0] = %v, want 1", got)
	}
}
