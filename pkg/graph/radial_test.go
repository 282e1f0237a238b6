package graph

import (
	"math"
	"testing"
)

func TestRadialFilterRoundTrip(t *testing.T) {
	x := []float64{0, 100, 200, 300, 1000}
	y := []float64{0, 0, 0, 0, 0}

	for _, r := range []float64{0, 150, 250, 2000} {
		trimToFull, fullToTrim := RadialFilter(x, y, 0, 0, r)

		if len(fullToTrim) != len(x) {
			t.Fatalf("r=%v: fullToTrim length = %d, want %d", r, len(fullToTrim), len(x))
		}

		survivors := 0
		for i, v := range fullToTrim {
			if math.IsNaN(v) {
				continue
			}
			survivors++
			if trimToFull[int(v)] != uint32(i) {
				t.Errorf("r=%v: trimToFull[%d] = %d, want %d", r, int(v), trimToFull[int(v)], i)
			}
		}
		if survivors != len(trimToFull) {
			t.Errorf("r=%v: survivors = %d, want %d", r, survivors, len(trimToFull))
		}
	}
}

func TestRadialFilterZeroRadiusKeepsOnlySource(t *testing.T) {
	x := []float64{0, 1, 0}
	y := []float64{0, 0, 1}
	trimToFull, fullToTrim := RadialFilter(x, y, 0, 0, 0)

	if len(trimToFull) != 1 || trimToFull[0] != 0 {
		t.Fatalf("trimToFull = %v, want [0]", trimToFull)
	}
	if !math.IsNaN(fullToTrim[1]) || !math.IsNaN(fullToTrim[2]) {
		t.Fatalf("fullToTrim = %v, want NaN for non-source nodes", fullToTrim)
	}
}

func TestRadialFilterRespectsRadius(t *testing.T) {
	x := []float64{0, 100, 300}
	y := []float64{0, 0, 0}
	r := 200.0
	_, fullToTrim := RadialFilter(x, y, 0, 0, r)

	for i, v := range fullToTrim {
		dist := math.Hypot(x[i], y[i])
		if dist <= r && math.IsNaN(v) {
			t.Errorf("node %d within radius but marked unreachable", i)
		}
		if dist > r && !math.IsNaN(v) {
			t.Errorf("node %d outside radius but marked reachable", i)
		}
	}
}
