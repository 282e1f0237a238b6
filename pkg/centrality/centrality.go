// Package centrality computes per-node spatial network centrality
// measures (gravity, closeness, betweenness variants, cycles) at a set
// of walking-distance thresholds, by building a shortest-path tree from
// every source node and aggregating reachable targets into it.
package centrality

import (
	"math"

	"netmetrics/pkg/errs"
	"netmetrics/pkg/graph"
	"netmetrics/pkg/spt"
)

// WMin is the minimum gravity weight at the threshold distance, fixing
// the decay constant beta_d = ln(WMin) / d.
const WMin = 0.01831563888873418 // e^-4

// Metric names recognised by Compute.
const (
	NodeDensity        = "node_density"
	FarnessImpedance   = "farness_impedance"
	FarnessDistance    = "farness_distance"
	HarmonicCloseness  = "harmonic_closeness"
	ImprovedCloseness  = "improved_closeness"
	Gravity            = "gravity"
	Cycles             = "cycles"
	Betweenness        = "betweenness"
	BetweennessGravity = "betweenness_gravity"
)

var knownMetrics = map[string]bool{
	NodeDensity:        true,
	FarnessImpedance:   true,
	FarnessDistance:    true,
	HarmonicCloseness:  true,
	ImprovedCloseness:  true,
	Gravity:            true,
	Cycles:             true,
	Betweenness:        true,
	BetweennessGravity: true,
}

// Config selects which metrics to compute, at which distance thresholds,
// and in which shortest-path-tree mode.
type Config struct {
	Distances []float64
	Metrics   []string
	Angular   bool
	// LiveOnly restricts source iteration to nodes.Live[src] == true,
	// per the "optionally only live" source-selection rule.
	LiveOnly bool
	// Weighted scales every source's per-j contribution by
	// node_weight[src] * node_weight[j] before accumulating, per the
	// weighted-variant rule. improved_closeness is derived post-hoc from
	// the (already weighted) density/farness_distance accumulators, so it
	// needs no separate scaling.
	Weighted bool
}

// NewConfig validates metric names and returns a ready-to-use Config.
func NewConfig(distances []float64, metrics []string, angular, liveOnly, weighted bool) (Config, error) {
	if len(distances) == 0 {
		return Config{}, errs.NewUsageError("centrality: at least one distance threshold is required")
	}
	for _, m := range metrics {
		if !knownMetrics[m] {
			return Config{}, errs.NewUsageError("centrality: unrecognised metric name %q", m)
		}
	}
	return Config{Distances: distances, Metrics: metrics, Angular: angular, LiveOnly: liveOnly, Weighted: weighted}, nil
}

// Results holds, per requested metric and distance threshold, one value
// per node (size N, the full unfiltered node count).
type Results struct {
	Distances []float64
	Values    map[string]map[float64][]float64
}

func newResults(metrics []string, distances []float64, n int) *Results {
	r := &Results{
		Distances: distances,
		Values:    make(map[string]map[float64][]float64, len(metrics)),
	}
	for _, m := range metrics {
		byDist := make(map[float64][]float64, len(distances))
		for _, d := range distances {
			byDist[d] = make([]float64, n)
		}
		r.Values[m] = byDist
	}
	return r
}

func (r *Results) wants(metric string) bool {
	_, ok := r.Values[metric]
	return ok
}

// NewResults pre-allocates a Results sized for n nodes under cfg,
// exposed so callers (e.g. pkg/network's worker pool) can build one
// Results up front and dispatch ComputeSource across goroutines that
// write into its disjoint per-source cells.
func NewResults(cfg Config, n int) *Results {
	return newResults(cfg.Metrics, cfg.Distances, n)
}

// Compute runs the centrality aggregation kernel over every eligible
// source node. Each source's shortest-path tree is built and reduced
// independently; callers may parallelise across src using (for example)
// the worker pool in pkg/network, since every source writes to disjoint
// result cells.
func Compute(nodes *graph.NodeMap, idx *graph.EdgeIndex, cfg Config) (*Results, error) {
	n := nodes.Len()
	maxDist := cfg.Distances[0]
	for _, d := range cfg.Distances {
		if d > maxDist {
			maxDist = d
		}
	}

	results := NewResults(cfg, n)

	mode := spt.Metric
	if cfg.Angular {
		mode = spt.Angular
	}

	var heap spt.MinHeap
	for src := 0; src < n; src++ {
		if cfg.LiveOnly && !nodes.Live[src] {
			continue
		}
		computeSource(nodes, idx, cfg, mode, maxDist, src, results, &heap)
	}

	return results, nil
}

// ComputeSource runs the aggregation for a single source node, exposed
// separately so callers (e.g. pkg/network's worker pool) can dispatch one
// source per task without re-deriving the shared Config/Results setup.
// heap is reused across calls from the same worker goroutine (Reset
// internally); pass a fresh *spt.MinHeap per goroutine, pooled across
// jobs.
func ComputeSource(nodes *graph.NodeMap, idx *graph.EdgeIndex, cfg Config, results *Results, src int, heap *spt.MinHeap) {
	maxDist := cfg.Distances[0]
	for _, d := range cfg.Distances {
		if d > maxDist {
			maxDist = d
		}
	}
	mode := spt.Metric
	if cfg.Angular {
		mode = spt.Angular
	}
	computeSource(nodes, idx, cfg, mode, maxDist, src, results, heap)
}

func computeSource(nodes *graph.NodeMap, idx *graph.EdgeIndex, cfg Config, mode spt.Mode, maxDist float64, src int, results *Results, heap *spt.MinHeap) {
	trimToFull, fullToTrim := graph.RadialFilter(nodes.X, nodes.Y, nodes.X[src], nodes.Y[src], maxDist)
	srcFullIdx := uint32(src)
	tree := spt.BuildWithHeap(heap, nodes, idx, trimToFull, fullToTrim, srcFullIdx, maxDist, mode)

	srcTrimF := fullToTrim[src]
	if math.IsNaN(srcTrimF) {
		return
	}
	srcTrim := int(srcTrimF)
	n := len(trimToFull)

	// srcWeight folds node_weight[src] into every contribution below;
	// left at 1 when the caller didn't request weighted variants.
	srcWeight := 1.0
	if cfg.Weighted {
		srcWeight = nodes.Weight[src]
	}

	// Scratch accumulators, local to this source, for the post-hoc
	// improved_closeness derivation.
	density := make([]float64, len(cfg.Distances))
	farnessDistance := make([]float64, len(cfg.Distances))

	for j := 0; j < n; j++ {
		if j == srcTrim {
			continue
		}
		dj := tree.Distance[j]
		if math.IsInf(dj, 1) {
			continue
		}

		// w folds in node_weight[j] alongside srcWeight, per the
		// node_weight[src] and/or node_weight[j] weighted-variant rule.
		w := srcWeight
		if cfg.Weighted {
			w *= nodes.Weight[trimToFull[j]]
		}

		for di, d := range cfg.Distances {
			if dj > d {
				continue
			}
			betaD := math.Log(WMin) / d

			density[di] += w
			farnessDistance[di] += dj * w

			if results.wants(NodeDensity) {
				results.Values[NodeDensity][d][src] += w
			}
			if results.wants(FarnessImpedance) {
				results.Values[FarnessImpedance][d][src] += tree.Impedance[j] * w
			}
			if results.wants(FarnessDistance) {
				results.Values[FarnessDistance][d][src] += dj * w
			}
			if results.wants(HarmonicCloseness) && tree.Impedance[j] > 0 {
				results.Values[HarmonicCloseness][d][src] += w / tree.Impedance[j]
			}
			if results.wants(Gravity) {
				results.Values[Gravity][d][src] += math.Exp(betaD*tree.Impedance[j]) * w
			}
			if results.wants(Cycles) {
				results.Values[Cycles][d][src] += float64(tree.Cycles[j]) * w
			}

			if results.wants(Betweenness) || results.wants(BetweennessGravity) {
				gravityContribution := math.Exp(betaD*tree.Impedance[j]) * w
				k := tree.Pred[j]
				for k != -1 && int(k) != srcTrim {
					kFull := trimToFull[k]
					if results.wants(Betweenness) {
						results.Values[Betweenness][d][kFull] += w
					}
					if results.wants(BetweennessGravity) {
						results.Values[BetweennessGravity][d][kFull] += gravityContribution
					}
					k = tree.Pred[k]
				}
			}
		}
	}

	if results.wants(ImprovedCloseness) {
		for di, d := range cfg.Distances {
			if farnessDistance[di] > 0 {
				results.Values[ImprovedCloseness][d][src] = density[di] * density[di] / farnessDistance[di]
			}
		}
	}
}
