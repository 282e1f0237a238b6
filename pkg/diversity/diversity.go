// Package diversity computes per-node mixed-use land-use diversity and
// accessibility aggregates at a set of walking-distance thresholds, by
// reusing each source's shortest-path tree to derive a reach distance for
// every nearby data point and reducing class-code distributions over it.
package diversity

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"netmetrics/pkg/errs"
	"netmetrics/pkg/geo"
	"netmetrics/pkg/graph"
	"netmetrics/pkg/spt"
)

// WMin mirrors pkg/centrality.WMin: the gravity weight floor fixing
// beta_d = ln(WMin) / d.
const WMin = 0.01831563888873418

// Hill-family metric names.
const (
	Hill                  = "hill"
	HillBranchWt          = "hill_branch_wt"
	HillPairwiseWt        = "hill_pairwise_wt"
	HillPairwiseDisparity = "hill_pairwise_disparity"
)

// "Other" diversity metric names.
const (
	Shannon               = "shannon"
	GiniSimpson           = "gini_simpson"
	RaosPairwiseDisparity = "raos_pairwise_disparity"
)

var knownHillMetrics = map[string]bool{
	Hill: true, HillBranchWt: true, HillPairwiseWt: true, HillPairwiseDisparity: true,
}
var knownOtherMetrics = map[string]bool{
	Shannon: true, GiniSimpson: true, RaosPairwiseDisparity: true,
}

func needsDisparity(metric string) bool {
	return metric == HillPairwiseDisparity || metric == RaosPairwiseDisparity
}

// IsHillMetric reports whether metric belongs to the Hill-number family,
// letting callers (pkg/data) partition a combined mixed-use metric list.
func IsHillMetric(metric string) bool { return knownHillMetrics[metric] }

// IsOtherMetric reports whether metric is one of the non-Hill diversity
// metrics (shannon, gini_simpson, raos_pairwise_disparity).
func IsOtherMetric(metric string) bool { return knownOtherMetrics[metric] }

// Config selects which diversity and accessibility metrics to compute.
type Config struct {
	Distances           []float64
	Qs                  []float64
	HillMetrics         []string
	OtherMetrics        []string
	AccessibilityLabels []int32
	DisparityMatrix     [][]float64 // required if any needsDisparity metric is requested
	NumClasses          int
	Angular             bool
	LiveOnly            bool
}

// NewConfig validates metric names and the disparity-matrix/accessibility
// preconditions described in spec §7.
func NewConfig(distances, qs []float64, hillMetrics, otherMetrics []string, accessibilityLabels []int32, disparity [][]float64, numClasses int, angular, liveOnly bool) (Config, error) {
	if len(distances) == 0 {
		return Config{}, errs.NewUsageError("diversity: at least one distance threshold is required")
	}
	for _, m := range hillMetrics {
		if !knownHillMetrics[m] {
			return Config{}, errs.NewUsageError("diversity: unrecognised hill metric %q", m)
		}
	}
	for _, m := range otherMetrics {
		if !knownOtherMetrics[m] {
			return Config{}, errs.NewUsageError("diversity: unrecognised metric %q", m)
		}
	}
	needsD := false
	for _, m := range hillMetrics {
		needsD = needsD || needsDisparity(m)
	}
	for _, m := range otherMetrics {
		needsD = needsD || needsDisparity(m)
	}
	if needsD && disparity == nil {
		return Config{}, errs.NewUsageError("diversity: a class-disparity matrix is required by the requested metrics")
	}
	if len(accessibilityLabels) == 0 && len(hillMetrics) == 0 && len(otherMetrics) == 0 {
		return Config{}, errs.NewUsageError("diversity: no metrics or accessibility labels requested")
	}
	return Config{
		Distances: distances, Qs: qs, HillMetrics: hillMetrics, OtherMetrics: otherMetrics,
		AccessibilityLabels: accessibilityLabels, DisparityMatrix: disparity, NumClasses: numClasses,
		Angular: angular, LiveOnly: liveOnly,
	}, nil
}

// Results holds, per metric (and Hill order q where applicable) and
// distance threshold, one value per node.
type Results struct {
	Distances     []float64
	Hill          map[string]map[float64]map[float64][]float64 // metric -> q -> d -> per-node
	Other         map[string]map[float64][]float64              // metric -> d -> per-node
	Accessibility map[int32]struct {
		NonWeighted map[float64][]float64
		Weighted    map[float64][]float64
	}
}

func newResults(cfg Config, n int) *Results {
	r := &Results{
		Distances:     cfg.Distances,
		Hill:          make(map[string]map[float64]map[float64][]float64, len(cfg.HillMetrics)),
		Other:         make(map[string]map[float64][]float64, len(cfg.OtherMetrics)),
		Accessibility: make(map[int32]struct {
			NonWeighted map[float64][]float64
			Weighted    map[float64][]float64
		}, len(cfg.AccessibilityLabels)),
	}
	for _, m := range cfg.HillMetrics {
		byQ := make(map[float64]map[float64][]float64, len(cfg.Qs))
		for _, q := range cfg.Qs {
			byD := make(map[float64][]float64, len(cfg.Distances))
			for _, d := range cfg.Distances {
				byD[d] = make([]float64, n)
			}
			byQ[q] = byD
		}
		r.Hill[m] = byQ
	}
	for _, m := range cfg.OtherMetrics {
		byD := make(map[float64][]float64, len(cfg.Distances))
		for _, d := range cfg.Distances {
			byD[d] = make([]float64, n)
		}
		r.Other[m] = byD
	}
	for _, c := range cfg.AccessibilityLabels {
		byDNW := make(map[float64][]float64, len(cfg.Distances))
		byDW := make(map[float64][]float64, len(cfg.Distances))
		for _, d := range cfg.Distances {
			byDNW[d] = make([]float64, n)
			byDW[d] = make([]float64, n)
		}
		r.Accessibility[c] = struct {
			NonWeighted map[float64][]float64
			Weighted    map[float64][]float64
		}{NonWeighted: byDNW, Weighted: byDW}
	}
	return r
}

// reachPoint is a reachable data point's class code and reach distance
// from the current source, computed once per source and reused across
// every distance threshold.
type reachPoint struct {
	class int32
	reach float64
}

// NewResults pre-allocates a Results sized for n nodes under cfg,
// exposed so callers (e.g. pkg/data's worker pool) can build one Results
// up front and dispatch ComputeSource across goroutines that write into
// its disjoint per-source cells.
func NewResults(cfg Config, n int) *Results {
	return newResults(cfg, n)
}

// Compute runs the land-use aggregation kernel over every eligible
// source node.
func Compute(nodes *graph.NodeMap, idx *graph.EdgeIndex, data *graph.DataMap, cfg Config) (*Results, error) {
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
		computeSource(nodes, idx, data, cfg, mode, maxDist, src, results, &heap)
	}

	return results, nil
}

// ComputeSource runs the aggregation for a single source node, exposed
// for worker-pool dispatch symmetrically with pkg/centrality.ComputeSource.
// heap is reused across calls from the same worker goroutine.
func ComputeSource(nodes *graph.NodeMap, idx *graph.EdgeIndex, data *graph.DataMap, cfg Config, results *Results, src int, heap *spt.MinHeap) {
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
	computeSource(nodes, idx, data, cfg, mode, maxDist, src, results, heap)
}

func computeSource(nodes *graph.NodeMap, idx *graph.EdgeIndex, data *graph.DataMap, cfg Config, mode spt.Mode, maxDist float64, src int, results *Results, heap *spt.MinHeap) {
	trimToFull, fullToTrim := graph.RadialFilter(nodes.X, nodes.Y, nodes.X[src], nodes.Y[src], maxDist)
	tree := spt.BuildWithHeap(heap, nodes, idx, trimToFull, fullToTrim, uint32(src), maxDist, mode)

	dataTrimToFull, _ := graph.RadialFilter(data.X, data.Y, nodes.X[src], nodes.Y[src], maxDist)

	reachable := make([]reachPoint, 0, len(dataTrimToFull))
	for _, pFull := range dataTrimToFull {
		p := int(pFull)
		reach := pointReach(data, p, nodes, fullToTrim, tree)
		if math.IsInf(reach, 1) {
			continue
		}
		reachable = append(reachable, reachPoint{class: data.ClassCode[p], reach: reach})
	}

	for _, d := range cfg.Distances {
		var atD []reachPoint
		for _, rp := range reachable {
			if rp.reach <= d {
				atD = append(atD, rp)
			}
		}
		reduceAtDistance(cfg, results, src, d, atD)
	}
}

// pointReach computes a single data point's reach distance from the
// current source: the segment distance to each assigned anchor node plus
// that node's tree distance, minimised over the two anchors. Returns +Inf
// if neither anchor is reachable within the tree's radius.
func pointReach(data *graph.DataMap, p int, nodes *graph.NodeMap, fullToTrim []float64, tree *spt.Tree) float64 {
	best := math.Inf(1)
	for _, anchor := range [2]float64{data.NearestAssigned[p], data.NextNearestAssigned[p]} {
		if math.IsNaN(anchor) {
			continue
		}
		nodeFull := uint32(anchor)
		nodeTrimF := fullToTrim[nodeFull]
		if math.IsNaN(nodeTrimF) {
			continue
		}
		nodeTrim := int(nodeTrimF)
		if math.IsInf(tree.Distance[nodeTrim], 1) {
			continue
		}
		segDist := geo.Dist(data.X[p], data.Y[p], nodes.X[nodeFull], nodes.Y[nodeFull])
		r := segDist + tree.Distance[nodeTrim]
		if r < best {
			best = r
		}
	}
	return best
}

func reduceAtDistance(cfg Config, results *Results, src int, d float64, pts []reachPoint) {
	betaD := math.Log(WMin) / d

	counts := make(map[int32]float64)
	weighted := make(map[int32]float64)
	totalCount := 0.0
	totalWeight := 0.0
	for _, p := range pts {
		counts[p.class]++
		w := math.Exp(betaD * p.reach)
		weighted[p.class] += w
		totalCount++
		totalWeight += w
	}

	for _, c := range cfg.AccessibilityLabels {
		results.Accessibility[c].NonWeighted[d][src] = counts[c]
		results.Accessibility[c].Weighted[d][src] = weighted[c]
	}

	if len(cfg.HillMetrics) == 0 && len(cfg.OtherMetrics) == 0 {
		return
	}

	props := proportionsFromCounts(counts, totalCount)
	weightedProps := proportionsFromCounts(weighted, totalWeight)

	for _, m := range cfg.HillMetrics {
		for _, q := range cfg.Qs {
			var v float64
			switch m {
			case Hill:
				v = hillNumber(props, q)
			case HillBranchWt:
				v = hillNumber(weightedProps, q)
			case HillPairwiseWt:
				v = hillPairwise(pts, q, betaD, nil)
			case HillPairwiseDisparity:
				v = hillPairwise(pts, q, betaD, cfg.DisparityMatrix)
			}
			results.Hill[m][q][d][src] = v
		}
	}

	for _, m := range cfg.OtherMetrics {
		var v float64
		switch m {
		case Shannon:
			v = stat.Entropy(nonZero(props))
		case GiniSimpson:
			v = giniSimpson(props)
		case RaosPairwiseDisparity:
			v = raosPairwiseDisparity(counts, totalCount, cfg.DisparityMatrix)
		}
		results.Other[m][d][src] = v
	}
}

// proportionsFromCounts normalises a class-code -> count map into
// proportions, using floats.Scale over the flattened value slice rather
// than a per-key division loop.
func proportionsFromCounts(counts map[int32]float64, total float64) map[int32]float64 {
	props := make(map[int32]float64, len(counts))
	if total == 0 {
		return props
	}
	classes := make([]int32, 0, len(counts))
	values := make([]float64, 0, len(counts))
	for c, n := range counts {
		classes = append(classes, c)
		values = append(values, n)
	}
	floats.Scale(1/total, values)
	for i, c := range classes {
		props[c] = values[i]
	}
	return props
}

// nonZero drops zero entries before handing proportions to stat.Entropy,
// which is safe on zeros but this keeps the Map->slice conversion tight.
func nonZero(props map[int32]float64) []float64 {
	out := make([]float64, 0, len(props))
	for _, p := range props {
		if p > 0 {
			out = append(out, p)
		}
	}
	return out
}

// hillNumber computes the classical Hill number of order q over a set of
// class proportions. q = 1 uses the exponential-of-Shannon limit; q = 0
// reduces to the count of classes with non-zero proportion.
func hillNumber(props map[int32]float64, q float64) float64 {
	if len(props) == 0 {
		return 0
	}
	if q == 0 {
		count := 0.0
		for _, p := range props {
			if p > 0 {
				count++
			}
		}
		return count
	}
	if q == 1 {
		var h float64
		for _, p := range props {
			if p > 0 {
				h -= p * math.Log(p)
			}
		}
		return math.Exp(h)
	}
	var sum float64
	for _, p := range props {
		if p > 0 {
			sum += math.Pow(p, q)
		}
	}
	if sum <= 0 {
		return 0
	}
	return math.Pow(sum, 1/(1-q))
}

func giniSimpson(props map[int32]float64) float64 {
	sq := make([]float64, 0, len(props))
	for _, p := range props {
		sq = append(sq, p*p)
	}
	return 1 - floats.Sum(sq)
}

// hillPairwise computes a Rao-quadratic-entropy-generalised Hill number
// over point pairs, weighted by exp(beta_d*(reach_i+reach_j)). disparity
// is nil for the uniform-dissimilarity (hill_pairwise_wt) variant, or a
// class x class dissimilarity matrix for hill_pairwise_disparity.
func hillPairwise(pts []reachPoint, q, betaD float64, disparity [][]float64) float64 {
	n := len(pts)
	if n < 2 {
		return 0
	}

	totalW := 0.0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			totalW += math.Exp(betaD * (pts[i].reach + pts[j].reach))
		}
	}
	if totalW == 0 {
		return 0
	}

	dissimilarity := func(a, b int32) float64 {
		if disparity == nil {
			return 1
		}
		return disparity[a][b]
	}

	if q == 1 {
		var sum float64
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				wij := math.Exp(betaD * (pts[i].reach + pts[j].reach))
				pij := wij / totalW
				dij := dissimilarity(pts[i].class, pts[j].class)
				if pij > 0 && dij > 0 {
					sum -= dij * pij * math.Log(pij)
				}
			}
		}
		return math.Exp(sum)
	}

	var sum float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			wij := math.Exp(betaD * (pts[i].reach + pts[j].reach))
			pij := wij / totalW
			dij := dissimilarity(pts[i].class, pts[j].class)
			if pij > 0 && dij > 0 {
				sum += dij * math.Pow(pij, q)
			}
		}
	}
	if sum <= 0 {
		return 0
	}
	return math.Pow(sum, 1/(1-q))
}

func raosPairwiseDisparity(counts map[int32]float64, total float64, disparity [][]float64) float64 {
	if total == 0 {
		return 0
	}
	var q float64
	for a, na := range counts {
		for b, nb := range counts {
			if a == b {
				continue
			}
			pa, pb := na/total, nb/total
			q += disparity[a][b] * pa * pb
		}
	}
	return q
}
