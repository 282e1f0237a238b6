// Package data is the assignment + land-use façade: it holds the data
// points' shared read-only arrays, their assignment onto a network, and
// dispatches the land-use aggregation kernel across a worker pool.
package data

import (
	"runtime"
	"sort"
	"sync"

	"netmetrics/pkg/assign"
	"netmetrics/pkg/diversity"
	"netmetrics/pkg/errs"
	"netmetrics/pkg/graph"
	"netmetrics/pkg/network"
	"netmetrics/pkg/spt"
)

// DisparityMatrix is a class x class dissimilarity matrix, indexed by the
// encoded class codes EncodeCategorical produces.
type DisparityMatrix [][]float64

// LanduseConfig selects the land-use aggregation to run. MixedUseMetrics
// is the combined Hill-family and "other" diversity metric names list,
// matching the reference's single mixed_use_metrics argument; ComputeLanduses
// partitions it internally.
type LanduseConfig struct {
	Distances           []float64
	Qs                  []float64
	MixedUseMetrics     []string
	AccessibilityLabels []string
	Disparity           DisparityMatrix
	Angular             bool
	LiveOnly            bool
	Workers             int
}

// DefaultLanduseConfig returns a LanduseConfig with live-only sources and
// one worker per GOMAXPROCS.
func DefaultLanduseConfig(distances, qs []float64, mixedUseMetrics, accessibilityLabels []string) LanduseConfig {
	return LanduseConfig{
		Distances: distances, Qs: qs, MixedUseMetrics: mixedUseMetrics,
		AccessibilityLabels: accessibilityLabels, Angular: false, LiveOnly: true, Workers: 0,
	}
}

// Data is the data-point façade: the shared point arrays, the class
// label list (once EncodeCategorical/ComputeLanduses has run), and the
// most recent land-use Results.
type Data struct {
	DataUIDs []string
	Points   *graph.DataMap
	Classes  []string // sorted unique labels; Classes[code] recovers the original label
	assigned bool
	Results  *diversity.Results
}

// FromArrays wraps external data-point arrays into a Data, validating
// the parallel uid/point array lengths agree.
func FromArrays(dataUIDs []string, points *graph.DataMap) (*Data, error) {
	if len(dataUIDs) != points.Len() {
		return nil, errs.NewValidationError("data_uids length %d does not match data point count %d", len(dataUIDs), points.Len())
	}
	return &Data{DataUIDs: dataUIDs, Points: points}, nil
}

// EncodeCategorical sorts the unique labels ascending and maps each to
// its index, per spec §6's categorical-encoding contract.
func EncodeCategorical(labels []string) (codes []int32, classes []string) {
	seen := make(map[string]bool)
	for _, l := range labels {
		seen[l] = true
	}
	classes = make([]string, 0, len(seen))
	for l := range seen {
		classes = append(classes, l)
	}
	sort.Strings(classes)

	index := make(map[string]int32, len(classes))
	for i, c := range classes {
		index[c] = int32(i)
	}

	codes = make([]int32, len(labels))
	for i, l := range labels {
		codes[i] = index[l]
	}
	return codes, classes
}

// DecodeCategorical maps encoded class codes back to their original
// labels using the class list EncodeCategorical produced.
func DecodeCategorical(codes []int32, classes []string) []string {
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = classes[c]
	}
	return out
}

// AssignToNetwork runs the assignment kernel for every data point
// against net, writing the nearest/next-nearest anchor columns.
func (d *Data) AssignToNetwork(net *network.Network, maxAssignDist float64) error {
	for p := 0; p < d.Points.Len(); p++ {
		a := assign.Point(d.Points.X[p], d.Points.Y[p], net.Nodes, net.Idx, maxAssignDist)
		d.Points.NearestAssigned[p] = a.Nearest
		d.Points.NextNearestAssigned[p] = a.NextNearest
	}
	d.assigned = true
	return nil
}

// ComputeLanduses runs the land-use aggregation kernel against net.
// labels is the raw per-point land-use label; it is re-encoded into class
// codes (and d.Classes) on every call. Returns a UsageError if assignment has not
// yet been performed.
func (d *Data) ComputeLanduses(net *network.Network, labels []string, cfg LanduseConfig) error {
	if !d.assigned {
		return errs.NewUsageError("data: compute_landuses called before assign_to_network")
	}
	if len(labels) != d.Points.Len() {
		return errs.NewValidationError("labels length %d does not match data point count %d", len(labels), d.Points.Len())
	}

	codes, classes := EncodeCategorical(labels)
	for i, c := range codes {
		d.Points.ClassCode[i] = c
	}
	d.Classes = classes

	var hillMetrics, otherMetrics []string
	for _, m := range cfg.MixedUseMetrics {
		switch {
		case diversity.IsHillMetric(m):
			hillMetrics = append(hillMetrics, m)
		case diversity.IsOtherMetric(m):
			otherMetrics = append(otherMetrics, m)
		default:
			return errs.NewUsageError("data: unrecognised mixed-use metric %q", m)
		}
	}

	accessCodes, err := encodeAccessibilityLabels(cfg.AccessibilityLabels, classes)
	if err != nil {
		return err
	}

	dcfg, err := diversity.NewConfig(cfg.Distances, cfg.Qs, hillMetrics, otherMetrics, accessCodes, [][]float64(cfg.Disparity), len(classes), cfg.Angular, cfg.LiveOnly)
	if err != nil {
		return err
	}

	results, err := computeLandusesConcurrent(net, d.Points, dcfg, cfg.Workers)
	if err != nil {
		return err
	}
	d.Results = results
	return nil
}

func encodeAccessibilityLabels(labels []string, classes []string) ([]int32, error) {
	if len(labels) == 0 {
		return nil, nil
	}
	index := make(map[string]int32, len(classes))
	for i, c := range classes {
		index[c] = int32(i)
	}
	codes := make([]int32, len(labels))
	for i, l := range labels {
		c, ok := index[l]
		if !ok {
			return nil, errs.NewUsageError("data: accessibility label %q never appears in the supplied landuse labels", l)
		}
		codes[i] = c
	}
	return codes, nil
}

// computeLandusesConcurrent dispatches one goroutine per worker over
// source nodes, the same channel-of-jobs/sync.WaitGroup shape as
// network.Network.ComputeCentralities.
func computeLandusesConcurrent(net *network.Network, points *graph.DataMap, cfg diversity.Config, workers int) (*diversity.Results, error) {
	numNodes := net.Nodes.Len()
	results := diversity.NewResults(cfg, numNodes)

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > numNodes {
		workers = numNodes
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var heap spt.MinHeap
			for src := range jobs {
				diversity.ComputeSource(net.Nodes, net.Idx, points, cfg, results, src, &heap)
			}
		}()
	}

	for src := 0; src < numNodes; src++ {
		if cfg.LiveOnly && !net.Nodes.Live[src] {
			continue
		}
		jobs <- src
	}
	close(jobs)
	wg.Wait()

	return results, nil
}
