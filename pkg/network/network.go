// Package network is the centrality façade: it holds the shared
// read-only node/edge arrays and dispatches the centrality aggregation
// kernel across a worker pool, each worker goroutine building the
// shortest-path trees of the source nodes it pulls from a job channel.
package network

import (
	"runtime"
	"sync"

	"netmetrics/pkg/centrality"
	"netmetrics/pkg/errs"
	"netmetrics/pkg/graph"
	"netmetrics/pkg/spt"
)

// Config selects the centrality measures to compute and the worker pool
// shape. Workers <= 0 uses runtime.GOMAXPROCS(0), mirroring
// api.DefaultConfig's MaxConcurrent derivation.
type Config struct {
	Distances []float64
	Metrics   []string
	Angular   bool
	LiveOnly  bool
	// Weighted scales every centrality contribution by the source and
	// target nodes' node_weight, per spec's weighted-variant rule.
	Weighted bool
	Workers  int
}

// DefaultConfig returns a Config with live-only, unweighted sources and
// one worker per GOMAXPROCS.
func DefaultConfig(distances []float64, metrics []string) Config {
	return Config{
		Distances: distances,
		Metrics:   metrics,
		Angular:   false,
		LiveOnly:  true,
		Weighted:  false,
		Workers:   0,
	}
}

// Network is the in-memory centrality façade over a packed node/edge
// graph: the shared immutable arrays plus whatever result tensors the
// most recent ComputeCentralities call produced.
type Network struct {
	NodeUIDs []string
	Nodes    *graph.NodeMap
	Edges    *graph.EdgeMap
	Idx      *graph.EdgeIndex
	Results  *centrality.Results
}

// FromArrays validates and wraps external node/edge arrays into a
// Network, building the CSR edge index once up front. This is the
// graph-preparation collaborator boundary (spec §6's graph_from_arrays).
func FromArrays(nodeUIDs []string, nodes *graph.NodeMap, edges *graph.EdgeMap) (*Network, error) {
	if err := graph.Validate(nodes, edges); err != nil {
		return nil, err
	}
	if len(nodeUIDs) != nodes.Len() {
		return nil, errs.NewValidationError("node_uids length %d does not match node count %d", len(nodeUIDs), nodes.Len())
	}
	idx := graph.BuildEdgeIndex(edges, nodes.Len())
	return &Network{NodeUIDs: nodeUIDs, Nodes: nodes, Edges: edges, Idx: idx}, nil
}

// ComputeCentralities populates the Network's result tensors by
// dispatching one goroutine per worker, each pulling source-node indices
// from a buffered job channel and writing only to its own disjoint
// results[*][*][src] cells — the channel-of-jobs/sync.WaitGroup shape,
// each worker pooling its own reusable spt.MinHeap across jobs the way
// a query-state pool would.
func (n *Network) ComputeCentralities(cfg Config) error {
	ccfg, err := centrality.NewConfig(cfg.Distances, cfg.Metrics, cfg.Angular, cfg.LiveOnly, cfg.Weighted)
	if err != nil {
		return err
	}

	results := centrality.NewResults(ccfg, n.Nodes.Len())

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	numNodes := n.Nodes.Len()
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
				centrality.ComputeSource(n.Nodes, n.Idx, ccfg, results, src, &heap)
			}
		}()
	}

	for src := 0; src < numNodes; src++ {
		if ccfg.LiveOnly && !n.Nodes.Live[src] {
			continue
		}
		jobs <- src
	}
	close(jobs)
	wg.Wait()

	n.Results = results
	return nil
}

// MetricsToDict marshals the most recent centrality results into a
// generic nested map, the Go analogue of the reference's metrics dict.
func (n *Network) MetricsToDict() map[string]any {
	out := make(map[string]any, len(n.Results.Values))
	for metric, byDist := range n.Results.Values {
		out[metric] = byDist
	}
	return out
}
