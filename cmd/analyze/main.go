package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"netmetrics/pkg/data"
	"netmetrics/pkg/network"
)

func main() {
	graphPath := flag.String("graph", "", "Path to a packed node/edge graph JSON file")
	dataPath := flag.String("data", "", "Path to a packed data-point JSON file (optional; enables land-use aggregation)")
	distancesFlag := flag.String("distances", "400,800,1600", "Comma-separated walking-distance thresholds")
	metricsFlag := flag.String("metrics", "node_density,harmonic_closeness,gravity,betweenness", "Comma-separated centrality metrics")
	mixedUseFlag := flag.String("mixed-use-metrics", "hill,hill_branch_wt,shannon", "Comma-separated land-use diversity metrics")
	qsFlag := flag.String("qs", "0,1,2", "Comma-separated Hill number orders")
	maxAssignDist := flag.Float64("max-assign-dist", 400, "Maximum distance for assigning a data point onto the network")
	angular := flag.Bool("angular", false, "Use angular (simplest-path) impedance instead of metric distance")
	weighted := flag.Bool("weighted", false, "Scale metrics by each node's node_weight (node mass)")
	workers := flag.Int("workers", 0, "Worker pool size (0 = GOMAXPROCS)")
	flag.Parse()

	if *graphPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: analyze --graph <graph.json> [--data data.json] [--distances 400,800] [--metrics node_density,gravity]")
		os.Exit(1)
	}

	start := time.Now()

	log.Printf("Loading graph from %s...", *graphPath)
	net, err := network.LoadJSON(*graphPath)
	if err != nil {
		log.Fatalf("Failed to load graph: %v", err)
	}
	log.Printf("Loaded: %d nodes, %d directed edges", net.Nodes.Len(), net.Edges.Len())

	distances := parseFloats(*distancesFlag)
	metrics := parseStrings(*metricsFlag)

	log.Println("Computing centrality measures...")
	cfg := network.DefaultConfig(distances, metrics)
	cfg.Angular = *angular
	cfg.Weighted = *weighted
	cfg.Workers = *workers
	if err := net.ComputeCentralities(cfg); err != nil {
		log.Fatalf("Failed to compute centralities: %v", err)
	}

	summary := map[string]any{
		"num_nodes":  net.Nodes.Len(),
		"num_edges":  net.Edges.Len(),
		"centrality": net.MetricsToDict(),
	}

	if *dataPath != "" {
		log.Printf("Loading data points from %s...", *dataPath)
		points, labels, err := data.LoadJSON(*dataPath)
		if err != nil {
			log.Fatalf("Failed to load data points: %v", err)
		}

		log.Println("Assigning data points onto the network...")
		if err := points.AssignToNetwork(net, *maxAssignDist); err != nil {
			log.Fatalf("Failed to assign data points: %v", err)
		}

		log.Println("Computing land-use diversity measures...")
		landuseCfg := data.DefaultLanduseConfig(distances, parseFloats(*qsFlag), parseStrings(*mixedUseFlag), nil)
		landuseCfg.Angular = *angular
		landuseCfg.Workers = *workers
		if err := points.ComputeLanduses(net, labels, landuseCfg); err != nil {
			log.Fatalf("Failed to compute land-uses: %v", err)
		}

		summary["num_data_points"] = points.Points.Len()
		summary["landuse_classes"] = points.Classes
		summary["hill"] = points.Results.Hill
		summary["other_diversity"] = points.Results.Other
	}

	elapsed := time.Since(start)
	log.Printf("Done in %s", elapsed.Round(time.Millisecond))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		log.Fatalf("Failed to encode summary: %v", err)
	}
}

func parseStrings(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

func parseFloats(csv string) []float64 {
	parts := parseStrings(csv)
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		var v float64
		if _, err := fmt.Sscanf(p, "%f", &v); err != nil {
			log.Fatalf("Invalid number %q: %v", p, err)
		}
		out = append(out, v)
	}
	return out
}
