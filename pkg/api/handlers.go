package api

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"

	"netmetrics/pkg/data"
	"netmetrics/pkg/errs"
	"netmetrics/pkg/network"
)

// Handlers holds the HTTP handlers and the pre-loaded network/data they
// operate over — the JSON-over-HTTP analogue of the reference library's
// in-process compute_centrality/compute_landuses calls.
type Handlers struct {
	net    *network.Network
	points *data.Data
	labels []string
	stats  StatsResponse
}

// NewHandlers creates handlers bound to a pre-loaded network and, if
// points is non-nil, a pre-loaded and pre-assigned data layer.
func NewHandlers(net *network.Network, points *data.Data, labels []string, stats StatsResponse) *Handlers {
	return &Handlers{net: net, points: points, labels: labels, stats: stats}
}

// HandleCentrality handles POST /api/v1/centrality.
func (h *Handlers) HandleCentrality(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r) {
		return
	}

	var req CentralityRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}

	cfg := network.Config{
		Distances: req.Distances,
		Metrics:   req.Metrics,
		Angular:   req.Angular,
		LiveOnly:  req.LiveOnly,
		Weighted:  req.Weighted,
	}
	if err := h.net.ComputeCentralities(cfg); err != nil {
		writeComputeError(w, err)
		return
	}

	resp := CentralityResponse{Values: make(map[string]map[string]map[string]float64, len(req.Metrics))}
	for metric, byDist := range h.net.Results.Values {
		resp.Values[metric] = byDistByUID(byDist, h.net.NodeUIDs)
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleLanduses handles POST /api/v1/landuses.
func (h *Handlers) HandleLanduses(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r) {
		return
	}
	if h.points == nil {
		writeError(w, http.StatusUnprocessableEntity, "no_data_layer_loaded", "")
		return
	}

	var req LanduseRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}

	cfg := data.LanduseConfig{
		Distances:           req.Distances,
		Qs:                  req.Qs,
		MixedUseMetrics:     req.MixedUseMetrics,
		AccessibilityLabels: req.AccessibilityLabels,
		Disparity:           data.DisparityMatrix(req.Disparity),
		Angular:             req.Angular,
		LiveOnly:            req.LiveOnly,
	}
	if err := h.points.ComputeLanduses(h.net, h.labels, cfg); err != nil {
		writeComputeError(w, err)
		return
	}

	resp := LanduseResponse{
		Hill:          make(map[string]map[string]map[string]map[string]float64, len(h.points.Results.Hill)),
		Other:         make(map[string]map[string]map[string]float64, len(h.points.Results.Other)),
		Accessibility: make(map[string]ClassAccessibility, len(h.points.Results.Accessibility)),
	}
	for metric, byQ := range h.points.Results.Hill {
		byQOut := make(map[string]map[string]map[string]float64, len(byQ))
		for q, byDist := range byQ {
			byQOut[formatKey(q)] = byDistByUID(byDist, h.net.NodeUIDs)
		}
		resp.Hill[metric] = byQOut
	}
	for metric, byDist := range h.points.Results.Other {
		resp.Other[metric] = byDistByUID(byDist, h.net.NodeUIDs)
	}
	for code, acc := range h.points.Results.Accessibility {
		label := classLabel(h.points.Classes, code)
		resp.Accessibility[label] = ClassAccessibility{
			NonWeighted: byDistByUID(acc.NonWeighted, h.net.NodeUIDs),
			Weighted:    byDistByUID(acc.Weighted, h.net.NodeUIDs),
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// HandleStats handles GET /api/v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.stats)
}

func byDistByUID(byDist map[float64][]float64, uids []string) map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(byDist))
	for d, values := range byDist {
		byUID := make(map[string]float64, len(values))
		for i, v := range values {
			byUID[uids[i]] = v
		}
		out[formatKey(d)] = byUID
	}
	return out
}

func classLabel(classes []string, code int32) string {
	if int(code) < 0 || int(code) >= len(classes) {
		return strconv.FormatInt(int64(code), 10)
	}
	return classes[code]
}

func formatKey(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func requireJSON(w http.ResponseWriter, r *http.Request) bool {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return false
	}
	return true
}

// writeComputeError maps the pkg/errs error kinds onto HTTP status codes.
func writeComputeError(w http.ResponseWriter, err error) {
	var usage *errs.UsageError
	var validation *errs.ValidationError
	var missing *errs.MissingAttributeError
	switch {
	case errors.As(err, &usage):
		writeError(w, http.StatusUnprocessableEntity, "usage_error", "")
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, "validation_error", "")
	case errors.As(err, &missing):
		writeError(w, http.StatusBadRequest, "missing_attribute_error", missing.Attr)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, field string) {
	writeJSON(w, status, ErrorResponse{Error: code, Field: field})
}
