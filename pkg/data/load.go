package data

import (
	"encoding/json"
	"os"

	"netmetrics/pkg/errs"
	"netmetrics/pkg/graph"
)

// fileFormat is the on-disk JSON representation of a packed set of data
// points plus their raw land-use labels.
type fileFormat struct {
	DataUIDs []string `json:"data_uids"`
	Points   struct {
		X    []float64 `json:"x"`
		Y    []float64 `json:"y"`
		Live []bool    `json:"live"`
	} `json:"points"`
	Labels []string `json:"labels"`
}

// requiredTopLevel and requiredPointAttrs are the JSON keys LoadJSON
// demands before attempting the typed decode, so a column dropped by the
// external data-preparation collaborator is reported as a
// MissingAttributeError rather than silently zero-valued by
// encoding/json.
var (
	requiredTopLevel   = []string{"data_uids", "points", "labels"}
	requiredPointAttrs = []string{"x", "y", "live"}
)

// LoadJSON reads a packed data-point set from path, building a Data and
// returning its raw (un-encoded) land-use labels alongside it.
func LoadJSON(path string) (d *Data, labels []string, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errs.NewValidationError("data: reading %s: %v", path, err)
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, nil, errs.NewValidationError("data: parsing %s: %v", path, err)
	}
	if err := requireKeys(top, requiredTopLevel); err != nil {
		return nil, nil, err
	}
	var pointAttrs map[string]json.RawMessage
	if err := json.Unmarshal(top["points"], &pointAttrs); err != nil {
		return nil, nil, errs.NewValidationError("data: parsing %s: points: %v", path, err)
	}
	if err := requireKeys(pointAttrs, requiredPointAttrs); err != nil {
		return nil, nil, err
	}

	var ff fileFormat
	if err := json.Unmarshal(raw, &ff); err != nil {
		return nil, nil, errs.NewValidationError("data: parsing %s: %v", path, err)
	}

	points := graph.NewDataMap(ff.Points.X, ff.Points.Y, ff.Points.Live)
	d, err = FromArrays(ff.DataUIDs, points)
	if err != nil {
		return nil, nil, err
	}
	return d, ff.Labels, nil
}

// requireKeys returns a *errs.MissingAttributeError for the first attr in
// attrs absent from present.
func requireKeys(present map[string]json.RawMessage, attrs []string) error {
	for _, attr := range attrs {
		if _, ok := present[attr]; !ok {
			return errs.NewMissingAttributeError(attr)
		}
	}
	return nil
}
