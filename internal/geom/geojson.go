package geom

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ParseStates decodes a GeoJSON FeatureCollection (or a single Feature) into
// states. Features without polygon geometry are skipped.
func ParseStates(data []byte) ([]*State, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("parse geojson: %w", err)
	}
	var features []*geojson.Feature
	switch head.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, fmt.Errorf("parse feature collection: %w", err)
		}
		features = fc.Features
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, fmt.Errorf("parse feature: %w", err)
		}
		features = []*geojson.Feature{f}
	case "":
		return nil, errors.New("invalid geojson: missing type")
	default:
		return nil, errors.New("unsupported geojson type: " + head.Type)
	}

	states := make([]*State, 0, len(features))
	for i, f := range features {
		if f == nil {
			continue
		}
		var mp orb.MultiPolygon
		switch g := f.Geometry.(type) {
		case orb.Polygon:
			mp = orb.MultiPolygon{g}
		case orb.MultiPolygon:
			mp = g
		default:
			continue
		}
		if len(mp) == 0 {
			continue
		}
		states = append(states, NewState(featureName(f, i), mp, f.Properties))
	}
	if len(states) == 0 {
		return nil, errors.New("no polygon features found")
	}
	return states, nil
}

func featureName(f *geojson.Feature, i int) string {
	if name, ok := f.Properties["name"].(string); ok && name != "" {
		return name
	}
	switch id := f.ID.(type) {
	case string:
		if id != "" {
			return id
		}
	case float64:
		return fmt.Sprintf("%g", id)
	}
	return fmt.Sprintf("feature %d", i+1)
}
