package geom

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// State is one named region of the dataset.
type State struct {
	name       string
	Properties geojson.Properties
	Geometry   orb.MultiPolygon
	Bound      orb.Bound
}

func NewState(name string, g orb.MultiPolygon, props geojson.Properties) *State {
	if props == nil {
		props = geojson.Properties{}
	}
	return &State{name: name, Properties: props, Geometry: g, Bound: g.Bound()}
}

func (s *State) Name() string { return s.name }

// Vertices counts ring points across all polygons.
func (s *State) Vertices() int {
	n := 0
	for _, poly := range s.Geometry {
		for _, ring := range poly {
			n += len(ring)
		}
	}
	return n
}
