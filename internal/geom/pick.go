package geom

import (
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Index answers which state lies under a lon/lat point.
type Index struct {
	states []*State
	byName map[string]*State
	bound  orb.Bound
}

func NewIndex(states []*State) *Index {
	idx := &Index{states: states, byName: make(map[string]*State, len(states))}
	for i, s := range states {
		idx.byName[strings.ToLower(s.Name())] = s
		if i == 0 {
			idx.bound = s.Bound
		} else {
			idx.bound = idx.bound.Union(s.Bound)
		}
	}
	return idx
}

func (idx *Index) Len() int { return len(idx.states) }

// States returns the states in draw order.
func (idx *Index) States() []*State { return idx.states }

// Bound covers every state. It is the zero bound for an empty index.
func (idx *Index) Bound() orb.Bound { return idx.bound }

// ByName looks a state up case-insensitively.
func (idx *Index) ByName(name string) *State {
	return idx.byName[strings.ToLower(strings.TrimSpace(name))]
}

// Pick returns the topmost state containing pt, or nil. States drawn later
// are on top.
func (idx *Index) Pick(pt orb.Point) *State {
	for i := len(idx.states) - 1; i >= 0; i-- {
		s := idx.states[i]
		if !s.Bound.Contains(pt) {
			continue
		}
		if planar.MultiPolygonContains(s.Geometry, pt) {
			return s
		}
	}
	return nil
}

// LabelPoint is where a label for s goes when there is no click position:
// the area centroid, or the bound centre when the centroid falls outside.
func LabelPoint(s *State) orb.Point {
	c, area := planar.CentroidArea(s.Geometry)
	if area != 0 && planar.MultiPolygonContains(s.Geometry, c) {
		return c
	}
	return s.Bound.Center()
}
