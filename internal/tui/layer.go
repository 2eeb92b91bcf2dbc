package tui

import (
	"github.com/paulmach/orb"

	"statemap/internal/selection"
)

type mapLabel struct {
	pos  orb.Point
	text string
}

// mapLayer is the renderer side of the selection controller: it records the
// commands and the canvas draws from them.
type mapLayer struct {
	styles map[selection.Feature]selection.StyleSpec
	labels map[selection.LabelID]mapLabel
	order  []selection.LabelID
	next   selection.LabelID
	cursor selection.Cursor
}

func newMapLayer() *mapLayer {
	return &mapLayer{
		styles: make(map[selection.Feature]selection.StyleSpec),
		labels: make(map[selection.LabelID]mapLabel),
	}
}

func (l *mapLayer) SetStyle(f selection.Feature, s selection.StyleSpec) {
	l.styles[f] = s
}

func (l *mapLayer) AddLabel(pos orb.Point, text string) selection.LabelID {
	l.next++
	l.labels[l.next] = mapLabel{pos: pos, text: text}
	l.order = append(l.order, l.next)
	return l.next
}

func (l *mapLayer) RemoveLabel(id selection.LabelID) {
	delete(l.labels, id)
	for i, o := range l.order {
		if o == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

func (l *mapLayer) SetCursor(c selection.Cursor) { l.cursor = c }

func (l *mapLayer) styleOf(f selection.Feature, def selection.StyleSpec) selection.StyleSpec {
	if s, ok := l.styles[f]; ok {
		return s
	}
	return def
}

// visibleLabels returns labels in placement order.
func (l *mapLayer) visibleLabels() []mapLabel {
	out := make([]mapLabel, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.labels[id])
	}
	return out
}
