// Package selection tracks which state is hovered and which one is selected,
// and tells the map renderer how to paint them.
package selection

import (
	"github.com/paulmach/orb"
	"github.com/rs/zerolog/log"
)

// Feature is a named region owned by the renderer. Implementations must be
// comparable (pointer types are).
type Feature interface {
	Name() string
}

// Cursor is the pointer indicator mode.
type Cursor int

const (
	CursorDefault Cursor = iota
	CursorInteractive
)

func (c Cursor) String() string {
	if c == CursorInteractive {
		return "interactive"
	}
	return "default"
}

// LabelID identifies a label placed on the map.
type LabelID int

// Renderer is the map service the controller drives.
type Renderer interface {
	SetStyle(f Feature, s StyleSpec)
	AddLabel(pos orb.Point, text string) LabelID
	RemoveLabel(id LabelID)
	SetCursor(c Cursor)
}

// Controller turns pointer events into style and label commands.
// It holds at most one selected feature and at most one label.
// It is not safe for concurrent use; callers serialize events.
type Controller struct {
	r        Renderer
	resolver Resolver
	features []Feature

	selected Feature
	hovered  Feature

	label    LabelID
	hasLabel bool

	applied map[Feature]StyleSpec
}

// New creates a controller for features and paints each one with the base style.
func New(r Renderer, features []Feature, styles Styles) *Controller {
	c := &Controller{
		r:        r,
		resolver: NewResolver(styles),
		features: features,
		applied:  make(map[Feature]StyleSpec, len(features)),
	}
	for _, f := range features {
		c.apply(f)
	}
	return c
}

// Selected returns the selected feature or nil.
func (c *Controller) Selected() Feature { return c.selected }

// Hovered returns the feature under the pointer or nil.
func (c *Controller) Hovered() Feature { return c.hovered }

// Label returns the current label, if any.
func (c *Controller) Label() (LabelID, bool) { return c.label, c.hasLabel }

// StyleOf returns the resolved style of f.
func (c *Controller) StyleOf(f Feature) StyleSpec {
	return c.resolver.Resolve(f != nil && f == c.hovered, f != nil && f == c.selected)
}

// OnPointerMove handles the pointer moving over f, or over no feature when f is nil.
// It never changes the selection.
func (c *Controller) OnPointerMove(f Feature) {
	prev := c.hovered
	c.hovered = f
	if f == nil {
		c.r.SetCursor(CursorDefault)
		for _, ft := range c.features {
			c.apply(ft)
		}
		if prev != nil {
			c.apply(prev)
		}
		return
	}
	if prev != nil && prev != f {
		c.apply(prev)
	}
	c.apply(f)
	c.r.SetCursor(CursorInteractive)
}

// OnClick handles a click on f at pos. A nil f clears the selection. A nil pos
// selects without a label.
func (c *Controller) OnClick(f Feature, pos *orb.Point) {
	prev := c.selected
	c.selected = f
	if prev != nil && prev != f {
		c.apply(prev)
	}
	c.removeLabel()
	if f == nil {
		if prev != nil {
			log.Debug().Str("state", prev.Name()).Msg("Selection cleared")
		}
		return
	}
	c.apply(f)
	if pos != nil {
		c.label = c.r.AddLabel(*pos, f.Name())
		c.hasLabel = true
	}
	log.Debug().
		Str("state", f.Name()).
		Bool("label", c.hasLabel).
		Msg("State selected")
}

func (c *Controller) removeLabel() {
	if !c.hasLabel {
		return
	}
	c.r.RemoveLabel(c.label)
	c.hasLabel = false
}

// apply pushes the resolved style of f to the renderer when it changed.
func (c *Controller) apply(f Feature) {
	s := c.StyleOf(f)
	if cur, ok := c.applied[f]; ok && cur == s {
		return
	}
	c.applied[f] = s
	c.r.SetStyle(f, s)
}
