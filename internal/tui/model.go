package tui

import (
	"context"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb"

	"statemap/internal/config"
	"statemap/internal/geom"
	"statemap/internal/selection"
)

const loadFailedText = "Failed to load the map data. Press r to retry."

// Loader supplies the states once at startup.
type Loader interface {
	Load(ctx context.Context) ([]*geom.State, error)
}

type statesLoadedMsg struct {
	states []*geom.State
	err    error
}

type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool

	zoom    float64
	offsetX int
	offsetY int

	status string

	cfg     *config.Config
	loader  Loader
	loading bool
	alert   string

	// Data
	index *geom.Index
	view  orb.Bound

	// selection and the renderer it drives; pointers so copies of the
	// model share them
	ctrl  *selection.Controller
	layer *mapLayer

	// states sidebar
	l list.Model

	// attributes table
	showAttrs bool
	tbl       table.Model
	tblStates []*geom.State

	// inspect popup
	inspectPopup string

	// state to select once the dataset arrives
	pendingSelect string

	// pointer, in screen cells
	pointerX    int
	pointerY    int
	hasPointer  bool
	hoverHasGeo bool
	hoverLon    float64
	hoverLat    float64
}

func New(cfg *config.Config, loader Loader) Model {
	m := Model{
		helpVisible: true,
		zoom:        1.0,
		status:      "loading states…",
		cfg:         cfg,
		loader:      loader,
		loading:     true,
		layer:       newMapLayer(),
	}
	// list setup
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "States"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	// attributes table setup (columns will be inferred per dataset)
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	return m
}

// SelectOnLoad selects the named state as soon as the dataset is loaded.
func (m Model) SelectOnLoad(name string) Model {
	m.pendingSelect = name
	return m
}

func (m Model) Init() tea.Cmd { return m.loadCmd() }

func (m Model) loadCmd() tea.Cmd {
	loader := m.loader
	timeout := m.cfg.Dataset.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		states, err := loader.Load(ctx)
		return statesLoadedMsg{states: states, err: err}
	}
}

// setStates wires a freshly loaded dataset to a new controller.
func (m *Model) setStates(states []*geom.State) {
	m.index = geom.NewIndex(states)
	m.layer = newMapLayer()
	features := make([]selection.Feature, len(states))
	for i, s := range states {
		features[i] = s
	}
	m.ctrl = selection.New(m.layer, features, m.cfg.Styles)
	m.resetView()
	m.refreshStateList()
	m.refreshAttrs()
}

// resetView restores the configured extent, or the dataset extent when none is set.
func (m *Model) resetView() {
	m.zoom = 1.0
	m.offsetX, m.offsetY = 0, 0
	v := m.cfg.View
	if !v.IsZero() {
		m.view = orb.Bound{Min: orb.Point{v.MinLon, v.MinLat}, Max: orb.Point{v.MaxLon, v.MaxLat}}
		return
	}
	if m.index != nil {
		m.view = m.index.Bound()
	}
}

// selectedState returns the selected state or nil.
func (m Model) selectedState() *geom.State {
	if m.ctrl == nil {
		return nil
	}
	s, _ := m.ctrl.Selected().(*geom.State)
	return s
}

func (m Model) hoveredState() *geom.State {
	if m.ctrl == nil {
		return nil
	}
	s, _ := m.ctrl.Hovered().(*geom.State)
	return s
}
