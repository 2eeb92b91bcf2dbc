package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"

	"statemap/internal/config"
	"statemap/internal/dataset"
	"statemap/internal/geom"
	"statemap/internal/selection"
)

const statesJSON = `{"type": "FeatureCollection", "features": [
  {"type": "Feature", "properties": {"name": "Texas", "density": 98.07},
   "geometry": {"type": "Polygon", "coordinates": [[[0,0],[8,0],[8,10],[0,10],[0,0]]]}},
  {"type": "Feature", "properties": {"name": "Ohio", "density": 281.9},
   "geometry": {"type": "Polygon", "coordinates": [[[12,0],[20,0],[20,10],[12,10],[12,0]]]}}
]}`

type fakeLoader struct {
	states []*geom.State
	err    error
	calls  int
}

func (f *fakeLoader) Load(ctx context.Context) ([]*geom.State, error) {
	f.calls++
	return f.states, f.err
}

func testStates(t *testing.T) []*geom.State {
	t.Helper()
	states, err := geom.ParseStates([]byte(statesJSON))
	require.NoError(t, err)
	return states
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// loadedModel returns a sized model with Texas (lon 0..8) and Ohio
// (lon 12..20) in view and a gap between them.
func loadedModel(t *testing.T) (Model, []*geom.State) {
	t.Helper()
	cfg := config.Default()
	cfg.View = config.View{}
	states := testStates(t)
	m := New(cfg, &fakeLoader{states: states})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 62, Height: 23})
	m, _ = update(t, m, statesLoadedMsg{states: states})
	return m, states
}

// screenAt returns the terminal cell showing lon/lat.
func screenAt(m Model, lon, lat float64) (int, int) {
	lay := m.layout()
	mx, my, _ := m.screenXYMicro(lon, lat, lay.mapW, lay.mapH)
	return lay.mapX + mx/2, lay.mapY + my/4
}

func click(m Model, lon, lat float64) tea.MouseMsg {
	x, y := screenAt(m, lon, lat)
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func move(m Model, lon, lat float64) tea.MouseMsg {
	x, y := screenAt(m, lon, lat)
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone}
}

func mapText(m Model) string {
	lay := m.layout()
	return m.renderMap(lay.mapW, lay.mapH).String()
}

func TestInitLoadsStates(t *testing.T) {
	states := testStates(t)
	loader := &fakeLoader{states: states}
	m := New(config.Default(), loader)

	msg := m.Init()()
	loaded, ok := msg.(statesLoadedMsg)
	require.True(t, ok)
	require.Len(t, loaded.states, 2)
	require.Equal(t, 1, loader.calls)

	m, _ = update(t, m, loaded)
	require.False(t, m.loading)
	require.Equal(t, 2, m.index.Len())
	require.Equal(t, "loaded 2 states", m.status)
}

func TestClickScenario(t *testing.T) {
	m, states := loadedModel(t)
	texas, ohio := states[0], states[1]

	m, _ = update(t, m, click(m, 4, 5))
	require.Same(t, texas, m.selectedState())
	require.Equal(t, selection.HighlightStyle, m.layer.styles[texas])
	require.Len(t, m.layer.labels, 1)
	require.Contains(t, mapText(m), "Texas")

	m, _ = update(t, m, click(m, 16, 5))
	require.Same(t, ohio, m.selectedState())
	require.Equal(t, selection.DefaultStyle, m.layer.styles[texas])
	require.Equal(t, selection.HighlightStyle, m.layer.styles[ohio])
	require.Len(t, m.layer.labels, 1)
	text := mapText(m)
	require.Contains(t, text, "Ohio")
	require.NotContains(t, text, "Texas")

	m, _ = update(t, m, click(m, 10, 5))
	require.Nil(t, m.selectedState())
	require.Equal(t, selection.DefaultStyle, m.layer.styles[ohio])
	require.Empty(t, m.layer.labels)
	require.NotContains(t, mapText(m), "Ohio")
}

func TestClickSameStateTwice(t *testing.T) {
	m, states := loadedModel(t)
	m, _ = update(t, m, click(m, 4, 5))
	m, _ = update(t, m, click(m, 4, 5))
	require.Same(t, states[0], m.selectedState())
	require.Len(t, m.layer.labels, 1)
	require.Equal(t, 1, strings.Count(mapText(m), "Texas"))
}

func TestHover(t *testing.T) {
	m, states := loadedModel(t)
	texas, ohio := states[0], states[1]
	m, _ = update(t, m, click(m, 4, 5))

	m, _ = update(t, m, move(m, 16, 5))
	require.Same(t, ohio, m.hoveredState())
	require.Equal(t, selection.CursorInteractive, m.layer.cursor)
	require.Equal(t, selection.HoverStyle, m.layer.styles[ohio])
	require.True(t, m.hoverHasGeo)
	require.Contains(t, m.View(), "☛")

	m, _ = update(t, m, move(m, 10, 5))
	require.Nil(t, m.hoveredState())
	require.Equal(t, selection.CursorDefault, m.layer.cursor)
	require.Equal(t, selection.DefaultStyle, m.layer.styles[ohio])
	require.Equal(t, selection.HighlightStyle, m.layer.styles[texas])

	m, _ = update(t, m, move(m, 16, 5))
	// the header row is not part of the map
	m, _ = update(t, m, tea.MouseMsg{X: 5, Y: 0, Action: tea.MouseActionMotion})
	require.Nil(t, m.hoveredState())
	require.False(t, m.hoverHasGeo)
	require.Equal(t, selection.DefaultStyle, m.layer.styles[ohio])
	require.Same(t, texas, m.selectedState())
}

func TestLoadErrorShowsOneAlert(t *testing.T) {
	states := testStates(t)
	loader := &fakeLoader{err: &dataset.LoadError{Source: "http://example", Err: errors.New("status 500")}}
	m := New(config.Default(), loader)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	m, _ = update(t, m, m.Init()())

	require.Equal(t, loadFailedText, m.alert)
	require.Nil(t, m.index)
	require.Equal(t, 1, strings.Count(m.View(), "Failed to load the map data"))

	m, _ = update(t, m, tea.MouseMsg{X: 20, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m, _ = update(t, m, tea.MouseMsg{X: 21, Y: 10, Action: tea.MouseActionMotion})
	require.Nil(t, m.selectedState())
	require.Empty(t, m.layer.labels)
	require.Empty(t, m.layer.styles)

	loader.err = nil
	loader.states = states
	m, cmd := update(t, m, key("r"))
	require.NotNil(t, cmd)
	require.Empty(t, m.alert)
	m, _ = update(t, m, cmd())
	require.Equal(t, 2, m.index.Len())
	require.Equal(t, 2, loader.calls)
}

func TestAlertDismiss(t *testing.T) {
	m := New(config.Default(), &fakeLoader{})
	m, _ = update(t, m, statesLoadedMsg{err: errors.New("offline")})
	require.NotEmpty(t, m.alert)
	m, _ = update(t, m, key("esc"))
	require.Empty(t, m.alert)
}

func TestSelectFromSidebar(t *testing.T) {
	m, states := loadedModel(t)
	m, _ = update(t, m, key("tab"))
	require.True(t, m.showSidebar)

	// items are sorted by name, Ohio first
	m, _ = update(t, m, key("enter"))
	require.Same(t, states[1], m.selectedState())
	id, ok := m.ctrl.Label()
	require.True(t, ok)
	require.Equal(t, geom.LabelPoint(states[1]), m.layer.labels[id].pos)
	require.Equal(t, "selected: Ohio", m.status)
}

func TestSelectFromAttributes(t *testing.T) {
	m, states := loadedModel(t)
	m, _ = update(t, m, key("a"))
	require.True(t, m.showAttrs)
	require.Equal(t, "name", m.tbl.Columns()[1].Title)
	require.Len(t, m.tbl.Rows(), 2)

	// the map is covered: pointer events are ignored
	m, _ = update(t, m, click(m, 16, 5))
	require.Nil(t, m.selectedState())

	m, _ = update(t, m, key("enter"))
	require.False(t, m.showAttrs)
	require.Same(t, states[0], m.selectedState())
}

func TestEscClearsSelectionAndInspect(t *testing.T) {
	m, _ := loadedModel(t)
	m, _ = update(t, m, key("i"))
	require.Empty(t, m.inspectPopup)
	require.Equal(t, "no state selected", m.status)

	m, _ = update(t, m, click(m, 4, 5))
	m, _ = update(t, m, key("i"))
	require.Contains(t, m.inspectPopup, "name: Texas")
	require.Contains(t, m.inspectPopup, "density: 98.07")

	m, _ = update(t, m, key("esc"))
	require.Empty(t, m.inspectPopup)
	require.NotNil(t, m.selectedState())

	m, _ = update(t, m, key("esc"))
	require.Nil(t, m.selectedState())
	require.Empty(t, m.layer.labels)
}

func TestZoomAndReset(t *testing.T) {
	m, _ := loadedModel(t)
	m, _ = update(t, m, key("+"))
	require.InDelta(t, 1.2, m.zoom, 1e-9)
	m, _ = update(t, m, tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	require.InDelta(t, 1.0, m.zoom, 1e-9)
	m, _ = update(t, m, key("right"))
	require.Equal(t, 2, m.offsetX)
	m, _ = update(t, m, key("0"))
	require.Equal(t, 0, m.offsetX)
	require.Equal(t, 1.0, m.zoom)
}

func TestConfiguredViewWins(t *testing.T) {
	cfg := config.Default()
	m := New(cfg, &fakeLoader{})
	m, _ = update(t, m, statesLoadedMsg{states: testStates(t)})
	require.Equal(t, -125.0, m.view.Min[0])
	require.Equal(t, 50.0, m.view.Max[1])
}

func TestSelectOnLoad(t *testing.T) {
	states := testStates(t)
	m := New(config.Default(), &fakeLoader{states: states}).SelectOnLoad("ohio")
	m, _ = update(t, m, statesLoadedMsg{states: states})
	require.Same(t, states[1], m.selectedState())
	_, ok := m.ctrl.Label()
	require.True(t, ok)

	m = New(config.Default(), &fakeLoader{states: states}).SelectOnLoad("Utah")
	m, _ = update(t, m, statesLoadedMsg{states: states})
	require.Nil(t, m.selectedState())
	require.Equal(t, "no state named Utah", m.status)
}

func TestPanRepicksUnderStillPointer(t *testing.T) {
	m, states := loadedModel(t)
	texas := states[0]

	m, _ = update(t, m, move(m, 4, 5))
	require.Same(t, texas, m.hoveredState())

	// 7 pans of 2 cells put the gap between the states under the pointer
	for i := 0; i < 7; i++ {
		m, _ = update(t, m, key("left"))
	}
	require.Nil(t, m.hoveredState())
	require.Equal(t, selection.CursorDefault, m.layer.cursor)
	require.Equal(t, selection.DefaultStyle, m.layer.styles[texas])
	require.NotContains(t, m.View(), "☛")

	m, _ = update(t, m, key("0"))
	require.Same(t, texas, m.hoveredState())
	require.Equal(t, selection.CursorInteractive, m.layer.cursor)
	require.Equal(t, selection.HoverStyle, m.layer.styles[texas])
}

func TestZoomRepicksUnderStillPointer(t *testing.T) {
	m, states := loadedModel(t)
	ohio := states[1]

	// the pointer sits over Ohio near its left edge
	m, _ = update(t, m, move(m, 13, 5))
	require.Same(t, ohio, m.hoveredState())

	// zooming in about the centre pushes Ohio's left edge past the pointer
	for i := 0; i < 3; i++ {
		m, _ = update(t, m, key("+"))
	}
	require.Nil(t, m.hoveredState())
	require.Equal(t, selection.DefaultStyle, m.layer.styles[ohio])
}

func TestSegmentVisible(t *testing.T) {
	tests := map[string]struct {
		a, b [2]int
		want bool
	}{
		"inside":          {[2]int{1, 1}, [2]int{5, 5}, true},
		"crosses grid":    {[2]int{-500, 3}, [2]int{500, 3}, true},
		"far left":        {[2]int{-90000, 0}, [2]int{-10, 30}, false},
		"below":           {[2]int{2, 40}, [2]int{9, 70000}, false},
		"right edge":      {[2]int{20, 0}, [2]int{25, 5}, false},
		"touches corner":  {[2]int{-5, -5}, [2]int{0, 0}, true},
		"diagonal beside": {[2]int{-10, 50}, [2]int{-1, -50}, false},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, tc.want, segmentVisible(tc.a, tc.b, 20, 40))
		})
	}
}

func TestOffscreenStatesLeaveCanvasEmpty(t *testing.T) {
	m, _ := loadedModel(t)
	// zoomed far in on the gap between the two states
	m.view = orb.Bound{Min: orb.Point{9.9, 4.9}, Max: orb.Point{10.1, 5.1}}
	m.zoom = 64
	cv := m.renderMap(m.layout().mapW, m.layout().mapH)
	for _, row := range cv.cells {
		for _, c := range row {
			require.Equal(t, ' ', c.r)
		}
	}

	m.view = orb.Bound{Min: orb.Point{7.9, 4.9}, Max: orb.Point{8.1, 5.1}}
	m.zoom = 1
	text := mapText(m)
	require.Contains(t, text, "⣿", "Texas fill")
	require.Contains(t, text, "⡇", "Texas east border")
}
