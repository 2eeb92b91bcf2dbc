package tui

import (
	"fmt"
	"sort"

	list "github.com/charmbracelet/bubbles/list"
	"github.com/rs/zerolog/log"

	"statemap/internal/geom"
)

type stateItem struct {
	state *geom.State
}

func (s stateItem) Title() string       { return s.state.Name() }
func (s stateItem) Description() string { return fmt.Sprintf("%d vertices", s.state.Vertices()) }
func (s stateItem) FilterValue() string { return s.state.Name() }

// refreshStateList fills the sidebar with the loaded states by name.
func (m *Model) refreshStateList() {
	var items []list.Item
	if m.index != nil {
		for _, s := range m.index.States() {
			items = append(items, stateItem{state: s})
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(stateItem).Title() < items[j].(stateItem).Title() })
	m.l.SetItems(items)
}

// selectState selects s as if it were clicked at its label point.
func (m *Model) selectState(s *geom.State) {
	if m.ctrl == nil || s == nil {
		return
	}
	pos := geom.LabelPoint(s)
	m.ctrl.OnClick(s, &pos)
	m.status = "selected: " + s.Name()
	log.Info().Str("state", s.Name()).Msg("State selected from list")
}
