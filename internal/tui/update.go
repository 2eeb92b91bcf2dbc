package tui

import (
	"fmt"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.showSidebar {
			m.l.SetSize(sidebarWidth-2, m.layout().contentH-2)
		}
	case statesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			log.Error().Err(msg.err).Msg("Failed to load states")
			m.index, m.ctrl = nil, nil
			m.layer = newMapLayer()
			m.refreshStateList()
			m.refreshAttrs()
			m.alert = loadFailedText
			m.status = "load error: " + msg.err.Error()
			return m, nil
		}
		m.alert = ""
		m.setStates(msg.states)
		m.status = fmt.Sprintf("loaded %d states", m.index.Len())
		if name := m.pendingSelect; name != "" {
			m.pendingSelect = ""
			if s := m.index.ByName(name); s != nil {
				m.selectState(s)
			} else {
				m.status = "no state named " + name
				log.Warn().Str("state", name).Msg("Unknown state to select")
			}
		}
	case tea.KeyMsg:
		return m.updateKey(msg)
	case tea.MouseMsg:
		m.updateMouse(msg)
	}
	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// If list is visible and filtering, send keys to list and ignore global commands
	if m.showSidebar && m.l.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	if m.alert != "" {
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc", "enter":
			m.alert = ""
		case "r":
			return m.reload()
		}
		return m, nil
	}
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "+", "=":
		m.zoomIn()
	case "-", "_":
		m.zoomOut()
	case "0":
		m.resetView()
		m.status = "view reset"
		m.hoverAtPointer()
	case "tab":
		m.showSidebar = !m.showSidebar
		if m.showSidebar {
			m.l.SetSize(sidebarWidth-2, m.layout().contentH-2)
		}
		m.hoverAtPointer()
	case "h":
		m.helpVisible = !m.helpVisible
	case "a":
		m.showAttrs = !m.showAttrs
		if m.showAttrs {
			m.refreshAttrs()
			if len(m.tblStates) == 0 {
				m.status = "no attributes for current dataset"
			}
		}
	case "i":
		if s := m.selectedState(); s != nil {
			m.inspectPopup = inspectText(s)
			m.status = "inspect popup"
		} else {
			m.inspectPopup = ""
			m.status = "no state selected"
		}
	case "r":
		if !m.loading {
			return m.reload()
		}
	case "esc":
		switch {
		case m.inspectPopup != "":
			m.inspectPopup = ""
		case m.showAttrs:
			m.showAttrs = false
		case m.ctrl != nil && m.ctrl.Selected() != nil:
			m.ctrl.OnClick(nil, nil)
			m.status = "selection cleared"
		}
	case "enter":
		switch {
		case m.showAttrs:
			if i := m.tbl.Cursor(); i >= 0 && i < len(m.tblStates) {
				m.selectState(m.tblStates[i])
				m.showAttrs = false
			}
		case m.showSidebar:
			if it, ok := m.l.SelectedItem().(stateItem); ok {
				m.selectState(it.state)
			}
		}
	case "up", "down", "pgup", "pgdown":
		if m.showAttrs {
			var cmd tea.Cmd
			m.tbl, cmd = m.tbl.Update(msg)
			return m, cmd
		}
		if m.showSidebar {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "up":
			m.offsetY -= 1
		case "down":
			m.offsetY += 1
		}
		m.hoverAtPointer()
	case "left":
		m.offsetX -= 2
		m.hoverAtPointer()
	case "right":
		m.offsetX += 2
		m.hoverAtPointer()
	default:
		// let the sidebar start filtering on "/"
		if m.showSidebar {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) reload() (tea.Model, tea.Cmd) {
	m.alert = ""
	m.loading = true
	m.status = "loading states…"
	return m, m.loadCmd()
}

// updateMouse feeds pointer events to the selection controller. Without
// loaded states, or while an overlay covers the map, events do nothing.
func (m *Model) updateMouse(msg tea.MouseMsg) {
	m.pointerX, m.pointerY, m.hasPointer = msg.X, msg.Y, true
	if m.ctrl == nil || m.alert != "" || m.showAttrs {
		return
	}
	lay := m.layout()
	cx, cy, onMap := lay.onMap(msg.X, msg.Y)

	if msg.Action == tea.MouseActionPress {
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if onMap {
				m.zoomIn()
			}
			return
		case tea.MouseButtonWheelDown:
			if onMap {
				m.zoomOut()
			}
			return
		}
	}

	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && onMap {
		s, pt, ok := m.pickCell(cx, cy, lay.mapW, lay.mapH)
		m.hoverHasGeo = ok
		m.hoverLon, m.hoverLat = pt[0], pt[1]
		if s == nil {
			m.ctrl.OnClick(nil, nil)
			m.status = "selection cleared"
			return
		}
		m.ctrl.OnClick(s, &pt)
		m.inspectPopup = ""
		m.status = "selected: " + s.Name()
		return
	}
	if msg.Action == tea.MouseActionMotion || !onMap {
		m.hoverAtPointer()
	}
}

// hoverAtPointer re-picks the state under the last pointer position.
func (m *Model) hoverAtPointer() {
	if m.ctrl == nil || !m.hasPointer || m.alert != "" || m.showAttrs {
		return
	}
	lay := m.layout()
	cx, cy, onMap := lay.onMap(m.pointerX, m.pointerY)
	if !onMap {
		m.hoverHasGeo = false
		m.ctrl.OnPointerMove(nil)
		return
	}
	s, pt, ok := m.pickCell(cx, cy, lay.mapW, lay.mapH)
	m.hoverHasGeo = ok
	m.hoverLon, m.hoverLat = pt[0], pt[1]
	m.ctrl.OnPointerMove(feature(s))
}

func (m *Model) zoomIn() {
	if m.zoom < 64 {
		m.zoom *= 1.2
		m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
		m.hoverAtPointer()
	}
}

func (m *Model) zoomOut() {
	if m.zoom > 0.05 {
		m.zoom /= 1.2
		m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
		m.hoverAtPointer()
	}
}
