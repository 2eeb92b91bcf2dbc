package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"statemap/internal/selection"
)

const (
	sidebarWidth = 28
	headerHeight = 1
	footerHeight = 2
)

// layout is where the map sits on screen. View and mouse handling share it.
type layout struct {
	contentW, contentH int
	sidebarW           int
	mapX, mapY         int
	mapW, mapH         int
}

func (m Model) layout() layout {
	var lay layout
	lay.contentH = max(4, m.height-headerHeight-footerHeight)
	lay.contentW = max(10, m.width)
	if m.showSidebar {
		lay.sidebarW = sidebarWidth
		lay.mapX = sidebarWidth + 1
	}
	lay.mapW = max(10, lay.contentW-lay.sidebarW-1)
	lay.mapH = lay.contentH
	lay.mapY = headerHeight
	return lay
}

// onMap converts a screen position to map cell coordinates.
func (lay layout) onMap(x, y int) (int, int, bool) {
	if x >= lay.mapX && x < lay.mapX+lay.mapW && y >= lay.mapY && y < lay.mapY+lay.mapH {
		return x - lay.mapX, y - lay.mapY, true
	}
	return 0, 0, false
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	lay := m.layout()

	// Header
	header := titleStyle.Render(" statemap ─ United States ")
	header = lipgloss.NewStyle().Width(lay.contentW).Padding(0).Render(header)

	// Sidebar
	var sidebar string
	if m.showSidebar {
		m.l.SetSize(sidebarWidth-2, lay.contentH-2)
		sidebar = lipgloss.NewStyle().Width(lay.sidebarW).Height(lay.contentH).Render(m.l.View())
	}

	var mapView string
	switch {
	case m.alert != "":
		box := alertStyle.Render(m.alert)
		mapView = lipgloss.Place(lay.mapW, lay.mapH, lipgloss.Center, lipgloss.Center, box)
	case m.showAttrs:
		// Render attributes table centered in the map area
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		maxW := min(lay.mapW, max(32, colW))
		m.tbl.SetWidth(maxW - 4)
		m.tbl.SetHeight(min(lay.mapH-2, 20))
		attrsBox := boxStyle.Width(maxW).Render(m.tbl.View())
		mapView = lipgloss.Place(lay.mapW, lay.mapH, lipgloss.Center, lipgloss.Center, attrsBox)
	default:
		cv := m.renderMap(lay.mapW, lay.mapH)
		if m.inspectPopup != "" {
			box := popupStyle.MaxWidth(min(48, lay.mapW)).Render(m.inspectPopup)
			cv.stamp(1, max(0, (lay.mapH-lipgloss.Height(box))/2), box, "", "", false)
		}
		mapView = lipgloss.NewStyle().Width(lay.mapW).Height(lay.mapH).Render(cv.String())
	}

	body := mapView
	if m.showSidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", mapView)
	}

	// Footer / help
	help := m.renderHelp()
	status := dimStyle.Render(" " + m.status + " ")
	right := ""
	if m.layer.cursor == selection.CursorInteractive {
		right += "☛ "
	}
	if s := m.hoveredState(); s != nil {
		right += s.Name() + "  "
	}
	if m.hoverHasGeo {
		right += fmt.Sprintf("lon=%.5f lat=%.5f  ", m.hoverLon, m.hoverLat)
	}
	coords := dimStyle.Render(right)
	spacerW := max(0, lay.contentW-lipgloss.Width(status)-lipgloss.Width(coords))
	statusLine := lipgloss.JoinHorizontal(lipgloss.Bottom, status, strings.Repeat(" ", spacerW), coords)
	footer := lipgloss.NewStyle().Width(lay.contentW).Render(lipgloss.JoinVertical(lipgloss.Left, statusLine, help))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(lay.contentW).Height(m.height).Render(ui)
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"click select",
		"↑↓←→ pan",
		"+/- zoom",
		"0 reset",
		"Tab states",
		"a attrs",
		"i inspect",
		"esc clear",
		"r reload",
		"h help",
		"q quit",
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}
