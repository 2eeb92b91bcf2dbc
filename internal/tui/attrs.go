package tui

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	table "github.com/charmbracelet/bubbles/table"

	"statemap/internal/geom"
)

// refreshAttrs rebuilds the table columns/rows from the loaded states
func (m *Model) refreshAttrs() {
	var states []*geom.State
	if m.index != nil {
		states = m.index.States()
	}
	cols, rows := buildAttributes(states)
	// If there are no columns or rows, disable attributes view to avoid rendering panics
	if len(cols) == 0 || len(rows) == 0 {
		m.showAttrs = false
		m.tblStates = nil
		m.tbl.SetRows(nil)
		return
	}
	tcols := make([]table.Column, 0, len(cols)+1)
	tcols = append(tcols, table.Column{Title: "#", Width: 4})
	maxColW := 24
	for i, c := range cols {
		w := len(c) + 2
		for _, r := range rows {
			w = max(w, len(r[i])+1)
		}
		tcols = append(tcols, table.Column{Title: c, Width: min(w, maxColW)})
	}
	trows := make([]table.Row, 0, len(rows))
	for i, r := range rows {
		row := make([]string, 0, len(r)+1)
		row = append(row, fmt.Sprintf("%d", i+1))
		row = append(row, r...)
		trows = append(trows, table.Row(row))
	}
	// Avoid transient mismatch: clear rows, set columns, then set rows
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(tcols)
	m.tbl.SetRows(trows)
	m.tblStates = states
}

// buildAttributes unions property keys across states. "name" comes first,
// the rest sorted.
func buildAttributes(states []*geom.State) ([]string, [][]string) {
	if len(states) == 0 {
		return nil, nil
	}
	seen := map[string]bool{"name": true}
	var keys []string
	for _, s := range states {
		for k := range s.Properties {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	order := append([]string{"name"}, keys...)

	rows := make([][]string, 0, len(states))
	for _, s := range states {
		vals := make([]string, 0, len(order))
		vals = append(vals, s.Name())
		for _, k := range keys {
			vals = append(vals, formatValue(s.Properties[k]))
		}
		rows = append(rows, vals)
	}
	return order, rows
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return fmt.Sprintf("%g", t)
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		bs, _ := json.Marshal(t)
		return string(bs)
	}
}

// inspectText describes the selected state for the inspect popup.
func inspectText(s *geom.State) string {
	b := s.Bound
	meta := []string{
		fmt.Sprintf("name: %s", s.Name()),
		fmt.Sprintf("bbox: [%.5f, %.5f, %.5f, %.5f]", b.Min[0], b.Min[1], b.Max[0], b.Max[1]),
		fmt.Sprintf("parts: %d  vertices: %d", len(s.Geometry), s.Vertices()),
	}
	cols, rows := buildAttributes([]*geom.State{s})
	for i := 1; i < len(cols); i++ {
		meta = append(meta, fmt.Sprintf("%s: %s", cols[i], rows[0][i]))
	}
	return strings.Join(meta, "\n")
}
