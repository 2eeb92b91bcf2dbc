package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

type cell struct {
	r    rune
	fg   string
	bg   string
	bold bool
}

// canvas is a grid of styled cells; consecutive cells sharing a style are
// rendered as one lipgloss run.
type canvas struct {
	w, h  int
	cells [][]cell
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, cells: make([][]cell, h)}
	for y := range c.cells {
		row := make([]cell, w)
		for x := range row {
			row[x] = cell{r: ' '}
		}
		c.cells[y] = row
	}
	return c
}

func (c *canvas) set(x, y int, cl cell) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y][x] = cl
}

// stamp writes plain multi-line text with its top-left corner at (x, y).
func (c *canvas) stamp(x, y int, text, fg, bg string, bold bool) {
	for dy, line := range strings.Split(text, "\n") {
		dx := 0
		for _, r := range line {
			c.set(x+dx, y+dy, cell{r: r, fg: fg, bg: bg, bold: bold})
			dx++
		}
	}
}

func (c *canvas) String() string {
	lines := make([]string, c.h)
	for y, row := range c.cells {
		var sb strings.Builder
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && sameStyle(row[x], row[start]) {
				continue
			}
			sb.WriteString(renderRun(row[start:x]))
			start = x
		}
		lines[y] = sb.String()
	}
	return strings.Join(lines, "\n")
}

func sameStyle(a, b cell) bool {
	return a.fg == b.fg && a.bg == b.bg && a.bold == b.bold
}

func renderRun(run []cell) string {
	rs := make([]rune, len(run))
	for i, cl := range run {
		rs[i] = cl.r
	}
	first := run[0]
	if first.fg == "" && first.bg == "" && !first.bold {
		return string(rs)
	}
	st := lipgloss.NewStyle().Bold(first.bold)
	if first.fg != "" {
		st = st.Foreground(lipgloss.Color(first.fg))
	}
	if first.bg != "" {
		st = st.Background(lipgloss.Color(first.bg))
	}
	return st.Render(string(rs))
}

// blend mixes fill over bg by opacity and returns a hex colour.
func blend(bg, fill string, opacity float64) string {
	b, err := colorful.Hex(bg)
	if err != nil {
		return fill
	}
	f, err := colorful.Hex(fill)
	if err != nil {
		return fill
	}
	return b.BlendRgb(f, opacity).Clamped().Hex()
}
