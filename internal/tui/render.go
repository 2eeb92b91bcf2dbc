package tui

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/paulmach/orb"

	"statemap/internal/geom"
	"statemap/internal/selection"
)

func (m Model) hasView() bool {
	return m.view.Max[0] > m.view.Min[0] && m.view.Max[1] > m.view.Min[1]
}

// screenXYMicro maps lon/lat into a 2x4 microgrid per cell for braille rendering.
func (m Model) screenXYMicro(lon, lat float64, w, h int) (int, int, bool) {
	if !m.hasView() {
		return 0, 0, false
	}
	nx := (lon - m.view.Min[0]) / (m.view.Max[0] - m.view.Min[0])
	ny := (lat - m.view.Min[1]) / (m.view.Max[1] - m.view.Min[1])
	zx := 0.5 + (nx-0.5)*m.zoom
	zy := 0.5 + (ny-0.5)*m.zoom
	wMic := w * 2
	hMic := h * 4
	sx := int(zx*float64(wMic-1)) + m.offsetX*2
	sy := int((1.0-zy)*float64(hMic-1)) + m.offsetY*4
	return sx, sy, true
}

// cellToLonLat converts the centre of a map cell back to lon/lat using view, zoom, and pan.
func (m Model) cellToLonLat(cx, cy, w, h int) (orb.Point, bool) {
	if !m.hasView() || w <= 1 || h <= 1 {
		return orb.Point{}, false
	}
	mx := float64(cx*2) + 0.5 - float64(m.offsetX*2)
	my := float64(cy*4) + 1.5 - float64(m.offsetY*4)
	zx := mx / float64(w*2-1)
	zy := 1.0 - my/float64(h*4-1)
	nx := 0.5 + (zx-0.5)/m.zoom
	ny := 0.5 + (zy-0.5)/m.zoom
	lon := m.view.Min[0] + nx*(m.view.Max[0]-m.view.Min[0])
	lat := m.view.Min[1] + ny*(m.view.Max[1]-m.view.Min[1])
	return orb.Point{lon, lat}, true
}

// renderMap draws every state with its current style, then the labels.
func (m Model) renderMap(w, h int) *canvas {
	cv := newCanvas(w, h)
	if m.index == nil || !m.hasView() {
		return cv
	}
	states := m.index.States()
	def := m.cfg.Styles.Default
	br := newBrailleBuf(w, h)

	type paint struct {
		fill, stroke string
		bold, edges  bool
	}
	paints := make([]paint, len(states)+1)
	for i, s := range states {
		st := m.layer.styleOf(s, def)
		paints[i+1] = paint{
			fill:   blend(mapBg, st.FillColor, st.FillOpacity),
			stroke: st.StrokeColor,
			bold:   st.StrokeWidth >= 2,
			edges:  st.StrokeWidth > 0,
		}
		m.rasterize(br, s, i+1, paints[i+1].edges, w, h)
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, owner, edge := br.cell(x, y)
			if owner == 0 {
				continue
			}
			p := paints[owner]
			if edge {
				cv.set(x, y, cell{r: r, fg: p.stroke, bold: p.bold})
			} else {
				cv.set(x, y, cell{r: r, fg: p.fill})
			}
		}
	}

	for _, lb := range m.layer.visibleLabels() {
		m.drawLabel(cv, lb, w, h)
	}
	return cv
}

// rasterize fills a state with the even-odd rule on the microgrid (holes
// included) and optionally outlines its rings.
func (m Model) rasterize(br *brailleBuf, s *geom.State, owner int, edges bool, w, h int) {
	hMic := h * 4
	for _, poly := range s.Geometry {
		var rings [][][2]int
		minY, maxY := hMic, -1
		for _, ring := range poly {
			var sm [][2]int
			for _, p := range ring {
				mx, my, ok := m.screenXYMicro(p[0], p[1], w, h)
				if !ok {
					continue
				}
				sm = append(sm, [2]int{mx, my})
				minY = min(minY, my)
				maxY = max(maxY, my)
			}
			if len(sm) >= 3 {
				rings = append(rings, sm)
			}
		}
		if len(rings) == 0 {
			continue
		}
		for yMic := max(0, minY); yMic < hMic && yMic <= maxY; yMic++ {
			var xs []int
			for _, r := range rings {
				for i := 0; i < len(r); i++ {
					a := r[i]
					b := r[(i+1)%len(r)]
					if a[1] == b[1] { // horizontal edge: skip
						continue
					}
					y0, y1 := a[1], b[1]
					x0, x1 := a[0], b[0]
					if (yMic >= y0 && yMic < y1) || (yMic >= y1 && yMic < y0) {
						t := float64(yMic-y0) / float64(y1-y0)
						xs = append(xs, int(float64(x0)+t*float64(x1-x0)))
					}
				}
			}
			sort.Ints(xs)
			for i := 0; i+1 < len(xs); i += 2 {
				for xMic := max(0, xs[i]); xMic <= xs[i+1] && xMic < w*2; xMic++ {
					br.setPixel(xMic, yMic, owner, false)
				}
			}
		}
		if !edges {
			continue
		}
		for _, r := range rings {
			for i := 0; i < len(r); i++ {
				a := r[i]
				b := r[(i+1)%len(r)]
				if !segmentVisible(a, b, w*2, hMic) {
					continue
				}
				br.drawLineMicro(a[0], a[1], b[0], b[1], owner)
			}
		}
	}
}

// segmentVisible reports whether the bounding box of a-b touches a wMic x hMic grid.
func segmentVisible(a, b [2]int, wMic, hMic int) bool {
	return max(a[0], b[0]) >= 0 && min(a[0], b[0]) < wMic &&
		max(a[1], b[1]) >= 0 && min(a[1], b[1]) < hMic
}

// drawLabel centres the text one row above its anchor, clamped to the canvas.
func (m Model) drawLabel(cv *canvas, lb mapLabel, w, h int) {
	mx, my, ok := m.screenXYMicro(lb.pos[0], lb.pos[1], w, h)
	if !ok {
		return
	}
	ax, ay := mx/2, my/4
	if ax < 0 || ay < 0 || ax >= w || ay >= h {
		return
	}
	text := " " + lb.text + " "
	tw := lipgloss.Width(text)
	x := min(max(0, ax-tw/2), max(0, w-tw))
	y := ay - 1
	if y < 0 {
		y = ay + 1
	}
	cv.stamp(x, y, text, m.cfg.Label.Foreground, m.cfg.Label.Background, true)
}

func feature(s *geom.State) selection.Feature {
	if s == nil {
		return nil
	}
	return s
}

// pickCell returns the state under a map cell and its lon/lat.
func (m Model) pickCell(cx, cy, w, h int) (*geom.State, orb.Point, bool) {
	pt, ok := m.cellToLonLat(cx, cy, w, h)
	if !ok || m.index == nil {
		return nil, pt, ok
	}
	return m.index.Pick(pt), pt, true
}
