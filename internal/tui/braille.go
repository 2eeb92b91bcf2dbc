package tui

// brailleBuf rasterizes polygons on a 2x4 micro-pixel grid per cell.
// Fill and edge pixels are kept apart so edges can take the stroke colour,
// and each cell remembers which feature wrote it last.
type brailleBuf struct {
	w, h      int // in cells
	fill      [][]uint8
	edge      [][]uint8
	fillOwner [][]int
	edgeOwner [][]int
}

func newBrailleBuf(w, h int) *brailleBuf {
	b := &brailleBuf{w: w, h: h}
	b.fill = make([][]uint8, h)
	b.edge = make([][]uint8, h)
	b.fillOwner = make([][]int, h)
	b.edgeOwner = make([][]int, h)
	for i := 0; i < h; i++ {
		b.fill[i] = make([]uint8, w)
		b.edge[i] = make([]uint8, w)
		b.fillOwner[i] = make([]int, w)
		b.edgeOwner[i] = make([]int, w)
	}
	return b
}

var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// setPixel sets a micro-pixel for owner (>0) on the fill or edge layer.
func (b *brailleBuf) setPixel(mx, my, owner int, edge bool) {
	if mx < 0 || my < 0 {
		return
	}
	cx, rx := mx/2, mx%2
	cy, ry := my/4, my%4
	if cy >= b.h || cx >= b.w {
		return
	}
	bit := brailleBits[rx][ry]
	if edge {
		b.edge[cy][cx] |= bit
		b.edgeOwner[cy][cx] = owner
		return
	}
	b.fill[cy][cx] |= bit
	b.fillOwner[cy][cx] = owner
}

// drawLineMicro draws an edge on the microgrid using Bresenham
func (b *brailleBuf) drawLineMicro(x0, y0, x1, y1, owner int) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		b.setPixel(x0, y0, owner, true)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// cell returns the glyph at a cell, the owner to colour it by and whether
// that owner drew an edge there. owner is 0 for empty cells.
func (b *brailleBuf) cell(x, y int) (r rune, owner int, edge bool) {
	mask := b.fill[y][x] | b.edge[y][x]
	if mask == 0 {
		return ' ', 0, false
	}
	r = rune(0x2800 + int(mask))
	if b.edge[y][x] != 0 {
		return r, b.edgeOwner[y][x], true
	}
	return r, b.fillOwner[y][x], false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
