package viz

import "strings"

// Braille cells pack a 2x4 dot grid into one rune starting at U+2800,
// giving a terminal canvas double the column and four times the row
// resolution of plain characters.
var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a braille dot canvas. Dot coordinates run from (0,0) at the
// top left to (2*Cols-1, 4*Rows-1) at the bottom right.
type Canvas struct {
	Cols, Rows int
	cells      []rune
}

func NewCanvas(cols, rows int) *Canvas {
	c := &Canvas{Cols: cols, Rows: rows, cells: make([]rune, cols*rows)}
	c.Clear()
	return c
}

func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = 0x2800
	}
}

// Set turns on the dot at (x, y). Out-of-range dots are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 || x >= 2*c.Cols || y >= 4*c.Rows {
		return
	}
	c.cells[(y/4)*c.Cols+x/2] |= dotBits[y%4][x%2]
}

// Line draws dots from (x0, y0) to (x1, y1) by Bresenham stepping.
func (c *Canvas) Line(x0, y0, x1, y1 int) {
	dx, dy := x1-x0, y1-y0
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy
	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	b.Grow((c.Cols*3 + 1) * c.Rows)
	for r := 0; r < c.Rows; r++ {
		b.WriteString(string(c.cells[r*c.Cols : (r+1)*c.Cols]))
		b.WriteByte('\n')
	}
	return b.String()
}

// Frame maps world coordinates onto the dot grid of a canvas, keeping the
// aspect ratio square so orbits stay round. Terminal cells are about twice
// as tall as wide, which the 2x4 braille grid happens to cancel.
type Frame struct {
	canvas *Canvas

	cx, cy float64

	dotsX, dotsY int
	dotsPerUnit  float64
}

// NewFrame centers the frame on (cx, cy) with at least halfExtent world
// units visible in every direction.
func NewFrame(c *Canvas, cx, cy, halfExtent float64) *Frame {
	if halfExtent <= 0 {
		halfExtent = 1
	}
	dotsX, dotsY := 2*c.Cols, 4*c.Rows
	short := dotsX
	if dotsY < short {
		short = dotsY
	}
	return &Frame{
		canvas:      c,
		cx:          cx,
		cy:          cy,
		dotsX:       dotsX,
		dotsY:       dotsY,
		dotsPerUnit: float64(short-1) / (2 * halfExtent),
	}
}

func (f *Frame) dot(wx, wy float64) (int, int) {
	x := f.dotsX/2 + int((wx-f.cx)*f.dotsPerUnit)
	y := f.dotsY/2 - int((wy-f.cy)*f.dotsPerUnit)
	return x, y
}

func (f *Frame) Mark(wx, wy float64) {
	f.canvas.Set(f.dot(wx, wy))
}

func (f *Frame) Segment(wx0, wy0, wx1, wy1 float64) {
	x0, y0 := f.dot(wx0, wy0)
	x1, y1 := f.dot(wx1, wy1)
	f.canvas.Line(x0, y0, x1, y1)
}
