package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille patterns for 2x4 pixel blocks
var pixelMap = [4][2]int{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas draws into a grid of braille cells. Pixel coordinates run
// twice the width and four times the height of the cell grid. Each
// cell carries at most one foreground color; the last colored write
// to a cell wins.
type Canvas struct {
	Width  int
	Height int
	Grid   [][]rune
	Colors [][]string
}

func NewCanvas(width, height int) *Canvas {
	c := &Canvas{
		Width:  width,
		Height: height,
		Grid:   make([][]rune, height),
		Colors: make([][]string, height),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, width)
		c.Colors[i] = make([]string, width)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800 // Empty braille character
		}
	}
	return c
}

// Set turns on the pixel at x, y in the default color.
func (c *Canvas) Set(x, y int) {
	c.SetColored(x, y, "")
}

// SetColored turns on the pixel at x, y and colors its cell.
func (c *Canvas) SetColored(x, y int, color string) {
	if x < 0 || y < 0 {
		return
	}
	gridX := x / 2
	gridY := y / 4
	if gridX >= c.Width || gridY >= c.Height {
		return
	}
	c.Grid[gridY][gridX] |= rune(pixelMap[y%4][x%2])
	if color != "" {
		c.Colors[gridY][gridX] = color
	}
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
			c.Colors[i][j] = ""
		}
	}
}

// DrawLine draws a line between two pixel coordinates using
// Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	c.DrawLineColored(x0, y0, x1, y1, "")
}

func (c *Canvas) DrawLineColored(x0, y0, x1, y1 int, color string) {
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy

	for {
		c.SetColored(x0, y0, color)
		if x0 == x1 && y0 == y1 {
			break
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

// String renders the canvas, one styled run per stretch of same
// colored cells.
func (c *Canvas) String() string {
	styles := make(map[string]lipgloss.Style)
	styleFor := func(color string) lipgloss.Style {
		s, ok := styles[color]
		if !ok {
			s = lipgloss.NewStyle().Foreground(lipgloss.Color(color))
			styles[color] = s
		}
		return s
	}

	var sb strings.Builder
	for row := 0; row < c.Height; row++ {
		col := 0
		for col < c.Width {
			color := c.Colors[row][col]
			start := col
			for col < c.Width && c.Colors[row][col] == color {
				col++
			}
			run := string(c.Grid[row][start:col])
			if color == "" {
				sb.WriteString(run)
			} else {
				sb.WriteString(styleFor(color).Render(run))
			}
		}
		sb.WriteRune('\n')
	}
	return sb.String()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
