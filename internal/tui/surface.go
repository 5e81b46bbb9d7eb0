package tui

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/eqreplay/internal/chart"
	"github.com/san-kum/eqreplay/internal/frame"
)

var (
	plotTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	axisLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	emptyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
)

// graphColors approximates the player palette on the terminal. The
// legend below each graph carries the true colors.
var graphColors = []asciigraph.AnsiColor{
	asciigraph.Red,
	asciigraph.Yellow,
	asciigraph.Green,
	asciigraph.Blue,
}

var altPattern = regexp.MustCompile(`alt="([^"]*)"`)

// TermSurface renders figures and markup into terminal blocks, one per
// mount point. Replacing a mount replaces its block; the app composes
// the blocks into a view.
type TermSurface struct {
	Width  int // plot width in cells
	Height int // plot height in cells
	blocks map[string]string
}

func NewTermSurface(width, height int) *TermSurface {
	return &TermSurface{
		Width:  width,
		Height: height,
		blocks: make(map[string]string),
	}
}

// Block returns the current block for a mount point, or "" if the
// mount has never been drawn.
func (s *TermSurface) Block(mount string) string {
	return s.blocks[mount]
}

func (s *TermSurface) ReplaceFigure(mount string, fig chart.Figure) error {
	switch fig.Kind {
	case chart.Ternary:
		s.blocks[mount] = s.renderTernary(fig)
	case chart.Line:
		s.blocks[mount] = s.renderLine(fig)
	default:
		s.blocks[mount] = s.renderScatter(fig)
	}
	return nil
}

func (s *TermSurface) ReplaceMarkup(mount, markup string) error {
	s.blocks[mount] = renderBadges(markup)
	return nil
}

// renderScatter draws a point cloud inside a framed plot region.
// Points outside the axis range are clipped at the frame.
func (s *TermSurface) renderScatter(fig chart.Figure) string {
	canvas := NewCanvas(s.Width, s.Height)
	pw := s.Width * 2
	ph := s.Height * 4

	// Braille pixels are close to square, so an equal-aspect plot
	// uses equal pixel extents.
	w, h := pw, ph
	if fig.EqualAspect {
		if w > h {
			w = h
		} else {
			h = w
		}
	}
	offX := (pw - w) / 2
	offY := (ph - h) / 2

	xs := make([]float64, 0, len(fig.Points))
	ys := make([]float64, 0, len(fig.Points))
	for _, p := range fig.Points {
		if len(p.Coords) < 2 {
			continue
		}
		xs = append(xs, p.Coords[0])
		ys = append(ys, p.Coords[1])
	}
	xmin, xmax := axisSpan(axisAt(fig, 0), xs)
	ymin, ymax := axisSpan(axisAt(fig, 1), ys)

	toX := func(v float64) int {
		return offX + int(math.Round((v-xmin)/(xmax-xmin)*float64(w-1)))
	}
	toY := func(v float64) int {
		return offY + (h - 1) - int(math.Round((v-ymin)/(ymax-ymin)*float64(h-1)))
	}
	inPlot := func(x, y int) bool {
		return x >= offX && x < offX+w && y >= offY && y < offY+h
	}

	// Frame
	canvas.DrawLine(offX, offY, offX+w-1, offY)
	canvas.DrawLine(offX+w-1, offY, offX+w-1, offY+h-1)
	canvas.DrawLine(offX+w-1, offY+h-1, offX, offY+h-1)
	canvas.DrawLine(offX, offY+h-1, offX, offY)

	for i := 1; i < len(fig.Boundary); i++ {
		canvas.DrawLine(
			toX(fig.Boundary[i-1][0]), toY(fig.Boundary[i-1][1]),
			toX(fig.Boundary[i][0]), toY(fig.Boundary[i][1]),
		)
	}

	for _, p := range fig.Points {
		if len(p.Coords) < 2 {
			continue
		}
		blob(canvas, toX(p.Coords[0]), toY(p.Coords[1]), p.Color, inPlot)
	}

	var sb strings.Builder
	sb.WriteString(plotTitleStyle.Render(fig.Title))
	sb.WriteRune('\n')
	sb.WriteString(canvas.String())
	sb.WriteString(legendLine(fig.Points))
	if len(fig.Axes) >= 2 {
		sb.WriteRune('\n')
		sb.WriteString(axisLabelStyle.Render(fig.Axes[0].Title + " / " + fig.Axes[1].Title))
	}
	return sb.String()
}

// renderTernary draws a triangle plot. Point coordinates are the
// barycentric weights of the three corners, taken as they come, so
// weights that do not sum to one land outside the triangle.
func (s *TermSurface) renderTernary(fig chart.Figure) string {
	canvas := NewCanvas(s.Width, s.Height)
	pw := float64(s.Width*2 - 1)
	ph := float64(s.Height*4 - 1)

	side := pw
	height := side * 0.866
	if height > ph {
		height = ph
		side = height / 0.866
	}
	offX := (pw - side) / 2
	offY := (ph - height) / 2

	apex := [2]float64{offX + side/2, offY}
	left := [2]float64{offX, offY + height}
	right := [2]float64{offX + side, offY + height}

	canvas.DrawLine(int(apex[0]), int(apex[1]), int(left[0]), int(left[1]))
	canvas.DrawLine(int(left[0]), int(left[1]), int(right[0]), int(right[1]))
	canvas.DrawLine(int(right[0]), int(right[1]), int(apex[0]), int(apex[1]))

	for _, p := range fig.Points {
		if len(p.Coords) < 3 {
			continue
		}
		a, b, c := p.Coords[0], p.Coords[1], p.Coords[2]
		x := a*apex[0] + b*left[0] + c*right[0]
		y := a*apex[1] + b*left[1] + c*right[1]
		blob(canvas, int(math.Round(x)), int(math.Round(y)), p.Color, nil)
	}

	var sb strings.Builder
	sb.WriteString(plotTitleStyle.Render(fig.Title))
	sb.WriteRune('\n')
	sb.WriteString(canvas.String())
	sb.WriteString(legendLine(fig.Points))
	if len(fig.Axes) >= 3 {
		sb.WriteRune('\n')
		sb.WriteString(axisLabelStyle.Render(fmt.Sprintf("top %s  left %s  right %s",
			fig.Axes[0].Title, fig.Axes[1].Title, fig.Axes[2].Title)))
	}
	return sb.String()
}

func (s *TermSurface) renderLine(fig chart.Figure) string {
	series := make([][]float64, 0, len(fig.Series))
	colors := make([]asciigraph.AnsiColor, 0, len(fig.Series))
	for i, sr := range fig.Series {
		if len(sr.Y) == 0 {
			continue
		}
		series = append(series, sr.Y)
		colors = append(colors, graphColors[i%len(graphColors)])
	}
	if len(series) == 0 {
		return plotTitleStyle.Render(fig.Title) + "\n" +
			emptyStyle.Render("no samples at this iteration")
	}

	graph := asciigraph.PlotMany(series,
		asciigraph.Height(s.Height),
		asciigraph.Width(s.Width*2),
		asciigraph.Caption(fig.Title),
		asciigraph.SeriesColors(colors...),
	)

	parts := make([]string, 0, len(fig.Series))
	for _, sr := range fig.Series {
		parts = append(parts, lipgloss.NewStyle().
			Foreground(lipgloss.Color(sr.Color)).
			Render("── "+sr.Name))
	}
	return graph + "\n" + strings.Join(parts, "  ")
}

// renderBadges turns action markup into one colored badge per player,
// reading the tokens out of the image alt attributes.
func renderBadges(markup string) string {
	matches := altPattern.FindAllStringSubmatch(markup, -1)
	if len(matches) == 0 {
		return markup
	}
	parts := make([]string, 0, len(matches))
	for i, m := range matches {
		badge := "[" + m[1] + "]"
		if color := safePlayerColor(i); color != "" {
			badge = lipgloss.NewStyle().
				Foreground(lipgloss.Color(color)).
				Bold(true).
				Render(badge)
		}
		parts = append(parts, badge)
	}
	return strings.Join(parts, " ")
}

func safePlayerColor(i int) string {
	color, err := frame.PlayerColor(i)
	if err != nil {
		return ""
	}
	return color
}

func legendLine(points []chart.Point) string {
	if len(points) == 0 {
		return emptyStyle.Render("no records at this iteration")
	}
	parts := make([]string, 0, len(points))
	for _, p := range points {
		parts = append(parts, lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Color)).
			Render("● "+p.Label))
	}
	return strings.Join(parts, "  ")
}

// blob lights a 3x3 marker around a pixel, skipping pixels the clip
// function rejects.
func blob(c *Canvas, x, y int, color string, clip func(x, y int) bool) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			px, py := x+dx, y+dy
			if clip != nil && !clip(px, py) {
				continue
			}
			c.SetColored(px, py, color)
		}
	}
}

func axisAt(fig chart.Figure, i int) chart.Axis {
	if i < len(fig.Axes) {
		return fig.Axes[i]
	}
	return chart.Axis{}
}

// axisSpan picks the plotted range for one axis: the pinned range if
// the axis is fixed, otherwise the data bounds with a little padding.
func axisSpan(ax chart.Axis, values []float64) (float64, float64) {
	if ax.Fixed {
		return ax.Min, ax.Max
	}
	min := math.Inf(1)
	max := math.Inf(-1)
	for _, v := range values {
		min = math.Min(min, v)
		max = math.Max(max, v)
	}
	if math.IsInf(min, 1) {
		return 0, 1
	}
	if min == max {
		return min - 1, max + 1
	}
	pad := (max - min) * 0.05
	return min - pad, max + pad
}
