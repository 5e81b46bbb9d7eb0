package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/eqreplay/internal/chart"
)

const (
	svgBackground = "#0a0a0a"
	svgFrame      = "#444444"
	svgText       = "#cccccc"
	svgMargin     = 48.0
)

// FigureToSVG renders a figure as a standalone SVG document.
func FigureToSVG(fig chart.Figure, width, height int) string {
	var sb strings.Builder

	// SVG header
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, svgBackground))

	if fig.Title != "" {
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="20" text-anchor="middle" fill="%s" font-family="monospace" font-size="14">%s</text>
`, width/2, svgText, fig.Title))
	}

	switch fig.Kind {
	case chart.Ternary:
		ternarySVG(&sb, fig, width, height)
	case chart.Line:
		lineSVG(&sb, fig, width, height)
	default:
		scatterSVG(&sb, fig, width, height)
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

func scatterSVG(sb *strings.Builder, fig chart.Figure, width, height int) {
	pw := float64(width) - 2*svgMargin
	ph := float64(height) - 2*svgMargin
	if fig.EqualAspect {
		side := math.Min(pw, ph)
		pw, ph = side, side
	}
	ox := (float64(width) - pw) / 2
	oy := (float64(height) - ph) / 2

	xmin, xmax := axisRange(fig.Axes[0], coords(fig.Points, 0))
	ymin, ymax := axisRange(fig.Axes[1], coords(fig.Points, 1))

	toX := func(v float64) float64 { return ox + (v-xmin)/(xmax-xmin)*pw }
	toY := func(v float64) float64 { return oy + ph - (v-ymin)/(ymax-ymin)*ph }

	// Frame and clip region. Pinned axes clip out-of-range points
	// instead of rescaling.
	sb.WriteString(fmt.Sprintf(`<clipPath id="plot"><rect x="%.1f" y="%.1f" width="%.1f" height="%.1f"/></clipPath>
<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="%s"/>
`, ox, oy, pw, ph, ox, oy, pw, ph, svgFrame))

	sb.WriteString(`<g clip-path="url(#plot)">` + "\n")

	if len(fig.Boundary) > 1 {
		sb.WriteString(fmt.Sprintf(`<polyline fill="none" stroke="%s" points="`, svgFrame))
		for i, p := range fig.Boundary {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", toX(p[0]), toY(p[1])))
		}
		sb.WriteString("\"/>\n")
	}

	for _, p := range fig.Points {
		x, y := toX(p.Coords[0]), toY(p.Coords[1])
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="5" fill="%s"/>
`, x, y, p.Color))
		if p.Label != "" {
			sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" fill="%s" font-family="monospace" font-size="11">%s</text>
`, x+8, y-6, svgText, p.Label))
		}
	}

	sb.WriteString("</g>\n")

	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" text-anchor="middle" fill="%s" font-family="monospace" font-size="12">%s</text>
`, ox+pw/2, oy+ph+32, svgText, fig.Axes[0].Title))
	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" text-anchor="middle" transform="rotate(-90 %.1f %.1f)" fill="%s" font-family="monospace" font-size="12">%s</text>
`, ox-28, oy+ph/2, ox-28, oy+ph/2, svgText, fig.Axes[1].Title))
}

func ternarySVG(sb *strings.Builder, fig chart.Figure, width, height int) {
	side := math.Min(float64(width), float64(height)) - 2*svgMargin
	th := side * math.Sqrt(3) / 2
	ox := (float64(width) - side) / 2
	oy := (float64(height) - th) / 2

	// Vertices: first axis at the apex, second bottom-left, third
	// bottom-right.
	apexX, apexY := ox+side/2, oy
	leftX, leftY := ox, oy+th
	rightX, rightY := ox+side, oy+th

	sb.WriteString(fmt.Sprintf(`<polygon fill="none" stroke="%s" points="%.1f,%.1f %.1f,%.1f %.1f,%.1f"/>
`, svgFrame, apexX, apexY, leftX, leftY, rightX, rightY))

	for _, p := range fig.Points {
		a, b, c := p.Coords[0], p.Coords[1], p.Coords[2]
		// Raw barycentric combination; off-simplex rows land off the
		// triangle.
		x := a*apexX + b*leftX + c*rightX
		y := a*apexY + b*leftY + c*rightY
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="5" fill="%s"/>
`, x, y, p.Color))
		if p.Label != "" {
			sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" fill="%s" font-family="monospace" font-size="11">%s</text>
`, x+8, y-6, svgText, p.Label))
		}
	}

	anchors := [][2]float64{
		{apexX, apexY - 12},
		{leftX, leftY},
		{rightX, rightY},
	}
	for i, axis := range fig.Axes {
		x, y := anchors[i][0], anchors[i][1]
		if axis.TitleBelow {
			y += 30
		}
		transform := ""
		if axis.TitleAngle != 0 {
			transform = fmt.Sprintf(` transform="rotate(%.0f %.1f %.1f)"`, axis.TitleAngle, x, y)
		}
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" text-anchor="middle"%s fill="%s" font-family="monospace" font-size="12">%s</text>
`, x, y, transform, svgText, axis.Title))
	}
}

func lineSVG(sb *strings.Builder, fig chart.Figure, width, height int) {
	pw := float64(width) - 2*svgMargin
	ph := float64(height) - 2*svgMargin
	ox, oy := svgMargin, svgMargin

	xmin, xmax := axisRange(fig.Axes[0], seriesValues(fig.Series, false))
	ymin, ymax := axisRange(fig.Axes[1], seriesValues(fig.Series, true))

	toX := func(v float64) float64 { return ox + (v-xmin)/(xmax-xmin)*pw }
	toY := func(v float64) float64 { return oy + ph - (v-ymin)/(ymax-ymin)*ph }

	sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="%s"/>
`, ox, oy, pw, ph, svgFrame))

	for _, s := range fig.Series {
		if len(s.X) == 0 {
			continue
		}
		pts := make([][2]float64, len(s.X))
		for i := range s.X {
			pts[i] = [2]float64{toX(s.X[i]), toY(s.Y[i])}
		}
		if len(pts) == 1 {
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>
`, pts[0][0], pts[0][1], s.Color))
			continue
		}
		if s.Smooth {
			sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="%s"/>
`, s.Color, smoothPath(pts)))
			continue
		}
		sb.WriteString(fmt.Sprintf(`<polyline fill="none" stroke="%s" stroke-width="1.5" points="`, s.Color))
		for i, p := range pts {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", p[0], p[1]))
		}
		sb.WriteString("\"/>\n")
	}

	// Legend
	for i, s := range fig.Series {
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" text-anchor="end" fill="%s" font-family="monospace" font-size="11">%s</text>
`, ox+pw-8, oy+14*float64(i+1), s.Color, s.Name))
	}

	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" text-anchor="middle" fill="%s" font-family="monospace" font-size="12">%s</text>
`, ox+pw/2, oy+ph+32, svgText, fig.Axes[0].Title))
	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" text-anchor="middle" transform="rotate(-90 %.1f %.1f)" fill="%s" font-family="monospace" font-size="12">%s</text>
`, ox-28, oy+ph/2, ox-28, oy+ph/2, svgText, fig.Axes[1].Title))
}

// smoothPath interpolates between samples with quadratic segments
// through midpoints. Presentation only; the samples are unchanged.
func smoothPath(pts [][2]float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "M%.1f,%.1f", pts[0][0], pts[0][1])
	for i := 1; i < len(pts)-1; i++ {
		mx := (pts[i][0] + pts[i+1][0]) / 2
		my := (pts[i][1] + pts[i+1][1]) / 2
		fmt.Fprintf(&b, " Q%.1f,%.1f %.1f,%.1f", pts[i][0], pts[i][1], mx, my)
	}
	last := pts[len(pts)-1]
	fmt.Fprintf(&b, " L%.1f,%.1f", last[0], last[1])
	return b.String()
}

func axisRange(ax chart.Axis, values []float64) (float64, float64) {
	if ax.Fixed {
		return ax.Min, ax.Max
	}

	// Find bounds
	if len(values) == 0 {
		return 0, 1
	}
	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	// Add padding
	span := max - min
	if span == 0 {
		span = 1
	}
	return min - span*0.1, max + span*0.1
}

func coords(pts []chart.Point, i int) []float64 {
	out := make([]float64, 0, len(pts))
	for _, p := range pts {
		out = append(out, p.Coords[i])
	}
	return out
}

func seriesValues(series []chart.Series, y bool) []float64 {
	var out []float64
	for _, s := range series {
		if y {
			out = append(out, s.Y...)
		} else {
			out = append(out, s.X...)
		}
	}
	return out
}
