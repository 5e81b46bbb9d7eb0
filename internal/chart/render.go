package chart

import (
	"errors"
	"fmt"

	"github.com/san-kum/eqreplay/internal/frame"
	"github.com/san-kum/eqreplay/internal/record"
)

// ErrUnsupportedDimensionality indicates a strategy space with neither
// two nor three attributes. The caller surfaces it; rendering of the
// other views continues.
var ErrUnsupportedDimensionality = errors.New("chart: unsupported strategy dimensionality")

// Strategy builds the figure for one strategy frame. The recipe is
// chosen by the number of domain attributes: two maps to a pinned
// unit-square scatter, three to a ternary scatter.
func Strategy(f frame.Frame, title string) (Figure, error) {
	switch len(f.Names) {
	case 2:
		return unitSquare(f, title), nil
	case 3:
		return ternary(f, title), nil
	default:
		return Figure{}, fmt.Errorf("%w: %d attributes", ErrUnsupportedDimensionality, len(f.Names))
	}
}

// unitSquare renders a two-action strategy on [0,1] x [0,1]. The axes
// stay pinned so successive frames share one coordinate system, and the
// boundary polyline marks the x+y=1 simplex edge through the corners.
func unitSquare(f frame.Frame, title string) Figure {
	fig := Figure{
		Title: title,
		Kind:  Scatter,
		Axes: []Axis{
			{Title: f.Names[0], Min: 0, Max: 1, Fixed: true},
			{Title: f.Names[1], Min: 0, Max: 1, Fixed: true},
		},
		Boundary:    [][2]float64{{0, 1}, {0, 0}, {1, 0}},
		EqualAspect: true,
	}
	fig.Points = points(f)
	return fig
}

// ternary renders a three-action strategy with raw coordinates. Values
// are assumed to sum to one and are never renormalized; a producer that
// emits off-simplex rows sees them drawn off the triangle.
func ternary(f frame.Frame, title string) Figure {
	fig := Figure{
		Title: title,
		Kind:  Ternary,
		Axes: []Axis{
			{Title: f.Names[0]},
			{Title: f.Names[1], TitleAngle: 45, TitleBelow: true},
			{Title: f.Names[2], TitleAngle: -45, TitleBelow: true},
		},
	}
	fig.Points = points(f)
	return fig
}

func points(f frame.Frame) []Point {
	pts := make([]Point, 0, len(f.Records))
	for _, r := range f.Records {
		pts = append(pts, Point{
			Label:  r.Player,
			Color:  r.Color,
			Coords: r.Values(f.Names),
		})
	}
	return pts
}

// PayoffSeries returns the raw per-slot payoff series filtered to
// iter <= time. The first return value holds the iteration indices; the
// second holds one value slice per player slot, aligned with the first.
// Smoothing never touches these values.
func PayoffSeries(ds record.PayoffDataset, time int) ([]float64, [][]float64) {
	slots := ds.Slots()
	series := make([][]float64, slots)
	var iters []float64
	for _, r := range ds {
		if r.Iter > time {
			continue
		}
		iters = append(iters, float64(r.Iter))
		for s := 0; s < slots; s++ {
			series[s] = append(series[s], r.Payoffs[s])
		}
	}
	return iters, series
}

// Payoffs builds the cumulative payoff figure up to time. Each player
// slot gets one line in its palette color, the same color its strategy
// point carries. Slot counts beyond the palette fail the same way frame
// extraction does.
func Payoffs(ds record.PayoffDataset, time int, smooth bool, title string) (Figure, error) {
	iters, series := PayoffSeries(ds, time)
	fig := Figure{
		Title: title,
		Kind:  Line,
		Axes: []Axis{
			{Title: "iter"},
			{Title: "payoff"},
		},
	}
	for s, values := range series {
		color, err := frame.PlayerColor(s)
		if err != nil {
			return Figure{}, err
		}
		fig.Series = append(fig.Series, Series{
			Name:   fmt.Sprintf("player %d", s),
			Color:  color,
			X:      iters,
			Y:      values,
			Smooth: smooth,
		})
	}
	return fig, nil
}

// Mapper resolves one iteration's action tokens to replay markup.
type Mapper interface {
	Markup(tokens []string) (string, error)
}

// History builds the replay markup for the exact cursor iteration. A
// missing iteration is an indexing failure and propagates; there is no
// nearest-match fallback.
func History(ds record.HistoryDataset, time int, m Mapper) (string, error) {
	r, err := ds.At(time)
	if err != nil {
		return "", err
	}
	return m.Markup(r.History)
}
