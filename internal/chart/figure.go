package chart

// Kind identifies how a figure's data is drawn.
type Kind int

const (
	Scatter Kind = iota
	Ternary
	Line
)

// String returns the kind name used in figure output.
func (k Kind) String() string {
	switch k {
	case Scatter:
		return "scatter"
	case Ternary:
		return "ternary"
	case Line:
		return "line"
	default:
		return "unknown"
	}
}

// Axis describes one plot axis.
type Axis struct {
	Title string

	// Min and Max pin the axis range when Fixed is set. Surfaces must
	// clip out-of-range points rather than autoscale.
	Min, Max float64
	Fixed    bool

	// TitleAngle rotates the axis title, in degrees. TitleBelow drops
	// the title below the plot area. Both are cosmetic conventions
	// carried by the ternary layout.
	TitleAngle float64
	TitleBelow bool
}

// Point is one labeled point of a scatter or ternary figure. Coords
// holds (x, y) for scatter figures and the three raw simplex values, in
// axis order, for ternary figures.
type Point struct {
	Label  string
	Color  string
	Coords []float64
}

// Series is one line of a payoff figure. X holds iteration indices and
// Y the raw values at those iterations. Smooth is a presentation hint;
// surfaces may interpolate between points but must draw from the same
// Y values either way.
type Series struct {
	Name   string
	Color  string
	X      []float64
	Y      []float64
	Smooth bool
}

// Figure is a surface-independent description of one rendered view.
type Figure struct {
	Title string
	Kind  Kind
	Axes  []Axis

	// Points is populated for Scatter and Ternary figures, Series for
	// Line figures.
	Points []Point
	Series []Series

	// Boundary is an overlay polyline in data coordinates, drawn behind
	// the points. EqualAspect forces a square rendering of the data
	// rectangle.
	Boundary    [][2]float64
	EqualAspect bool
}
