// Package chart turns derived frames into surface-independent figures.
//
// The package dispatches on the dimensionality of the strategy space:
//
//   - [Strategy]: 2 attributes → pinned unit-square scatter,
//     3 attributes → ternary scatter, anything else fails with
//     [ErrUnsupportedDimensionality]
//   - [Payoffs]: one line series per player slot, cumulative up to the
//     cursor
//   - [History]: replay markup for the exact cursor iteration
//
// A [Figure] is a declarative description; it knows nothing about
// terminals, SVG files, or browsers. Drawing surfaces consume figures
// and decide how to rasterize them, including whether to honor the
// smoothing hint on line series. The raw series values are never
// changed by presentation choices.
package chart
