package record

import (
	"errors"
	"fmt"
)

// Domain errors for dataset loading and lookup.
var (
	// ErrBadShape indicates a resource that does not parse as its
	// declared shape. Loading must fail visibly rather than substitute
	// empty data.
	ErrBadShape = errors.New("record: malformed resource shape")

	// ErrEmptyDataset indicates a resource with zero rows where at
	// least one is required.
	ErrEmptyDataset = errors.New("record: empty dataset")

	// ErrRaggedAttributes indicates strategy records whose domain
	// attribute names differ within one dataset.
	ErrRaggedAttributes = errors.New("record: inconsistent attribute names across records")

	// ErrRaggedSlots indicates payoff or history rows whose per-player
	// slot count differs within one dataset.
	ErrRaggedSlots = errors.New("record: inconsistent player slot count across records")

	// ErrMissingIteration indicates no row exists for a requested
	// iteration index.
	ErrMissingIteration = errors.New("record: no record for iteration")
)

// ShapeError wraps a shape violation with the row where it was
// detected. The loader prefixes the resource name.
type ShapeError struct {
	Row     int
	Wrapped error
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Wrapped)
}

func (e *ShapeError) Unwrap() error {
	return e.Wrapped
}
