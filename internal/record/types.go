package record

import "fmt"

// Reserved field names in strategy records. Everything else in a row is
// a domain attribute.
const (
	FieldIter   = "iter"
	FieldPlayer = "player"
	FieldColor  = "color"
)

// Attr is one named domain attribute of a strategy record. Attributes
// keep wire order because it becomes axis order downstream.
type Attr struct {
	Name  string
	Value float64
}

// StrategyRecord is one row of a strategy resource: the mixed-strategy
// snapshot of one player at one iteration. Color is derived during
// frame extraction and never supplied by the producer.
type StrategyRecord struct {
	Iter   int
	Player string
	Color  string
	Attrs  []Attr
}

// AttrNames returns the attribute names in wire order.
func (r StrategyRecord) AttrNames() []string {
	names := make([]string, len(r.Attrs))
	for i, a := range r.Attrs {
		names[i] = a.Name
	}
	return names
}

// Value returns the attribute value for name.
func (r StrategyRecord) Value(name string) (float64, bool) {
	for _, a := range r.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return 0, false
}

// Values returns attribute values in the order of names. Names missing
// from the record yield zero.
func (r StrategyRecord) Values(names []string) []float64 {
	vals := make([]float64, len(names))
	for i, name := range names {
		vals[i], _ = r.Value(name)
	}
	return vals
}

// StrategyDataset is one strategy resource in load order.
type StrategyDataset []StrategyRecord

// MaxIter returns the maximum iteration index in the dataset, or -1 if
// the dataset is empty.
func (ds StrategyDataset) MaxIter() int {
	max := -1
	for _, r := range ds {
		if r.Iter > max {
			max = r.Iter
		}
	}
	return max
}

// Validate checks the dataset invariants: at least one row, and the
// same domain attribute names on every row.
func (ds StrategyDataset) Validate() error {
	if len(ds) == 0 {
		return ErrEmptyDataset
	}
	first := ds[0].AttrNames()
	for i, r := range ds[1:] {
		if !sameNames(first, r.AttrNames()) {
			return fmt.Errorf("%w: row %d has %v, row 0 has %v",
				ErrRaggedAttributes, i+1, r.AttrNames(), first)
		}
	}
	return nil
}

func sameNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// PayoffRecord is one row of the payoff resource: the payoff of every
// player slot at one iteration.
type PayoffRecord struct {
	Iter    int       `json:"iter"`
	Payoffs []float64 `json:"payoffs"`
}

// PayoffDataset is the payoff resource in load order.
type PayoffDataset []PayoffRecord

// Slots returns the player slot count, fixed across the dataset, or 0
// if the dataset is empty.
func (ds PayoffDataset) Slots() int {
	if len(ds) == 0 {
		return 0
	}
	return len(ds[0].Payoffs)
}

// Validate checks that every row carries the same number of payoff
// slots. The constant length is what implicitly determines the player
// count.
func (ds PayoffDataset) Validate() error {
	if len(ds) == 0 {
		return nil
	}
	n := len(ds[0].Payoffs)
	if n == 0 {
		return fmt.Errorf("%w: row 0 has no payoff slots", ErrBadShape)
	}
	for i, r := range ds[1:] {
		if len(r.Payoffs) != n {
			return fmt.Errorf("%w: row %d has %d payoff slots, row 0 has %d",
				ErrRaggedSlots, i+1, len(r.Payoffs), n)
		}
	}
	return nil
}

// HistoryRecord is one row of the history resource: the action token
// played by every player slot at one iteration. The token vocabulary
// identifies the game family; no explicit family field exists.
type HistoryRecord struct {
	Iter    int      `json:"iter"`
	History []string `json:"history"`
}

// HistoryDataset is the history resource in load order.
type HistoryDataset []HistoryRecord

// At returns the record whose iteration equals iter exactly. There is
// no nearest-match fallback; absence is an indexing failure.
func (ds HistoryDataset) At(iter int) (HistoryRecord, error) {
	for _, r := range ds {
		if r.Iter == iter {
			return r, nil
		}
	}
	return HistoryRecord{}, fmt.Errorf("%w %d", ErrMissingIteration, iter)
}

// Validate checks that every row carries the same number of action
// slots.
func (ds HistoryDataset) Validate() error {
	if len(ds) == 0 {
		return nil
	}
	n := len(ds[0].History)
	if n == 0 {
		return fmt.Errorf("%w: row 0 has no action slots", ErrBadShape)
	}
	for i, r := range ds[1:] {
		if len(r.History) != n {
			return fmt.Errorf("%w: row %d has %d action slots, row 0 has %d",
				ErrRaggedSlots, i+1, len(r.History), n)
		}
	}
	return nil
}

// Bundle holds the four resources of one replay session.
type Bundle struct {
	Strategies    StrategyDataset
	AvgStrategies StrategyDataset
	Payoffs       PayoffDataset
	Histories     HistoryDataset
}

// MaxIter returns the maximum iteration index across both strategy
// datasets. It bounds the playback cursor and never changes after load.
func (b *Bundle) MaxIter() int {
	max := b.Strategies.MaxIter()
	if avg := b.AvgStrategies.MaxIter(); avg > max {
		max = avg
	}
	return max
}

// Validate checks all four datasets. The strategy dataset must be
// non-empty; payoff and history datasets may be empty but must be
// internally consistent when present.
func (b *Bundle) Validate() error {
	if err := b.Strategies.Validate(); err != nil {
		return fmt.Errorf("strategy: %w", err)
	}
	if err := b.AvgStrategies.Validate(); err != nil {
		return fmt.Errorf("avg_strategy: %w", err)
	}
	if err := b.Payoffs.Validate(); err != nil {
		return fmt.Errorf("payoff: %w", err)
	}
	if err := b.Histories.Validate(); err != nil {
		return fmt.Errorf("history: %w", err)
	}
	return nil
}
