// Package record defines the immutable datasets produced by an upstream
// learning process and consumed by the replay engine.
//
// Four resources exist, each a JSON array loaded whole at startup:
//
//   - [StrategyDataset]: per-iteration strategy snapshots, one row per
//     player, with a free set of numeric domain attributes
//   - a second StrategyDataset holding running-average strategies
//   - [PayoffDataset]: per-iteration payoff vectors, one slot per player
//   - [HistoryDataset]: per-iteration action tokens, one per player slot
//
// # Attribute Order
//
// Strategy records carry their domain attributes in wire order. The
// producer does not declare attribute names up front, and their order
// becomes axis order downstream, so [StrategyRecord] decodes objects
// with a token walk instead of a map and re-emits them in the same
// order. Two records of one dataset always share the same attribute
// names; [Bundle.Validate] enforces this.
//
// # Mutability
//
// Datasets are loaded once and never mutated afterwards. Everything
// derived per time step (frames, figures) is computed fresh from these
// records and discarded after use.
package record
