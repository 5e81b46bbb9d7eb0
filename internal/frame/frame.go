// Package frame derives the per-iteration view consumed by the chart
// strategies: the records of one time step, the ordered domain
// attribute names, and one palette color per player.
package frame

import (
	"errors"
	"fmt"

	"github.com/san-kum/eqreplay/internal/record"
)

// Reserved is the set of field names excluded from the domain
// attributes of a frame. Attribute count decides the chart strategy, so
// bookkeeping fields must never leak into it.
var Reserved = map[string]bool{
	record.FieldIter:   true,
	record.FieldPlayer: true,
	record.FieldColor:  true,
}

// Palette holds the per-player colors, indexed by a player's position
// in frame order. Its size is the supported player cardinality.
var Palette = [7]string{
	"#1f77b4",
	"#ff7f0e",
	"#2ca02c",
	"#d62728",
	"#9467bd",
	"#8c564b",
	"#e377c2",
}

// ErrTooManyPlayers indicates more players at one iteration than the
// palette supports. Colors never wrap around.
var ErrTooManyPlayers = errors.New("frame: more players than palette colors")

// PlayerColor returns the palette color for the player at position i in
// frame order.
func PlayerColor(i int) (string, error) {
	if i < 0 || i >= len(Palette) {
		return "", fmt.Errorf("%w: position %d, palette size %d", ErrTooManyPlayers, i, len(Palette))
	}
	return Palette[i], nil
}

// Frame is the derived view for one iteration index.
type Frame struct {
	// Time is the iteration the frame was extracted for.
	Time int

	// Names holds the domain attribute names in wire order. It is
	// populated from the dataset schema even when no record matches
	// Time.
	Names []string

	// Players holds the unique player identifiers at this iteration in
	// first-seen order.
	Players []string

	// Records holds copies of the matching rows, each colored by its
	// player's position in Players.
	Records []record.StrategyRecord
}

// Extract builds the frame for one iteration. It filters records to
// iter == time exactly; a missing iteration yields an empty record set,
// never the nearest neighbor. The input dataset is not modified.
func Extract(records record.StrategyDataset, time int) (Frame, error) {
	f := Frame{Time: time}
	if len(records) == 0 {
		return f, nil
	}

	for _, name := range records[0].AttrNames() {
		if !Reserved[name] {
			f.Names = append(f.Names, name)
		}
	}

	slots := make(map[string]int)
	for _, r := range records {
		if r.Iter != time {
			continue
		}
		slot, ok := slots[r.Player]
		if !ok {
			slot = len(f.Players)
			slots[r.Player] = slot
			f.Players = append(f.Players, r.Player)
		}
		color, err := PlayerColor(slot)
		if err != nil {
			return Frame{}, err
		}
		colored := r
		colored.Color = color
		f.Records = append(f.Records, colored)
	}
	return f, nil
}
