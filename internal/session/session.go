// Package session ties one loaded replay to its playback state. All
// mutable state of a run lives here; there are no package-level
// globals, so two sessions can coexist in one process.
package session

import (
	"github.com/san-kum/eqreplay/internal/chart"
	"github.com/san-kum/eqreplay/internal/frame"
	"github.com/san-kum/eqreplay/internal/playback"
	"github.com/san-kum/eqreplay/internal/record"
	"github.com/san-kum/eqreplay/internal/replay"
)

// Mount names of the rendered views. Surfaces key their drawing slots
// by these.
const (
	MountStrategy    = "strategy"
	MountAvgStrategy = "avg_strategy"
	MountPayoff      = "payoff"
	MountReplay      = "replay"
)

// Surface is a drawing target with named mounts. Replacing a mount
// discards whatever it showed before, which is what keeps redraws
// idempotent: identical input produces identical visuals.
type Surface interface {
	ReplaceFigure(mount string, fig chart.Figure) error
	ReplaceMarkup(mount, markup string) error
}

// Options holds the presentation choices of a session.
type Options struct {
	// Smooth asks line surfaces to interpolate between payoff points.
	// The series values are unaffected.
	Smooth bool

	// AssetBase prefixes replay asset paths, e.g. "/assets".
	AssetBase string
}

// Session owns one replay: the loaded bundle, the playback controller
// and the presentation options.
type Session struct {
	Bundle  *record.Bundle
	Control *playback.Controller
	Mapper  chart.Mapper
	Smooth  bool
}

// New builds a session around a validated bundle. The controller's
// cursor bound is fixed from the bundle here and never changes.
func New(b *record.Bundle, opts Options) *Session {
	return &Session{
		Bundle:  b,
		Control: playback.New(b.MaxIter()),
		Mapper:  replay.Mapper{AssetBase: opts.AssetBase},
		Smooth:  opts.Smooth,
	}
}

// Redraw renders every view for the current cursor. Each redraw is
// computed fresh from the bundle and the cursor; nothing derived
// survives between calls. Failures stay local to their view: a failed
// mount maps to its error and the remaining views still render. A nil
// map means every view rendered.
func (s *Session) Redraw(sur Surface) map[string]error {
	errs := make(map[string]error)
	t := s.Control.Cursor()

	s.drawStrategy(sur, MountStrategy, s.Bundle.Strategies, t, errs)
	s.drawStrategy(sur, MountAvgStrategy, s.Bundle.AvgStrategies, t, errs)

	if len(s.Bundle.Payoffs) > 0 {
		fig, err := chart.Payoffs(s.Bundle.Payoffs, t, s.Smooth, MountPayoff)
		if err == nil {
			err = sur.ReplaceFigure(MountPayoff, fig)
		}
		if err != nil {
			errs[MountPayoff] = err
		}
	}

	if len(s.Bundle.Histories) > 0 {
		markup, err := chart.History(s.Bundle.Histories, t, s.Mapper)
		if err == nil {
			err = sur.ReplaceMarkup(MountReplay, markup)
		}
		if err != nil {
			errs[MountReplay] = err
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (s *Session) drawStrategy(sur Surface, mount string, ds record.StrategyDataset, t int, errs map[string]error) {
	fr, err := frame.Extract(ds, t)
	if err == nil {
		var fig chart.Figure
		fig, err = chart.Strategy(fr, mount)
		if err == nil {
			err = sur.ReplaceFigure(mount, fig)
		}
	}
	if err != nil {
		errs[mount] = err
	}
}

// Summary describes the shape of a loaded bundle.
type Summary struct {
	Attrs       []string `json:"attrs"`
	Players     []string `json:"players"`
	MaxIter     int      `json:"max_iter"`
	Records     int      `json:"records"`
	AvgRecords  int      `json:"avg_records"`
	PayoffSlots int      `json:"payoff_slots"`
	PayoffRows  int      `json:"payoff_rows"`
	HistoryRows int      `json:"history_rows"`
	Family      string   `json:"family,omitempty"`
}

// Summarize reports a bundle's schema, players, bounds and the game
// family sniffed from its history tokens. Family stays empty without a
// history resource.
func Summarize(b *record.Bundle) Summary {
	s := Summary{
		MaxIter:     b.MaxIter(),
		Records:     len(b.Strategies),
		AvgRecords:  len(b.AvgStrategies),
		PayoffSlots: b.Payoffs.Slots(),
		PayoffRows:  len(b.Payoffs),
		HistoryRows: len(b.Histories),
	}
	if len(b.Strategies) > 0 {
		s.Attrs = b.Strategies[0].AttrNames()
	}

	seen := make(map[string]bool)
	for _, r := range b.Strategies {
		if !seen[r.Player] {
			seen[r.Player] = true
			s.Players = append(s.Players, r.Player)
		}
	}

	if len(b.Histories) > 0 {
		family, err := replay.Classify(historyTokens(b.Histories))
		if err != nil {
			family = replay.FamilyUnknown
		}
		s.Family = family.String()
	}
	return s
}

// historyTokens collects the distinct action tokens in first-appearance
// order.
func historyTokens(ds record.HistoryDataset) []string {
	seen := make(map[string]bool)
	var tokens []string
	for _, r := range ds {
		for _, tok := range r.History {
			if !seen[tok] {
				seen[tok] = true
				tokens = append(tokens, tok)
			}
		}
	}
	return tokens
}
