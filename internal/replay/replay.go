// Package replay maps the symbolic action vocabulary of a game to a
// visual asset namespace. The game family is never declared by the
// producer; it is inferred from which tokens appear in the history.
package replay

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Family identifies one supported game family.
type Family int

const (
	FamilyUnknown Family = iota
	FamilyRockPaperScissor
	FamilyPrisonerDilemma
	FamilyBarCrowding
)

// String returns the family's asset namespace.
func (f Family) String() string {
	switch f {
	case FamilyRockPaperScissor:
		return "rock_paper_scissor"
	case FamilyPrisonerDilemma:
		return "prisoner_dilemma"
	case FamilyBarCrowding:
		return "bar_crowding"
	default:
		return "unknown"
	}
}

// ErrUnknownFamily indicates history tokens matching no known game
// vocabulary. The replay view is skipped; nothing else is affected.
var ErrUnknownFamily = errors.New("replay: tokens match no known game family")

// families lists the supported families in classification order. The
// vocabularies are closed and mutually disjoint.
var families = []struct {
	family Family
	vocab  map[string]bool
}{
	{FamilyRockPaperScissor, vocab("ROCK", "PAPER", "SCISSOR", "SCISSORS")},
	{FamilyPrisonerDilemma, vocab("SNITCH", "SILENCE")},
	{FamilyBarCrowding, vocab("GO_TO_BAR", "STAY_HOME")},
}

func vocab(tokens ...string) map[string]bool {
	m := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		m[t] = true
	}
	return m
}

// Families returns the supported families in classification order.
func Families() []Family {
	out := make([]Family, len(families))
	for i, f := range families {
		out[i] = f.family
	}
	return out
}

// Vocabulary returns the action tokens of a family.
func Vocabulary(f Family) []string {
	for _, entry := range families {
		if entry.family != f {
			continue
		}
		out := make([]string, 0, len(entry.vocab))
		for t := range entry.vocab {
			out = append(out, t)
		}
		sort.Strings(out)
		return out
	}
	return nil
}

// Classify infers the game family of a history row. Every token must
// belong to the same vocabulary.
func Classify(tokens []string) (Family, error) {
	if len(tokens) == 0 {
		return FamilyUnknown, fmt.Errorf("%w: empty history", ErrUnknownFamily)
	}
	for _, entry := range families {
		if containsAll(entry.vocab, tokens) {
			return entry.family, nil
		}
	}
	return FamilyUnknown, fmt.Errorf("%w: %s", ErrUnknownFamily, strings.Join(tokens, ", "))
}

func containsAll(vocab map[string]bool, tokens []string) bool {
	for _, t := range tokens {
		if !vocab[t] {
			return false
		}
	}
	return true
}

// AssetRef names the visual asset for one player slot's action.
type AssetRef struct {
	Family Family
	Slot   int
	Token  string
	Path   string
}

// Assets resolves one asset per player slot. The path is the family
// namespace plus the literal token. The prisoner-dilemma family renders
// position-dependently even though both players share a token set, so
// its paths carry a player-slot prefix; the stored tokens stay
// unprefixed.
func Assets(tokens []string, family Family) ([]AssetRef, error) {
	refs := make([]AssetRef, 0, len(tokens))
	for slot, token := range tokens {
		name := token
		if family == FamilyPrisonerDilemma {
			name = fmt.Sprintf("p%d_%s", slot, token)
		}
		refs = append(refs, AssetRef{
			Family: family,
			Slot:   slot,
			Token:  token,
			Path:   fmt.Sprintf("%s/%s.png", family, name),
		})
	}
	return refs, nil
}

// Mapper resolves history tokens to replay markup. AssetBase prefixes
// every asset path, e.g. "/assets".
type Mapper struct {
	AssetBase string
}

// Markup classifies the tokens and emits one image cell per player
// slot. The alt text carries the raw token so text-only surfaces can
// render the action without the asset.
func (m Mapper) Markup(tokens []string) (string, error) {
	family, err := Classify(tokens)
	if err != nil {
		return "", err
	}
	refs, err := Assets(tokens, family)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(`<div class="replay">`)
	for _, ref := range refs {
		fmt.Fprintf(&b, `<img class="replay-cell" src="%s" alt="%s">`,
			joinPath(m.AssetBase, ref.Path), ref.Token)
	}
	b.WriteString(`</div>`)
	return b.String(), nil
}

func joinPath(base, path string) string {
	if base == "" {
		return path
	}
	return strings.TrimRight(base, "/") + "/" + path
}
