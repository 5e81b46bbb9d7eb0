package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// UnmarshalJSON decodes a strategy row with a token walk so that domain
// attributes keep their wire order. The two contract fields iter and
// player fill the typed fields; a color field is tolerated because
// re-exported datasets may carry one; every other key must be numeric.
func (r *StrategyRecord) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadShape, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("%w: strategy record must be an object", ErrBadShape)
	}

	var out StrategyRecord
	seenIter, seenPlayer := false, false
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBadShape, err)
		}
		key := keyTok.(string)
		valTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBadShape, err)
		}

		switch key {
		case FieldIter:
			num, ok := valTok.(json.Number)
			if !ok {
				return fmt.Errorf("%w: iter must be a number, got %v", ErrBadShape, valTok)
			}
			n, err := num.Int64()
			if err != nil {
				return fmt.Errorf("%w: iter %q is not an integer", ErrBadShape, num)
			}
			if n < 0 {
				return fmt.Errorf("%w: negative iter %d", ErrBadShape, n)
			}
			out.Iter = int(n)
			seenIter = true
		case FieldPlayer:
			switch v := valTok.(type) {
			case string:
				out.Player = v
			case json.Number:
				out.Player = v.String()
			default:
				return fmt.Errorf("%w: player must be a string or number, got %v", ErrBadShape, valTok)
			}
			seenPlayer = true
		case FieldColor:
			s, ok := valTok.(string)
			if !ok {
				return fmt.Errorf("%w: color must be a string, got %v", ErrBadShape, valTok)
			}
			out.Color = s
		default:
			num, ok := valTok.(json.Number)
			if !ok {
				return fmt.Errorf("%w: attribute %q must be numeric, got %v", ErrBadShape, key, valTok)
			}
			f, err := num.Float64()
			if err != nil {
				return fmt.Errorf("%w: attribute %q: %v", ErrBadShape, key, err)
			}
			out.Attrs = append(out.Attrs, Attr{Name: key, Value: f})
		}
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("%w: %v", ErrBadShape, err)
	}
	if !seenIter {
		return fmt.Errorf("%w: missing iter field", ErrBadShape)
	}
	if !seenPlayer {
		return fmt.Errorf("%w: missing player field", ErrBadShape)
	}

	*r = out
	return nil
}

// MarshalJSON re-emits the row with iter and player first, then the
// domain attributes in their original order, then the derived color if
// one was assigned.
func (r StrategyRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	buf.WriteString(`"iter":`)
	buf.WriteString(strconv.Itoa(r.Iter))
	buf.WriteString(`,"player":`)
	player, err := json.Marshal(r.Player)
	if err != nil {
		return nil, err
	}
	buf.Write(player)
	for _, a := range r.Attrs {
		name, err := json.Marshal(a.Name)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(name)
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatFloat(a.Value, 'g', -1, 64))
	}
	if r.Color != "" {
		color, err := json.Marshal(r.Color)
		if err != nil {
			return nil, err
		}
		buf.WriteString(`,"color":`)
		buf.Write(color)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// DecodeStrategies parses a strategy resource body. Row decoding
// happens one element at a time so a failure names the broken row.
func DecodeStrategies(data []byte) (StrategyDataset, error) {
	var rows []json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadShape, err)
	}
	ds := make(StrategyDataset, len(rows))
	for i, raw := range rows {
		if err := ds[i].UnmarshalJSON(raw); err != nil {
			return nil, &ShapeError{Row: i, Wrapped: err}
		}
	}
	return ds, nil
}

// DecodePayoffs parses the payoff resource body. Unknown fields are a
// shape violation.
func DecodePayoffs(data []byte) (PayoffDataset, error) {
	var ds PayoffDataset
	if err := decodeStrict(data, &ds); err != nil {
		return nil, err
	}
	return ds, nil
}

// DecodeHistories parses the history resource body. Unknown fields are
// a shape violation.
func DecodeHistories(data []byte) (HistoryDataset, error) {
	var ds HistoryDataset
	if err := decodeStrict(data, &ds); err != nil {
		return nil, err
	}
	return ds, nil
}

func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadShape, err)
	}
	return nil
}
