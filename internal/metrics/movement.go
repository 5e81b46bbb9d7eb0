package metrics

import "math"

type Movement struct {
	name    string
	prev    map[string][]float64
	last    float64
	max     float64
	samples int
}

func NewMovement() *Movement {
	return &Movement{
		name: "movement",
		prev: make(map[string][]float64),
	}
}

func (m *Movement) Name() string { return m.name }

func (m *Movement) Observe(player string, values []float64) {
	old, ok := m.prev[player]

	snapshot := make([]float64, len(values))
	copy(snapshot, values)
	m.prev[player] = snapshot

	if !ok || len(old) != len(values) {
		return
	}

	var dist float64
	for i, v := range values {
		dist += math.Abs(v - old[i])
	}

	m.last = dist
	m.max = math.Max(m.max, dist)
	m.samples++
}

func (m *Movement) Value() float64 {
	return m.last
}

func (m *Movement) Max() float64 {
	return m.max
}

func (m *Movement) Samples() int { return m.samples }

func (m *Movement) Reset() {
	m.prev = make(map[string][]float64)
	m.last = 0
	m.max = 0
	m.samples = 0
}
