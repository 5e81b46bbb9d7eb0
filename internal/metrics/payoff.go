package metrics

import "math"

type PayoffStats struct {
	name    string
	slots   int
	samples int
	sum     []float64
	min     []float64
	max     []float64
}

func NewPayoffStats(slots int) *PayoffStats {
	p := &PayoffStats{
		name:  "payoff",
		slots: slots,
		sum:   make([]float64, slots),
		min:   make([]float64, slots),
		max:   make([]float64, slots),
	}
	for i := range p.min {
		p.min[i] = math.Inf(1)
		p.max[i] = math.Inf(-1)
	}
	return p
}

func (p *PayoffStats) Name() string { return p.name }

func (p *PayoffStats) Observe(payoffs []float64) {
	if len(payoffs) != p.slots {
		return
	}
	for i, v := range payoffs {
		p.sum[i] += v
		p.min[i] = math.Min(p.min[i], v)
		p.max[i] = math.Max(p.max[i], v)
	}
	p.samples++
}

func (p *PayoffStats) Samples() int { return p.samples }

func (p *PayoffStats) Mean(slot int) float64 {
	if p.samples == 0 || slot < 0 || slot >= p.slots {
		return 0
	}
	return p.sum[slot] / float64(p.samples)
}

func (p *PayoffStats) Min(slot int) float64 {
	if p.samples == 0 || slot < 0 || slot >= p.slots {
		return 0
	}
	return p.min[slot]
}

func (p *PayoffStats) Max(slot int) float64 {
	if p.samples == 0 || slot < 0 || slot >= p.slots {
		return 0
	}
	return p.max[slot]
}

func (p *PayoffStats) Value() float64 {
	if p.samples == 0 || p.slots == 0 {
		return 0
	}
	var total float64
	for _, s := range p.sum {
		total += s
	}
	return total / float64(p.samples*p.slots)
}

func (p *PayoffStats) Reset() {
	for i := range p.sum {
		p.sum[i] = 0
		p.min[i] = math.Inf(1)
		p.max[i] = math.Inf(-1)
	}
	p.samples = 0
}
