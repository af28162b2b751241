package metrics

import (
	"github.com/san-kum/cpgsim/internal/sim"
)

// Amplitude is the peak-to-peak range of one channel.
type Amplitude struct {
	name     string
	index    int
	min, max float64
	samples  int
}

func NewAmplitude(channel string, index int) *Amplitude {
	return &Amplitude{name: channel + ".amplitude", index: index}
}

func (a *Amplitude) Name() string { return a.name }

func (a *Amplitude) Observe(t float64, values []float64) {
	if a.index >= len(values) {
		return
	}
	v := values[a.index]
	if a.samples == 0 || v < a.min {
		a.min = v
	}
	if a.samples == 0 || v > a.max {
		a.max = v
	}
	a.samples++
}

func (a *Amplitude) Value() float64 {
	if a.samples == 0 {
		return 0
	}
	return a.max - a.min
}

func (a *Amplitude) Reset() {
	a.min, a.max = 0, 0
	a.samples = 0
}

// Mean is the time average of one channel.
type Mean struct {
	name    string
	index   int
	sum     float64
	samples int
}

func NewMean(channel string, index int) *Mean {
	return &Mean{name: channel + ".mean", index: index}
}

func (m *Mean) Name() string { return m.name }

func (m *Mean) Observe(t float64, values []float64) {
	if m.index >= len(values) {
		return
	}
	m.sum += values[m.index]
	m.samples++
}

func (m *Mean) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *Mean) Reset() {
	m.sum = 0
	m.samples = 0
}

// Frequency estimates the rhythm of one channel in Hz from upward crossings
// of its running mean. It reads 0 until two crossings have been seen.
type Frequency struct {
	name      string
	index     int
	mean      float64
	samples   int
	prev      float64
	first     float64
	last      float64
	crossings int
}

func NewFrequency(channel string, index int) *Frequency {
	return &Frequency{name: channel + ".frequency", index: index}
}

func (f *Frequency) Name() string { return f.name }

func (f *Frequency) Observe(t float64, values []float64) {
	if f.index >= len(values) {
		return
	}
	v := values[f.index]
	if f.samples > 0 && f.prev < f.mean && v >= f.mean {
		if f.crossings == 0 {
			f.first = t
		}
		f.last = t
		f.crossings++
	}
	f.samples++
	f.mean += (v - f.mean) / float64(f.samples)
	f.prev = v
}

func (f *Frequency) Value() float64 {
	if f.crossings < 2 || f.last <= f.first {
		return 0
	}
	return float64(f.crossings-1) / (f.last - f.first)
}

func (f *Frequency) Reset() {
	*f = Frequency{name: f.name, index: f.index}
}

// Default returns amplitude, mean and frequency for every channel, in
// channel order.
func Default(channels []string) []sim.Metric {
	out := make([]sim.Metric, 0, 3*len(channels))
	for i, c := range channels {
		out = append(out, NewAmplitude(c, i), NewMean(c, i), NewFrequency(c, i))
	}
	return out
}
