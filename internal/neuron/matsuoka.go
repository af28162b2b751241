package neuron

import "math/rand"

// Matsuoka implements one half of a Matsuoka half-center oscillator.
// State: u (membrane potential), v (self-inhibition / adaptation).
// Equations:
//
//	τu·du/dt = -u + Σ w_i·s_i + s - b·v
//	τv·dv/dt = max(u, 0) - v
//	y = max(u, 0)
//
// Two units wired with negative mutual weights oscillate in antiphase.
type Matsuoka struct {
	synapses
	s  float64 // Tonic drive
	b  float64 // Adaptation gain
	tu float64 // Rise time constant
	tv float64 // Adaptation time constant
	u  float64
	v  float64
}

// NewMatsuoka draws the initial u and v uniformly from (-1, 0] using rng.
// A nil rng starts both at zero.
func NewMatsuoka(n int, s, b, tu, tv float64, rng *rand.Rand) *Matsuoka {
	m := &Matsuoka{synapses: newSynapses(n), s: s, b: b, tu: tu, tv: tv}
	if rng != nil {
		m.u = -rng.Float64()
		m.v = -rng.Float64()
	}
	return m
}

func (m *Matsuoka) Kind() Kind { return KindMatsuoka }

func (m *Matsuoka) Step(dt float64) float64 {
	du := (-m.u + m.sum() + m.s - m.b*m.v) / m.tu * dt
	var dv float64
	if m.u > 0 {
		dv = (m.u - m.v) / m.tv * dt
	} else {
		dv = -m.v / m.tv * dt
	}
	m.u += du
	m.v += dv
	if m.u > 0 {
		return m.u
	}
	return 0
}

// State returns the integrator state.
func (m *Matsuoka) State() (u, v float64) { return m.u, m.v }

// SetState overrides the integrator state.
func (m *Matsuoka) SetState(u, v float64) {
	m.u = u
	m.v = v
}

func (m *Matsuoka) Params() map[string]float64 {
	return map[string]float64{
		"s":  m.s,
		"b":  m.b,
		"tu": m.tu,
		"tv": m.tv,
	}
}
