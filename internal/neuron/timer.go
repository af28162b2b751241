package neuron

// Timer passes its weighted sum plus c only while the elapsed time lies
// strictly inside (start, end). Elapsed time advances by dt on every step and
// never resets, so once the window closes it stays closed.
type Timer struct {
	synapses
	c     float64
	start float64
	end   float64
	count float64
}

func NewTimer(n int, c, start, end float64) *Timer {
	return &Timer{synapses: newSynapses(n), c: c, start: start, end: end}
}

func (n *Timer) Kind() Kind { return KindTimer }

func (n *Timer) Step(dt float64) float64 {
	sum := n.sum()
	n.count += dt
	if n.count > n.start && n.count < n.end {
		return sum + n.c
	}
	return 0
}

// Elapsed returns the accumulated simulated time.
func (n *Timer) Elapsed() float64 { return n.count }

func (n *Timer) Params() map[string]float64 {
	return map[string]float64{"c": n.c, "start": n.start, "end": n.end}
}
