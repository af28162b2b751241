package neuron

// InterGate is an AND-like interneuron: the weighted bypass input passes
// through only when the weighted sum of every other input is positive.
type InterGate struct {
	synapses
	bypass int
}

// NewInterGate requires 0 <= bypass < n; New enforces this for loaded configs.
func NewInterGate(n, bypass int) *InterGate {
	return &InterGate{synapses: newSynapses(n), bypass: bypass}
}

func (n *InterGate) Kind() Kind { return KindInterGate }

func (n *InterGate) Step(_ float64) float64 {
	if n.sumExcept(n.bypass) > 0 {
		return n.weight[n.bypass] * n.synapse[n.bypass]
	}
	return 0
}

// Bypass returns the index of the gated input.
func (n *InterGate) Bypass() int { return n.bypass }

func (n *InterGate) Params() map[string]float64 {
	return map[string]float64{"bypass": float64(n.bypass)}
}
