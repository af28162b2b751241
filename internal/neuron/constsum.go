package neuron

// ConstSum outputs the weighted input sum plus a constant bias.
//
//	y = Σ w_i·s_i + c
type ConstSum struct {
	synapses
	c float64
}

func NewConstSum(n int, c float64) *ConstSum {
	return &ConstSum{synapses: newSynapses(n), c: c}
}

func (n *ConstSum) Kind() Kind { return KindConstSum }

func (n *ConstSum) Step(_ float64) float64 {
	return n.sum() + n.c
}

func (n *ConstSum) Params() map[string]float64 {
	return map[string]float64{"c": n.c}
}
