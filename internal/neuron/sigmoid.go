package neuron

import "math"

// Sigmoid squashes the weighted input sum through a logistic curve.
//
//	y = 1 / (1 + exp(-a·Σ w_i·s_i)) + c
type Sigmoid struct {
	synapses
	a float64 // Slope
	c float64 // Offset
}

func NewSigmoid(n int, a, c float64) *Sigmoid {
	return &Sigmoid{synapses: newSynapses(n), a: a, c: c}
}

func (n *Sigmoid) Kind() Kind { return KindSigmoid }

func (n *Sigmoid) Step(_ float64) float64 {
	return 1/(1+math.Exp(-n.a*n.sum())) + n.c
}

func (n *Sigmoid) Params() map[string]float64 {
	return map[string]float64{"a": n.a, "c": n.c}
}
