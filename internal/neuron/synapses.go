package neuron

import "fmt"

// synapses holds the weight and input vectors shared by every update rule.
// Both are allocated once at the model's arity and only ever copied into.
type synapses struct {
	weight  []float64
	synapse []float64
}

func newSynapses(n int) synapses {
	return synapses{
		weight:  make([]float64, n),
		synapse: make([]float64, n),
	}
}

func (s *synapses) Arity() int { return len(s.weight) }

func (s *synapses) SetWeights(w []float64) error {
	if len(w) != len(s.weight) {
		return fmt.Errorf("%w: %d weights for arity %d", ErrArity, len(w), len(s.weight))
	}
	copy(s.weight, w)
	return nil
}

func (s *synapses) SetSynapseInputs(in []float64) {
	copy(s.synapse, in)
}

func (s *synapses) Weights() []float64 {
	w := make([]float64, len(s.weight))
	copy(w, s.weight)
	return w
}

func (s *synapses) sum() float64 {
	total := 0.0
	for i, w := range s.weight {
		total += w * s.synapse[i]
	}
	return total
}

func (s *synapses) sumExcept(skip int) float64 {
	total := 0.0
	for i, w := range s.weight {
		if i != skip {
			total += w * s.synapse[i]
		}
	}
	return total
}
