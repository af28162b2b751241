package neuron

// Threshold passes its weighted sum only when it strictly exceeds thres.
type Threshold struct {
	synapses
	thres float64
}

func NewThreshold(n int, thres float64) *Threshold {
	return &Threshold{synapses: newSynapses(n), thres: thres}
}

func (n *Threshold) Kind() Kind { return KindThreshold }

func (n *Threshold) Step(_ float64) float64 {
	sum := n.sum()
	if sum > n.thres {
		return sum
	}
	return 0
}

func (n *Threshold) Params() map[string]float64 {
	return map[string]float64{"thres": n.thres}
}
