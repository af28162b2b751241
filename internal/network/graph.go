package network

import (
	"github.com/san-kum/cpgsim/internal/neuron"
)

const groundIndex = -1

type node struct {
	name        string
	model       neuron.Model
	connections []string
	sources     []int
	inputs      []float64
}

// Graph owns a set of named neuron models, their wiring and the probe table
// of last outputs.
type Graph struct {
	nodes  []*node
	index  map[string]int
	probes []float64
	steps  int
	time   float64
}

// Step advances every neuron by dt: compute all outputs from the previous
// inputs, then propagate the new outputs along every connection.
func (g *Graph) Step(dt float64) {
	for i, n := range g.nodes {
		g.probes[i] = n.model.Step(dt)
	}

	for _, n := range g.nodes {
		for i, src := range n.sources {
			if src == groundIndex {
				n.inputs[i] = 0
			} else {
				n.inputs[i] = g.probes[src]
			}
		}
		n.model.SetSynapseInputs(n.inputs)
	}

	g.steps++
	g.time += dt
}

// Probe returns the last output of the named neuron, or 0 for ground and
// unknown names. Before the first step every probe reads 0.
func (g *Graph) Probe(name string) float64 {
	i, ok := g.index[name]
	if !ok {
		return 0
	}
	return g.probes[i]
}

// Has reports whether name is a neuron or ground.
func (g *Graph) Has(name string) bool {
	if name == Ground {
		return true
	}
	_, ok := g.index[name]
	return ok
}

// Probes returns a snapshot of the probe table, ground included.
func (g *Graph) Probes() map[string]float64 {
	out := make(map[string]float64, len(g.nodes)+1)
	out[Ground] = 0
	for i, n := range g.nodes {
		out[n.name] = g.probes[i]
	}
	return out
}

// Names returns neuron names in registration (sorted) order.
func (g *Graph) Names() []string {
	names := make([]string, len(g.nodes))
	for i, n := range g.nodes {
		names[i] = n.name
	}
	return names
}

func (g *Graph) Len() int { return len(g.nodes) }

// Steps returns how many times Step has been called.
func (g *Graph) Steps() int { return g.steps }

// Time returns the accumulated simulated time.
func (g *Graph) Time() float64 { return g.time }

// Model returns the named neuron's model.
func (g *Graph) Model(name string) (neuron.Model, bool) {
	i, ok := g.index[name]
	if !ok {
		return nil, false
	}
	return g.nodes[i].model, true
}

// Records describes the graph as it was built. Type is the canonical kind name.
func (g *Graph) Records() []Record {
	out := make([]Record, len(g.nodes))
	for i, n := range g.nodes {
		connections := make([]string, len(n.connections))
		copy(connections, n.connections)
		out[i] = Record{
			Name:        n.name,
			Type:        n.model.Kind().String(),
			N:           n.model.Arity(),
			Params:      n.model.Params(),
			Weights:     n.model.Weights(),
			Connections: connections,
		}
	}
	return out
}
