package network

import "sort"

// Cycles reports the feedback loops in the wiring: every strongly connected
// set of neurons with more than one member, plus self-connected neurons.
// Names within a loop and the loops themselves are sorted. Loops are legal;
// each edge around one adds a step of latency.
func (g *Graph) Cycles() [][]string {
	t := tarjan{
		g:       g,
		index:   make([]int, len(g.nodes)),
		low:     make([]int, len(g.nodes)),
		onStack: make([]bool, len(g.nodes)),
	}
	for i := range t.index {
		t.index[i] = -1
	}
	for i := range g.nodes {
		if t.index[i] < 0 {
			t.visit(i)
		}
	}

	sort.Slice(t.loops, func(i, j int) bool { return t.loops[i][0] < t.loops[j][0] })
	return t.loops
}

// tarjan walks edges from a neuron to its inputs; loop membership does not
// depend on edge direction.
type tarjan struct {
	g       *Graph
	counter int
	index   []int
	low     []int
	onStack []bool
	stack   []int
	loops   [][]string
}

func (t *tarjan) visit(v int) {
	t.index[v] = t.counter
	t.low[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	selfLoop := false
	for _, w := range t.g.nodes[v].sources {
		switch {
		case w == groundIndex:
			continue
		case w == v:
			selfLoop = true
		case t.index[w] < 0:
			t.visit(w)
			t.low[v] = min(t.low[v], t.low[w])
		case t.onStack[w]:
			t.low[v] = min(t.low[v], t.index[w])
		}
	}

	if t.low[v] != t.index[v] {
		return
	}

	var members []string
	for {
		w := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
		t.onStack[w] = false
		members = append(members, t.g.nodes[w].name)
		if w == v {
			break
		}
	}
	if len(members) > 1 || selfLoop {
		sort.Strings(members)
		t.loops = append(t.loops, members)
	}
}
