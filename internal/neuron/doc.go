// Package neuron provides the per-step update rules used as network nodes.
//
// Every rule implements [Model]: a fixed arity N, a weight vector and a
// synapse-input vector of length N, and a Step that produces one output per
// call:
//
//   - [ConstSum]: weighted sum plus a constant
//   - [Matsuoka]: half-center oscillator integrated with explicit Euler
//   - [Sigmoid]: logistic function of the weighted sum
//   - [Timer]: weighted sum passed only inside a time window
//   - [InterGate]: one bypass input gated by the others
//   - [Threshold]: weighted sum passed only above a threshold
//
// Models never allocate in Step. Use [New] to construct a model from a kind
// tag and a parameter map, which is how the network loader builds them.
package neuron
