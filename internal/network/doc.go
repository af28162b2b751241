// Package network wires named neuron models into a graph and advances them
// synchronously.
//
// A [Graph] is built once from declarative [Record] values with [Build]. Each
// record names a neuron, its update rule, arity, parameters, optional weights
// and an ordered list of connection names aligned with the weights. The name
// [Ground] is a constant-zero source.
//
// # Stepping
//
// [Graph.Step] runs in two phases. First every model steps on the synapse
// inputs left by the previous call and its output is written to the probe
// table. Then every model's connections are read back from the updated table
// and pushed as its next inputs. Each output is therefore a function of the
// previous step's probe snapshot only: feedback edges carry exactly one step
// of latency and results do not depend on the order neurons were declared.
//
//	g, err := network.Build(records, network.WithSeed(1))
//	if err != nil {
//	    return err
//	}
//	for i := 0; i < steps; i++ {
//	    g.Step(dt)
//	    fmt.Println(g.Probe("A") - g.Probe("B"))
//	}
//
// # Thread Safety
//
// Graph instances are NOT thread-safe; a graph is owned by one driver.
package network
