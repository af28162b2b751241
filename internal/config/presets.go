package config

import (
	"sort"

	"github.com/san-kum/cpgsim/internal/network"
)

func matsuokaPair(left, right string, inhibition float64) []network.Record {
	params := func() map[string]float64 {
		return map[string]float64{"s": 1.0, "b": 2.5, "tu": 0.1, "tv": 0.2}
	}
	return []network.Record{
		{Name: left, Type: "MatsuokaOscillator", N: 1, Params: params(), Weights: []float64{-inhibition}, Connections: []string{right}},
		{Name: right, Type: "MatsuokaOscillator", N: 1, Params: params(), Weights: []float64{-inhibition}, Connections: []string{left}},
	}
}

func defaultSimulation(endTime float64) SimulationConfig {
	return SimulationConfig{
		Dt:          DefaultDt,
		PacingRatio: DefaultPacingRatio,
		EndTime:     endTime,
		Seed:        network.DefaultSeed,
	}
}

// Presets builds fresh documents for the bundled example networks.
var Presets = map[string]func() *Document{
	// Two mutually inhibiting Matsuoka units; the L-R channel is the rhythm.
	"halfcenter": func() *Document {
		return &Document{
			Name:       "halfcenter",
			Simulation: defaultSimulation(20.0),
			Neurons:    matsuokaPair("L", "R", 2.0),
			Probes: ProbeConfig{
				Channels: []network.Channel{{Pos: "L", Neg: "R"}, {Pos: "L", Neg: network.Ground}},
			},
		}
	},
	// A constant source relayed through one synapse.
	"relay": func() *Document {
		return &Document{
			Name:       "relay",
			Simulation: defaultSimulation(1.0),
			Neurons: []network.Record{
				{Name: "A", Type: "ConstSum", N: 1, Params: map[string]float64{"c": 0}, Weights: []float64{1}, Connections: []string{"B"}},
				{Name: "B", Type: "ConstSum", N: 1, Params: map[string]float64{"c": 5}, Weights: []float64{1}, Connections: []string{network.Ground}},
			},
			Probes: ProbeConfig{
				Channels: []network.Channel{{Pos: "A", Neg: network.Ground}, {Pos: "B", Neg: network.Ground}},
			},
		}
	},
	// A half-center whose outputs are released only inside a timer window,
	// then rectified and squashed.
	"gated": func() *Document {
		neurons := matsuokaPair("L", "R", 2.0)
		neurons = append(neurons,
			network.Record{Name: "Enable", Type: "Timer", N: 0, Params: map[string]float64{"c": 1, "start": 2, "end": 8}, Connections: []string{}},
			network.Record{Name: "GateL", Type: "InterGate", N: 2, Params: map[string]float64{"bypass": 0}, Weights: []float64{1, 1}, Connections: []string{"L", "Enable"}},
			network.Record{Name: "GateR", Type: "InterGate", N: 2, Params: map[string]float64{"bypass": 0}, Weights: []float64{1, 1}, Connections: []string{"R", "Enable"}},
			network.Record{Name: "Burst", Type: "Threshold", N: 1, Params: map[string]float64{"thres": 0.1}, Weights: []float64{1}, Connections: []string{"GateL"}},
			network.Record{Name: "Drive", Type: "Sigmoid", N: 2, Params: map[string]float64{"a": 4, "c": -0.5}, Weights: []float64{1, -1}, Connections: []string{"GateL", "GateR"}},
		)
		return &Document{
			Name:       "gated",
			Simulation: defaultSimulation(10.0),
			Neurons:    neurons,
			Probes: ProbeConfig{
				Channels: []network.Channel{
					{Pos: "GateL", Neg: "GateR"},
					{Pos: "Burst", Neg: network.Ground},
					{Pos: "Drive", Neg: network.Ground},
				},
			},
		}
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Document {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
