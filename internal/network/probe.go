package network

import (
	"errors"
	"fmt"
)

// ErrUnknownProbe indicates a probe channel electrode that names no neuron.
var ErrUnknownProbe = errors.New("network: probe references unknown neuron")

// Channel is a differential probe: the output of Pos minus the output of Neg.
type Channel struct {
	Pos string `yaml:"pos" json:"pos" toml:"pos"`
	Neg string `yaml:"neg" json:"neg" toml:"neg"`
}

// Name labels the channel in output headers.
func (c Channel) Name() string {
	return c.Pos + "-" + c.Neg
}

// Read returns Probe(Pos) - Probe(Neg).
func (c Channel) Read(g *Graph) float64 {
	return g.Probe(c.Pos) - g.Probe(c.Neg)
}

// CheckChannels reports every electrode that is neither a neuron nor ground.
func (g *Graph) CheckChannels(channels []Channel) error {
	return CheckChannels(g.Has, channels)
}

// CheckChannels reports every channel electrode for which has is false.
func CheckChannels(has func(name string) bool, channels []Channel) error {
	var errs []error
	for i, c := range channels {
		for _, name := range []string{c.Pos, c.Neg} {
			if !has(name) {
				errs = append(errs, fmt.Errorf("channel %d (%s): %w: %q", i, c.Name(), ErrUnknownProbe, name))
			}
		}
	}
	return errors.Join(errs...)
}
