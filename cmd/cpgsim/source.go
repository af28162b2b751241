package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/cpgsim/internal/config"
	"github.com/san-kum/cpgsim/internal/network"
)

// loadDocument resolves the network for a command: the preset (if any) is the
// base, config files are merged over it in order, then --probe channels and
// changed simulation flags apply last.
func loadDocument(cmd *cobra.Command, args []string) (*config.Document, error) {
	var doc *config.Document
	if preset != "" {
		doc = config.GetPreset(preset)
		if doc == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %s)", preset, strings.Join(config.ListPresets(), ", "))
		}
	}

	if len(args) > 0 {
		loaded, err := config.LoadAll(args...)
		if err != nil {
			return nil, err
		}
		if doc == nil {
			doc = loaded
		} else {
			doc.Merge(loaded)
		}
	}

	if doc == nil {
		return nil, errors.New("no network given: pass config files or --preset")
	}

	for _, p := range probes {
		c, err := parseProbe(p)
		if err != nil {
			return nil, err
		}
		doc.Probes.Channels = append(doc.Probes.Channels, c)
	}

	flags := cmd.Flags()
	if flags.Lookup("dt") != nil {
		if flags.Changed("dt") {
			doc.Simulation.Dt = dt
		}
		if flags.Changed("end") {
			doc.Simulation.EndTime = endTime
		}
		if flags.Changed("pacing") {
			doc.Simulation.PacingRatio = pacing
		}
		if flags.Changed("seed") {
			doc.Simulation.Seed = seed
		}
	}

	return doc, nil
}

// parseProbe reads "pos:neg"; a bare name is measured against ground.
func parseProbe(s string) (network.Channel, error) {
	pos, neg, found := strings.Cut(s, ":")
	pos, neg = strings.TrimSpace(pos), strings.TrimSpace(neg)
	if !found {
		neg = network.Ground
	}
	if pos == "" || neg == "" {
		return network.Channel{}, fmt.Errorf("invalid probe %q: want pos[:neg]", s)
	}
	return network.Channel{Pos: pos, Neg: neg}, nil
}

// channelsFor returns the document's channels, or every neuron against ground
// when none are configured.
func channelsFor(doc *config.Document, g *network.Graph) []network.Channel {
	if len(doc.Probes.Channels) > 0 {
		return doc.Probes.Channels
	}
	names := g.Names()
	out := make([]network.Channel, len(names))
	for i, name := range names {
		out[i] = network.Channel{Pos: name, Neg: network.Ground}
	}
	return out
}
