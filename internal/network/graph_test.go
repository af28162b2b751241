package network_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/cpgsim/internal/network"
)

func constSum(name string, c float64, weights []float64, conns ...string) network.Record {
	return network.Record{
		Name:        name,
		Type:        "ConstSum",
		N:           len(conns),
		Params:      map[string]float64{"c": c},
		Weights:     weights,
		Connections: conns,
	}
}

func matsuoka(name string, w float64, other string) network.Record {
	return network.Record{
		Name:        name,
		Type:        "MatsuokaOscillator",
		N:           1,
		Params:      map[string]float64{"s": 1, "b": 2.5, "tu": 0.1, "tv": 0.2},
		Weights:     []float64{w},
		Connections: []string{other},
	}
}

func trace(g *network.Graph, steps int, dt float64, names ...string) [][]float64 {
	out := make([][]float64, steps)
	for i := range out {
		g.Step(dt)
		row := make([]float64, len(names))
		for j, name := range names {
			row[j] = g.Probe(name)
		}
		out[i] = row
	}
	return out
}

var _ = Describe("Graph", func() {
	Describe("probing", func() {
		It("reads a grounded constant every step", func() {
			g, err := network.Build([]network.Record{constSum("A", 2, []float64{1}, network.Ground)})
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 10; i++ {
				g.Step(0.01)
				Expect(g.Probe("A")).To(Equal(2.0))
			}
		})

		It("reads zero for ground, unknown names and before the first step", func() {
			g, err := network.Build([]network.Record{constSum("A", 3, nil)})
			Expect(err).NotTo(HaveOccurred())

			Expect(g.Probe("A")).To(BeZero())
			g.Step(0.01)
			Expect(g.Probe(network.Ground)).To(BeZero())
			Expect(g.Probe("nope")).To(BeZero())
			Expect(g.Probes()).To(Equal(map[string]float64{"A": 3, network.Ground: 0}))
		})

		It("tracks steps and simulated time", func() {
			g, err := network.Build([]network.Record{constSum("A", 0, nil)})
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 4; i++ {
				g.Step(0.25)
			}
			Expect(g.Steps()).To(Equal(4))
			Expect(g.Time()).To(Equal(1.0))
		})
	})

	Describe("two-phase stepping", func() {
		It("delays a chain by one step per edge", func() {
			g, err := network.Build([]network.Record{
				constSum("A", 0, []float64{1}, "B"),
				constSum("B", 5, []float64{1}, network.Ground),
			})
			Expect(err).NotTo(HaveOccurred())

			g.Step(0.01)
			Expect(g.Probe("A")).To(Equal(0.0))
			Expect(g.Probe("B")).To(Equal(5.0))

			g.Step(0.01)
			Expect(g.Probe("A")).To(Equal(5.0))
			Expect(g.Probe("B")).To(Equal(5.0))
		})

		It("carries exactly one step of latency around a feedback loop", func() {
			// E opens at step 3 (count 3 > start 2.5) and perturbs A's external input.
			g, err := network.Build([]network.Record{
				constSum("A", 0, []float64{1, 1}, "B", "E"),
				constSum("B", 0, []float64{1}, "A"),
				{
					Name:   "E",
					Type:   "Timer",
					N:      0,
					Params: map[string]float64{"c": 1, "start": 2.5, "end": 100},
				},
			})
			Expect(err).NotTo(HaveOccurred())

			rows := trace(g, 6, 1.0, "E", "A", "B")
			Expect(rows).To(Equal([][]float64{
				{0, 0, 0},
				{0, 0, 0},
				{1, 0, 0},
				{1, 1, 0},
				{1, 1, 1},
				{1, 2, 1},
			}))
		})

		It("is independent of record order", func() {
			records := []network.Record{
				matsuoka("L", -2, "R"),
				matsuoka("R", -2, "L"),
				constSum("Sum", 0, []float64{1, -1}, "L", "R"),
				{
					Name:        "Gate",
					Type:        "inter",
					N:           2,
					Params:      map[string]float64{"bypass": 0},
					Weights:     []float64{1, 1},
					Connections: []string{"Sum", "L"},
				},
			}
			reversed := make([]network.Record, len(records))
			for i, r := range records {
				reversed[len(records)-1-i] = r
			}

			a, err := network.Build(records, network.WithSeed(9))
			Expect(err).NotTo(HaveOccurred())
			b, err := network.Build(reversed, network.WithSeed(9))
			Expect(err).NotTo(HaveOccurred())

			names := []string{"L", "R", "Sum", "Gate"}
			Expect(trace(a, 2000, 0.001, names...)).To(Equal(trace(b, 2000, 0.001, names...)))
		})
	})

	Describe("half-center oscillator", func() {
		It("alternates between the two sides", func() {
			g, err := network.Build([]network.Record{
				matsuoka("L", -2, "R"),
				matsuoka("R", -2, "L"),
			}, network.WithSeed(3))
			Expect(err).NotTo(HaveOccurred())

			crossings := 0
			prev := 0.0
			for i := 0; i < 20000; i++ {
				g.Step(0.001)
				diff := g.Probe("L") - g.Probe("R")
				if i > 2000 && prev <= 0 && diff > 0 {
					crossings++
				}
				prev = diff
			}
			Expect(crossings).To(BeNumerically(">=", 4))
		})
	})

	Describe("introspection", func() {
		It("reports records back as built", func() {
			records := []network.Record{
				constSum("A", 1.5, []float64{0.5, -1}, "B", network.Ground),
				{
					Name:        "B",
					Type:        "thres",
					N:           1,
					Params:      map[string]float64{"thres": 0.2},
					Connections: []string{"A"},
				},
			}
			g, err := network.Build(records)
			Expect(err).NotTo(HaveOccurred())

			got := g.Records()
			Expect(got).To(HaveLen(2))
			Expect(got[0]).To(Equal(network.Record{
				Name:        "A",
				Type:        "ConstSum",
				N:           2,
				Params:      map[string]float64{"c": 1.5},
				Weights:     []float64{0.5, -1},
				Connections: []string{"B", network.Ground},
			}))
			Expect(got[1].Type).To(Equal("Threshold"))
			Expect(got[1].Weights).To(Equal([]float64{0}))

			rebuilt, err := network.Build(got)
			Expect(err).NotTo(HaveOccurred())
			Expect(rebuilt.Records()).To(Equal(got))
		})

		It("finds feedback loops", func() {
			g, err := network.Build([]network.Record{
				constSum("A", 0, []float64{1}, "B"),
				constSum("B", 0, []float64{1}, "A"),
				constSum("C", 0, []float64{1}, "C"),
				constSum("D", 0, []float64{1}, "A"),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(g.Cycles()).To(Equal([][]string{{"A", "B"}, {"C"}}))
		})

		It("exposes models and names", func() {
			g, err := network.Build([]network.Record{
				constSum("b", 0, nil),
				constSum("a", 0, nil),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(g.Names()).To(Equal([]string{"a", "b"}))
			Expect(g.Len()).To(Equal(2))
			Expect(g.Has(network.Ground)).To(BeTrue())
			Expect(g.Has("c")).To(BeFalse())

			m, ok := g.Model("a")
			Expect(ok).To(BeTrue())
			Expect(m.Arity()).To(BeZero())
		})
	})
})
