package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/cpgsim/internal/config"
	"github.com/san-kum/cpgsim/internal/metrics"
	"github.com/san-kum/cpgsim/internal/sim"
	"github.com/san-kum/cpgsim/internal/storage"
)

func simConfig(doc *config.Document) sim.Config {
	return sim.Config{
		Dt:            doc.Simulation.Dt,
		PacingRatio:   doc.Simulation.PacingRatio,
		EndTime:       doc.Simulation.EndTime,
		ValidateState: true,
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(cmd, args)
	if err != nil {
		return err
	}

	g, err := doc.Build()
	if err != nil {
		return err
	}
	for _, cycle := range g.Cycles() {
		logger.Debug().Strs("neurons", cycle).Msg("feedback loop")
	}

	s, err := sim.New(g, channelsFor(doc, g), sim.WithLogger(logger))
	if err != nil {
		return err
	}
	for _, m := range metrics.Default(s.Columns()) {
		s.AddMetric(m)
	}
	s.AddMetric(metrics.NewStability(bound))

	if outFile == "" {
		outFile = doc.Probes.File
	}

	out := cmd.OutOrStdout()
	var sinks []sim.Sink
	if outFile == "-" {
		sinks = append(sinks, storage.NewCSVSink(os.Stdout))
		out = cmd.ErrOrStderr()
	} else if outFile != "" {
		f, err := storage.CreateCSV(outFile)
		if err != nil {
			return err
		}
		sinks = append(sinks, f)
	}

	var (
		st   *storage.Store
		meta *storage.RunMetadata
	)
	if !noStore {
		st = storage.New(dataDir)
		meta = &storage.RunMetadata{
			Network:     doc.Name,
			Source:      sourceOf(args),
			Seed:        doc.Simulation.Seed,
			Dt:          doc.Simulation.Dt,
			EndTime:     doc.Simulation.EndTime,
			PacingRatio: doc.Simulation.PacingRatio,
			Channels:    s.Columns(),
		}
		runSink, err := st.Create(meta)
		if err != nil {
			for _, sink := range sinks {
				sink.Close()
			}
			return err
		}
		sinks = append(sinks, runSink)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(out, "running %s (%d neurons, %d channels)...\n", doc.Name, g.Len(), len(s.Columns()))
	result, runErr := s.Run(ctx, simConfig(doc), storage.Tee(sinks...))

	if meta != nil && result != nil {
		meta.Steps = result.StepsTaken
		meta.SimTime = result.Time
		meta.Metrics = result.Metrics
		meta.Completed = runErr == nil
		if err := st.Finish(meta); err != nil {
			return errors.Join(runErr, err)
		}
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	if runErr != nil {
		fmt.Fprintln(out, "interrupted")
	}

	printSummary(out, meta, result)
	return nil
}

func sourceOf(args []string) string {
	if len(args) == 0 {
		return "preset:" + preset
	}
	return strings.Join(args, ",")
}

func printSummary(w io.Writer, meta *storage.RunMetadata, result *sim.Result) {
	fmt.Fprintf(w, "completed in %v\n", result.Elapsed.Round(time.Millisecond))
	if meta != nil {
		fmt.Fprintf(w, "run id: %s\n", meta.ID)
	}
	fmt.Fprintf(w, "steps: %d (t=%.4fs)\n", result.StepsTaken, result.Time)

	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "\nmetrics:")
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %.6f\n", name, result.Metrics[name])
	}
}

func validateNetwork(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(cmd, args)
	if err != nil {
		return err
	}

	g, err := doc.Build()
	if err != nil {
		return err
	}
	if err := g.CheckChannels(doc.Probes.Channels); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "ok: %s: %d neurons, %d channels\n", doc.Name, g.Len(), len(doc.Probes.Channels))
	for _, cycle := range g.Cycles() {
		fmt.Fprintf(w, "  feedback loop: %s\n", strings.Join(cycle, " -> "))
	}
	return nil
}

// describeNetwork prints the document with its neurons as the built graph
// reports them, so defaults and canonical type names are explicit.
func describeNetwork(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(cmd, args)
	if err != nil {
		return err
	}

	g, err := doc.Build()
	if err != nil {
		return err
	}
	doc.Neurons = g.Records()
	doc.Probes.Channels = channelsFor(doc, g)

	data, err := config.Encode(doc, config.Format(strings.ToLower(format)))
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func benchNetwork(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(cmd, args)
	if err != nil {
		return err
	}

	dts := []float64{0.01, 0.001, 0.0001}

	fmt.Fprintf(cmd.OutOrStdout(), "benchmarking %s\n\n", doc.Name)
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DT\tSTEPS\tTIME\tSTEPS/SEC\tREALTIME")

	for _, step := range dts {
		g, err := doc.Build()
		if err != nil {
			return err
		}
		s, err := sim.New(g, channelsFor(doc, g))
		if err != nil {
			return err
		}

		cfg := sim.Config{Dt: step, EndTime: benchTime}
		result, err := s.Run(cmd.Context(), cfg, nil)
		if err != nil {
			return err
		}

		elapsed := result.Elapsed.Seconds()
		stepsPerSec := float64(result.StepsTaken) / elapsed
		fmt.Fprintf(w, "%.4fs\t%d\t%v\t%.0f\t%.1fx\n",
			step, result.StepsTaken, result.Elapsed.Round(time.Microsecond), stepsPerSec, result.Time/elapsed)
	}

	return w.Flush()
}
