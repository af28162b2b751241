package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/cpgsim/internal/analysis"
	"github.com/san-kum/cpgsim/internal/storage"
)

const maxPlots = 6

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNETWORK\tTIME\tSTEPS\tSIM TIME\tDT\tSEED\tSTATUS")

	for _, run := range runs {
		status := "complete"
		if !run.Completed {
			status = "partial"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.3fs\t%.4fs\t%d\t%s\n",
			run.ID,
			run.Network,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.SimTime,
			run.Dt,
			run.Seed,
			status,
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, *storage.Probes, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	probes, err := st.LoadProbes(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(probes.Times) == 0 {
		return nil, nil, fmt.Errorf("run %s has no probe rows", runID)
	}
	return meta, probes, nil
}

// pickChannel returns the named column, or the column at fallback when name
// is empty.
func pickChannel(p *storage.Probes, name string, fallback int) (string, []float64, error) {
	if name == "" {
		if fallback >= len(p.Columns) {
			return "", nil, fmt.Errorf("run has %d channels, need %d", len(p.Columns), fallback+1)
		}
		name = p.Columns[fallback]
	}
	data := p.Channel(name)
	if data == nil {
		return "", nil, fmt.Errorf("unknown channel %q (have %v)", name, p.Columns)
	}
	return name, data, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, probes, err := loadRun(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "network: %s\n", meta.Network)
	fmt.Fprintf(out, "samples: %d\n\n", len(probes.Times))

	columns := probes.Columns
	if channel != "" {
		columns = []string{channel}
	}
	if len(columns) > maxPlots {
		columns = columns[:maxPlots]
	}

	for _, name := range columns {
		_, data, err := pickChannel(probes, name, 0)
		if err != nil {
			return err
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name+" vs time"),
		)
		fmt.Fprintln(out, graph)
		fmt.Fprintln(out)
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, probes, err := loadRun(args[0])
	if err != nil {
		return err
	}

	name, data, err := pickChannel(probes, channel, 0)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "frequency analysis: %s\n", meta.ID)
	fmt.Fprintf(out, "network: %s\n\n", meta.Network)

	ps := analysis.PowerSpectrum(data)
	plotData := ps[:max(len(ps)/4, min(len(ps), 2))]
	if len(plotData) > 1 {
		graph := asciigraph.Plot(plotData,
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum ("+name+")"),
		)
		fmt.Fprintln(out, graph)
		fmt.Fprintln(out)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CHANNEL\tDOMINANT HZ\tPERIOD\tRHYTHM HZ\tMEAN")
	for _, c := range probes.Columns {
		samples := probes.Channel(c)
		freq := analysis.DominantFrequency(samples, meta.Dt)
		period := "-"
		rhythm := "-"
		if p, ok := analysis.Period(probes.Times, samples); ok {
			period = fmt.Sprintf("%.4fs", p)
			rhythm = fmt.Sprintf("%.3f", 1/p)
		}
		fmt.Fprintf(w, "%s\t%.3f\t%s\t%s\t%.4f\n", c, freq, period, rhythm, analysis.Mean(samples))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(probes.Columns) >= 2 {
		a, b := probes.Columns[0], probes.Columns[1]
		if lag, ok := analysis.PhaseLag(probes.Times, probes.Channel(a), probes.Channel(b)); ok {
			fmt.Fprintf(out, "\nphase lag %s -> %s: %.3f cycles\n", a, b, lag)
		}
	}

	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	meta, probes, err := loadRun(args[0])
	if err != nil {
		return err
	}

	xName, x, err := pickChannel(probes, xChannel, 0)
	if err != nil {
		return err
	}
	yName, y, err := pickChannel(probes, yChannel, 1)
	if err != nil {
		return err
	}

	portrait := analysis.NewPhasePortrait(xName, x, yName, y)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "phase portrait: %s (%s)\n", meta.ID, meta.Network)
	fmt.Fprintf(out, "x: %s  y: %s  points: %d\n\n", xName, yName, len(portrait.Points))
	fmt.Fprint(out, portrait.ASCII(70, 24))
	return nil
}

// outputFor opens outFile, or stdout when it is empty. The returned close
// function is always safe to call.
func outputFor(cmd *cobra.Command) (io.Writer, func() error, error) {
	if outFile == "" || outFile == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, probes, err := loadRun(args[0])
	if err != nil {
		return err
	}

	w, closeOut, err := outputFor(cmd)
	if err != nil {
		return err
	}

	sink := storage.NewCSVSink(w)
	if err := sink.WriteHeader(probes.Columns); err != nil {
		closeOut()
		return err
	}
	for i, row := range probes.Rows {
		if err := sink.WriteRow(probes.Times[i], row); err != nil {
			closeOut()
			return err
		}
	}
	if err := sink.Close(); err != nil {
		closeOut()
		return err
	}
	return closeOut()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, probes, err := loadRun(args[0])
	if err != nil {
		return err
	}

	w, closeOut, err := outputFor(cmd)
	if err != nil {
		return err
	}
	if err := storage.ExportJSON(w, meta, probes); err != nil {
		closeOut()
		return err
	}
	return closeOut()
}
