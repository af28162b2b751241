package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/san-kum/cpgsim/internal/config"
	"github.com/san-kum/cpgsim/internal/logging"
)

var (
	dataDir  string
	logLevel string
	logger   = zerolog.Nop()

	// Network source
	preset string
	probes []string

	// Simulation overrides
	dt      float64
	endTime float64
	pacing  float64
	seed    int64

	// Output
	outFile string
	noStore bool
	format  string
	bound   float64

	// Views
	channel   string
	xChannel  string
	yChannel  string
	frameRate int
	theme     string
	benchTime float64
)

// main registers the cpgsim commands and exits with status 1 when the
// selected command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "cpgsim",
		Short:         "central pattern generator network simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.New("cpgsim", logLevel, os.Stderr)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".cpgsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run [config...]",
		Short: "run a network and record its probe channels",
		Long: "Loads one or more network files (merged in order) or a preset, steps the\n" +
			"network at a fixed dt and writes one row of probe differences per step.",
		RunE: runSimulation,
	}
	addSourceFlags(runCmd)
	addSimulationFlags(runCmd)
	runCmd.Flags().StringVarP(&outFile, "out", "o", "", "also write probe rows to this CSV file (- for stdout)")
	runCmd.Flags().BoolVar(&noStore, "no-store", false, "do not record the run in the data directory")
	runCmd.Flags().Float64Var(&bound, "bound", 100, "channel magnitude counted as stable by the stability metric")

	validateCmd := &cobra.Command{
		Use:   "validate [config...]",
		Short: "check a network for configuration errors",
		RunE:  validateNetwork,
	}
	addSourceFlags(validateCmd)

	describeCmd := &cobra.Command{
		Use:   "describe [config...]",
		Short: "print the resolved network document",
		RunE:  describeNetwork,
	}
	addSourceFlags(describeCmd)
	describeCmd.Flags().StringVar(&format, "format", "yaml", "output format (yaml, json, toml)")

	benchCmd := &cobra.Command{
		Use:   "bench [config...]",
		Short: "measure unpaced stepping rate",
		RunE:  benchNetwork,
	}
	addSourceFlags(benchCmd)
	benchCmd.Flags().Float64Var(&benchTime, "time", 10.0, "simulated seconds per measurement")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot recorded probe channels",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&channel, "channel", "", "plot only this channel")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "rhythm and frequency analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&channel, "channel", "", "channel for the power spectrum (default first)")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "plot one channel against another",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().StringVar(&xChannel, "x", "", "channel for the x axis (default first)")
	phaseCmd.Flags().StringVar(&yChannel, "y", "", "channel for the y axis (default second)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export recorded probe rows to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and probe series to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	liveCmd := &cobra.Command{
		Use:   "live [config...]",
		Short: "step a network with a live terminal plot",
		RunE:  runLive,
	}
	addSourceFlags(liveCmd)
	addSimulationFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")
	liveCmd.Flags().StringVar(&theme, "theme", "scope", "color theme")

	presetsCmd := &cobra.Command{
		Use:   "presets [name]",
		Short: "list bundled networks, or print one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "presets:")
				for _, p := range config.ListPresets() {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", p)
				}
				return nil
			}
			doc := config.GetPreset(args[0])
			if doc == nil {
				return fmt.Errorf("unknown preset: %s (available: %s)", args[0], strings.Join(config.ListPresets(), ", "))
			}
			data, err := config.Encode(doc, config.FormatYAML)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	rootCmd.AddCommand(runCmd, validateCmd, describeCmd, benchCmd, listCmd, plotCmd, analyzeCmd, phaseCmd, exportCSVCmd, exportJSONCmd, liveCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "", "start from a bundled network")
	cmd.Flags().StringArrayVar(&probes, "probe", nil, "extra probe channel pos[:neg] (repeatable)")
}

func addSimulationFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep in simulated seconds")
	cmd.Flags().Float64Var(&endTime, "end", config.DefaultEndTime, "simulated end time (<= 0 runs until interrupted)")
	cmd.Flags().Float64Var(&pacing, "pacing", config.DefaultPacingRatio, "wall seconds per simulated second (0 = unpaced)")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed for oscillator initial state")
}
