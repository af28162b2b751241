package main

import (
	"fmt"
	"math"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/cpgsim/internal/network"
	"github.com/san-kum/cpgsim/internal/viz"
)

// unpacedStepsPerFrame is used when the pacing ratio is zero.
const unpacedStepsPerFrame = 1000

func runLive(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(cmd, args)
	if err != nil {
		return err
	}
	if !viz.SetTheme(theme) {
		return fmt.Errorf("unknown theme: %s (available: %v)", theme, viz.ThemeNames())
	}

	opts := viz.DefaultOptions()
	opts.Title = doc.Name
	opts.Dt = doc.Simulation.Dt
	opts.FPS = frameRate
	opts.StepsPerFrame = stepsPerFrame(doc.Simulation.Dt, doc.Simulation.PacingRatio, frameRate)

	g, err := doc.Build()
	if err != nil {
		return err
	}
	channels := channelsFor(doc, g)

	m, err := viz.NewModel(func() (*network.Graph, error) { return doc.Build() }, channels, opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithContext(cmd.Context()))
	_, err = p.Run()
	return err
}

// stepsPerFrame keeps the live view at the requested pacing ratio: one frame
// covers 1/fps wall seconds, which is 1/(fps*ratio) simulated seconds. The
// result is capped at viz.MaxStepsPerFrame.
func stepsPerFrame(dt, ratio float64, fps int) int {
	if ratio <= 0 || dt <= 0 || fps <= 0 {
		return unpacedStepsPerFrame
	}
	n := math.Round(1 / (float64(fps) * ratio * dt))
	if n >= viz.MaxStepsPerFrame || math.IsNaN(n) {
		return viz.MaxStepsPerFrame
	}
	return max(int(n), 1)
}
