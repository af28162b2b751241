package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/cpgsim/internal/network"
)

const historyCapacity = 600

// MaxStepsPerFrame bounds how much simulated time one frame may cover.
const MaxStepsPerFrame = 1 << 16

type TickMsg time.Time

// Factory builds a fresh graph. The live view calls it at start and on reset.
type Factory func() (*network.Graph, error)

type Options struct {
	Title         string
	Dt            float64
	StepsPerFrame int
	FPS           int
	GraphWidth    int
	GraphHeight   int
}

// DefaultOptions steps a 1 ms network in real time at 30 frames per second.
func DefaultOptions() Options {
	return Options{
		Dt:            0.001,
		StepsPerFrame: 33,
		FPS:           30,
		GraphWidth:    60,
		GraphHeight:   6,
	}
}

// Model contains the running graph and the per-channel traces.
type Model struct {
	factory  Factory
	graph    *network.Graph
	channels []network.Channel
	opts     Options
	t        float64
	steps    int
	running  bool
	showHelp bool
	history  [][]float64
	err      error
}

// NewModel builds the first graph and checks every channel against it.
func NewModel(factory Factory, channels []network.Channel, opts Options) (Model, error) {
	if opts.Dt <= 0 {
		return Model{}, fmt.Errorf("viz: dt must be positive, got %g", opts.Dt)
	}
	opts.StepsPerFrame = min(max(opts.StepsPerFrame, 1), MaxStepsPerFrame)
	if opts.FPS < 1 {
		opts.FPS = 30
	}
	if opts.GraphWidth < 10 {
		opts.GraphWidth = 60
	}
	if opts.GraphHeight < 2 {
		opts.GraphHeight = 6
	}

	g, err := factory()
	if err != nil {
		return Model{}, err
	}
	if err := g.CheckChannels(channels); err != nil {
		return Model{}, err
	}

	m := Model{
		factory:  factory,
		graph:    g,
		channels: append([]network.Channel(nil), channels...),
		opts:     opts,
		running:  true,
		history:  make([][]float64, len(channels)),
	}
	for i := range m.history {
		m.history[i] = make([]float64, 0, historyCapacity)
	}
	return m, nil
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the network.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "p":
			m.running = !m.running
		case "r":
			m.reset()
		case "+", "=":
			m.opts.StepsPerFrame = min(m.opts.StepsPerFrame*2, MaxStepsPerFrame)
		case "-", "_":
			m.opts.StepsPerFrame = max(m.opts.StepsPerFrame/2, 1)
		case "t":
			names := ThemeNames()
			for i, name := range names {
				if name == CurrentTheme.Name {
					SetTheme(names[(i+1)%len(names)])
					break
				}
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.advance()
		}
		return m, m.tick()
	}
	return m, nil
}

// advance runs one frame worth of steps and records the last value of each
// channel.
func (m *Model) advance() {
	for range m.opts.StepsPerFrame {
		m.graph.Step(m.opts.Dt)
		m.steps++
	}
	m.t = float64(m.steps) * m.opts.Dt

	for i, c := range m.channels {
		h := append(m.history[i], c.Read(m.graph))
		if len(h) > historyCapacity {
			h = h[len(h)-historyCapacity:]
		}
		m.history[i] = h
	}
}

// reset rebuilds the graph, so oscillators restart from their seeded state.
func (m *Model) reset() {
	g, err := m.factory()
	if err != nil {
		m.err = err
		m.running = false
		return
	}
	m.graph = g
	m.err = nil
	m.t = 0
	m.steps = 0
	for i := range m.history {
		m.history[i] = m.history[i][:0]
	}
}

func (m Model) Time() float64      { return m.t }
func (m Model) Steps() int         { return m.steps }
func (m Model) Running() bool      { return m.running }
func (m Model) StepsPerFrame() int { return m.opts.StepsPerFrame }

// History returns the recorded trace of channel i, oldest first.
func (m Model) History(i int) []float64 { return m.history[i] }

// View renders one plot per channel beside a status panel.
func (m Model) View() string {
	var plots strings.Builder
	graph := graphStyle.Foreground(CurrentTheme.Secondary)
	for i, c := range m.channels {
		h := m.history[i]
		if len(h) < 2 {
			plots.WriteString(MetricLabel.Render(c.Name()+": waiting for samples") + "\n\n")
			continue
		}
		chart := asciigraph.Plot(h,
			asciigraph.Height(m.opts.GraphHeight),
			asciigraph.Width(m.opts.GraphWidth),
			asciigraph.Caption(c.Name()))
		plots.WriteString(graph.Render(chart) + "\n")
	}

	status := StatusRunning.Render("RUNNING")
	if !m.running {
		status = StatusPaused.Render("PAUSED")
	}
	if m.err != nil {
		status = StatusError.Render("ERROR: " + m.err.Error())
	}

	title := m.opts.Title
	if title == "" {
		title = "network"
	}

	var s strings.Builder
	s.WriteString(HeaderStyle.Foreground(CurrentTheme.Primary).Render(strings.ToUpper(title)) + "\n")
	s.WriteString(status + "\n\n")
	s.WriteString(MetricLabel.Render("Time") + MetricValue.Render(fmt.Sprintf("%.3fs", m.t)) + "\n")
	s.WriteString(MetricLabel.Render("Steps") + MetricValue.Render(fmt.Sprintf("%d", m.steps)) + "\n")
	s.WriteString(MetricLabel.Render("Steps/frame") + MetricValue.Render(fmt.Sprintf("%d", m.opts.StepsPerFrame)) + "\n")
	s.WriteString(MetricLabel.Render("Theme") + MetricValue.Render(CurrentTheme.Name) + "\n\n")
	for i, c := range m.channels {
		v := 0.0
		if h := m.history[i]; len(h) > 0 {
			v = h[len(h)-1]
		}
		s.WriteString(MetricLabel.Render(c.Name()) + MetricValue.Render(fmt.Sprintf("%+.4f", v)) + "\n")
		s.WriteString(SparklineChart(m.history[i], 24) + "\n")
	}
	s.WriteString("\n" + Separator(26) + "\n")
	s.WriteString(KeyHint.Render("SP:Pause R:Reset Q:Quit\n+/-:Speed T:Theme ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, plots.String(), statsStyle.Render(s.String()))
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space/P  - Pause/Resume simulation  ║
║  R        - Rebuild and restart      ║
║  +/-      - Double/halve speed       ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}
