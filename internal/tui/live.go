package tui

import (
	"fmt"
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/thomasantony/rebound/internal/orbit"
	"github.com/thomasantony/rebound/internal/sim"
	"github.com/thomasantony/rebound/internal/viz"
)

const (
	canvasCols      = 48
	canvasRows      = 22
	historyCapacity = 400
	trailCapacity   = 2000
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2).Width(42)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

type trailPoint struct{ x, y float64 }

// Model drives a live integration: a fixed number of steps per frame, a
// braille trajectory canvas, and an element readout for the first orbit.
type Model struct {
	scenario string
	build    func() (*sim.Simulation, error)

	s            *sim.Simulation
	stepsPerTick int
	running      bool
	err          error

	extent        float64
	trails        [][]trailPoint
	energy0       float64
	energyHistory []float64
}

// NewModel builds the simulation and its live view. The build function is
// kept so "r" can restart from the initial conditions.
func NewModel(scenario string, stepsPerTick int, build func() (*sim.Simulation, error)) (Model, error) {
	s, err := build()
	if err != nil {
		return Model{}, err
	}
	if stepsPerTick < 1 {
		stepsPerTick = 1
	}
	m := Model{
		scenario:     scenario,
		build:        build,
		stepsPerTick: stepsPerTick,
		running:      true,
	}
	m.attach(s)
	return m, nil
}

// attach points the view at a fresh simulation and resets its buffers.
func (m *Model) attach(s *sim.Simulation) {
	m.s = s
	m.energy0 = s.Energy()
	m.energyHistory = m.energyHistory[:0]
	m.trails = make([][]trailPoint, s.N())
	m.extent = 1e-12
	m.recordFrame()
}

func (m *Model) recordFrame() {
	for i := range m.s.Particles {
		p := m.s.Particles[i]
		m.trails[i] = append(m.trails[i], trailPoint{p.X, p.Y})
		if len(m.trails[i]) > trailCapacity {
			m.trails[i] = m.trails[i][1:]
		}
		if r := math.Max(math.Abs(p.X), math.Abs(p.Y)); r > m.extent {
			m.extent = r
		}
	}
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			if s, err := m.build(); err == nil {
				m.attach(s)
				m.err = nil
			}
		case "+", "=":
			m.stepsPerTick *= 2
		case "-", "_":
			if m.stepsPerTick > 1 {
				m.stepsPerTick /= 2
			}
		}
	case TickMsg:
		if m.running && m.err == nil {
			for i := 0; i < m.stepsPerTick; i++ {
				if err := m.s.Step(); err != nil {
					m.err = err
					break
				}
			}
			m.s.Synchronize()
			m.recordFrame()
			if m.energy0 != 0 {
				rel := math.Abs(m.s.Energy()-m.energy0) / math.Abs(m.energy0)
				m.energyHistory = append(m.energyHistory, rel)
				if len(m.energyHistory) > historyCapacity {
					m.energyHistory = m.energyHistory[1:]
				}
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) View() string {
	canvas := viz.NewCanvas(canvasCols, canvasRows)
	frame := viz.NewFrame(canvas, 0, 0, 1.05*m.extent)
	for _, trail := range m.trails {
		for i := 1; i < len(trail); i++ {
			frame.Segment(trail[i-1].x, trail[i-1].y, trail[i].x, trail[i].y)
		}
		if len(trail) > 0 {
			frame.Mark(trail[len(trail)-1].x, trail[len(trail)-1].y)
		}
	}

	left := canvasStyle.Render(canvas.String())
	right := statsStyle.Render(m.stats())
	view := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	return view + helpStyle.Render("\n  space pause · r restart · +/- speed · q quit\n")
}

func (m Model) stats() string {
	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value) + "\n"
	}

	out := headerStyle.Render(m.scenario) + "\n"
	out += row("integrator", m.s.Integrator.Name())
	out += row("bodies", fmt.Sprintf("%d", m.s.N()))
	out += row("t", fmt.Sprintf("%.3f", m.s.T))
	out += row("dt", fmt.Sprintf("%.4g x%d", m.s.Dt, m.stepsPerTick))

	if m.energy0 != 0 && len(m.energyHistory) > 0 {
		out += row("|dE/E|", fmt.Sprintf("%.3e", m.energyHistory[len(m.energyHistory)-1]))
	}
	if m.s.N() >= 2 {
		if o, err := orbit.FromParticle(m.s.G, m.s.Particles[1], m.s.Particles[0]); err == nil {
			out += row("a", fmt.Sprintf("%.6f", o.A))
			out += row("e", fmt.Sprintf("%.6f", o.E))
			out += row("period", fmt.Sprintf("%.4f", o.P))
		}
	}
	if m.err != nil {
		out += "\n" + valueStyle.Render("error: "+m.err.Error()) + "\n"
	}

	if len(m.energyHistory) > 8 {
		logs := make([]float64, len(m.energyHistory))
		for i, v := range m.energyHistory {
			if v < 1e-16 {
				v = 1e-16
			}
			logs[i] = math.Log10(v)
		}
		graph := asciigraph.Plot(logs,
			asciigraph.Height(6),
			asciigraph.Width(34),
			asciigraph.Caption("log10 |dE/E|"),
		)
		out += graphStyle.Render(graph)
	}
	return out
}

// Run starts the live view and blocks until it quits.
func Run(scenario string, stepsPerTick int, build func() (*sim.Simulation, error)) error {
	m, err := NewModel(scenario, stepsPerTick, build)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m).Run()
	return err
}
