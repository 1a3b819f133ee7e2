package viz

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/golang/geo/r3"
	"github.com/guptarohit/asciigraph"

	"github.com/suresh-guttikonda/rotors-quadrotor-control/internal/sim"
)

const errorHistoryCapacity = 240

type TickMsg time.Time

// LiveModel runs the closed loop in real time inside a bubbletea program,
// showing the tracking state and a rolling position-error chart.
type LiveModel struct {
	plant      sim.Plant
	integrator sim.Integrator
	controller sim.Controller
	generator  sim.Generator

	x0 sim.State
	x  sim.State

	t, dt   float64
	fps     int
	running bool

	lastErr    float64
	lastThrust float64
	errHistory []float64
}

func NewLive(plant sim.Plant, integ sim.Integrator, ctrl sim.Controller, gen sim.Generator, x0 sim.State, dt float64, fps int) LiveModel {
	if fps <= 0 {
		fps = 30
	}
	return LiveModel{
		plant:      plant,
		integrator: integ,
		controller: ctrl,
		generator:  gen,
		x0:         x0.Clone(),
		x:          x0.Clone(),
		dt:         dt,
		fps:        fps,
		running:    true,
		errHistory: make([]float64, 0, errorHistoryCapacity),
	}
}

func (m LiveModel) Init() tea.Cmd {
	return m.tick()
}

func (m LiveModel) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.x = m.x0.Clone()
			m.t = 0
			m.errHistory = m.errHistory[:0]
		}
		return m, nil

	case TickMsg:
		if m.running {
			m.advance()
		}
		return m, m.tick()
	}
	return m, nil
}

// advance steps the loop by one frame of wall time.
func (m *LiveModel) advance() {
	steps := int(1/(float64(m.fps)*m.dt) + 0.5)
	if steps < 1 {
		steps = 1
	}

	for i := 0; i < steps; i++ {
		ref := m.generator.At(m.t)
		est := m.plant.Estimate(m.x)
		cmd := m.controller.Run(est, ref)

		u := m.plant.CommandInput(cmd)
		m.x = m.integrator.Step(m.plant, m.x, u, m.t, m.dt)
		if rn, ok := m.plant.(sim.Renormalizer); ok {
			m.x = rn.Renormalize(m.x)
		}
		m.t += m.dt

		m.lastErr = est.Position.Sub(ref.Position).Norm()
		m.lastThrust = cmd.CollectiveThrust

		if !m.x.IsValid() {
			m.running = false
			return
		}
	}

	m.errHistory = append(m.errHistory, m.lastErr)
	if len(m.errHistory) > errorHistoryCapacity {
		m.errHistory = m.errHistory[1:]
	}
}

func (m LiveModel) View() string {
	est := m.plant.Estimate(m.x)
	ref := m.generator.At(m.t)

	header := headerStyle.Render(fmt.Sprintf("tracking %s", m.generator.Name()))

	status := "running"
	if !m.running {
		status = "paused"
	}

	row := func(label string, v r3.Vector) string {
		return labelStyle.Render(label) +
			valueStyle.Render(fmt.Sprintf("(%7.2f, %7.2f, %7.2f)", v.X, v.Y, v.Z))
	}

	stats := lipgloss.JoinVertical(lipgloss.Left,
		labelStyle.Render("t")+valueStyle.Render(fmt.Sprintf("%8.2f s   [%s]", m.t, status)),
		row("position", est.Position),
		row("reference", ref.Position),
		labelStyle.Render("error")+valueStyle.Render(fmt.Sprintf("%8.3f m", m.lastErr)),
		labelStyle.Render("thrust")+valueStyle.Render(fmt.Sprintf("%8.2f m/s²", m.lastThrust)),
	)

	graph := ""
	if len(m.errHistory) > 1 {
		graph = graphStyle.Render(asciigraph.Plot(m.errHistory,
			asciigraph.Height(8),
			asciigraph.Width(70),
			asciigraph.Caption("position error [m]"),
		))
	}

	help := helpStyle.Render("space pause · r reset · q quit")

	return lipgloss.JoinVertical(lipgloss.Left, header, stats, graph, help) + "\n"
}
