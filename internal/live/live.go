// Package live renders a single integration as it runs, in the terminal.
package live

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/primal/internal/dynamo"
)

const historyCapacity = 600

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type tickMsg time.Time

// Model steps the simulation a few substeps per frame and plots the first
// state component's recent history.
type Model struct {
	sys       dynamo.System
	stepper   dynamo.Stepper
	state     dynamo.State
	initial   dynamo.State
	t         float64
	dt        float64
	modelName string
	history   []float64
	running   bool
	fps       int
	substeps  int
}

func NewModel(sys dynamo.System, stepper dynamo.Stepper, init dynamo.State, dt float64, modelName string, fps int) Model {
	substeps := int(1.0 / (dt * float64(fps)))
	if substeps < 1 {
		substeps = 1
	}
	return Model{
		sys:       sys,
		stepper:   stepper,
		state:     init.Clone(),
		initial:   init.Clone(),
		dt:        dt,
		modelName: modelName,
		history:   make([]float64, 0, historyCapacity),
		running:   true,
		fps:       fps,
		substeps:  substeps,
	}
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.state = m.initial.Clone()
			m.t = 0
			m.history = m.history[:0]
		}
	case tickMsg:
		if m.running {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step() {
	tw, warped := m.stepper.(dynamo.TimeWarper)
	for i := 0; i < m.substeps; i++ {
		dtEff := m.dt
		if warped {
			dtEff *= tw.WarpFactor(m.t)
		}
		m.state = m.stepper.Step(m.sys, m.state, m.t, m.dt)
		m.t += dtEff
		if !m.state.IsValid() {
			m.running = false
			return
		}
	}
	m.history = append(m.history, m.state[0])
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("primal live: %s", m.modelName)))
	b.WriteString("\n")

	if len(m.history) > 1 {
		graph := asciigraph.Plot(m.history,
			asciigraph.Height(12),
			asciigraph.Width(72),
			asciigraph.Caption("x0"),
		)
		b.WriteString(graphStyle.Render(graph))
		b.WriteString("\n")
	}

	line := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}
	line("t", fmt.Sprintf("%.3f", m.t))
	for i, v := range m.state {
		line(fmt.Sprintf("x%d", i), fmt.Sprintf("%.6g", v))
	}
	status := "running"
	if !m.running {
		status = "paused"
		if !m.state.IsValid() {
			status = "non-finite, stopped"
		}
	}
	line("status", status)

	b.WriteString(helpStyle.Render("space pause · r reset · q quit"))
	return b.String()
}

// Run blocks until the viewer exits.
func Run(sys dynamo.System, stepper dynamo.Stepper, init dynamo.State, dt float64, modelName string, fps int) error {
	p := tea.NewProgram(NewModel(sys, stepper, init, dt, modelName, fps))
	_, err := p.Run()
	return err
}
