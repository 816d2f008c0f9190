package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/orbitsim/internal/lab"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/san-kum/orbitsim/internal/vec"
	"github.com/san-kum/orbitsim/internal/viz"
)

const (
	canvasWidth  = 60
	canvasHeight = 22
	speedWindow  = 120
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	canvasStyle = lipgloss.NewStyle().Padding(0, 1)
	statsStyle  = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 2).Width(40)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	eventStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type tickMsg time.Time

// Model steps the lab on every tick and renders the trajectory alongside a
// stats panel.
type Model struct {
	lab        *lab.Lab
	step       int
	totalSteps int
	running    bool

	trail     []vec.Vec3
	speeds    []float64
	last      sim.StepResult
	captures  int
	hits      int
	lastEvent string
}

func NewModel(l *lab.Lab, steps int) Model {
	return Model{
		lab:        l,
		totalSteps: steps,
		running:    true,
		trail:      make([]vec.Vec3, 0, steps),
		speeds:     make([]float64, 0, speedWindow),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		}
	case tickMsg:
		if m.running && m.step < m.totalSteps {
			result, err := m.lab.StepOnce(m.step)
			if err != nil {
				return m, tea.Quit
			}
			m.step++
			m.last = result
			m.trail = append(m.trail, result.Position)
			m.speeds = append(m.speeds, result.Velocity.Mag())
			if len(m.speeds) > speedWindow {
				m.speeds = m.speeds[1:]
			}
			if result.Captured() {
				m.captures++
				m.lastEvent = fmt.Sprintf("step %d: captured by %s", result.Step, result.Captures[0])
			}
			if result.HitBoundary() {
				m.hits++
				m.lastEvent = fmt.Sprintf("step %d: boundary hit", result.Step)
			}
		}
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return tickMsg(t) })
	}
	return m, nil
}

func (m Model) View() string {
	status := m.lab.Status()

	anchorPositions := make([]vec.Vec3, 0, status.AnchorCount)
	for _, a := range m.lab.Domain().Anchors() {
		anchorPositions = append(anchorPositions, a.Position)
	}

	canvas := viz.TrajectoryPlot(m.trail, anchorPositions, status.Radius, canvasWidth, canvasHeight)

	var stats strings.Builder
	row := func(label, value string) {
		stats.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("step", fmt.Sprintf("%d / %d", m.step, m.totalSteps))
	row("position", m.last.Position.String())
	row("speed", fmt.Sprintf("%.4f", m.last.Velocity.Mag()))
	row("boundary", fmt.Sprintf("%s r=%.1f", status.BoundaryKind, status.Radius))
	row("anchors", fmt.Sprintf("%d (%d dormant)", status.AnchorCount, status.DormantCount))
	row("captures", fmt.Sprintf("%d", m.captures))
	row("hits", fmt.Sprintf("%d", m.hits))
	if m.lastEvent != "" {
		stats.WriteString("\n" + eventStyle.Render(m.lastEvent) + "\n")
	}

	if len(m.speeds) >= 2 {
		graph := asciigraph.Plot(m.speeds, asciigraph.Height(5), asciigraph.Width(34), asciigraph.Caption("speed"))
		stats.WriteString(graphStyle.Render(graph))
	}

	main := lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(canvas),
		statsStyle.Render(stats.String()),
	)

	state := "running"
	if !m.running {
		state = "paused"
	}
	if m.step >= m.totalSteps {
		state = "done"
	}

	return headerStyle.Render(fmt.Sprintf("orbitsim live [%s]", state)) + "\n" +
		main + "\n" +
		helpStyle.Render("space pause · q quit")
}

// Run drives the live view until the user quits.
func Run(l *lab.Lab, steps int) error {
	p := tea.NewProgram(NewModel(l, steps), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
