package tui

import (
	"fmt"

	"runsight/internal/analysis"
	"runsight/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// simulator input fields
const (
	fieldDays = iota
	fieldVolume
	fieldHard
	fieldCount
)

// SimulatorModel is the what-if screen model
type SimulatorModel struct {
	intelligence *service.IntelligenceService
	input        analysis.SimulatorInput
	field        int
	result       *analysis.SimulatorResult
	loading      bool
	err          error

	// Current-week baseline, for display
	baseDays  int
	baseHours float64
	baseHard  int
}

// NewSimulatorModel creates a new simulator model
func NewSimulatorModel(svc *service.IntelligenceService) SimulatorModel {
	return SimulatorModel{
		intelligence: svc,
		input:        analysis.SimulatorInput{DaysPerWeek: 3},
		loading:      true,
	}
}

// Init initializes the simulator
func (m SimulatorModel) Init() tea.Cmd {
	return m.loadBaseline
}

type baselineMsg struct {
	days  int
	hours float64
	hard  int
	err   error
}

type simulationMsg struct {
	result analysis.SimulatorResult
	err    error
}

func (m SimulatorModel) loadBaseline() tea.Msg {
	days, hours, hard, err := m.intelligence.CurrentWeekMetrics()
	return baselineMsg{days: days, hours: hours, hard: hard, err: err}
}

func (m SimulatorModel) simulate() tea.Cmd {
	input := m.input
	return func() tea.Msg {
		result, err := m.intelligence.Simulate(input)
		return simulationMsg{result: result, err: err}
	}
}

// Update handles messages
func (m SimulatorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case baselineMsg:
		m.loading = false
		m.err = msg.err
		m.baseDays = msg.days
		m.baseHours = msg.hours
		m.baseHard = msg.hard
		if msg.err == nil {
			// Start the scenario from the current week
			m.input.DaysPerWeek = msg.days
			m.input.HardSessionsPerWeek = msg.hard
			return m, m.simulate()
		}

	case simulationMsg:
		m.err = msg.err
		if msg.err == nil {
			r := msg.result
			m.result = &r
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down", "j":
			m.field = (m.field + 1) % fieldCount
		case "shift+tab", "up", "k":
			m.field = (m.field + fieldCount - 1) % fieldCount
		case "right", "l", "+":
			m.adjust(1)
			return m, m.simulate()
		case "left", "h", "-":
			m.adjust(-1)
			return m, m.simulate()
		}
	}
	return m, nil
}

func (m *SimulatorModel) adjust(dir int) {
	switch m.field {
	case fieldDays:
		m.input.DaysPerWeek += dir
		if m.input.DaysPerWeek < 0 {
			m.input.DaysPerWeek = 0
		}
		if m.input.DaysPerWeek > 7 {
			m.input.DaysPerWeek = 7
		}
	case fieldVolume:
		m.input.VolumeChangePercent += float64(dir * 5)
		if m.input.VolumeChangePercent < -50 {
			m.input.VolumeChangePercent = -50
		}
		if m.input.VolumeChangePercent > 100 {
			m.input.VolumeChangePercent = 100
		}
	case fieldHard:
		m.input.HardSessionsPerWeek += dir
		if m.input.HardSessionsPerWeek < 0 {
			m.input.HardSessionsPerWeek = 0
		}
		if m.input.HardSessionsPerWeek > 7 {
			m.input.HardSessionsPerWeek = 7
		}
	}
}

// View renders the simulator
func (m SimulatorModel) View() string {
	if m.loading {
		return "\n  Cargando semana actual..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	var sections []string
	sections = append(sections, m.renderInputs())
	sections = append(sections, m.renderResult())
	sections = append(sections, statusStyle.Render("tab/j/k: campo  h/l o ←/→: ajustar"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m SimulatorModel) renderInputs() string {
	title := cardTitleStyle.Render("Escenario")

	baseline := mutedStyle.Render(fmt.Sprintf("Semana actual: %d días, %.1f h, %d sesiones duras",
		m.baseDays, m.baseHours, m.baseHard))

	rows := []struct {
		label string
		value string
	}{
		{"Días por semana", fmt.Sprintf("%d", m.input.DaysPerWeek)},
		{"Cambio de volumen", fmt.Sprintf("%+.0f%%", m.input.VolumeChangePercent)},
		{"Sesiones duras", fmt.Sprintf("%d", m.input.HardSessionsPerWeek)},
	}

	var lines []string
	lines = append(lines, baseline, "")
	for i, row := range rows {
		cursor := "  "
		value := metricValueStyle.Render(row.value)
		if i == m.field {
			cursor = "> "
			value = navActiveStyle.Render("◀ " + row.value + " ▶")
		}
		lines = append(lines, cursor+metricLabelStyle.Render(row.label)+value)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(56).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m SimulatorModel) renderResult() string {
	title := cardTitleStyle.Render("Proyección")

	if m.result == nil {
		return cardStyle.Width(56).Render(lipgloss.JoinVertical(lipgloss.Left, title,
			mutedStyle.Render("Ajusta el escenario para ver la proyección.")))
	}

	riskStyle := successStyle
	switch m.result.RiskLevel {
	case "alto":
		riskStyle = errorStyle
	case "medio":
		riskStyle = warningStyle
	}

	lines := []string{
		RenderMetric("Consistencia", "") + metricValueStyle.Render(m.result.ConsistencyImpact),
		RenderMetric("Riesgo de lesión", "") + riskStyle.Bold(true).Render(m.result.RiskLevel),
		RenderMetric("Tendencia", "") + metricValueStyle.Render(m.result.TrendExpectation),
	}
	if len(m.result.Reasons) > 0 {
		lines = append(lines, "")
		for _, r := range m.result.Reasons {
			lines = append(lines, mutedStyle.Render("· "+wrapText(r, 48)))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(56).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}
