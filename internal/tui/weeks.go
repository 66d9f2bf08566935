package tui

import (
	"fmt"

	"runsight/internal/analysis"
	"runsight/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

var weekCriteria = []analysis.WeekCriterion{
	analysis.CriterionSimilarVolume,
	analysis.CriterionSameSessionCount,
	analysis.CriterionSimilarEasyRatio,
}

func criterionLabel(c analysis.WeekCriterion) string {
	switch c {
	case analysis.CriterionSameSessionCount:
		return "mismas sesiones"
	case analysis.CriterionSimilarEasyRatio:
		return "proporción de rodaje similar"
	default:
		return "volumen similar"
	}
}

// WeeksModel is the weekly volume and comparison screen model
type WeeksModel struct {
	intelligence *service.IntelligenceService
	volumes      []analysis.WeekSummary
	comparison   *analysis.WeekComparison
	criterionIdx int
	loading      bool
	err          error
}

// NewWeeksModel creates a new weeks model
func NewWeeksModel(svc *service.IntelligenceService) WeeksModel {
	return WeeksModel{
		intelligence: svc,
		loading:      true,
	}
}

// Init initializes the weeks screen
func (m WeeksModel) Init() tea.Cmd {
	return m.loadWeeks
}

type weeksLoadedMsg struct {
	volumes    []analysis.WeekSummary
	comparison *analysis.WeekComparison
	err        error
}

func (m WeeksModel) loadWeeks() tea.Msg {
	volumes, err := m.intelligence.WeeklyVolumes()
	if err != nil {
		return weeksLoadedMsg{err: err}
	}
	comparison, err := m.intelligence.CompareCurrentWeek(weekCriteria[m.criterionIdx])
	if err != nil {
		return weeksLoadedMsg{err: err}
	}
	return weeksLoadedMsg{volumes: volumes, comparison: comparison}
}

// Update handles messages
func (m WeeksModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case weeksLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.volumes = msg.volumes
		m.comparison = msg.comparison

	case tea.KeyMsg:
		switch msg.String() {
		case "c":
			m.criterionIdx = (m.criterionIdx + 1) % len(weekCriteria)
			m.loading = true
			return m, m.loadWeeks
		case "r":
			m.loading = true
			return m, m.loadWeeks
		}
	}
	return m, nil
}

// View renders the weeks screen
func (m WeeksModel) View() string {
	if m.loading {
		return "\n  Cargando semanas..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	var sections []string

	sections = append(sections, m.renderVolumeChart())
	sections = append(sections, m.renderComparison())
	sections = append(sections, statusStyle.Render("c: cambiar criterio  r: recargar"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m WeeksModel) renderVolumeChart() string {
	title := cardTitleStyle.Render("Kilómetros por semana")

	if len(m.volumes) < 2 {
		return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title,
			mutedStyle.Render("Aún no hay suficientes semanas para el gráfico.")))
	}

	data := make([]float64, 0, len(m.volumes))
	for _, w := range m.volumes {
		data = append(data, w.TotalDistanceKm)
	}

	graph := asciigraph.Plot(data,
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Precision(1),
	)

	last := m.volumes[len(m.volumes)-1]
	caption := mutedStyle.Render(fmt.Sprintf("Última semana: %s en %d sesiones",
		last.FormattedDistance(), last.SessionCount))

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, graph, caption))
}

func (m WeeksModel) renderComparison() string {
	criterion := criterionLabel(weekCriteria[m.criterionIdx])
	title := cardTitleStyle.Render("Semana equivalente (" + criterion + ")")

	if m.comparison == nil {
		return cardStyle.Width(76).Render(lipgloss.JoinVertical(lipgloss.Left, title,
			mutedStyle.Render("No se encontró ninguna semana pasada equivalente.")))
	}

	cur := m.comparison.Current
	ref := m.comparison.Reference

	var lines []string
	lines = append(lines, tableHeaderStyle.Render(fmt.Sprintf("%-12s  %12s  %12s", "", "Actual", ref.WeekStart.Format("02/01/2006"))))
	lines = append(lines, fmt.Sprintf("  %-12s  %12s  %12s", "Distancia", cur.FormattedDistance(), ref.FormattedDistance()))
	lines = append(lines, fmt.Sprintf("  %-12s  %12s  %12s", "Tiempo", cur.FormattedTime(), ref.FormattedTime()))
	lines = append(lines, fmt.Sprintf("  %-12s  %12d  %12d", "Sesiones", cur.SessionCount, ref.SessionCount))

	if len(m.comparison.Insights) > 0 {
		lines = append(lines, "")
		for _, in := range m.comparison.Insights {
			lines = append(lines, mutedStyle.Render("· "+in))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(76).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}
