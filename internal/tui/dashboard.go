package tui

import (
	"fmt"
	"strings"

	"runsight/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DashboardModel is the dashboard screen model
type DashboardModel struct {
	intelligence *service.IntelligenceService
	insights     *service.Insights
	loading      bool
	err          error
}

// NewDashboardModel creates a new dashboard model
func NewDashboardModel(svc *service.IntelligenceService) DashboardModel {
	return DashboardModel{
		intelligence: svc,
		loading:      true,
	}
}

// Init initializes the dashboard
func (m DashboardModel) Init() tea.Cmd {
	return m.loadInsights
}

func (m DashboardModel) loadInsights() tea.Msg {
	insights, err := m.intelligence.Insights()
	if err != nil {
		return insightsMsg{err: err}
	}
	return insightsMsg{insights: insights}
}

type insightsMsg struct {
	insights *service.Insights
	err      error
}

// Update handles messages
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case insightsMsg:
		m.loading = false
		m.err = msg.err
		m.insights = msg.insights
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadInsights
		}
	}
	return m, nil
}

// View renders the dashboard
func (m DashboardModel) View() string {
	if m.loading {
		return "\n  Cargando análisis..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if m.insights == nil {
		return "\n  Sin datos todavía. Importa actividades con -import."
	}

	var sections []string

	sections = append(sections, m.renderNarrativeCard())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, m.renderWeekCard(), "  ", m.renderConsistencyCard())
	sections = append(sections, topRow)

	bottomRow := lipgloss.JoinHorizontal(lipgloss.Top, m.renderFatigueCard(), "  ", m.renderSuggestionCard())
	sections = append(sections, bottomRow)

	if len(m.insights.Alerts) > 0 || m.insights.Peak.Detected {
		sections = append(sections, m.renderAlertsCard())
	}

	sections = append(sections, statusStyle.Render("r: recargar  2: actividades  3: semanas  4: simulador"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m DashboardModel) renderNarrativeCard() string {
	title := cardTitleStyle.Render("Esta semana")
	body := m.insights.Narrative
	if body == "" {
		body = mutedStyle.Render("Sin resumen disponible.")
	}
	return cardStyle.Width(76).Render(lipgloss.JoinVertical(lipgloss.Left, title, wrapText(body, 70)))
}

func (m DashboardModel) renderWeekCard() string {
	title := cardTitleStyle.Render("Volumen semanal")
	w := m.insights.Week

	pace := "-"
	if w.AveragePaceSecPerKm != nil {
		pace = formatPace(*w.AveragePaceSecPerKm)
	}
	hr := "-"
	if w.AverageHeartrate != nil {
		hr = fmt.Sprintf("%.0f ppm", *w.AverageHeartrate)
	}

	lines := []string{
		RenderMetric("Sesiones", fmt.Sprintf("%d", w.SessionCount)),
		RenderMetric("Distancia", w.FormattedDistance()),
		RenderMetric("Tiempo", w.FormattedTime()),
		RenderMetric("Ritmo medio", pace),
		RenderMetric("FC media", hr),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(36).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderConsistencyCard() string {
	title := cardTitleStyle.Render("Consistencia")
	c := m.insights.Consistency

	score := scoreStyle(c.Score).Bold(true).Render(fmt.Sprintf("%d / 100", c.Score))
	lines := []string{
		RenderMetric("Puntuación", "") + score,
		RenderMetric("Semanas seguidas", fmt.Sprintf("%d", c.ConsecutiveWeeks)),
		RenderMetric("Huecos > 4 días", fmt.Sprintf("%d", c.GapsOver4Days)),
	}
	for _, r := range c.Reasons {
		lines = append(lines, mutedStyle.Render("· "+r))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(38).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderFatigueCard() string {
	title := cardTitleStyle.Render("Fatiga")
	f := m.insights.Fatigue

	label := f.Level.DisplayName()
	lines := []string{severityStyle(label).Bold(true).Render(label)}
	for _, c := range f.Causes {
		lines = append(lines, mutedStyle.Render("· "+c))
	}
	if f.RecommendedAction != "" {
		lines = append(lines, "", wrapText(f.RecommendedAction, 30))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(36).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderSuggestionCard() string {
	title := cardTitleStyle.Render("Próxima sesión")
	s := m.insights.Suggestion

	lines := []string{wrapText(s.FullText, 32)}
	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(38).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderAlertsCard() string {
	title := cardTitleStyle.Render("Avisos")

	var lines []string
	for _, a := range m.insights.Alerts {
		style := warningStyle
		if a.Severity == "high" {
			style = errorStyle
		}
		lines = append(lines, style.Render("! "+a.Title))
		lines = append(lines, mutedStyle.Render("  "+wrapText(a.Message, 68)))
	}
	if m.insights.Peak.Detected {
		lines = append(lines, warningStyle.Render("! Mejora muy rápida"))
		lines = append(lines, mutedStyle.Render("  "+wrapText(m.insights.Peak.Message, 68)))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(76).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

// formatPace renders seconds per kilometer as "M:SS /km"
func formatPace(secPerKm float64) string {
	s := int(secPerKm)
	return fmt.Sprintf("%d:%02d /km", s/60, s%60)
}

func formatDuration(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

func truncateName(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// wrapText breaks a sentence into lines no wider than width
func wrapText(s string, width int) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return s
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
