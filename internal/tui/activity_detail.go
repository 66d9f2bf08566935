package tui

import (
	"fmt"
	"strings"

	"runsight/internal/export"
	"runsight/internal/service"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ActivityDetailModel is the activity detail screen model
type ActivityDetailModel struct {
	intelligence *service.IntelligenceService
	exportDir    string
	activityID   int64
	evaluation   *service.ActivityEvaluation
	viewport     viewport.Model
	loading      bool
	err          error
	status       string
	width        int
	height       int
	ready        bool
}

// NewActivityDetailModel creates a new activity detail model
func NewActivityDetailModel(svc *service.IntelligenceService, exportDir string, activityID int64, width, height int) ActivityDetailModel {
	m := ActivityDetailModel{
		intelligence: svc,
		exportDir:    exportDir,
		activityID:   activityID,
		loading:      true,
		width:        width,
		height:       height,
	}

	if width > 0 && height > 0 {
		m.viewport = viewport.New(width, height-6) // Reserve space for header/footer
		m.ready = true
	}

	return m
}

// Init initializes the activity detail screen
func (m ActivityDetailModel) Init() tea.Cmd {
	return m.loadEvaluation
}

type evaluationLoadedMsg struct {
	evaluation *service.ActivityEvaluation
	err        error
}

type reflectionSavedMsg struct {
	err error
}

func (m ActivityDetailModel) loadEvaluation() tea.Msg {
	eval, err := m.intelligence.EvaluateActivity(m.activityID)
	return evaluationLoadedMsg{evaluation: eval, err: err}
}

func (m ActivityDetailModel) saveReflection(feeling int, pushedTooHard bool) tea.Cmd {
	return func() tea.Msg {
		err := m.intelligence.RecordReflection(m.activityID, feeling, pushedTooHard, !pushedTooHard)
		return reflectionSavedMsg{err: err}
	}
}

// Update handles messages
func (m ActivityDetailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case evaluationLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.evaluation = msg.evaluation
		if m.ready {
			m.viewport.SetContent(m.renderContent())
		}

	case exportDoneMsg:
		if msg.err != nil {
			m.status = errorStyle.Render(fmt.Sprintf("Error al exportar: %v", msg.err))
		} else {
			m.status = successStyle.Render("Exportado a " + msg.path)
		}

	case reflectionSavedMsg:
		if msg.err != nil {
			m.status = errorStyle.Render(fmt.Sprintf("Error al guardar: %v", msg.err))
		} else {
			m.status = successStyle.Render("Sensación guardada")
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-6)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 6
		}
		if m.evaluation != nil {
			m.viewport.SetContent(m.renderContent())
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			m.status = ""
			return m, m.loadEvaluation
		case "e":
			if m.evaluation != nil {
				eval := m.evaluation
				dir := m.exportDir
				return m, func() tea.Msg {
					path, err := export.WriteFile(dir, &eval.Activity, eval.Laps, eval.Splits)
					return exportDoneMsg{path: path, err: err}
				}
			}
		case "b":
			// Went well
			return m, m.saveReflection(4, false)
		case "m":
			// Pushed too hard
			return m, m.saveReflection(2, true)
		}
	}

	// Handle viewport scrolling
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the activity detail screen
func (m ActivityDetailModel) View() string {
	if m.loading {
		return "\n  Cargando actividad..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if !m.ready {
		return "\n  Iniciando..."
	}

	footer := statusStyle.Render("  esc: volver  e: exportar  b: fue bien  m: me pasé  j/k: desplazar")
	if m.status != "" {
		footer += "\n  " + m.status
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), footer)
}

func (m ActivityDetailModel) renderContent() string {
	if m.evaluation == nil {
		return "Sin datos"
	}

	var sections []string

	sections = append(sections, m.renderHeader())
	sections = append(sections, m.renderClassification())

	if m.evaluation.BadRun.HasIssue() {
		sections = append(sections, m.renderBadRun())
	}

	if reasons := m.evaluation.Quality.MissingReasons(); len(reasons) > 0 {
		sections = append(sections, m.renderQuality(reasons))
	}

	if len(m.evaluation.Laps) > 1 {
		sections = append(sections, m.renderLaps())
	} else if len(m.evaluation.Splits) > 0 {
		sections = append(sections, m.renderSplits())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ActivityDetailModel) renderHeader() string {
	a := m.evaluation.Activity
	title := cardTitleStyle.Render(a.Name)

	date := a.StartDate
	if a.StartDateLocal != nil {
		date = *a.StartDateLocal
	}
	subtitle := mutedStyle.Render(date.Format("02/01/2006 15:04"))

	pace := "-"
	if p := a.PaceSecPerKm(); p > 0 {
		pace = formatPace(p)
	}
	stats := fmt.Sprintf("%.1f km  •  %s  •  %s", a.DistanceKm(), formatDuration(a.MovingTime), pace)
	statsLine := lipgloss.NewStyle().Foreground(textColor).Bold(true).Render(stats)

	return lipgloss.JoinVertical(lipgloss.Left, "", title, subtitle, statsLine, "")
}

func (m ActivityDetailModel) renderClassification() string {
	var lines []string
	lines = append(lines, sectionTitleStyle.Render("Tipo de sesión"))

	c := m.evaluation.Classification
	if c.ShouldShow() {
		lines = append(lines, fmt.Sprintf("  %s (confianza %.0f%%)", c.Type.DisplayName(), c.Confidence*100))
		for _, r := range c.Reasons {
			lines = append(lines, mutedStyle.Render("  · "+r))
		}
	} else {
		lines = append(lines, mutedStyle.Render("  Sin clasificar"))
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (m ActivityDetailModel) renderBadRun() string {
	var lines []string

	b := m.evaluation.BadRun
	label := b.Severity.DisplayName()
	lines = append(lines, sectionTitleStyle.Render("Sesión más dura de lo esperado"))
	lines = append(lines, "  "+severityStyle(label).Bold(true).Render(label))
	for _, c := range b.Causes {
		lines = append(lines, mutedStyle.Render("  · "+c))
	}
	if b.SuggestedAction != "" {
		lines = append(lines, "  "+b.SuggestedAction)
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (m ActivityDetailModel) renderQuality(reasons []string) string {
	var lines []string
	lines = append(lines, sectionTitleStyle.Render("Datos limitados"))
	for _, r := range reasons {
		lines = append(lines, mutedStyle.Render("  · "+r))
	}
	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (m ActivityDetailModel) renderSplits() string {
	var lines []string

	lines = append(lines, sectionTitleStyle.Render("Parciales por kilómetro"))
	header := fmt.Sprintf("  %-6s  %8s  %6s  %9s", "Km", "Ritmo", "FC", "Desnivel")
	lines = append(lines, lipgloss.NewStyle().Foreground(primaryColor).Render(header))

	for i, s := range m.evaluation.Splits {
		pace := "-"
		if s.Distance > 0 {
			pace = formatPace(float64(s.ElapsedTime) / (s.Distance / 1000))
		}
		hr := "-"
		if s.AverageHeartrate != nil {
			hr = fmt.Sprintf("%.0f", *s.AverageHeartrate)
		}
		lines = append(lines, fmt.Sprintf("  %-6d  %8s  %6s  %8.0fm", i+1, pace, hr, s.ElevationDifference))
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (m ActivityDetailModel) renderLaps() string {
	var lines []string

	lines = append(lines, sectionTitleStyle.Render("Intervalos"))
	header := fmt.Sprintf("  %-16s  %8s  %8s  %6s", "Nombre", "Dist", "Ritmo", "FC")
	lines = append(lines, lipgloss.NewStyle().Foreground(primaryColor).Render(header))

	for i, l := range m.evaluation.Laps {
		name := fmt.Sprintf("Lap %d", i+1)
		if l.Name != nil {
			name = *l.Name
		}
		pace := "-"
		if l.Distance > 0 {
			pace = formatPace(float64(l.MovingTime) / (l.Distance / 1000))
		}
		hr := "-"
		if l.AverageHeartrate != nil {
			hr = fmt.Sprintf("%.0f", *l.AverageHeartrate)
		}
		lines = append(lines, fmt.Sprintf("  %-16s  %6.2fkm  %8s  %6s", truncateName(name, 16), l.Distance/1000, pace, hr))
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}
