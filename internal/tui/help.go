package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpModel is the help screen model
type HelpModel struct{}

// NewHelpModel creates a new help model
func NewHelpModel() HelpModel {
	return HelpModel{}
}

// Init initializes the help screen
func (m HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

// View renders the help screen
func (m HelpModel) View() string {
	var sections []string

	title := cardTitleStyle.Render("Atajos de teclado")
	sections = append(sections, title)

	navSection := m.renderSection("Navegación", []keyHelp{
		{"1", "Dashboard"},
		{"2", "Lista de actividades"},
		{"3", "Semanas y comparación"},
		{"4", "Simulador"},
		{"?", "Ayuda (esta pantalla)"},
		{"q", "Salir"},
		{"esc", "Volver / cerrar ayuda"},
	})
	sections = append(sections, navSection)

	actSection := m.renderSection("Actividades", []keyHelp{
		{"j / k", "Mover el cursor"},
		{"enter", "Abrir detalle"},
		{"e", "Exportar JSON web"},
		{"b / m", "Guardar sensación (bien / me pasé)"},
		{"r", "Recargar"},
	})
	sections = append(sections, actSection)

	weekSection := m.renderSection("Semanas", []keyHelp{
		{"c", "Cambiar criterio de semana equivalente"},
	})
	sections = append(sections, weekSection)

	simSection := m.renderSection("Simulador", []keyHelp{
		{"tab", "Cambiar de campo"},
		{"h / l", "Ajustar el valor"},
	})
	sections = append(sections, simSection)

	sections = append(sections, m.renderConceptsHelp())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

type keyHelp struct {
	key  string
	desc string
}

func (m HelpModel) renderSection(title string, keys []keyHelp) string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, sectionTitleStyle.Render(title))

	for _, k := range keys {
		lines = append(lines, "  "+RenderKeyHelp(k.key, k.desc))
	}

	return strings.Join(lines, "\n")
}

func (m HelpModel) renderConceptsHelp() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, sectionTitleStyle.Render("Conceptos"))
	lines = append(lines, "")

	concepts := []struct {
		name string
		desc string
	}{
		{"Consistencia", "Regularidad de las últimas 12 semanas, de 0 a 100."},
		{"Fatiga", "Señales de carga acumulada de los últimos 14 días."},
		{"Ritmo cómodo", "Mediana de tus rodajes tranquilos; se recalcula cada semana."},
		{"Semana equivalente", "Una semana pasada parecida a la actual para comparar sensaciones."},
		{"Avisos", "Solo aparecen al abrir la app. Nada se envía ni se notifica."},
	}

	for _, c := range concepts {
		lines = append(lines, "  "+helpKeyStyle.Render(c.name))
		lines = append(lines, "  "+helpDescStyle.Render(c.desc))
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
