package tui

import (
	"fmt"

	"runsight/internal/export"
	"runsight/internal/service"
	"runsight/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const activitiesPageSize = 15

// ActivitiesModel is the activities list screen model
type ActivitiesModel struct {
	intelligence *service.IntelligenceService
	exportDir    string
	runs         []store.Activity
	cursor       int
	loading      bool
	err          error
	status       string

	detail *ActivityDetailModel
	width  int
	height int
}

// NewActivitiesModel creates a new activities model
func NewActivitiesModel(svc *service.IntelligenceService, exportDir string) ActivitiesModel {
	return ActivitiesModel{
		intelligence: svc,
		exportDir:    exportDir,
		loading:      true,
	}
}

func (m ActivitiesModel) detailOpen() bool {
	return m.detail != nil
}

// Init initializes the activities screen
func (m ActivitiesModel) Init() tea.Cmd {
	return m.loadRuns
}

type runsLoadedMsg struct {
	runs []store.Activity
	err  error
}

type exportDoneMsg struct {
	path string
	err  error
}

func (m ActivitiesModel) loadRuns() tea.Msg {
	runs, err := m.intelligence.RecentRuns(service.RecentRunsLimit)
	return runsLoadedMsg{runs: runs, err: err}
}

func (m ActivitiesModel) exportActivity(id int64) tea.Cmd {
	return func() tea.Msg {
		eval, err := m.intelligence.EvaluateActivity(id)
		if err != nil {
			return exportDoneMsg{err: err}
		}
		path, err := export.WriteFile(m.exportDir, &eval.Activity, eval.Laps, eval.Splits)
		return exportDoneMsg{path: path, err: err}
	}
}

// Update handles messages
func (m ActivitiesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case runsLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.runs = msg.runs
		if m.cursor >= len(m.runs) {
			m.cursor = 0
		}
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.status = errorStyle.Render(fmt.Sprintf("Error al exportar: %v", msg.err))
		} else {
			m.status = successStyle.Render("Exportado a " + msg.path)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	// The open detail screen sees everything, including esc to close.
	if m.detail != nil {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			m.detail = nil
			return m, nil
		}
		d, cmd := m.detail.Update(msg)
		dm := d.(ActivityDetailModel)
		m.detail = &dm
		return m, cmd
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.runs)-1 {
				m.cursor++
			}
		case "r":
			m.loading = true
			m.status = ""
			return m, m.loadRuns
		case "e":
			if m.cursor < len(m.runs) {
				return m, m.exportActivity(m.runs[m.cursor].ID)
			}
		case "enter":
			if m.cursor < len(m.runs) {
				d := NewActivityDetailModel(m.intelligence, m.exportDir, m.runs[m.cursor].ID, m.width, m.height)
				m.detail = &d
				return m, d.Init()
			}
		}
	}
	return m, nil
}

// View renders the activities list
func (m ActivitiesModel) View() string {
	if m.detail != nil {
		return m.detail.View()
	}

	if m.loading {
		return "\n  Cargando actividades..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if len(m.runs) == 0 {
		return "\n  Sin actividades. Importa un archivo con -import."
	}

	var sections []string

	title := cardTitleStyle.Render(fmt.Sprintf("Actividades (%d)", len(m.runs)))
	sections = append(sections, title)

	header := tableHeaderStyle.Render(fmt.Sprintf("   %-10s  %-28s  %9s  %7s  %6s",
		"Fecha", "Nombre", "Distancia", "Ritmo", "FC"))
	sections = append(sections, header)

	// Window the rows around the cursor
	start := 0
	if m.cursor >= activitiesPageSize {
		start = m.cursor - activitiesPageSize + 1
	}
	end := start + activitiesPageSize
	if end > len(m.runs) {
		end = len(m.runs)
	}

	for i := start; i < end; i++ {
		a := m.runs[i]

		pace := "-"
		if p := a.PaceSecPerKm(); p > 0 {
			pace = formatPace(p)
		}
		hr := "-"
		if a.AverageHeartrate != nil {
			hr = fmt.Sprintf("%.0f", *a.AverageHeartrate)
		}

		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		row := fmt.Sprintf("%s%-10s  %-28s  %7.1fkm  %7s  %6s",
			cursor,
			a.StartDate.Format("02/01/06"),
			truncateName(a.Name, 28),
			a.DistanceKm(),
			pace,
			hr,
		)

		if i == m.cursor {
			sections = append(sections, tableSelectedStyle.Render(row))
		} else {
			sections = append(sections, tableRowStyle.Render(row))
		}
	}

	help := statusStyle.Render("\n  enter: detalle  e: exportar JSON  j/k: mover  r: recargar")
	sections = append(sections, help)
	if m.status != "" {
		sections = append(sections, "  "+m.status)
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
