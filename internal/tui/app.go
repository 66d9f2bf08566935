package tui

import (
	"runsight/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen identifiers
type Screen int

const (
	ScreenDashboard Screen = iota
	ScreenActivities
	ScreenWeeks
	ScreenSimulator
	ScreenHelp
)

// App is the root Bubble Tea model
type App struct {
	screen     Screen
	prevScreen Screen

	// Screen models
	dashboard  DashboardModel
	activities ActivitiesModel
	weeks      WeeksModel
	simulator  SimulatorModel
	help       HelpModel

	intelligence *service.IntelligenceService
	exportDir    string

	// Window dimensions
	width  int
	height int
}

// NewApp creates a new App with all dependencies
func NewApp(svc *service.IntelligenceService, exportDir string) *App {
	return &App{
		screen:       ScreenDashboard,
		intelligence: svc,
		exportDir:    exportDir,
		dashboard:    NewDashboardModel(svc),
		activities:   NewActivitiesModel(svc, exportDir),
		weeks:        NewWeeksModel(svc),
		simulator:    NewSimulatorModel(svc),
		help:         NewHelpModel(),
	}
}

// Init initializes the app
func (a *App) Init() tea.Cmd {
	return a.dashboard.Init()
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Global keybindings, except while the activity detail is open
		// so its scroll keys win.
		if !(a.screen == ScreenActivities && a.activities.detailOpen()) {
			switch msg.String() {
			case "q", "ctrl+c":
				return a, tea.Quit
			case "1":
				a.screen = ScreenDashboard
				a.dashboard = NewDashboardModel(a.intelligence)
				return a, a.dashboard.Init()
			case "2":
				a.screen = ScreenActivities
				return a, a.activities.Init()
			case "3":
				a.screen = ScreenWeeks
				a.weeks = NewWeeksModel(a.intelligence)
				return a, a.weeks.Init()
			case "4":
				a.screen = ScreenSimulator
				a.simulator = NewSimulatorModel(a.intelligence)
				return a, a.simulator.Init()
			case "?":
				a.prevScreen = a.screen
				a.screen = ScreenHelp
				return a, nil
			case "esc":
				if a.screen == ScreenHelp {
					a.screen = a.prevScreen
					return a, nil
				}
			}
		} else if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
	}

	// Delegate to current screen
	var cmd tea.Cmd
	switch a.screen {
	case ScreenDashboard:
		var m tea.Model
		m, cmd = a.dashboard.Update(msg)
		a.dashboard = m.(DashboardModel)
	case ScreenActivities:
		var m tea.Model
		m, cmd = a.activities.Update(msg)
		a.activities = m.(ActivitiesModel)
	case ScreenWeeks:
		var m tea.Model
		m, cmd = a.weeks.Update(msg)
		a.weeks = m.(WeeksModel)
	case ScreenSimulator:
		var m tea.Model
		m, cmd = a.simulator.Update(msg)
		a.simulator = m.(SimulatorModel)
	case ScreenHelp:
		var m tea.Model
		m, cmd = a.help.Update(msg)
		a.help = m.(HelpModel)
	}

	return a, cmd
}

// View renders the app
func (a *App) View() string {
	header := headerStyle.Render("runsight")
	nav := a.renderNav()

	var content string
	switch a.screen {
	case ScreenDashboard:
		content = a.dashboard.View()
	case ScreenActivities:
		content = a.activities.View()
	case ScreenWeeks:
		content = a.weeks.View()
	case ScreenSimulator:
		content = a.simulator.View()
	case ScreenHelp:
		content = a.help.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, nav, content)
}

func (a *App) renderNav() string {
	items := []struct {
		key    string
		label  string
		screen Screen
	}{
		{"1", "Dashboard", ScreenDashboard},
		{"2", "Actividades", ScreenActivities},
		{"3", "Semanas", ScreenWeeks},
		{"4", "Simulador", ScreenSimulator},
		{"?", "Ayuda", ScreenHelp},
	}

	var nav string
	for i, item := range items {
		if i > 0 {
			nav += "  "
		}

		label := "[" + item.key + "] " + item.label
		if a.screen == item.screen {
			nav += navActiveStyle.Render(label)
		} else {
			nav += navInactiveStyle.Render(label)
		}
	}

	nav += "  " + navInactiveStyle.Render("[q] Salir")

	return navStyle.Render(nav)
}
