package tui

import (
	"metriburn/internal/config"
	"metriburn/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen identifiers
type Screen int

const (
	ScreenEstimate Screen = iota
	ScreenResults
	ScreenInsights
	ScreenExplore
	ScreenHelp
)

// App is the root Bubble Tea model
type App struct {
	screen     Screen
	prevScreen Screen

	// Screen models
	estimate EstimateModel
	results  ResultsModel
	insights InsightsModel
	explore  ExploreModel
	help     HelpModel

	// Services
	app *service.App

	// Window dimensions
	width  int
	height int

	// Status message
	status string
}

// NewApp creates a new App with all dependencies
func NewApp(app *service.App, inputs config.InputConfig) *App {
	a := &App{
		screen:   ScreenEstimate,
		app:      app,
		estimate: NewEstimateModel(app, inputs),
		insights: NewInsightsModel(app),
		explore:  NewExploreModel(app),
		help:     NewHelpModel(),
	}
	if info := app.ModelInfo(); info.Stale {
		a.status = "Stored model was trained on a different dataset. Run `metriburn train` to refresh it."
	}
	return a
}

// Init initializes the app
func (a *App) Init() tea.Cmd {
	return a.estimate.Init()
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		// Global keybindings (unless typing into a form field)
		if a.screen != ScreenEstimate || !a.estimate.Typing() {
			switch msg.String() {
			case "q":
				return a, tea.Quit
			case "1":
				a.screen = ScreenEstimate
				return a, a.estimate.Init()
			case "2":
				a.screen = ScreenInsights
				return a, nil
			case "3":
				a.screen = ScreenExplore
				return a, nil
			case "?":
				if a.screen != ScreenHelp {
					a.prevScreen = a.screen
				}
				a.screen = ScreenHelp
				return a, nil
			case "esc":
				switch a.screen {
				case ScreenHelp:
					a.screen = a.prevScreen
					return a, nil
				case ScreenResults:
					a.screen = ScreenEstimate
					return a, a.estimate.Init()
				}
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.insights.width = msg.Width
		a.explore.width = msg.Width

	case EstimateReadyMsg:
		if msg.Err == nil {
			m, _ := a.estimate.Update(msg)
			a.estimate = m.(EstimateModel)
			a.status = ""
			a.results = NewResultsModel(msg.Estimate, a.width, a.height)
			a.screen = ScreenResults
			return a, nil
		}
	}

	// Delegate to current screen
	var cmd tea.Cmd
	switch a.screen {
	case ScreenEstimate:
		var m tea.Model
		m, cmd = a.estimate.Update(msg)
		a.estimate = m.(EstimateModel)
	case ScreenResults:
		var m tea.Model
		m, cmd = a.results.Update(msg)
		a.results = m.(ResultsModel)
	case ScreenInsights:
		var m tea.Model
		m, cmd = a.insights.Update(msg)
		a.insights = m.(InsightsModel)
	case ScreenExplore:
		var m tea.Model
		m, cmd = a.explore.Update(msg)
		a.explore = m.(ExploreModel)
	case ScreenHelp:
		var m tea.Model
		m, cmd = a.help.Update(msg)
		a.help = m.(HelpModel)
	}

	return a, cmd
}

// View renders the app
func (a *App) View() string {
	header := a.renderHeader()
	nav := a.renderNav()

	var content string
	switch a.screen {
	case ScreenEstimate:
		content = a.estimate.View()
	case ScreenResults:
		content = a.results.View()
	case ScreenInsights:
		content = a.insights.View()
	case ScreenExplore:
		content = a.explore.View()
	case ScreenHelp:
		content = a.help.View()
	}

	footer := a.renderFooter()

	return lipgloss.JoinVertical(lipgloss.Left, header, nav, content, footer)
}

func (a *App) renderHeader() string {
	return headerStyle.Render("MetriBurn · Calorie Burn Estimator")
}

func (a *App) renderNav() string {
	items := []struct {
		key    string
		label  string
		screen Screen
	}{
		{"1", "Estimate", ScreenEstimate},
		{"2", "Insights", ScreenInsights},
		{"3", "Explore", ScreenExplore},
		{"?", "Help", ScreenHelp},
	}

	var nav string
	for i, item := range items {
		if i > 0 {
			nav += "  "
		}

		label := "[" + item.key + "] " + item.label
		active := a.screen == item.screen || (item.screen == ScreenEstimate && a.screen == ScreenResults)
		if active {
			nav += navActiveStyle.Render(label)
		} else {
			nav += navInactiveStyle.Render(label)
		}
	}

	nav += "  " + navInactiveStyle.Render("[q] Quit")

	return navStyle.Render(nav)
}

func (a *App) renderFooter() string {
	if a.status != "" {
		return warningStyle.Render(a.status)
	}
	return ""
}

// EstimateReadyMsg is sent when an estimate request finishes
type EstimateReadyMsg struct {
	Estimate *service.Estimate
	Err      error
}
