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

	title := cardTitleStyle.Render("Keyboard Shortcuts")
	sections = append(sections, title)

	// Navigation section
	navSection := m.renderSection("Navigation", []keyHelp{
		{"1", "Estimate form"},
		{"2", "Model insights"},
		{"3", "Explore the reference table"},
		{"?", "Help (this screen)"},
		{"q", "Quit"},
		{"esc", "Back / close help"},
	})
	sections = append(sections, navSection)

	// Form keys
	formSection := m.renderSection("Estimate Form", []keyHelp{
		{"tab / down", "Next field"},
		{"shift+tab / up", "Previous field"},
		{"left / right", "Change category, activity, type or intensity"},
		{"m", "Switch between reference and custom activity"},
		{"enter", "Estimate"},
	})
	sections = append(sections, formSection)

	// Results keys
	resultsSection := m.renderSection("Results", []keyHelp{
		{"j / k", "Scroll"},
		{"esc", "New estimate"},
	})
	sections = append(sections, resultsSection)

	// Metrics explanation
	metricsSection := m.renderMetricsHelp()
	sections = append(sections, metricsSection)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

type keyHelp struct {
	key  string
	desc string
}

func (m HelpModel) renderSection(title string, keys []keyHelp) string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#10B981")).Render(title))

	for _, k := range keys {
		lines = append(lines, "  "+RenderKeyHelp(k.key, k.desc))
	}

	return strings.Join(lines, "\n")
}

func (m HelpModel) renderMetricsHelp() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#10B981")).Render("Metrics Explained"))
	lines = append(lines, "")

	metrics := []struct {
		name string
		desc string
	}{
		{"MET", "Metabolic equivalent. Energy use relative to sitting still; 1 MET ~ 1 kcal/kg/h."},
		{"Calories per kg", "Hourly burn per kilogram of body weight for the activity."},
		{"Custom activity", "Type and intensity map to a typical MET when your activity is not listed."},
		{"Similar activities", "Reference activities within 20% of the chosen activity's average burn."},
		{"Feature importance", "Share of the model's error reduction attributed to each input."},
		{"R² / RMSE / MAE", "In-sample fit of the model to the reference table, not a test of accuracy."},
	}

	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	for _, metric := range metrics {
		lines = append(lines, "  "+helpKeyStyle.Render(metric.name))
		lines = append(lines, "  "+mutedStyle.Render(metric.desc))
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
