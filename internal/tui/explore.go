package tui

import (
	"fmt"
	"strings"

	"metriburn/internal/analysis"
	"metriburn/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ExploreModel summarises the reference table
type ExploreModel struct {
	app     *service.App
	summary analysis.Summary
	width   int
}

// NewExploreModel creates a new explore model
func NewExploreModel(app *service.App) ExploreModel {
	return ExploreModel{app: app, summary: app.Summary()}
}

// Init initializes the explore screen
func (m ExploreModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

// View renders the explore screen
func (m ExploreModel) View() string {
	s := m.summary
	if s.Activities == 0 {
		return "\n  The reference table is empty."
	}

	left := lipgloss.JoinVertical(lipgloss.Left,
		cardTitleStyle.Render(fmt.Sprintf("%d Activities", s.Activities)),
		m.renderCounts("By type", s.ByType),
		"",
		m.renderCounts("By intensity", s.ByIntensity),
		"",
		m.renderTypeCalories(),
	)
	right := m.renderTop()

	if m.width > 0 && m.width < 110 {
		return lipgloss.JoinVertical(lipgloss.Left, left, "", right)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cardStyle.Render(left), "  ", cardStyle.Render(right))
}

func (m ExploreModel) renderCounts(title string, counts []analysis.LabelCount) string {
	lines := []string{lipgloss.NewStyle().Bold(true).Foreground(secondaryColor).Render(title)}
	for _, c := range counts {
		pct := float64(c.Count) / float64(m.summary.Activities)
		lines = append(lines, fmt.Sprintf("  %-12s %s %3d", c.Label, RenderProgressBar(pct, 20), c.Count))
	}
	return strings.Join(lines, "\n")
}

func (m ExploreModel) renderTypeCalories() string {
	lines := []string{
		lipgloss.NewStyle().Bold(true).Foreground(secondaryColor).Render("Avg kcal/h by type"),
		helpDescStyle.Render(fmt.Sprintf("  %-12s %6s %6s %6s", "", "min", "mean", "max")),
	}
	for _, tc := range m.summary.CaloriesByType {
		lines = append(lines, fmt.Sprintf("  %-12s %6s %6s %6s",
			tc.Type, formatCalories(tc.Min), formatCalories(tc.Mean), formatCalories(tc.Max)))
	}
	return strings.Join(lines, "\n")
}

func (m ExploreModel) renderTop() string {
	lines := []string{
		cardTitleStyle.Render(fmt.Sprintf("Top %d by Calories", len(m.summary.Top))),
		tableHeaderStyle.Render(fmt.Sprintf("%-36s  %8s  %-11s", "Activity", "kcal/h", "Type")),
	}
	for _, r := range m.summary.Top {
		lines = append(lines, tableRowStyle.Render(fmt.Sprintf("%-36s  %8s  %-11s",
			truncateName(r.Activity, 36), formatCalories(r.AvgCalories), r.Type)))
	}
	return strings.Join(lines, "\n")
}
