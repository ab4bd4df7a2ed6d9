package tui

import (
	"fmt"
	"strings"

	"metriburn/internal/analysis"
	"metriburn/internal/service"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// ResultsModel is the estimate results screen model
type ResultsModel struct {
	estimate *service.Estimate
	viewport viewport.Model
	width    int
	height   int
	ready    bool
}

// NewResultsModel creates a results screen for an estimate
func NewResultsModel(est *service.Estimate, width, height int) ResultsModel {
	m := ResultsModel{
		estimate: est,
		width:    width,
		height:   height,
	}

	if width > 0 && height > 0 {
		m.viewport = viewport.New(width, height-6) // Reserve space for header/footer
		m.viewport.SetContent(m.renderContent())
		m.ready = true
	}

	return m
}

// Init initializes the results screen
func (m ResultsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m ResultsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-6)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 6
		}
		m.viewport.SetContent(m.renderContent())
	}

	// Handle viewport scrolling
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the results screen
func (m ResultsModel) View() string {
	if m.estimate == nil {
		return "\n  No estimate yet."
	}

	footer := statusStyle.Render("  esc: new estimate  j/k or arrows: scroll")
	if !m.ready {
		return lipgloss.JoinVertical(lipgloss.Left, m.renderContent(), footer)
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), footer)
}

func (m ResultsModel) renderContent() string {
	est := m.estimate
	if est == nil {
		return "No data"
	}

	var sections []string

	sections = append(sections, cardTitleStyle.Render(est.Activity))
	sections = append(sections, RenderMetric("Type", string(est.Type), ""))
	sections = append(sections, RenderMetric("Intensity", string(est.Intensity), ""))
	sections = append(sections, RenderMetric("Session", fmt.Sprintf("%s at %s lb", analysis.FormatDuration(est.DurationMinutes), formatNumber(est.WeightLbs, 1)), ""))
	sections = append(sections, "")

	sections = append(sections, headlineStyle.Render(fmt.Sprintf("%s calories", formatCalories(est.TotalCalories))))
	sections = append(sections, RenderMetric("Per hour", formatCalories(est.CaloriesPerHour), "kcal/h"))
	sections = append(sections, RenderMetric("Per minute", formatNumber(est.Metrics.CaloriesPerMinute, 1), "kcal/min"))
	sections = append(sections, RenderMetric("Effort", est.Metrics.Level, fmt.Sprintf("~%.1f MET", est.Metrics.METEstimate)))
	sections = append(sections, "", commentaryStyle.Render(est.Commentary), "")

	sections = append(sections, m.renderFoods())
	sections = append(sections, m.renderCurve())
	sections = append(sections, m.renderComparable())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ResultsModel) renderFoods() string {
	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(secondaryColor).Render("That's about"))

	if len(m.estimate.Foods) == 0 {
		lines = append(lines, helpDescStyle.Render("  less than half of any reference food"))
	}
	for _, f := range m.estimate.Foods {
		lines = append(lines, fmt.Sprintf("  %5.1f × %s", f.Quantity, f.Food.Name))
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (m ResultsModel) renderCurve() string {
	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(secondaryColor).Render("Calories Over the Session"))

	data := make([]float64, len(m.estimate.Curve))
	for i, p := range m.estimate.Curve {
		data[i] = p.Calories
	}

	if len(data) > 2 {
		chart := asciigraph.Plot(data,
			asciigraph.Height(8),
			asciigraph.Width(50),
			asciigraph.Caption(fmt.Sprintf("0 to %s", analysis.FormatDuration(m.estimate.DurationMinutes))),
		)
		lines = append(lines, chart)
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (m ResultsModel) renderComparable() string {
	var lines []string

	title := "Similar Activities"
	if m.estimate.Custom {
		title = fmt.Sprintf("Examples of %s %s Activities", m.estimate.Intensity, m.estimate.Type)
	}
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(secondaryColor).Render(title))

	if len(m.estimate.Comparable) == 0 {
		lines = append(lines, helpDescStyle.Render("  none in the reference table"))
		return strings.Join(lines, "\n")
	}

	lines = append(lines, tableHeaderStyle.Render(fmt.Sprintf("%-40s  %10s  %-9s", "Activity", "Avg kcal/h", "Intensity")))
	for _, r := range m.estimate.Comparable {
		lines = append(lines, tableRowStyle.Render(fmt.Sprintf("%-40s  %10s  %-9s",
			truncateName(r.Activity, 40), formatCalories(r.AvgCalories), r.Intensity)))
	}
	return strings.Join(lines, "\n")
}
