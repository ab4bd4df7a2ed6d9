package tui

import (
	"fmt"
	"strings"

	"metriburn/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// InsightsModel shows what drives the model's predictions
type InsightsModel struct {
	app   *service.App
	width int
}

// NewInsightsModel creates a new insights model
func NewInsightsModel(app *service.App) InsightsModel {
	return InsightsModel{app: app}
}

// Init initializes the insights screen
func (m InsightsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m InsightsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

// View renders the insights screen
func (m InsightsModel) View() string {
	if !m.app.HasModel() {
		return errorStyle.Render("\n  No trained model is available.")
	}

	var sections []string
	sections = append(sections, cardTitleStyle.Render("Model"))
	sections = append(sections, m.renderModelInfo(), "")
	sections = append(sections, cardTitleStyle.Render("Feature Importance"))
	sections = append(sections, m.renderImportance())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m InsightsModel) renderModelInfo() string {
	info := m.app.ModelInfo()

	source := "loaded from store"
	if info.Source == service.ModelSourceTrained {
		source = "trained this session"
	}
	trained := "-"
	if !info.TrainedAt.IsZero() {
		trained = humanize.Time(info.TrainedAt)
	}

	lines := []string{
		RenderMetric("Trees", fmt.Sprintf("%d", info.Trees), source),
		RenderMetric("Training rows", fmt.Sprintf("%d", info.TrainingRows), m.app.DatasetPath()),
		RenderMetric("R²", formatOptional(info.R2, 3), "in-sample"),
		RenderMetric("RMSE", formatOptional(info.RMSE, 1), "kcal/h"),
		RenderMetric("MAE", formatOptional(info.MAE, 1), "kcal/h"),
		RenderMetric("Linear R²", formatOptional(info.BaselineR2, 3), "avg_calories ~ Calories per kg"),
		RenderMetric("Trained", trained, ""),
	}
	if info.Stale {
		lines = append(lines, warningStyle.Render("Trained on a different dataset; normalization may be stale."))
	}
	return strings.Join(lines, "\n")
}

func (m InsightsModel) renderImportance() string {
	ranked := m.app.FeatureImportance()
	if len(ranked) == 0 {
		return helpDescStyle.Render("  no importances recorded")
	}

	barWidth := 30
	if m.width > 80 {
		barWidth = 40
	}
	top := ranked[0].Importance

	var lines []string
	for _, fi := range ranked {
		pct := 0.0
		if top > 0 {
			pct = fi.Importance / top
		}
		lines = append(lines, fmt.Sprintf("  %-28s %s %5.1f%%",
			truncateName(fi.Name, 28), RenderProgressBar(pct, barWidth), fi.Importance*100))
	}
	return strings.Join(lines, "\n")
}
