package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"metriburn/internal/analysis"
	"metriburn/internal/config"
	"metriburn/internal/dataset"
	"metriburn/internal/service"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type formMode int

const (
	modeReference formMode = iota
	modeCustom
)

// Form fields in tab order. In custom mode the first two pick the
// activity type and intensity instead of category and activity.
type formField int

const (
	fieldFirst formField = iota
	fieldSecond
	fieldWeight
	fieldDuration
	fieldCount
)

// EstimateModel is the input form screen model
type EstimateModel struct {
	app    *service.App
	inputs config.InputConfig

	mode  formMode
	focus formField

	categories []string
	category   int
	activities []string
	activity   int

	customType      int
	customIntensity int

	weight   textinput.Model
	duration textinput.Model

	submitting bool
	err        error
}

// NewEstimateModel creates the form with the configured default inputs
func NewEstimateModel(app *service.App, inputs config.InputConfig) EstimateModel {
	weight := textinput.New()
	weight.Placeholder = "lb"
	weight.CharLimit = 6
	weight.Width = 8
	weight.SetValue(strconv.FormatFloat(inputs.DefaultWeight, 'f', -1, 64))

	duration := textinput.New()
	duration.Placeholder = "minutes"
	duration.CharLimit = 5
	duration.Width = 8
	duration.SetValue(strconv.FormatFloat(inputs.DefaultDuration, 'f', -1, 64))

	m := EstimateModel{
		app:             app,
		inputs:          inputs,
		categories:      app.Categories(),
		weight:          weight,
		duration:        duration,
		customIntensity: 1, // Moderate
	}
	m.activities = app.ActivitiesIn(analysis.AllCategories)
	return m
}

// Init initializes the form screen
func (m EstimateModel) Init() tea.Cmd {
	return textinput.Blink
}

// Typing reports whether a text field has focus, so global keys stay local
func (m EstimateModel) Typing() bool {
	return m.focus == fieldWeight || m.focus == fieldDuration
}

// Update handles messages
func (m EstimateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EstimateReadyMsg:
		m.submitting = false
		m.err = msg.Err
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down":
			return m.setFocus((m.focus + 1) % fieldCount)
		case "shift+tab", "up":
			return m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		case "left", "h":
			if !m.Typing() {
				m.cycle(-1)
				return m, nil
			}
		case "right", "l":
			if !m.Typing() {
				m.cycle(1)
				return m, nil
			}
		case "m":
			if !m.Typing() {
				if m.mode == modeReference {
					m.mode = modeCustom
				} else {
					m.mode = modeReference
				}
				m.err = nil
				return m, nil
			}
		case "enter":
			return m.submit()
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldWeight:
		m.weight, cmd = m.weight.Update(msg)
	case fieldDuration:
		m.duration, cmd = m.duration.Update(msg)
	}
	return m, cmd
}

func (m EstimateModel) setFocus(f formField) (tea.Model, tea.Cmd) {
	m.focus = f
	m.weight.Blur()
	m.duration.Blur()
	switch f {
	case fieldWeight:
		return m, m.weight.Focus()
	case fieldDuration:
		return m, m.duration.Focus()
	}
	return m, nil
}

// cycle moves the focused selector by delta, wrapping around
func (m *EstimateModel) cycle(delta int) {
	switch {
	case m.mode == modeReference && m.focus == fieldFirst:
		m.category = wrap(m.category+delta, len(m.categories))
		m.activities = m.app.ActivitiesIn(m.categories[m.category])
		m.activity = 0
	case m.mode == modeReference && m.focus == fieldSecond:
		m.activity = wrap(m.activity+delta, len(m.activities))
	case m.mode == modeCustom && m.focus == fieldFirst:
		m.customType = wrap(m.customType+delta, len(dataset.ActivityTypes))
	case m.mode == modeCustom && m.focus == fieldSecond:
		m.customIntensity = wrap(m.customIntensity+delta, len(dataset.Intensities))
	}
}

func wrap(i, n int) int {
	if n == 0 {
		return 0
	}
	return ((i % n) + n) % n
}

func (m EstimateModel) request() (service.EstimateRequest, error) {
	weight, err := strconv.ParseFloat(strings.TrimSpace(m.weight.Value()), 64)
	if err != nil {
		return service.EstimateRequest{}, errors.New("weight must be a number")
	}
	duration, err := strconv.ParseFloat(strings.TrimSpace(m.duration.Value()), 64)
	if err != nil {
		return service.EstimateRequest{}, errors.New("duration must be a number")
	}

	req := service.EstimateRequest{WeightLbs: weight, DurationMinutes: duration}
	if m.mode == modeCustom {
		req.Custom = true
		req.CustomType = dataset.ActivityTypes[m.customType]
		req.CustomIntensity = dataset.Intensities[m.customIntensity]
	} else if len(m.activities) > 0 {
		req.Activity = m.activities[m.activity]
	}
	return req, nil
}

func (m EstimateModel) submit() (tea.Model, tea.Cmd) {
	req, err := m.request()
	if err != nil {
		m.err = err
		return m, nil
	}
	m.submitting = true
	m.err = nil

	app := m.app
	return m, func() tea.Msg {
		est, err := app.Estimate(req)
		return EstimateReadyMsg{Estimate: est, Err: err}
	}
}

// View renders the form
func (m EstimateModel) View() string {
	var sections []string

	title := "Estimate Calories Burned"
	if m.mode == modeCustom {
		title += " · Custom Activity"
	}
	sections = append(sections, cardTitleStyle.Render(title))

	if !m.app.HasModel() {
		sections = append(sections, errorStyle.Render("No trained model is available. Check the logs, then run `metriburn train`."), "")
	}

	if m.mode == modeReference {
		category := ""
		if len(m.categories) > 0 {
			category = m.categories[m.category]
		}
		activity := "(no activities)"
		if len(m.activities) > 0 {
			activity = fmt.Sprintf("%s  (%d/%d)", truncateName(m.activities[m.activity], 48), m.activity+1, len(m.activities))
		}
		sections = append(sections,
			m.renderSelector(fieldFirst, "Category", category),
			m.renderSelector(fieldSecond, "Activity", activity),
		)
	} else {
		sections = append(sections,
			m.renderSelector(fieldFirst, "Type", string(dataset.ActivityTypes[m.customType])),
			m.renderSelector(fieldSecond, "Intensity", string(dataset.Intensities[m.customIntensity])),
		)
	}

	sections = append(sections,
		m.renderInput(fieldWeight, "Weight (lb)", m.weight,
			fmt.Sprintf("%g-%g", m.inputs.MinWeight, m.inputs.MaxWeight)),
		m.renderInput(fieldDuration, "Duration", m.duration,
			fmt.Sprintf("%g-%g minutes", m.inputs.MinDuration, m.inputs.MaxDuration)),
	)

	if m.submitting {
		sections = append(sections, "", statusStyle.Render("  Estimating..."))
	}
	if m.err != nil {
		sections = append(sections, "", errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)))
	}

	help := statusStyle.Render("\n  tab/↑↓: move  ←/→: change  m: custom/reference  enter: estimate")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m EstimateModel) label(f formField, text string) string {
	if m.focus == f {
		return fieldFocusedStyle.Render("> " + text)
	}
	return fieldLabelStyle.Render("  " + text)
}

func (m EstimateModel) renderSelector(f formField, label, value string) string {
	v := optionStyle.Render(value)
	if m.focus == f {
		v = navActiveStyle.Render("‹ ") + v + navActiveStyle.Render(" ›")
	}
	return lipgloss.JoinHorizontal(lipgloss.Left, m.label(f, label), v)
}

func (m EstimateModel) renderInput(f formField, label string, in textinput.Model, hint string) string {
	return lipgloss.JoinHorizontal(lipgloss.Left, m.label(f, label), in.View(), helpDescStyle.Render("  "+hint))
}
