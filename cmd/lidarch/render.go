package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lidarch/lidarch/pkg/pipeline/model"
)

var (
	styleInfo    = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	styleSuccess = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	styleWarning = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	styleError   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))

	styleProgress = lipgloss.NewStyle().Faint(true)
	styleHeading  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	styleStatKey  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

var levelStyles = map[model.Level]lipgloss.Style{
	model.LevelInfo:    styleInfo,
	model.LevelSuccess: styleSuccess,
	model.LevelWarning: styleWarning,
	model.LevelError:   styleError,
}

// event is one line of workflow output: either a log message with a
// severity or a progress update.
type event struct {
	message string
	level   model.Level

	progress    bool
	percentage  int
	remaining   time.Duration
	hasEstimate bool
}

func (ev event) render() string {
	if ev.progress {
		line := fmt.Sprintf("[%3d%%] %s", ev.percentage, ev.message)
		if ev.hasEstimate && ev.remaining > 0 {
			line += fmt.Sprintf(" (about %s left)", ev.remaining.Round(time.Second))
		}

		return styleProgress.Render(line)
	}

	style, ok := levelStyles[ev.level]
	if !ok {
		style = styleInfo
	}

	return style.Render(ev.message)
}

func renderError(err error) string { return styleError.Render("Error: " + err.Error()) }

func renderSuccess(s string) string { return styleSuccess.Render(s) }

func renderHeading(s string) string { return styleHeading.Render(s) }

func renderStatKey(s string) string { return styleStatKey.Render(s) }
