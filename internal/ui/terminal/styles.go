package terminal

import "github.com/charmbracelet/lipgloss"

var (
	workColor  = lipgloss.Color("#E74C3C")
	breakColor = lipgloss.Color("#2ECC71")
	mutedColor = lipgloss.Color("#7F8C8D")
)

type styles struct {
	Frame   lipgloss.Style
	Title   lipgloss.Style
	Phase   lipgloss.Style
	Clock   lipgloss.Style
	Paused  lipgloss.Style
	Stats   lipgloss.Style
	Offline lipgloss.Style
	Banner  lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Frame:   lipgloss.NewStyle().Padding(1, 2),
		Title:   lipgloss.NewStyle().Bold(true),
		Phase:   lipgloss.NewStyle().Bold(true).Padding(0, 1),
		Clock:   lipgloss.NewStyle().Bold(true).MarginTop(1).MarginBottom(1),
		Paused:  lipgloss.NewStyle().Foreground(mutedColor).Italic(true),
		Stats:   lipgloss.NewStyle().Foreground(mutedColor),
		Offline: lipgloss.NewStyle().Foreground(mutedColor).Italic(true),
		Banner:  lipgloss.NewStyle().Bold(true).MarginTop(1),
	}
}

func (s styles) phaseBadge(isBreak bool) lipgloss.Style {
	color := workColor
	if isBreak {
		color = breakColor
	}
	return s.Phase.Foreground(lipgloss.Color("#FFFFFF")).Background(color)
}
