// Package terminal renders the session timer in a terminal with bubbletea.
package terminal

import (
	"fmt"

	"pomodoro/internal/core/timer"
	"pomodoro/internal/progress"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	bubbleprogress "github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const maxBarWidth = 60

// Controller is the part of the session timer the terminal drives.
type Controller interface {
	Toggle()
	Reset()
	Snapshot() timer.Display
}

// SummaryMsg carries refreshed progress totals into the model.
type SummaryMsg struct {
	Summary progress.Summary
	Online  bool
}

type eventMsg timer.Event

type eventsClosedMsg struct{}

// Model is the bubbletea model for the terminal timer.
type Model struct {
	controller Controller
	events     <-chan timer.Event
	display    timer.Display
	summary    SummaryMsg
	banner     string
	bar        bubbleprogress.Model
	help       help.Model
	keys       keyMap
	styles     styles
	quitting   bool
}

// NewModel creates a model that drives controller and renders events.
// events is usually a timer.ChannelPresenter registered on the same timer.
func NewModel(controller Controller, events <-chan timer.Event) Model {
	bar := bubbleprogress.New(bubbleprogress.WithDefaultGradient(), bubbleprogress.WithoutPercentage())
	bar.Width = 40
	return Model{
		controller: controller,
		events:     events,
		display:    controller.Snapshot(),
		bar:        bar,
		help:       help.New(),
		keys:       defaultKeyMap(),
		styles:     defaultStyles(),
	}
}

// Init starts listening for timer events.
func (m Model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Toggle):
			return m, m.command(m.controller.Toggle)
		case key.Matches(msg, m.keys.Reset):
			m.banner = ""
			return m, m.command(m.controller.Reset)
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.bar.Width = max(min(msg.Width-8, maxBarWidth), 10)
		m.help.Width = msg.Width
		return m, nil

	case eventMsg:
		switch msg.Type {
		case timer.EventTick:
			m.display = msg.Display
		case timer.EventPhaseChange:
			m.banner = phaseBanner(msg.Phase)
		}
		return m, waitForEvent(m.events)

	case eventsClosedMsg:
		return m, nil

	case SummaryMsg:
		m.summary = msg
		return m, nil
	}
	return m, nil
}

// View renders the timer.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	isBreak := m.display.Phase == timer.PhaseBreak
	header := lipgloss.JoinHorizontal(lipgloss.Center,
		m.styles.Title.Render("Pomodoro "),
		m.styles.phaseBadge(isBreak).Render(m.display.Phase.Label()),
	)
	if !m.display.Running {
		header = lipgloss.JoinHorizontal(lipgloss.Center, header, m.styles.Paused.Render("  paused"))
	}

	sections := []string{
		header,
		m.styles.Clock.Render(m.display.Clock),
		m.bar.ViewAs(m.display.Percent / 100),
		m.styles.Stats.Render(fmt.Sprintf("Completed this run: %d", m.display.CompletedWorkSessions)),
		m.summaryLine(),
	}
	if m.banner != "" {
		sections = append(sections, m.styles.Banner.Render(m.banner))
	}
	sections = append(sections, "", m.help.View(m.keys))

	return m.styles.Frame.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) summaryLine() string {
	line := fmt.Sprintf("Today: %d sessions, %d min  Total: %d sessions, %d min",
		m.summary.Summary.TodayCompleted, m.summary.Summary.TodayFocusMinutes,
		m.summary.Summary.TotalCompleted, m.summary.Summary.TotalFocusMinutes)
	if !m.summary.Online {
		return m.styles.Stats.Render(line) + m.styles.Offline.Render("  (offline)")
	}
	return m.styles.Stats.Render(line)
}

// command runs a timer mutator off the update loop. The timer publishes the
// result back through the event channel.
func (m Model) command(action func()) tea.Cmd {
	return func() tea.Msg {
		action()
		return nil
	}
}

func waitForEvent(events <-chan timer.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg(event)
	}
}

func phaseBanner(phase timer.Phase) string {
	if phase == timer.PhaseBreak {
		return "Work session complete. Time for a break."
	}
	return "Break over. Back to work."
}
