package preferences

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"pomodoro/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window        fyne.Window
	settings      Settings
	onSave        func(Settings)
	workMinutes   *widget.Entry
	workSeconds   *widget.Entry
	breakMinutes  *widget.Entry
	breakSeconds  *widget.Entry
	apiURL        *widget.Entry
	idleMinutes   *widget.Entry
	notifications *widget.Check
	startOnLaunch *widget.Check
	launchAtLogin *widget.Check
	errorLabel    *widget.Label
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("Pomodoro Settings")

	prefs := &Window{
		window:        window,
		onSave:        onSave,
		workMinutes:   widget.NewEntry(),
		workSeconds:   widget.NewEntry(),
		breakMinutes:  widget.NewEntry(),
		breakSeconds:  widget.NewEntry(),
		apiURL:        widget.NewEntry(),
		idleMinutes:   widget.NewEntry(),
		notifications: widget.NewCheck("Notify when a phase ends", nil),
		startOnLaunch: widget.NewCheck("Start the timer on launch", nil),
		launchAtLogin: widget.NewCheck("Launch at login", nil),
		errorLabel:    widget.NewLabel(""),
	}
	prefs.apiURL.SetPlaceHolder(DefaultAPIBaseURL)
	prefs.errorLabel.Importance = widget.DangerImportance
	prefs.UpdateSettings(settings)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Timer", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Work"), prefs.workMinutes, widget.NewLabel("min"), prefs.workSeconds, widget.NewLabel("sec")),
		container.NewHBox(widget.NewLabel("Break"), prefs.breakMinutes, widget.NewLabel("min"), prefs.breakSeconds, widget.NewLabel("sec")),
		container.NewHBox(widget.NewLabel("Pause work after"), prefs.idleMinutes, widget.NewLabel("idle minutes (0 = never)")),
		prefs.startOnLaunch,
		prefs.launchAtLogin,
		prefs.notifications,
		widget.NewLabelWithStyle("Progress", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabel("API address"),
		prefs.apiURL,
		prefs.errorLabel,
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	cancelButton := widget.NewButton("Cancel", window.Hide)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(460, 420))
	window.SetCloseIntercept(window.Hide)

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.workMinutes.SetText(strconv.Itoa(int(settings.WorkDuration / time.Minute)))
	prefs.workSeconds.SetText(strconv.Itoa(int(settings.WorkDuration % time.Minute / time.Second)))
	prefs.breakMinutes.SetText(strconv.Itoa(int(settings.BreakDuration / time.Minute)))
	prefs.breakSeconds.SetText(strconv.Itoa(int(settings.BreakDuration % time.Minute / time.Second)))
	prefs.apiURL.SetText(settings.APIBaseURL)
	prefs.notifications.SetChecked(settings.Notifications)
	prefs.idleMinutes.SetText(strconv.Itoa(int(settings.IdlePauseAfter / time.Minute)))
	prefs.startOnLaunch.SetChecked(settings.StartOnLaunch)
	prefs.launchAtLogin.SetChecked(settings.LaunchAtLogin)
	prefs.errorLabel.SetText("")
}

func (prefs *Window) handleSave() {
	settings, err := prefs.collect()
	if err != nil {
		prefs.errorLabel.SetText(err.Error())
		return
	}

	prefs.settings = settings
	prefs.errorLabel.SetText("")
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func (prefs *Window) collect() (Settings, error) {
	settings := prefs.settings

	work, err := parseDuration(prefs.workMinutes.Text, prefs.workSeconds.Text)
	if err != nil {
		return settings, fmt.Errorf("work: %w", err)
	}
	rest, err := parseDuration(prefs.breakMinutes.Text, prefs.breakSeconds.Text)
	if err != nil {
		return settings, fmt.Errorf("break: %w", err)
	}
	settings.WorkDuration = work
	settings.BreakDuration = rest

	if err := settings.TimerConfig().Validate(); err != nil {
		var configErr *model.ConfigError
		if errors.As(err, &configErr) {
			return settings, fmt.Errorf("%s must be at least one second", configErr.Field)
		}
		return settings, err
	}

	idleMinutes, err := parseNonNegativeInt(prefs.idleMinutes.Text)
	if err != nil {
		return settings, fmt.Errorf("idle pause: %w", err)
	}
	settings.IdlePauseAfter = time.Duration(idleMinutes) * time.Minute

	settings.APIBaseURL = strings.TrimSpace(prefs.apiURL.Text)
	if settings.APIBaseURL == "" {
		settings.APIBaseURL = DefaultAPIBaseURL
	}
	settings.Notifications = prefs.notifications.Checked
	settings.StartOnLaunch = prefs.startOnLaunch.Checked
	settings.LaunchAtLogin = prefs.launchAtLogin.Checked
	return settings, nil
}

func parseDuration(minutes, seconds string) (time.Duration, error) {
	parsedMinutes, err := parseNonNegativeInt(minutes)
	if err != nil {
		return 0, err
	}
	parsedSeconds, err := parseNonNegativeInt(seconds)
	if err != nil {
		return 0, err
	}
	return time.Duration(parsedMinutes)*time.Minute + time.Duration(parsedSeconds)*time.Second, nil
}

func parseNonNegativeInt(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return 0, fmt.Errorf("%q is not a whole number", value)
	}
	return parsed, nil
}
