package preferences

import (
	"testing"
	"time"

	"pomodoro/internal/core/model"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettingsTimerConfig(t *testing.T) {
	config := DefaultSettings().TimerConfig()

	assert.Equal(t, model.DefaultTimerConfig(), config)
	require.NoError(t, config.Validate())
}

func newTestWindow(t *testing.T, onSave func(Settings)) *Window {
	t.Helper()
	app := test.NewApp()
	t.Cleanup(app.Quit)
	return New(app, DefaultSettings(), onSave)
}

func TestWindowShowsSettings(t *testing.T) {
	prefs := newTestWindow(t, nil)

	prefs.UpdateSettings(Settings{
		WorkDuration:   50*time.Minute + 30*time.Second,
		BreakDuration:  10 * time.Minute,
		APIBaseURL:     "http://localhost:9000",
		Notifications:  false,
		StartOnLaunch:  true,
		LaunchAtLogin:  true,
		IdlePauseAfter: 10 * time.Minute,
	})

	assert.Equal(t, "50", prefs.workMinutes.Text)
	assert.Equal(t, "30", prefs.workSeconds.Text)
	assert.Equal(t, "10", prefs.breakMinutes.Text)
	assert.Equal(t, "0", prefs.breakSeconds.Text)
	assert.Equal(t, "http://localhost:9000", prefs.apiURL.Text)
	assert.False(t, prefs.notifications.Checked)
	assert.True(t, prefs.startOnLaunch.Checked)
	assert.True(t, prefs.launchAtLogin.Checked)
	assert.Equal(t, "10", prefs.idleMinutes.Text)
}

func TestWindowSaveCollectsValues(t *testing.T) {
	var saved []Settings
	prefs := newTestWindow(t, func(settings Settings) { saved = append(saved, settings) })

	prefs.workMinutes.SetText("45")
	prefs.breakSeconds.SetText("30")
	prefs.apiURL.SetText("  ")
	prefs.notifications.SetChecked(false)
	prefs.idleMinutes.SetText("0")
	prefs.handleSave()

	require.Len(t, saved, 1)
	assert.Equal(t, 45*time.Minute, saved[0].WorkDuration)
	assert.Equal(t, 5*time.Minute+30*time.Second, saved[0].BreakDuration)
	assert.Equal(t, DefaultAPIBaseURL, saved[0].APIBaseURL)
	assert.False(t, saved[0].Notifications)
	assert.Zero(t, saved[0].IdlePauseAfter)
}

func TestWindowSaveRejectsInvalidDurations(t *testing.T) {
	tests := []struct {
		name    string
		minutes string
		seconds string
		message string
	}{
		{name: "zero", minutes: "0", seconds: "0", message: "work duration must be at least one second"},
		{name: "negative", minutes: "-1", seconds: "0", message: `work: "-1" is not a whole number`},
		{name: "text", minutes: "ten", seconds: "0", message: `work: "ten" is not a whole number`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saved := 0
			prefs := newTestWindow(t, func(Settings) { saved++ })

			prefs.workMinutes.SetText(tt.minutes)
			prefs.workSeconds.SetText(tt.seconds)
			prefs.handleSave()

			assert.Zero(t, saved)
			assert.Equal(t, tt.message, prefs.errorLabel.Text)
		})
	}
}
