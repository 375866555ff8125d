package preferences

import (
	"time"

	"pomodoro/internal/core/model"
)

const (
	// DefaultAPIBaseURL is where the progress API listens unless configured otherwise.
	DefaultAPIBaseURL = "http://127.0.0.1:5000"
	// DefaultIdlePauseAfter pauses a running work phase after this much inactivity.
	DefaultIdlePauseAfter = 5 * time.Minute
)

// Settings defines editable user preferences.
type Settings struct {
	WorkDuration  time.Duration
	BreakDuration time.Duration

	APIBaseURL    string
	Notifications bool
	StartOnLaunch bool
	LaunchAtLogin bool

	// IdlePauseAfter of zero disables idle detection.
	IdlePauseAfter time.Duration
}

// DefaultSettings returns default settings for Pomodoro.
func DefaultSettings() Settings {
	return Settings{
		WorkDuration:   model.DefaultWorkDuration,
		BreakDuration:  model.DefaultBreakDuration,
		APIBaseURL:     DefaultAPIBaseURL,
		Notifications:  true,
		StartOnLaunch:  false,
		LaunchAtLogin:  false,
		IdlePauseAfter: DefaultIdlePauseAfter,
	}
}

// TimerConfig converts settings to the timer's configuration.
func (settings Settings) TimerConfig() model.TimerConfig {
	return model.TimerConfig{
		WorkDuration:  settings.WorkDuration,
		BreakDuration: settings.BreakDuration,
	}
}
