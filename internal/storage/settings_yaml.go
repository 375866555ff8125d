package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pomodoro/internal/ui/preferences"

	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	WorkMinutes      int    `yaml:"work_minutes"`
	WorkSeconds      int    `yaml:"work_seconds,omitempty"`
	BreakMinutes     int    `yaml:"break_minutes"`
	BreakSeconds     int    `yaml:"break_seconds,omitempty"`
	APIBaseURL       string `yaml:"api_base_url"`
	Notifications    *bool  `yaml:"notifications"`
	StartOnLaunch    bool   `yaml:"start_on_launch"`
	LaunchAtLogin    bool   `yaml:"launch_at_login"`
	IdlePauseMinutes *int   `yaml:"idle_pause_minutes"`
}

// SettingsPath returns the default settings file location for appName.
func SettingsPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

// LoadSettings reads user preferences from the YAML file at path.
// If the file does not exist, default settings are returned.
func LoadSettings(path string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to the YAML file at path.
func SaveSettings(path string, settings preferences.Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	serialized, err := MarshalSettings(settings)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

// MarshalSettings renders settings in the on-disk YAML form.
func MarshalSettings(settings preferences.Settings) ([]byte, error) {
	notifications := settings.Notifications
	idleMinutes := int(settings.IdlePauseAfter / time.Minute)
	fileData := yamlSettings{
		WorkMinutes:      int(settings.WorkDuration / time.Minute),
		WorkSeconds:      int(settings.WorkDuration % time.Minute / time.Second),
		BreakMinutes:     int(settings.BreakDuration / time.Minute),
		BreakSeconds:     int(settings.BreakDuration % time.Minute / time.Second),
		APIBaseURL:       settings.APIBaseURL,
		Notifications:    &notifications,
		StartOnLaunch:    settings.StartOnLaunch,
		LaunchAtLogin:    settings.LaunchAtLogin,
		IdlePauseMinutes: &idleMinutes,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return nil, fmt.Errorf("marshal settings yaml: %w", err)
	}
	return serialized, nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if work := minutesAndSeconds(fileData.WorkMinutes, fileData.WorkSeconds); work > 0 {
		settings.WorkDuration = work
	}
	if rest := minutesAndSeconds(fileData.BreakMinutes, fileData.BreakSeconds); rest > 0 {
		settings.BreakDuration = rest
	}

	if url := strings.TrimSpace(fileData.APIBaseURL); url != "" {
		settings.APIBaseURL = url
	}
	if fileData.Notifications != nil {
		settings.Notifications = *fileData.Notifications
	}
	if fileData.IdlePauseMinutes != nil && *fileData.IdlePauseMinutes >= 0 {
		settings.IdlePauseAfter = time.Duration(*fileData.IdlePauseMinutes) * time.Minute
	}
	settings.StartOnLaunch = fileData.StartOnLaunch
	settings.LaunchAtLogin = fileData.LaunchAtLogin
}

func minutesAndSeconds(minutes, seconds int) time.Duration {
	if minutes < 0 || seconds < 0 {
		return 0
	}
	return time.Duration(minutes)*time.Minute + time.Duration(seconds)*time.Second
}
