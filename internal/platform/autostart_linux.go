//go:build linux

package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func newAutostart(appName string) (Autostart, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		homeDir, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("autostart: locate config dir: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return &fileAutostart{
		path: filepath.Join(configDir, "autostart", appSlug(appName)+".desktop"),
		render: func(execPath string) string {
			return desktopEntry(appName, execPath)
		},
	}, nil
}

func desktopEntry(appName, execPath string) string {
	if strings.ContainsAny(execPath, " \t") {
		execPath = `"` + strings.Trim(execPath, `"`) + `"`
	}

	var entry strings.Builder
	entry.WriteString("[Desktop Entry]\n")
	for _, line := range [][2]string{
		{"Type", "Application"},
		{"Name", appName},
		{"Comment", "Pomodoro focus timer"},
		{"Exec", execPath},
		{"Icon", appSlug(appName)},
		{"Categories", "Utility;"},
		{"Terminal", "false"},
		{"X-GNOME-Autostart-enabled", "true"},
	} {
		fmt.Fprintf(&entry, "%s=%s\n", line[0], line[1])
	}
	return entry.String()
}
