package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Autostart registers the application as a login item for the current user.
type Autostart interface {
	Enable(execPath string) error
	Disable() error
	Enabled() (bool, error)
}

// NewAutostart returns the login item for appName on this OS.
func NewAutostart(appName string) (Autostart, error) {
	if strings.TrimSpace(appName) == "" {
		return nil, errors.New("autostart: app name is empty")
	}
	return newAutostart(appName)
}

// SyncAutostart registers the running executable when enabled and removes
// the login item otherwise.
func SyncAutostart(autostart Autostart, enabled bool) error {
	if !enabled {
		return autostart.Disable()
	}
	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(execPath); err == nil {
		execPath = resolved
	}
	return autostart.Enable(execPath)
}

// fileAutostart is a login item backed by one file, a desktop entry or a
// launch agent plist.
type fileAutostart struct {
	path   string
	render func(execPath string) string
}

func (item *fileAutostart) Enable(execPath string) error {
	if execPath == "" {
		return errors.New("enable autostart: exec path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(item.path), 0o755); err != nil {
		return fmt.Errorf("enable autostart: create %s: %w", filepath.Dir(item.path), err)
	}
	if err := os.WriteFile(item.path, []byte(item.render(execPath)), 0o644); err != nil {
		return fmt.Errorf("enable autostart: write %s: %w", item.path, err)
	}
	return nil
}

func (item *fileAutostart) Disable() error {
	if err := os.Remove(item.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("disable autostart: %w", err)
	}
	return nil
}

func (item *fileAutostart) Enabled() (bool, error) {
	_, err := os.Stat(item.path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check autostart: %w", err)
	}
	return true, nil
}

// appSlug lowercases appName and replaces spaces for use in file names.
func appSlug(appName string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(appName)), " ", "-")
}
