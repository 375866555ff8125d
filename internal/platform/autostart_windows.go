//go:build windows

package platform

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

const registryRunKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

// registryAutostart stores the login item as a value under the Run key.
type registryAutostart struct {
	valueName string
	run       func(args ...string) ([]byte, error)
}

func newAutostart(appName string) (Autostart, error) {
	return &registryAutostart{valueName: appName, run: runReg}, nil
}

func runReg(args ...string) ([]byte, error) {
	return exec.Command("reg", args...).CombinedOutput()
}

func (item *registryAutostart) Enable(execPath string) error {
	if execPath == "" {
		return errors.New("enable autostart: exec path is empty")
	}
	quoted := `"` + strings.Trim(execPath, `"`) + `"`
	if output, err := item.run("add", registryRunKey, "/v", item.valueName, "/t", "REG_SZ", "/d", quoted, "/f"); err != nil {
		return fmt.Errorf("enable autostart: reg add: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

func (item *registryAutostart) Disable() error {
	enabled, err := item.Enabled()
	if err != nil || !enabled {
		return err
	}
	if output, err := item.run("delete", registryRunKey, "/v", item.valueName, "/f"); err != nil {
		return fmt.Errorf("disable autostart: reg delete: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

// Enabled reports whether the Run value exists. reg query exits non-zero
// when it does not.
func (item *registryAutostart) Enabled() (bool, error) {
	_, err := item.run("query", registryRunKey, "/v", item.valueName)
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check autostart: %w", err)
	}
	return true, nil
}
