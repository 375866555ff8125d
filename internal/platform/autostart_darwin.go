//go:build darwin

package platform

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
)

func newAutostart(appName string) (Autostart, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("autostart: locate home dir: %w", err)
	}

	label := "com.pomodoro." + appSlug(appName)
	return &fileAutostart{
		path: filepath.Join(homeDir, "Library", "LaunchAgents", label+".plist"),
		render: func(execPath string) string {
			return launchAgentPlist(label, execPath)
		},
	}, nil
}

const launchAgentTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>%s</string>
	<key>ProgramArguments</key>
	<array>
		<string>%s</string>
	</array>
	<key>RunAtLoad</key>
	<true/>
	<key>ProcessType</key>
	<string>Interactive</string>
</dict>
</plist>
`

func launchAgentPlist(label, execPath string) string {
	return fmt.Sprintf(launchAgentTemplate, escapeXML(label), escapeXML(execPath))
}

func escapeXML(value string) string {
	var buffer bytes.Buffer
	_ = xml.EscapeText(&buffer, []byte(value))
	return buffer.String()
}
