package platform

import (
	"os"
	"strings"
)

// Wayland compositors do not expose input idle time to X clients.
func newIdleProvider() IdleProvider {
	if strings.EqualFold(os.Getenv("XDG_SESSION_TYPE"), "wayland") && os.Getenv("DISPLAY") == "" {
		return unsupportedIdleProvider{}
	}
	return lookupIdleCommand("xprintidle", nil, parseIdleMillis)
}
