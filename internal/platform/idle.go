package platform

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrIdleUnsupported is returned when the session cannot report input idle time.
var ErrIdleUnsupported = errors.New("idle detection unsupported")

// IdleProvider returns the duration since last user input.
type IdleProvider interface {
	IdleDuration() (time.Duration, error)
}

// NewIdleProvider returns a platform-specific idle provider.
func NewIdleProvider() IdleProvider {
	return newIdleProvider()
}

const defaultIdlePoll = 5 * time.Second

// IdleMonitor calls onIdle once each time user inactivity crosses the threshold.
type IdleMonitor struct {
	provider  IdleProvider
	threshold time.Duration
	poll      time.Duration
	onIdle    func(idle time.Duration)
	logger    *zap.Logger

	idle        bool
	unsupported bool
}

// NewIdleMonitor creates a monitor. A threshold of zero disables it.
func NewIdleMonitor(provider IdleProvider, threshold time.Duration, onIdle func(time.Duration), logger *zap.Logger) *IdleMonitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdleMonitor{
		provider:  provider,
		threshold: threshold,
		poll:      defaultIdlePoll,
		onIdle:    onIdle,
		logger:    logger,
	}
}

// Run polls until ctx is done or the provider reports it is unsupported.
func (monitor *IdleMonitor) Run(ctx context.Context) {
	if monitor.threshold <= 0 {
		return
	}
	ticker := time.NewTicker(monitor.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			monitor.check()
			if monitor.unsupported {
				return
			}
		}
	}
}

func (monitor *IdleMonitor) check() {
	idle, err := monitor.provider.IdleDuration()
	if errors.Is(err, ErrIdleUnsupported) {
		monitor.unsupported = true
		monitor.logger.Info("idle detection unavailable on this session")
		return
	}
	if err != nil {
		monitor.logger.Debug("read idle time", zap.Error(err))
		return
	}

	if idle < monitor.threshold {
		monitor.idle = false
		return
	}
	if monitor.idle {
		return
	}
	monitor.idle = true
	monitor.logger.Info("user idle", zap.Duration("idle", idle))
	if monitor.onIdle != nil {
		monitor.onIdle(idle)
	}
}

// commandIdleProvider runs an external tool and parses its output.
type commandIdleProvider struct {
	path  string
	args  []string
	parse func(output []byte) (time.Duration, error)
}

// lookupIdleCommand returns a provider for name, or an unsupported provider
// when the tool is not installed.
func lookupIdleCommand(name string, args []string, parse func([]byte) (time.Duration, error)) IdleProvider {
	path, err := exec.LookPath(name)
	if err != nil {
		return unsupportedIdleProvider{}
	}
	return &commandIdleProvider{path: path, args: args, parse: parse}
}

func (provider *commandIdleProvider) IdleDuration() (time.Duration, error) {
	output, err := exec.Command(provider.path, provider.args...).Output()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", filepath.Base(provider.path), err)
	}
	return provider.parse(output)
}

type unsupportedIdleProvider struct{}

func (unsupportedIdleProvider) IdleDuration() (time.Duration, error) {
	return 0, ErrIdleUnsupported
}

// parseIdleMillis reads a bare millisecond count, as printed by xprintidle.
func parseIdleMillis(output []byte) (time.Duration, error) {
	millis, err := strconv.ParseInt(strings.TrimSpace(string(output)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse idle milliseconds: %w", err)
	}
	return time.Duration(max(millis, 0)) * time.Millisecond, nil
}

// parseHIDIdleTime finds the "HIDIdleTime" nanosecond counter in ioreg output.
func parseHIDIdleTime(output []byte) (time.Duration, error) {
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, `"HIDIdleTime"`) {
			continue
		}
		_, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		nanos, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse HIDIdleTime: %w", err)
		}
		return time.Duration(max(nanos, 0)), nil
	}
	return 0, errors.New("HIDIdleTime not reported")
}
