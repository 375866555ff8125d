package progress

import (
	"context"
	"math"
	"sync"
	"time"

	"pomodoro/internal/core/timer"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Tracker records completed sessions through the API and caches the last
// totals it saw. Without a client it counts locally.
type Tracker struct {
	client *Client
	logger *zap.Logger
	newID  func() string

	mu       sync.RWMutex
	summary  Summary
	online   bool
	onChange func(Summary)
}

// NewTracker creates a tracker. client may be nil for offline use.
func NewTracker(client *Client, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{
		client: client,
		logger: logger,
		newID:  uuid.NewString,
	}
}

// SetOnChange registers a callback invoked whenever the cached summary changes.
func (tracker *Tracker) SetOnChange(handler func(Summary)) {
	tracker.mu.Lock()
	tracker.onChange = handler
	tracker.mu.Unlock()
}

// Summary returns the last known totals, zero until the first successful call.
func (tracker *Tracker) Summary() Summary {
	tracker.mu.RLock()
	defer tracker.mu.RUnlock()
	return tracker.summary
}

// Online reports whether the most recent API call succeeded.
func (tracker *Tracker) Online() bool {
	tracker.mu.RLock()
	defer tracker.mu.RUnlock()
	return tracker.online
}

// Refresh re-reads the API. Failures are logged and the last known totals returned.
func (tracker *Tracker) Refresh(ctx context.Context) Summary {
	if tracker.client == nil {
		return tracker.Summary()
	}
	summary, err := tracker.client.Fetch(ctx)
	if err != nil {
		tracker.logger.Warn("progress api unreachable, keeping last known totals",
			zap.String("url", tracker.client.BaseURL()),
			zap.Error(err))
		tracker.setOnline(false)
		return tracker.Summary()
	}
	tracker.store(summary)
	return summary
}

// RecordSession implements timer.Recorder.
func (tracker *Tracker) RecordSession(ctx context.Context, session timer.CompletedSession) error {
	minutes := FocusMinutes(session.Duration)
	if tracker.client == nil {
		tracker.mu.Lock()
		tracker.summary.TodayCompleted++
		tracker.summary.TotalCompleted++
		tracker.summary.TodayFocusMinutes += minutes
		tracker.summary.TotalFocusMinutes += minutes
		summary := tracker.summary
		handler := tracker.onChange
		tracker.mu.Unlock()

		if handler != nil {
			handler(summary)
		}
		return nil
	}

	summary, err := tracker.client.CompleteSession(ctx, CompleteRequest{
		SessionID:    tracker.newID(),
		FocusMinutes: minutes,
	})
	if err != nil {
		tracker.setOnline(false)
		return err
	}
	tracker.store(summary)
	return nil
}

// FocusMinutes converts a work duration to whole focus minutes, rounding up
// so a short session still counts for a minute.
func FocusMinutes(duration time.Duration) int {
	if duration <= 0 {
		return 0
	}
	return int(math.Ceil(duration.Minutes()))
}

func (tracker *Tracker) store(summary Summary) {
	tracker.mu.Lock()
	tracker.summary = summary
	tracker.online = tracker.client != nil
	handler := tracker.onChange
	tracker.mu.Unlock()

	if handler != nil {
		handler(summary)
	}
}

func (tracker *Tracker) setOnline(online bool) {
	tracker.mu.Lock()
	tracker.online = online
	tracker.mu.Unlock()
}
