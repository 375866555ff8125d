package progressapi

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Manager applies the progress rules on top of a Repository.
type Manager struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// NewManager creates a manager over repo.
func NewManager(repo Repository, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		repo:   repo,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Progress returns today's counters and the all-time totals.
func (manager *Manager) Progress(ctx context.Context) (Progress, error) {
	progress, err := manager.repo.Progress(ctx, manager.today())
	if err != nil {
		return Progress{}, fmt.Errorf("load progress: %w", err)
	}
	return progress, nil
}

// CompleteSession records a finished work session. A repeated sessionID is
// counted once. focusMinutes <= 0 falls back to DefaultFocusMinutes.
func (manager *Manager) CompleteSession(ctx context.Context, sessionID string, focusMinutes int) (Progress, error) {
	if focusMinutes <= 0 {
		focusMinutes = DefaultFocusMinutes
	}
	if sessionID == "" {
		sessionID = manager.newID()
	}

	now := manager.now()
	added, err := manager.repo.AddSession(ctx, Session{
		ID:           sessionID,
		Day:          now.Format(DayLayout),
		CompletedAt:  now,
		FocusMinutes: focusMinutes,
	})
	if err != nil {
		return Progress{}, fmt.Errorf("add session: %w", err)
	}
	if added {
		manager.logger.Info("session completed",
			zap.String("session_id", sessionID),
			zap.Int("focus_minutes", focusMinutes))
	} else {
		manager.logger.Debug("duplicate session ignored", zap.String("session_id", sessionID))
	}
	return manager.Progress(ctx)
}

// ResetToday zeroes today's counters. All-time totals are kept.
func (manager *Manager) ResetToday(ctx context.Context) (Progress, error) {
	if err := manager.repo.ClearDay(ctx, manager.today()); err != nil {
		return Progress{}, fmt.Errorf("clear day: %w", err)
	}
	manager.logger.Info("today's progress reset")
	return manager.Progress(ctx)
}

// Statistics aggregates a period ending today. "week" starts on Monday,
// "month" on the first of the month.
func (manager *Manager) Statistics(ctx context.Context, period string) (Statistics, error) {
	now := manager.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var start time.Time
	switch period {
	case "", "week":
		period = "week"
		offset := (int(today.Weekday()) + 6) % 7
		start = today.AddDate(0, 0, -offset)
	case "month":
		start = today.AddDate(0, 0, 1-today.Day())
	default:
		return Statistics{}, fmt.Errorf("%w: unknown period %q", ErrInvalidRequest, period)
	}

	totals, err := manager.repo.DailyTotals(ctx, start.Format(DayLayout), today.Format(DayLayout))
	if err != nil {
		return Statistics{}, fmt.Errorf("load daily totals: %w", err)
	}
	byDay := make(map[string]DayTotal, len(totals))
	for _, total := range totals {
		byDay[total.Date] = total
	}

	stats := Statistics{Period: period}
	for day := start; !day.After(today); day = day.AddDate(0, 0, 1) {
		key := day.Format(DayLayout)
		total, ok := byDay[key]
		if !ok {
			total = DayTotal{Date: key}
		}
		stats.DailyData = append(stats.DailyData, total)
		stats.TotalCompletions += total.Completions
		stats.TotalFocusTime += total.FocusMinutes
	}

	days := float64(len(stats.DailyData))
	stats.AverageDaily = float64(stats.TotalCompletions) / days
	stats.CompletionRate = math.Min(100, float64(stats.TotalCompletions)/(days*DailyGoal)*100)
	return stats, nil
}

func (manager *Manager) today() string {
	return manager.now().Format(DayLayout)
}
