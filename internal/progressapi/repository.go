package progressapi

import (
	"context"
	"sort"
	"sync"
)

// Repository stores completed sessions.
//
// Cleared sessions stay in the all-time totals but no longer count for their day.
type Repository interface {
	// AddSession stores the session and reports false when its ID was already stored.
	AddSession(ctx context.Context, session Session) (bool, error)
	// ClearDay excludes every stored session of day from the daily counters.
	ClearDay(ctx context.Context, day string) error
	// Progress returns the counters for day plus the all-time totals.
	Progress(ctx context.Context, day string) (Progress, error)
	// DailyTotals returns per-day aggregates for days in [from, to] that have sessions.
	DailyTotals(ctx context.Context, from, to string) ([]DayTotal, error)
}

type memorySession struct {
	Session
	cleared bool
}

// MemoryRepository keeps sessions in process memory.
type MemoryRepository struct {
	mu       sync.Mutex
	sessions []memorySession
	ids      map[string]struct{}
}

var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository creates an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{ids: make(map[string]struct{})}
}

func (repo *MemoryRepository) AddSession(_ context.Context, session Session) (bool, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, seen := repo.ids[session.ID]; seen {
		return false, nil
	}
	repo.ids[session.ID] = struct{}{}
	repo.sessions = append(repo.sessions, memorySession{Session: session})
	return true, nil
}

func (repo *MemoryRepository) ClearDay(_ context.Context, day string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for i := range repo.sessions {
		if repo.sessions[i].Day == day {
			repo.sessions[i].cleared = true
		}
	}
	return nil
}

func (repo *MemoryRepository) Progress(_ context.Context, day string) (Progress, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	progress := Progress{Date: day}
	for _, session := range repo.sessions {
		progress.TotalCompleted++
		progress.TotalFocusTime += session.FocusMinutes
		if session.Day == day && !session.cleared {
			progress.TodayCompleted++
			progress.TodayFocusTime += session.FocusMinutes
		}
	}
	return progress, nil
}

func (repo *MemoryRepository) DailyTotals(_ context.Context, from, to string) ([]DayTotal, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	byDay := make(map[string]*DayTotal)
	for _, session := range repo.sessions {
		if session.cleared || session.Day < from || session.Day > to {
			continue
		}
		total, ok := byDay[session.Day]
		if !ok {
			total = &DayTotal{Date: session.Day}
			byDay[session.Day] = total
		}
		total.Completions++
		total.FocusMinutes += session.FocusMinutes
	}

	totals := make([]DayTotal, 0, len(byDay))
	for _, total := range byDay {
		totals = append(totals, *total)
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Date < totals[j].Date })
	return totals, nil
}
