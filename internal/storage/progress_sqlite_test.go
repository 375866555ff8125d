package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"pomodoro/internal/progressapi"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) (*ProgressStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "progress.db")
	store, err := OpenProgressStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, path
}

func session(id, day string, minutes int) progressapi.Session {
	completed, _ := time.Parse(progressapi.DayLayout, day)
	return progressapi.Session{ID: id, Day: day, CompletedAt: completed.Add(9 * time.Hour), FocusMinutes: minutes}
}

func TestProgressStoreEmpty(t *testing.T) {
	store, _ := openTestStore(t)

	progress, err := store.Progress(context.Background(), "2026-10-21")

	require.NoError(t, err)
	assert.Equal(t, progressapi.Progress{Date: "2026-10-21"}, progress)
}

func TestProgressStoreAddSessionIsIdempotent(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	added, err := store.AddSession(ctx, session("a", "2026-10-21", 25))
	require.NoError(t, err)
	assert.True(t, added)

	added, err = store.AddSession(ctx, session("a", "2026-10-21", 25))
	require.NoError(t, err)
	assert.False(t, added)

	progress, err := store.Progress(ctx, "2026-10-21")
	require.NoError(t, err)
	assert.Equal(t, 1, progress.TotalCompleted)
}

func TestProgressStoreClearDayKeepsTotals(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	for _, s := range []progressapi.Session{
		session("mon", "2026-10-19", 25),
		session("wed-1", "2026-10-21", 25),
		session("wed-2", "2026-10-21", 50),
	} {
		_, err := store.AddSession(ctx, s)
		require.NoError(t, err)
	}

	progress, err := store.Progress(ctx, "2026-10-21")
	require.NoError(t, err)
	assert.Equal(t, progressapi.Progress{
		Date: "2026-10-21", TodayCompleted: 2, TodayFocusTime: 75, TotalCompleted: 3, TotalFocusTime: 100,
	}, progress)

	require.NoError(t, store.ClearDay(ctx, "2026-10-21"))

	progress, err = store.Progress(ctx, "2026-10-21")
	require.NoError(t, err)
	assert.Equal(t, progressapi.Progress{
		Date: "2026-10-21", TotalCompleted: 3, TotalFocusTime: 100,
	}, progress)
}

func TestProgressStoreDailyTotals(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	for _, s := range []progressapi.Session{
		session("sun", "2026-10-18", 25),
		session("mon-1", "2026-10-19", 25),
		session("mon-2", "2026-10-19", 30),
		session("wed", "2026-10-21", 25),
		session("cleared", "2026-10-20", 25),
	} {
		_, err := store.AddSession(ctx, s)
		require.NoError(t, err)
	}
	require.NoError(t, store.ClearDay(ctx, "2026-10-20"))

	totals, err := store.DailyTotals(ctx, "2026-10-19", "2026-10-21")
	require.NoError(t, err)

	want := []progressapi.DayTotal{
		{Date: "2026-10-19", Completions: 2, FocusMinutes: 55},
		{Date: "2026-10-21", Completions: 1, FocusMinutes: 25},
	}
	if diff := cmp.Diff(want, totals); diff != "" {
		t.Fatalf("daily totals mismatch (-want +got):\n%s", diff)
	}
}

func TestProgressStorePersistsAcrossReopen(t *testing.T) {
	store, path := openTestStore(t)
	ctx := context.Background()

	_, err := store.AddSession(ctx, session("a", "2026-10-21", 25))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := OpenProgressStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	progress, err := reopened.Progress(ctx, "2026-10-21")
	require.NoError(t, err)
	assert.Equal(t, 1, progress.TodayCompleted)
}

func TestProgressStoreBacksManager(t *testing.T) {
	store, _ := openTestStore(t)
	manager := progressapi.NewManager(store, nil)
	ctx := context.Background()

	_, err := manager.CompleteSession(ctx, "x", 25)
	require.NoError(t, err)
	progress, err := manager.ResetToday(ctx)
	require.NoError(t, err)

	assert.Zero(t, progress.TodayCompleted)
	assert.Equal(t, 1, progress.TotalCompleted)
}
