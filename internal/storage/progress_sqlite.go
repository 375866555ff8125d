package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pomodoro/internal/progressapi"

	_ "modernc.org/sqlite"
)

const progressSchema = `
CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	day TEXT NOT NULL,
	completed_at TEXT NOT NULL,
	focus_minutes INTEGER NOT NULL,
	cleared INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_sessions_day ON sessions(day);
`

// ProgressStore is a SQLite-backed progressapi.Repository.
type ProgressStore struct {
	db *sql.DB
}

var _ progressapi.Repository = (*ProgressStore)(nil)

// ProgressDBPath returns the default database location for appName.
func ProgressDBPath(appName string) (string, error) {
	dataDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dataDir, appName, "progress.db"), nil
}

// OpenProgressStore opens or creates the database at path.
func OpenProgressStore(path string) (*ProgressStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open progress database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(progressSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create progress schema: %w", err)
	}
	return &ProgressStore{db: db}, nil
}

// Close closes the database.
func (store *ProgressStore) Close() error {
	return store.db.Close()
}

func (store *ProgressStore) AddSession(ctx context.Context, session progressapi.Session) (bool, error) {
	result, err := store.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO sessions (id, day, completed_at, focus_minutes) VALUES (?, ?, ?, ?)`,
		session.ID, session.Day, session.CompletedAt.UTC().Format(time.RFC3339Nano), session.FocusMinutes)
	if err != nil {
		return false, fmt.Errorf("insert session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert session: %w", err)
	}
	return affected > 0, nil
}

func (store *ProgressStore) ClearDay(ctx context.Context, day string) error {
	if _, err := store.db.ExecContext(ctx, `UPDATE sessions SET cleared = 1 WHERE day = ?`, day); err != nil {
		return fmt.Errorf("clear day %s: %w", day, err)
	}
	return nil
}

func (store *ProgressStore) Progress(ctx context.Context, day string) (progressapi.Progress, error) {
	progress := progressapi.Progress{Date: day}
	row := store.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN day = ? AND cleared = 0 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN day = ? AND cleared = 0 THEN focus_minutes ELSE 0 END), 0),
			COUNT(*),
			COALESCE(SUM(focus_minutes), 0)
		FROM sessions`, day, day)
	err := row.Scan(&progress.TodayCompleted, &progress.TodayFocusTime, &progress.TotalCompleted, &progress.TotalFocusTime)
	if err != nil {
		return progressapi.Progress{}, fmt.Errorf("query progress: %w", err)
	}
	return progress, nil
}

func (store *ProgressStore) DailyTotals(ctx context.Context, from, to string) ([]progressapi.DayTotal, error) {
	rows, err := store.db.QueryContext(ctx, `
		SELECT day, COUNT(*), SUM(focus_minutes)
		FROM sessions
		WHERE cleared = 0 AND day BETWEEN ? AND ?
		GROUP BY day
		ORDER BY day`, from, to)
	if err != nil {
		return nil, fmt.Errorf("query daily totals: %w", err)
	}
	defer rows.Close()

	var totals []progressapi.DayTotal
	for rows.Next() {
		var total progressapi.DayTotal
		if err := rows.Scan(&total.Date, &total.Completions, &total.FocusMinutes); err != nil {
			return nil, fmt.Errorf("scan daily total: %w", err)
		}
		totals = append(totals, total)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily totals: %w", err)
	}
	return totals, nil
}
