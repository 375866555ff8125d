// Package progress talks to the remote progress API and keeps the last known
// totals for display.
package progress

import (
	"errors"
	"fmt"
)

// ErrUnavailable matches every PersistenceError.
var ErrUnavailable = errors.New("progress api unavailable")

// PersistenceError reports a failed call to the progress API.
type PersistenceError struct {
	Op         string
	StatusCode int
	Err        error
}

func (err *PersistenceError) Error() string {
	if err.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", err.Op, err.StatusCode, err.Err)
	}
	return fmt.Sprintf("%s: %v", err.Op, err.Err)
}

func (err *PersistenceError) Unwrap() error {
	return err.Err
}

// Is makes errors.Is(err, ErrUnavailable) true for any PersistenceError.
func (err *PersistenceError) Is(target error) bool {
	return target == ErrUnavailable
}

// Summary holds the progress figures shown next to the timer.
type Summary struct {
	TodayCompleted    int
	TodayFocusMinutes int
	TotalCompleted    int
	TotalFocusMinutes int
}

// CompleteRequest describes one finished work session.
type CompleteRequest struct {
	SessionID    string
	FocusMinutes int
}
