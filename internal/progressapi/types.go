// Package progressapi serves the daily and total pomodoro counters over HTTP.
package progressapi

import (
	"errors"
	"time"
)

// DayLayout is the calendar-day key used by repositories and the wire format.
const DayLayout = "2006-01-02"

const (
	// DefaultFocusMinutes is credited when a completion carries no duration.
	DefaultFocusMinutes = 25
	// DailyGoal is the sessions-per-day target behind the completion rate.
	DailyGoal = 8
)

// ErrInvalidRequest marks a malformed or unsupported request.
var ErrInvalidRequest = errors.New("invalid request")

// Progress is the response body of the progress endpoints.
type Progress struct {
	Date           string `json:"date"`
	TodayCompleted int    `json:"today_completed"`
	TodayFocusTime int    `json:"today_focus_time"`
	TotalCompleted int    `json:"total_completed"`
	TotalFocusTime int    `json:"total_focus_time"`
}

// Session is one completed work session as stored.
type Session struct {
	ID           string
	Day          string
	CompletedAt  time.Time
	FocusMinutes int
}

// DayTotal aggregates the sessions of one day.
type DayTotal struct {
	Date         string `json:"date"`
	Completions  int    `json:"completions"`
	FocusMinutes int    `json:"focus_minutes"`
}

// Statistics summarises a period ending today.
type Statistics struct {
	Period           string     `json:"period"`
	DailyData        []DayTotal `json:"daily_data"`
	TotalCompletions int        `json:"total_completions"`
	TotalFocusTime   int        `json:"total_focus_time"`
	AverageDaily     float64    `json:"average_daily"`
	CompletionRate   float64    `json:"completion_rate"`
}
