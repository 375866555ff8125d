package model

import (
	"errors"
	"fmt"
	"time"
)

// Default phase durations.
const (
	DefaultWorkDuration  = 25 * time.Minute
	DefaultBreakDuration = 5 * time.Minute
)

// ErrInvalidConfig is wrapped by every ConfigError.
var ErrInvalidConfig = errors.New("invalid timer config")

// ConfigError reports a rejected duration.
type ConfigError struct {
	Field string
	Value time.Duration
}

func (err *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s must be a positive whole number of seconds, got %s", ErrInvalidConfig, err.Field, err.Value)
}

func (err *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// TimerConfig contains the phase durations for the session timer.
type TimerConfig struct {
	WorkDuration  time.Duration
	BreakDuration time.Duration
}

// DefaultTimerConfig returns the classic 25/5 split.
func DefaultTimerConfig() TimerConfig {
	return TimerConfig{
		WorkDuration:  DefaultWorkDuration,
		BreakDuration: DefaultBreakDuration,
	}
}

// Validate checks both durations and returns the first offending one.
func (config TimerConfig) Validate() error {
	if err := validateDuration("work duration", config.WorkDuration); err != nil {
		return err
	}
	return validateDuration("break duration", config.BreakDuration)
}

// WorkSeconds returns the work duration in whole seconds.
func (config TimerConfig) WorkSeconds() int {
	return int(config.WorkDuration / time.Second)
}

// BreakSeconds returns the break duration in whole seconds.
func (config TimerConfig) BreakSeconds() int {
	return int(config.BreakDuration / time.Second)
}

func validateDuration(field string, value time.Duration) error {
	if value < time.Second || value%time.Second != 0 {
		return &ConfigError{Field: field, Value: value}
	}
	return nil
}
