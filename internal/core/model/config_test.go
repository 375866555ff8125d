package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimerConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  TimerConfig
		field   string
		wantErr bool
	}{
		{name: "defaults", config: DefaultTimerConfig()},
		{name: "one second each", config: TimerConfig{WorkDuration: time.Second, BreakDuration: time.Second}},
		{name: "zero work", config: TimerConfig{BreakDuration: time.Minute}, field: "work duration", wantErr: true},
		{name: "negative break", config: TimerConfig{WorkDuration: time.Minute, BreakDuration: -time.Second}, field: "break duration", wantErr: true},
		{name: "fractional work", config: TimerConfig{WorkDuration: 1500 * time.Millisecond, BreakDuration: time.Minute}, field: "work duration", wantErr: true},
		{name: "sub-second break", config: TimerConfig{WorkDuration: time.Minute, BreakDuration: time.Millisecond}, field: "break duration", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))

			var configErr *ConfigError
			require.ErrorAs(t, err, &configErr)
			assert.Equal(t, tt.field, configErr.Field)
		})
	}
}

func TestTimerConfigSeconds(t *testing.T) {
	config := DefaultTimerConfig()
	assert.Equal(t, 1500, config.WorkSeconds())
	assert.Equal(t, 300, config.BreakSeconds())
}
