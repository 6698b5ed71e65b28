package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	config := DefaultConfig()
	require.NoError(t, config.Validate())
	assert.Equal(t, 25, config.WorkMinutes)
	assert.Equal(t, 5, config.BreakMinutes)
	assert.Equal(t, 30, config.LongBreakMinutes)
	assert.Equal(t, 4, config.SessionsBeforeLongBreak)
}

func TestValidateRejectsNonPositiveValues(t *testing.T) {
	cases := map[string]func(*Config){
		"work":       func(c *Config) { c.WorkMinutes = 0 },
		"break":      func(c *Config) { c.BreakMinutes = -1 },
		"long break": func(c *Config) { c.LongBreakMinutes = 0 },
		"sessions":   func(c *Config) { c.SessionsBeforeLongBreak = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			config := DefaultConfig()
			mutate(&config)
			err := config.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestValidateCapsSessionLength(t *testing.T) {
	config := DefaultConfig()
	config.WorkMinutes = MaxMinutes
	config.LongBreakMinutes = MaxMinutes
	require.NoError(t, config.Validate())

	config.BreakMinutes = 200_000_000
	err := config.Validate()
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "break minutes must be at most 1440")

	config = DefaultConfig()
	config.SessionsBeforeLongBreak = 5000
	assert.NoError(t, config.Validate(), "the long break interval has no upper bound")
}

func TestMinutesLookup(t *testing.T) {
	config := Config{WorkMinutes: 50, BreakMinutes: 10, LongBreakMinutes: 20, SessionsBeforeLongBreak: 2}
	assert.Equal(t, 50, config.Minutes(SessionWork))
	assert.Equal(t, 10, config.Minutes(SessionBreak))
	assert.Equal(t, 20, config.Minutes(SessionLongBreak))
	assert.Equal(t, 0, config.Minutes(SessionType("nap")))
}

func TestDiff(t *testing.T) {
	previous := DefaultConfig()
	assert.Empty(t, previous.Diff(previous))

	updated := previous
	updated.WorkMinutes = 30
	updated.SessionsBeforeLongBreak = 3
	assert.Equal(t, []string{"work 25→30 min", "sessions before long break 4→3"}, updated.Diff(previous))
}

func TestFormatSeconds(t *testing.T) {
	assert.Equal(t, "25:00", FormatSeconds(1500))
	assert.Equal(t, "0:09", FormatSeconds(9))
	assert.Equal(t, "1:05", FormatSeconds(65))
	assert.Equal(t, "0:00", FormatSeconds(-3))
}

func TestSessionTypeHelpers(t *testing.T) {
	assert.Equal(t, "Long break", SessionLongBreak.Label())
	assert.True(t, SessionBreak.IsRest())
	assert.False(t, SessionWork.IsRest())
	assert.True(t, SessionLongBreak.Valid())
	assert.False(t, SessionType("").Valid())
}
