package model

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig indicates a configuration value outside its allowed range.
var ErrInvalidConfig = errors.New("invalid config")

const (
	DefaultWorkMinutes             = 25
	DefaultBreakMinutes            = 5
	DefaultLongBreakMinutes        = 30
	DefaultSessionsBeforeLongBreak = 4

	// MaxMinutes caps every session length at one day.
	MaxMinutes = 24 * 60
)

// Config contains the user-editable session settings.
type Config struct {
	WorkMinutes             int
	BreakMinutes            int
	LongBreakMinutes        int
	SessionsBeforeLongBreak int
}

// DefaultConfig returns the stock 25/5/30 schedule with a long break every 4 work sessions.
func DefaultConfig() Config {
	return Config{
		WorkMinutes:             DefaultWorkMinutes,
		BreakMinutes:            DefaultBreakMinutes,
		LongBreakMinutes:        DefaultLongBreakMinutes,
		SessionsBeforeLongBreak: DefaultSessionsBeforeLongBreak,
	}
}

// Validate reports the first field that is not a positive integer, or a
// session length above MaxMinutes.
func (config Config) Validate() error {
	fields := []struct {
		name    string
		value   int
		minutes bool
	}{
		{"work minutes", config.WorkMinutes, true},
		{"break minutes", config.BreakMinutes, true},
		{"long break minutes", config.LongBreakMinutes, true},
		{"sessions before long break", config.SessionsBeforeLongBreak, false},
	}
	for _, field := range fields {
		if field.value < 1 {
			return fmt.Errorf("%w: %s must be at least 1, got %d", ErrInvalidConfig, field.name, field.value)
		}
		if field.minutes && field.value > MaxMinutes {
			return fmt.Errorf("%w: %s must be at most %d, got %d", ErrInvalidConfig, field.name, MaxMinutes, field.value)
		}
	}
	return nil
}

// Minutes returns the configured length for a session type.
func (config Config) Minutes(sessionType SessionType) int {
	switch sessionType {
	case SessionWork:
		return config.WorkMinutes
	case SessionBreak:
		return config.BreakMinutes
	case SessionLongBreak:
		return config.LongBreakMinutes
	default:
		return 0
	}
}

// Diff describes which fields changed from previous to config, e.g. "work 25→30 min".
func (config Config) Diff(previous Config) []string {
	var changes []string
	if config.WorkMinutes != previous.WorkMinutes {
		changes = append(changes, fmt.Sprintf("work %d→%d min", previous.WorkMinutes, config.WorkMinutes))
	}
	if config.BreakMinutes != previous.BreakMinutes {
		changes = append(changes, fmt.Sprintf("break %d→%d min", previous.BreakMinutes, config.BreakMinutes))
	}
	if config.LongBreakMinutes != previous.LongBreakMinutes {
		changes = append(changes, fmt.Sprintf("long break %d→%d min", previous.LongBreakMinutes, config.LongBreakMinutes))
	}
	if config.SessionsBeforeLongBreak != previous.SessionsBeforeLongBreak {
		changes = append(changes, fmt.Sprintf("sessions before long break %d→%d", previous.SessionsBeforeLongBreak, config.SessionsBeforeLongBreak))
	}
	return changes
}

// FormatSeconds renders a second count as m:ss.
func FormatSeconds(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
