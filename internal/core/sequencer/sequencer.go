// Package sequencer decides which session type runs next.
//
// Work and rest sessions alternate. Every SessionsBeforeLongBreak-th completed
// work session is followed by a long break instead of a short one, and the
// long break resets the count.
package sequencer

import (
	"time"

	"pomo/internal/core/model"
)

// State is the rolling session history. The zero value is a fresh state.
type State struct {
	CompletedWorkSessionsSinceLongBreak int
	// LastCompleted is empty until a session has completed.
	LastCompleted model.SessionType
}

// DecideNext returns the session type to run next.
func DecideNext(state State, config model.Config) model.SessionType {
	switch state.LastCompleted {
	case model.SessionWork:
		if state.CompletedWorkSessionsSinceLongBreak >= config.SessionsBeforeLongBreak {
			return model.SessionLongBreak
		}
		return model.SessionBreak
	default:
		return model.SessionWork
	}
}

// RecordCompletion returns the state after a session of sessionType completes.
// Unknown session types leave state unchanged.
func RecordCompletion(state State, sessionType model.SessionType) State {
	if !sessionType.Valid() {
		return state
	}
	switch sessionType {
	case model.SessionWork:
		state.CompletedWorkSessionsSinceLongBreak++
	case model.SessionLongBreak:
		state.CompletedWorkSessionsSinceLongBreak = 0
	}
	state.LastCompleted = sessionType
	return state
}

// DurationFor returns the configured length of sessionType.
func DurationFor(sessionType model.SessionType, config model.Config) time.Duration {
	return time.Duration(config.Minutes(sessionType)) * time.Minute
}

// SecondsFor returns the configured length of sessionType in whole seconds.
func SecondsFor(sessionType model.SessionType, config model.Config) int {
	return int(DurationFor(sessionType, config) / time.Second)
}

// Plan lists the next count session types assuming each one completes.
func Plan(state State, config model.Config, count int) []model.SessionType {
	plan := make([]model.SessionType, 0, max(count, 0))
	for i := 0; i < count; i++ {
		next := DecideNext(state, config)
		plan = append(plan, next)
		state = RecordCompletion(state, next)
	}
	return plan
}
