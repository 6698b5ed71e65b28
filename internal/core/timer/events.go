package timer

import "time"

// Status represents the current Timer mode.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusRunning  Status = "running"
	StatusPaused   Status = "paused"
	StatusFinished Status = "finished"
)

// EventType defines the type of Timer event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventProgress    EventType = "progress"
)

// Event represents a Timer update for observers.
type Event struct {
	Type     EventType
	Snapshot Snapshot
	Progress float64
	At       time.Time
}

// Snapshot is a read-only view of the Timer's current session.
type Snapshot struct {
	// Run increases with every successful Start.
	Run              uint64
	Status           Status
	DurationSeconds  int
	RemainingSeconds int
	StartedAt        time.Time
	EndsAt           time.Time
}

// Active reports whether a session is running or paused.
func (snapshot Snapshot) Active() bool {
	return snapshot.Status == StatusRunning || snapshot.Status == StatusPaused
}

// Progress returns the elapsed fraction of the session in [0, 1].
func (snapshot Snapshot) Progress() float64 {
	if snapshot.DurationSeconds <= 0 {
		if snapshot.Status == StatusFinished {
			return 1
		}
		return 0
	}
	progress := float64(snapshot.DurationSeconds-snapshot.RemainingSeconds) / float64(snapshot.DurationSeconds)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}
