package model

// SessionType identifies the kind of countdown being run.
type SessionType string

const (
	SessionWork      SessionType = "work"
	SessionBreak     SessionType = "break"
	SessionLongBreak SessionType = "long_break"
)

// Label returns a human-readable name.
func (sessionType SessionType) Label() string {
	switch sessionType {
	case SessionWork:
		return "Work"
	case SessionBreak:
		return "Break"
	case SessionLongBreak:
		return "Long break"
	default:
		return "None"
	}
}

// IsRest reports whether the session is a break of either length.
func (sessionType SessionType) IsRest() bool {
	return sessionType == SessionBreak || sessionType == SessionLongBreak
}

// Valid reports whether sessionType is one of the known types.
func (sessionType SessionType) Valid() bool {
	switch sessionType {
	case SessionWork, SessionBreak, SessionLongBreak:
		return true
	}
	return false
}
