package eventlog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"pomo/internal/core/clock"
)

// Level classifies a log entry.
type Level string

const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Entry is a single user-facing event.
type Entry struct {
	At      time.Time
	Message string
	Level   Level
}

// Log is an append-only list of entries, oldest first, mirrored to a structured logger.
type Log struct {
	mu      sync.Mutex
	clock   clock.Clock
	logger  *slog.Logger
	entries []Entry
}

// New creates an empty Log. A nil logger disables mirroring.
func New(clk clock.Clock, logger *slog.Logger) *Log {
	if clk == nil {
		clk = clock.Real()
	}
	return &Log{clock: clk, logger: logger}
}

// Info appends an info entry.
func (log *Log) Info(message string, attrs ...any) Entry {
	return log.Append(LevelInfo, message, attrs...)
}

// Warn appends a warning entry.
func (log *Log) Warn(message string, attrs ...any) Entry {
	return log.Append(LevelWarn, message, attrs...)
}

// Error appends an error entry.
func (log *Log) Error(message string, attrs ...any) Entry {
	return log.Append(LevelError, message, attrs...)
}

// Append records message at level. attrs only go to the structured logger.
func (log *Log) Append(level Level, message string, attrs ...any) Entry {
	entry := Entry{At: log.clock.Now(), Message: message, Level: level}

	log.mu.Lock()
	log.entries = append(log.entries, entry)
	log.mu.Unlock()

	if log.logger != nil {
		log.logger.Log(context.Background(), slogLevel(level), message, attrs...)
	}
	return entry
}

// Entries returns a copy of all entries, oldest first.
func (log *Log) Entries() []Entry {
	log.mu.Lock()
	defer log.mu.Unlock()
	return append([]Entry(nil), log.entries...)
}

// Clear drops all entries.
func (log *Log) Clear() {
	log.mu.Lock()
	log.entries = nil
	log.mu.Unlock()
}

func slogLevel(level Level) slog.Level {
	switch level {
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
