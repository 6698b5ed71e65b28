package eventlog

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"pomo/internal/core/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendKeepsOrderAndTimestamps(t *testing.T) {
	fake := clock.NewFake(time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC))
	log := New(fake, nil)

	log.Info("Work session started")
	fake.Advance(25 * time.Minute)
	log.Warn("Alarm playback failed")
	log.Error("Something broke")

	entries := log.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "Work session started", entries[0].Message)
	assert.Equal(t, LevelInfo, entries[0].Level)
	assert.Equal(t, time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC), entries[0].At)
	assert.Equal(t, LevelWarn, entries[1].Level)
	assert.Equal(t, time.Date(2024, 5, 1, 8, 25, 0, 0, time.UTC), entries[1].At)
	assert.Equal(t, LevelError, entries[2].Level)
}

func TestEntriesReturnsCopy(t *testing.T) {
	log := New(nil, nil)
	log.Info("one")
	entries := log.Entries()
	entries[0].Message = "changed"
	assert.Equal(t, "one", log.Entries()[0].Message)
}

func TestClear(t *testing.T) {
	log := New(nil, nil)
	log.Info("one")
	log.Info("two")
	require.Len(t, log.Entries(), 2)

	log.Clear()
	assert.Empty(t, log.Entries())
}

func TestMirrorsToStructuredLogger(t *testing.T) {
	var buffer bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buffer, nil))
	log := New(nil, logger)

	log.Warn("config changed", "field", "work")
	output := buffer.String()
	assert.Contains(t, output, "level=WARN")
	assert.Contains(t, output, `msg="config changed"`)
	assert.Contains(t, output, "field=work")
}
