package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()
	assert.Equal(t, DefaultConfig(), settings.Config())
	assert.True(t, settings.SoundEnabled)
	assert.Equal(t, "info", settings.LogLevel)
}

func TestWithConfigKeepsOtherFields(t *testing.T) {
	settings := DefaultSettings()
	settings.SoundFile = "/tmp/bell.wav"
	updated := settings.WithConfig(Config{WorkMinutes: 50, BreakMinutes: 10, LongBreakMinutes: 20, SessionsBeforeLongBreak: 3})

	assert.Equal(t, 50, updated.WorkMinutes)
	assert.Equal(t, 3, updated.SessionsBeforeLongBreak)
	assert.Equal(t, "/tmp/bell.wav", updated.SoundFile)
	assert.True(t, updated.SoundEnabled)
}
