package storage

import (
	"os"
	"path/filepath"
	"testing"

	"pomo/internal/core/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	settings, err := LoadSettings(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings(), settings)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Pomo", settingsFileName)
	settings := model.DefaultSettings().WithConfig(model.Config{
		WorkMinutes:             50,
		BreakMinutes:            10,
		LongBreakMinutes:        20,
		SessionsBeforeLongBreak: 3,
	})
	settings.SoundEnabled = false
	settings.SoundFile = "/usr/share/sounds/bell.oga"
	settings.LogLevel = "debug"

	require.NoError(t, SaveSettings(path, settings))
	loaded, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, settings, loaded)
}

func TestSaveRejectsInvalidSettings(t *testing.T) {
	settings := model.DefaultSettings()
	settings.BreakMinutes = 0
	err := SaveSettings(filepath.Join(t.TempDir(), settingsFileName), settings)
	assert.ErrorIs(t, err, model.ErrInvalidConfig)
}

func TestLoadIgnoresOutOfRangeValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), settingsFileName)
	content := "work_minutes: 0\nbreak_minutes: 200000000\nlong_break_minutes: 45\nsessions_before_long_break: 2\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	settings, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultWorkMinutes, settings.WorkMinutes)
	assert.Equal(t, model.DefaultBreakMinutes, settings.BreakMinutes)
	assert.Equal(t, 45, settings.LongBreakMinutes)
	assert.Equal(t, 2, settings.SessionsBeforeLongBreak)
	assert.True(t, settings.SoundEnabled, "absent sound_enabled keeps the default")
}

func TestLoadRejectsMalformedYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), settingsFileName)
	require.NoError(t, os.WriteFile(path, []byte("work_minutes: [oops"), 0o644))

	settings, err := LoadSettings(path)
	assert.Error(t, err)
	assert.Equal(t, model.DefaultSettings(), settings)
}

func TestSettingsPath(t *testing.T) {
	path, err := SettingsPath("Pomo")
	require.NoError(t, err)
	assert.Equal(t, settingsFileName, filepath.Base(path))
	assert.Equal(t, "Pomo", filepath.Base(filepath.Dir(path)))
}
