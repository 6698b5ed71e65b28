package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"pomo/internal/core/model"
	"pomo/internal/platform"

	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	WorkMinutes             int    `yaml:"work_minutes"`
	BreakMinutes            int    `yaml:"break_minutes"`
	LongBreakMinutes        int    `yaml:"long_break_minutes"`
	SessionsBeforeLongBreak int    `yaml:"sessions_before_long_break"`
	SoundEnabled            *bool  `yaml:"sound_enabled,omitempty"`
	SoundFile               string `yaml:"sound_file,omitempty"`
	LogLevel                string `yaml:"log_level,omitempty"`
}

// SettingsPath returns the default settings file location for appName.
func SettingsPath(appName string) (string, error) {
	configDir, err := platform.NewService().GetConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

// LoadSettings reads user preferences from YAML at path.
// If the file does not exist, default settings are returned.
// Out-of-range values are ignored field by field.
func LoadSettings(path string) (model.Settings, error) {
	settings := model.DefaultSettings()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to YAML at path, creating its directory.
func SaveSettings(path string, settings model.Settings) error {
	if err := settings.Config().Validate(); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	serialized, err := MarshalSettings(settings)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

// MarshalSettings renders settings in the file format.
func MarshalSettings(settings model.Settings) ([]byte, error) {
	soundEnabled := settings.SoundEnabled
	serialized, err := yaml.Marshal(yamlSettings{
		WorkMinutes:             settings.WorkMinutes,
		BreakMinutes:            settings.BreakMinutes,
		LongBreakMinutes:        settings.LongBreakMinutes,
		SessionsBeforeLongBreak: settings.SessionsBeforeLongBreak,
		SoundEnabled:            &soundEnabled,
		SoundFile:               settings.SoundFile,
		LogLevel:                settings.LogLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal settings yaml: %w", err)
	}
	return serialized, nil
}

func applyYamlSettings(settings *model.Settings, fileData yamlSettings) {
	if validMinutes(fileData.WorkMinutes) {
		settings.WorkMinutes = fileData.WorkMinutes
	}
	if validMinutes(fileData.BreakMinutes) {
		settings.BreakMinutes = fileData.BreakMinutes
	}
	if validMinutes(fileData.LongBreakMinutes) {
		settings.LongBreakMinutes = fileData.LongBreakMinutes
	}
	if fileData.SessionsBeforeLongBreak > 0 {
		settings.SessionsBeforeLongBreak = fileData.SessionsBeforeLongBreak
	}
	if fileData.SoundEnabled != nil {
		settings.SoundEnabled = *fileData.SoundEnabled
	}
	if fileData.LogLevel != "" {
		settings.LogLevel = fileData.LogLevel
	}
	settings.SoundFile = fileData.SoundFile
}

func validMinutes(value int) bool {
	return value > 0 && value <= model.MaxMinutes
}
