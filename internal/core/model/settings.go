package model

// Settings are the user preferences: the session configuration plus alarm and logging options.
type Settings struct {
	WorkMinutes             int
	BreakMinutes            int
	LongBreakMinutes        int
	SessionsBeforeLongBreak int

	SoundEnabled bool
	SoundFile    string
	LogLevel     string
}

// DefaultSettings returns default settings for Pomo.
func DefaultSettings() Settings {
	return Settings{}.WithConfig(DefaultConfig()).withDefaults()
}

func (settings Settings) withDefaults() Settings {
	settings.SoundEnabled = true
	settings.LogLevel = "info"
	return settings
}

// Config converts settings to the session configuration.
func (settings Settings) Config() Config {
	return Config{
		WorkMinutes:             settings.WorkMinutes,
		BreakMinutes:            settings.BreakMinutes,
		LongBreakMinutes:        settings.LongBreakMinutes,
		SessionsBeforeLongBreak: settings.SessionsBeforeLongBreak,
	}
}

// WithConfig returns a copy of settings with the session fields taken from config.
func (settings Settings) WithConfig(config Config) Settings {
	settings.WorkMinutes = config.WorkMinutes
	settings.BreakMinutes = config.BreakMinutes
	settings.LongBreakMinutes = config.LongBreakMinutes
	settings.SessionsBeforeLongBreak = config.SessionsBeforeLongBreak
	return settings
}
