package preferences

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"pomo/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window       fyne.Window
	settings     model.Settings
	onSave       func(model.Settings) error
	onReset      func() (model.Settings, error)
	workMinutes  *widget.Entry
	breakMinutes *widget.Entry
	longMinutes  *widget.Entry
	beforeLong   *widget.Entry
	sound        *widget.Check
	saveButton   *widget.Button
	lockedLabel  *widget.Label
}

// New creates a preferences window. onSave may reject the settings with an error shown to the user.
// onReset restores the default configuration and returns the resulting settings.
func New(app fyne.App, settings model.Settings, onSave func(model.Settings) error, onReset func() (model.Settings, error)) *Window {
	window := app.NewWindow("Pomo Settings")

	prefs := &Window{
		window:       window,
		settings:     settings,
		onSave:       onSave,
		onReset:      onReset,
		workMinutes:  widget.NewEntry(),
		breakMinutes: widget.NewEntry(),
		longMinutes:  widget.NewEntry(),
		beforeLong:   widget.NewEntry(),
		sound:        widget.NewCheck("Play alarm sound", nil),
		lockedLabel:  widget.NewLabel(""),
	}
	prefs.workMinutes.SetPlaceHolder(strconv.Itoa(model.DefaultWorkMinutes))
	prefs.breakMinutes.SetPlaceHolder(strconv.Itoa(model.DefaultBreakMinutes))
	prefs.beforeLong.SetPlaceHolder(strconv.Itoa(model.DefaultSessionsBeforeLongBreak))
	prefs.longMinutes.SetPlaceHolder(strconv.Itoa(model.DefaultLongBreakMinutes))
	prefs.fill(settings)

	form := widget.NewForm(
		widget.NewFormItem("Work session (min)", prefs.workMinutes),
		widget.NewFormItem("Break session (min)", prefs.breakMinutes),
		widget.NewFormItem("Work sessions before long break", prefs.beforeLong),
		widget.NewFormItem("Long break session (min)", prefs.longMinutes),
	)

	prefs.saveButton = widget.NewButton("Save", prefs.handleSave)
	defaultsButton := widget.NewButton("Reset to defaults", prefs.handleReset)
	cancelButton := widget.NewButton("Cancel", func() {
		prefs.fill(prefs.settings)
		window.Hide()
	})
	buttons := container.NewHBox(prefs.saveButton, defaultsButton, layout.NewSpacer(), cancelButton)

	content := container.NewBorder(nil, buttons, nil, nil, container.NewVBox(
		widget.NewLabelWithStyle("Configuration", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		form,
		prefs.sound,
		prefs.lockedLabel,
	))
	window.SetContent(content)
	window.Resize(fyne.NewSize(420, 320))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings model.Settings) {
	prefs.settings = settings
	prefs.fill(settings)
}

// SetLocked disables editing while a session is running or paused.
func (prefs *Window) SetLocked(locked bool) {
	for _, entry := range []*widget.Entry{prefs.workMinutes, prefs.breakMinutes, prefs.longMinutes, prefs.beforeLong} {
		if locked {
			entry.Disable()
		} else {
			entry.Enable()
		}
	}
	if locked {
		prefs.saveButton.Disable()
		prefs.lockedLabel.SetText("Settings can be changed between sessions.")
		return
	}
	prefs.saveButton.Enable()
	prefs.lockedLabel.SetText("")
}

func (prefs *Window) fill(settings model.Settings) {
	prefs.workMinutes.SetText(strconv.Itoa(settings.WorkMinutes))
	prefs.breakMinutes.SetText(strconv.Itoa(settings.BreakMinutes))
	prefs.longMinutes.SetText(strconv.Itoa(settings.LongBreakMinutes))
	prefs.beforeLong.SetText(strconv.Itoa(settings.SessionsBeforeLongBreak))
	prefs.sound.SetChecked(settings.SoundEnabled)
}

func (prefs *Window) handleSave() {
	settings, err := prefs.read()
	if err != nil {
		dialog.ShowError(err, prefs.window)
		return
	}
	if prefs.onSave != nil {
		if err := prefs.onSave(settings); err != nil {
			dialog.ShowError(err, prefs.window)
			return
		}
	}
	prefs.settings = settings
	prefs.window.Hide()
}

func (prefs *Window) handleReset() {
	if prefs.onReset == nil {
		prefs.fill(prefs.settings.WithConfig(model.DefaultConfig()))
		return
	}
	settings, err := prefs.onReset()
	if err != nil {
		dialog.ShowError(err, prefs.window)
		return
	}
	prefs.UpdateSettings(settings)
}

func (prefs *Window) read() (model.Settings, error) {
	settings := prefs.settings
	var problems []error
	parse := func(label string, entry *widget.Entry, target *int) {
		value, err := parsePositiveInt(entry.Text)
		if err != nil {
			problems = append(problems, fmt.Errorf("%s: %w", label, err))
			return
		}
		*target = value
	}
	parse("work minutes", prefs.workMinutes, &settings.WorkMinutes)
	parse("break minutes", prefs.breakMinutes, &settings.BreakMinutes)
	parse("long break minutes", prefs.longMinutes, &settings.LongBreakMinutes)
	parse("sessions before long break", prefs.beforeLong, &settings.SessionsBeforeLongBreak)
	if len(problems) > 0 {
		return prefs.settings, errors.Join(problems...)
	}
	settings.SoundEnabled = prefs.sound.Checked
	return settings, settings.Config().Validate()
}

func parsePositiveInt(value string) (int, error) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a whole number", model.ErrInvalidConfig, value)
	}
	if parsed < 1 {
		return 0, fmt.Errorf("%w: must be at least 1", model.ErrInvalidConfig)
	}
	return parsed, nil
}
