package dashboard

import (
	"fmt"
	"strings"

	"pomo/internal/core/eventlog"
	"pomo/internal/core/model"
	"pomo/internal/core/session"
	"pomo/internal/core/timer"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Actions are the controls the dashboard exposes. Each returns an error to show the user.
type Actions struct {
	OnGo          func() error
	OnTogglePause func() error
	OnCancel      func() error
	OnDismiss     func() error
	OnReset       func() error
	OnPreferences func()
}

// Window shows the current session, the controls and the event log.
type Window struct {
	window        fyne.Window
	actions       Actions
	timeLabel     *canvas.Text
	typeLabel     *canvas.Text
	counterLabel  *widget.Label
	progress      *widget.ProgressBar
	goButton      *widget.Button
	pauseButton   *widget.Button
	cancelButton  *widget.Button
	dismissButton *widget.Button
	errorLabel    *widget.Label
	logList       *widget.List
	entries       []eventlog.Entry
}

// New creates the dashboard window.
func New(app fyne.App, actions Actions) *Window {
	window := app.NewWindow("Pomo")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	dashboard := &Window{
		window:       window,
		actions:      actions,
		timeLabel:    canvas.NewText("--:--", theme.Color(theme.ColorNameForeground)),
		typeLabel:    canvas.NewText("Ready", theme.Color(theme.ColorNamePrimary)),
		counterLabel: widget.NewLabel(""),
		progress:     widget.NewProgressBar(),
		errorLabel:   widget.NewLabel(""),
	}
	dashboard.timeLabel.TextSize = 56
	dashboard.timeLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	dashboard.timeLabel.Alignment = fyne.TextAlignCenter
	dashboard.typeLabel.TextSize = 20
	dashboard.typeLabel.TextStyle = fyne.TextStyle{Bold: true}
	dashboard.typeLabel.Alignment = fyne.TextAlignCenter
	dashboard.errorLabel.Wrapping = fyne.TextWrapWord
	dashboard.errorLabel.Importance = widget.DangerImportance

	dashboard.goButton = widget.NewButtonWithIcon("Go", theme.MediaPlayIcon(), dashboard.run(actions.OnGo))
	dashboard.goButton.Importance = widget.HighImportance
	dashboard.pauseButton = widget.NewButtonWithIcon("Pause", theme.MediaPauseIcon(), dashboard.run(actions.OnTogglePause))
	dashboard.cancelButton = widget.NewButtonWithIcon("Cancel", theme.MediaStopIcon(), dashboard.run(actions.OnCancel))
	dashboard.dismissButton = widget.NewButtonWithIcon("Dismiss", theme.VolumeMuteIcon(), dashboard.run(actions.OnDismiss))
	resetButton := widget.NewButtonWithIcon("Reset", theme.ViewRefreshIcon(), dashboard.run(actions.OnReset))
	settingsButton := widget.NewButtonWithIcon("", theme.SettingsIcon(), func() {
		if actions.OnPreferences != nil {
			actions.OnPreferences()
		}
	})

	dashboard.logList = widget.NewList(
		func() int { return len(dashboard.entries) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, object fyne.CanvasObject) {
			if id < 0 || id >= len(dashboard.entries) {
				return
			}
			object.(*widget.Label).SetText(formatEntry(dashboard.entries[id]))
		},
	)

	header := container.NewVBox(
		dashboard.typeLabel,
		dashboard.timeLabel,
		dashboard.progress,
		dashboard.counterLabel,
		container.NewHBox(
			dashboard.goButton,
			dashboard.pauseButton,
			dashboard.cancelButton,
			dashboard.dismissButton,
			layout.NewSpacer(),
			resetButton,
			settingsButton,
		),
		dashboard.errorLabel,
		widget.NewLabelWithStyle("Log", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
	)
	window.SetContent(container.NewBorder(header, nil, nil, nil, dashboard.logList))
	window.Resize(fyne.NewSize(520, 560))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	return dashboard
}

// Show displays the dashboard.
func (dashboard *Window) Show() {
	dashboard.window.Show()
	dashboard.window.RequestFocus()
}

// Render draws state and entries. Safe to call from any goroutine.
func (dashboard *Window) Render(state session.State, entries []eventlog.Entry) {
	fyne.Do(func() {
		dashboard.renderUnsafe(state, entries)
	})
}

func (dashboard *Window) renderUnsafe(state session.State, entries []eventlog.Entry) {
	current := state.Session
	shown := current.Type
	switch {
	case state.AlarmActive:
		shown = state.Pending
		dashboard.typeLabel.Text = fmt.Sprintf("%s finished", state.Pending.Label())
		dashboard.timeLabel.Text = model.FormatSeconds(0)
		dashboard.timeLabel.Color = theme.Color(theme.ColorNameError)
	case current.Status == timer.StatusIdle:
		shown = state.Next
		dashboard.typeLabel.Text = fmt.Sprintf("Next: %s", state.Next.Label())
		dashboard.timeLabel.Text = model.FormatSeconds(state.Config.Minutes(state.Next) * 60)
		dashboard.timeLabel.Color = theme.Color(theme.ColorNameForeground)
	default:
		label := current.Type.Label()
		if current.Status == timer.StatusPaused {
			label += " (paused)"
		}
		dashboard.typeLabel.Text = label
		dashboard.timeLabel.Text = model.FormatSeconds(current.RemainingSeconds)
		dashboard.timeLabel.Color = theme.Color(theme.ColorNameForeground)
	}
	dashboard.typeLabel.Color = theme.Color(theme.ColorNamePrimary)
	if shown.IsRest() {
		dashboard.typeLabel.Color = theme.Color(theme.ColorNameSuccess)
	}
	dashboard.typeLabel.Refresh()
	dashboard.timeLabel.Refresh()
	dashboard.progress.SetValue(current.Progress())
	dashboard.counterLabel.SetText(fmt.Sprintf("Work sessions since long break: %d of %d",
		state.Sequencer.CompletedWorkSessionsSinceLongBreak, state.Config.SessionsBeforeLongBreak))

	setEnabled(dashboard.goButton, !state.AlarmActive && !current.Active())
	dashboard.goButton.SetText(fmt.Sprintf("Go: %s", strings.ToLower(state.Next.Label())))
	setEnabled(dashboard.pauseButton, current.Active())
	if current.Status == timer.StatusPaused {
		dashboard.pauseButton.SetText("Resume")
		dashboard.pauseButton.SetIcon(theme.MediaPlayIcon())
	} else {
		dashboard.pauseButton.SetText("Pause")
		dashboard.pauseButton.SetIcon(theme.MediaPauseIcon())
	}
	setEnabled(dashboard.cancelButton, current.Active())
	setEnabled(dashboard.dismissButton, state.AlarmActive)

	grew := len(entries) > len(dashboard.entries)
	dashboard.entries = entries
	dashboard.logList.Refresh()
	if grew {
		dashboard.logList.ScrollToBottom()
	}
}

func (dashboard *Window) run(action func() error) func() {
	return func() {
		if action == nil {
			return
		}
		if err := action(); err != nil {
			dashboard.errorLabel.SetText(err.Error())
			return
		}
		dashboard.errorLabel.SetText("")
	}
}

func setEnabled(button *widget.Button, enabled bool) {
	if enabled {
		button.Enable()
		return
	}
	button.Disable()
}

func formatEntry(entry eventlog.Entry) string {
	line := fmt.Sprintf("[%s] %s", entry.At.Format("15:04:05"), entry.Message)
	if entry.Level != eventlog.LevelInfo {
		line = fmt.Sprintf("%s (%s)", line, entry.Level)
	}
	return line
}
