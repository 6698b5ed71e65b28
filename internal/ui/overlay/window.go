package overlay

import (
	"fmt"
	"image/color"
	"strings"

	"pomo/internal/core/model"
	"pomo/internal/core/session"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

const (
	overlayWidthFraction  = float32(0.18)
	overlayHeightFraction = float32(0.16)
	defaultScreenWidth    = float32(1920)
	defaultScreenHeight   = float32(1080)
)

// Window is the popup shown while a finished session's alarm rings.
type Window struct {
	window        fyne.Window
	titleLabel    *canvas.Text
	subtitleLabel *canvas.Text
	errorLabel    *widget.Label
	visible       bool
}

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// New creates the alarm popup. onDismiss silences the alarm; onDismissAndGo
// also starts the next session.
func New(app fyne.App, onDismiss, onDismissAndGo func() error) *Window {
	window := app.NewWindow("Pomo")
	if driver, ok := app.Driver().(splashWindowDriver); ok {
		// Splash window is undecorated (no native frame/buttons).
		window = driver.CreateSplashWindow()
	}
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	titleLabel := canvas.NewText("", color.NRGBA{R: 232, G: 190, B: 66, A: 255})
	titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	titleLabel.TextSize = 21
	subtitleLabel := canvas.NewText("", color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	subtitleLabel.TextSize = 15

	overlay := &Window{
		window:        window,
		titleLabel:    titleLabel,
		subtitleLabel: subtitleLabel,
		errorLabel:    widget.NewLabel(""),
	}
	overlay.errorLabel.Importance = widget.DangerImportance

	dismissButton := widget.NewButton("Dismiss", overlay.run(onDismiss))
	goButton := widget.NewButton("Dismiss & go", overlay.run(onDismissAndGo))
	goButton.Importance = widget.HighImportance

	background := canvas.NewRectangle(color.NRGBA{R: 0, G: 0, B: 0, A: 220})
	content := container.NewPadded(container.NewVBox(
		titleLabel,
		subtitleLabel,
		overlay.errorLabel,
		layout.NewSpacer(),
		container.NewHBox(layout.NewSpacer(), dismissButton, goButton),
	))
	window.SetContent(container.NewStack(background, content))
	window.SetCloseIntercept(func() {
		overlay.run(onDismiss)()
	})
	return overlay
}

// Render shows the popup while the alarm is active and hides it otherwise.
// Call it on the fyne main goroutine.
func (overlay *Window) Render(state session.State) {
	if !state.AlarmActive {
		if overlay.visible {
			overlay.window.Hide()
			overlay.visible = false
		}
		return
	}

	title, subtitle := Message(state)
	overlay.titleLabel.Text = title
	overlay.subtitleLabel.Text = subtitle
	overlay.titleLabel.Refresh()
	overlay.subtitleLabel.Refresh()
	if overlay.visible {
		return
	}
	overlay.errorLabel.SetText("")
	overlay.resizeToScreenFraction()
	overlay.window.Show()
	overlay.window.RequestFocus()
	overlay.visible = true
}

// Message returns the popup's title and subtitle for an active alarm.
func Message(state session.State) (string, string) {
	title := fmt.Sprintf("%s session finished", state.Pending.Label())
	seconds := state.Config.Minutes(state.Next) * 60
	return title, fmt.Sprintf("Next up: %s (%s)", strings.ToLower(state.Next.Label()), model.FormatSeconds(seconds))
}

func (overlay *Window) run(action func() error) func() {
	return func() {
		if action == nil {
			return
		}
		if err := action(); err != nil {
			overlay.errorLabel.SetText(err.Error())
		}
	}
}

func (overlay *Window) resizeToScreenFraction() {
	screenSize := fyne.NewSize(defaultScreenWidth, defaultScreenHeight)
	canvasSize := overlay.window.Canvas().Size()
	// Canvas size can be reused as a proxy for monitor size when it is clearly screen-like.
	if canvasSize.Width >= 1024 && canvasSize.Height >= 720 {
		screenSize = canvasSize
	}

	width := screenSize.Width * overlayWidthFraction
	height := screenSize.Height * overlayHeightFraction
	minSize := overlay.window.Content().MinSize()
	if width < minSize.Width {
		width = minSize.Width
	}
	if height < minSize.Height {
		height = minSize.Height
	}

	overlay.window.Resize(fyne.NewSize(width, height))
	overlay.window.CenterOnScreen()
}
