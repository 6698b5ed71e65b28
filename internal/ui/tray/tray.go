package tray

import (
	"fmt"
	"strings"

	"pomo/internal/core/model"
	"pomo/internal/core/session"
	"pomo/internal/core/timer"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

const menuTitle = "Pomo"

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow        func()
	OnPreferences func()
	OnGo          func()
	OnTogglePause func()
	OnDismiss     func()
	OnCancel      func()
	OnReset       func()
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	app         desktop.App
	callbacks   Callbacks
	statusItem  *fyne.MenuItem
	goItem      *fyne.MenuItem
	pauseItem   *fyne.MenuItem
	dismissItem *fyne.MenuItem
	cancelItem  *fyne.MenuItem
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("Status: idle", nil)
	manager.statusItem.Disabled = true
	manager.goItem = fyne.NewMenuItem("Go", call(&manager.callbacks.OnGo))
	manager.pauseItem = fyne.NewMenuItem("Pause", call(&manager.callbacks.OnTogglePause))
	manager.pauseItem.Disabled = true
	manager.dismissItem = fyne.NewMenuItem("Dismiss alarm", call(&manager.callbacks.OnDismiss))
	manager.dismissItem.Disabled = true
	manager.cancelItem = fyne.NewMenuItem("Cancel session", call(&manager.callbacks.OnCancel))
	manager.cancelItem.Disabled = true

	manager.refreshMenu()
	return manager
}

// SetState updates labels and enabled items from the controller state.
func (manager *Manager) SetState(state session.State) {
	manager.statusItem.Label = "Status: " + StatusText(state)

	status := state.Session.Status
	manager.goItem.Label = fmt.Sprintf("Go: %s", strings.ToLower(state.Next.Label()))
	manager.goItem.Disabled = state.AlarmActive || state.Session.Active()
	manager.pauseItem.Disabled = !state.Session.Active()
	if status == timer.StatusPaused {
		manager.pauseItem.Label = "Resume"
	} else {
		manager.pauseItem.Label = "Pause"
	}
	manager.dismissItem.Disabled = !state.AlarmActive
	manager.cancelItem.Disabled = !state.Session.Active()
	manager.refreshMenu()
}

// StatusText summarises the state in one line, e.g. "Work 12:04 left".
func StatusText(state session.State) string {
	current := state.Session
	switch {
	case state.AlarmActive:
		return fmt.Sprintf("%s finished", state.Pending.Label())
	case current.Status == timer.StatusRunning:
		return fmt.Sprintf("%s %s left", current.Type.Label(), model.FormatSeconds(current.RemainingSeconds))
	case current.Status == timer.StatusPaused:
		return fmt.Sprintf("%s %s left (paused)", current.Type.Label(), model.FormatSeconds(current.RemainingSeconds))
	default:
		return fmt.Sprintf("idle, next %s", strings.ToLower(state.Next.Label()))
	}
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu(menuTitle,
		manager.statusItem,
		fyne.NewMenuItem("Show Pomo", call(&manager.callbacks.OnShow)),
		fyne.NewMenuItem("Preferences", call(&manager.callbacks.OnPreferences)),
		fyne.NewMenuItemSeparator(),
		manager.goItem,
		manager.pauseItem,
		manager.dismissItem,
		manager.cancelItem,
		fyne.NewMenuItem("Reset", call(&manager.callbacks.OnReset)),
		fyne.NewMenuItemSeparator(),
		manager.quitItem(),
	))
}

func (manager *Manager) quitItem() *fyne.MenuItem {
	item := fyne.NewMenuItem("Quit", call(&manager.callbacks.OnQuit))
	item.IsQuit = true
	return item
}

func call(handler *func()) func() {
	return func() {
		if *handler != nil {
			(*handler)()
		}
	}
}
