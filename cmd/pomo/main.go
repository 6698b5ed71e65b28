package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"pomo/internal/alarm"
	"pomo/internal/cli"
	"pomo/internal/core/model"
	"pomo/internal/core/session"
	"pomo/internal/metrics"
	"pomo/internal/platform"
	"pomo/internal/storage"
	"pomo/internal/ui/dashboard"
	"pomo/internal/ui/overlay"
	"pomo/internal/ui/preferences"
	"pomo/internal/ui/tray"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"github.com/prometheus/client_golang/prometheus"
)

var version = "dev"

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "pomo: panic: %v\n", r)
			os.Exit(2)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.BuildCLI(version, runDesktop).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "pomo: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func runDesktop(ctx context.Context, settings model.Settings, settingsPath string, logger *slog.Logger) error {
	guard, err := platform.AcquireSingleInstance(cli.AppName)
	if err != nil {
		return fmt.Errorf("single instance: %w", err)
	}
	defer func() {
		_ = guard.Release()
	}()

	fyneApp := app.NewWithID("com.pomo.app")
	fyneApp.SetIcon(theme.HistoryIcon())
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		return fmt.Errorf("system tray unsupported on this platform, try %q", "pomo run")
	}

	collector, err := metrics.NewCollector(prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	bell := alarm.New(platform.NewService().NewSoundPlayer(settings.SoundFile), settings.SoundEnabled, logger)
	controller, err := session.New(session.Options{
		Config:  settings.Config(),
		Alarm:   bell,
		Metrics: collector,
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	defer controller.Close()

	var (
		board       *dashboard.Window
		prefsWindow *preferences.Window
		trayManager *tray.Manager
		popup       *overlay.Window
	)
	refresh := func() {
		state := controller.Snapshot()
		board.Render(state, controller.Entries())
		fyne.Do(func() {
			trayManager.SetState(state)
			popup.Render(state)
			prefsWindow.SetLocked(state.Session.Active())
		})
	}
	act := func(action func() error) func() error {
		return func() error {
			err := action()
			refresh()
			return err
		}
	}
	goAction := act(func() error {
		_, err := controller.Go()
		return err
	})
	pauseAction := act(controller.TogglePause)
	cancelAction := act(func() error {
		controller.Cancel()
		return nil
	})
	dismissAction := act(controller.Dismiss)
	dismissAndGoAction := act(func() error {
		if err := controller.Dismiss(); err != nil {
			return err
		}
		_, err := controller.Go()
		return err
	})
	resetAction := act(func() error {
		controller.Reset()
		return nil
	})

	prefsWindow = preferences.New(fyneApp, settings, func(updated model.Settings) error {
		if err := controller.SetConfig(updated.Config()); err != nil {
			return err
		}
		bell.SetSoundEnabled(updated.SoundEnabled)
		if err := storage.SaveSettings(settingsPath, updated); err != nil {
			logger.Error("save settings", "path", settingsPath, "error", err)
			return err
		}
		settings = updated
		logger.Info("settings saved", "path", settingsPath)
		refresh()
		return nil
	}, func() (model.Settings, error) {
		if err := controller.ResetConfig(); err != nil {
			return settings, err
		}
		defaults := settings.WithConfig(model.DefaultConfig())
		if err := storage.SaveSettings(settingsPath, defaults); err != nil {
			logger.Error("save settings", "path", settingsPath, "error", err)
			return settings, err
		}
		settings = defaults
		logger.Info("settings reset to defaults", "path", settingsPath)
		refresh()
		return settings, nil
	})

	board = dashboard.New(fyneApp, dashboard.Actions{
		OnGo:          goAction,
		OnTogglePause: pauseAction,
		OnCancel:      cancelAction,
		OnDismiss:     dismissAction,
		OnReset:       resetAction,
		OnPreferences: prefsWindow.Show,
	})

	popup = overlay.New(fyneApp, dismissAction, dismissAndGoAction)

	trayManager = tray.New(desktopApp, tray.Callbacks{
		OnShow:        board.Show,
		OnPreferences: prefsWindow.Show,
		OnGo:          ignore(goAction, logger),
		OnTogglePause: ignore(pauseAction, logger),
		OnDismiss:     ignore(dismissAction, logger),
		OnCancel:      ignore(cancelAction, logger),
		OnReset:       ignore(resetAction, logger),
		OnQuit: func() {
			controller.Close()
			fyneApp.Quit()
		},
	})
	desktopApp.SetSystemTrayIcon(theme.HistoryIcon())

	events := controller.Subscribe(8)
	go func() {
		for range events {
			refresh()
		}
	}()
	go func() {
		<-ctx.Done()
		fyne.Do(fyneApp.Quit)
	}()

	refresh()
	board.Show()
	fyneApp.Run()
	return nil
}

// ignore adapts a dashboard action to a tray callback, logging failures.
func ignore(action func() error, logger *slog.Logger) func() {
	return func() {
		if err := action(); err != nil {
			logger.Warn("tray action failed", "error", err)
		}
	}
}
