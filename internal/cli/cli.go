// Package cli builds the pomo command tree.
//
//	pomo                 desktop app (tray, dashboard, preferences)
//	pomo run             terminal countdown
//	pomo plan            preview upcoming sessions
//	pomo config show     print effective settings
//	pomo config init     write default settings file
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"pomo/internal/core/model"
	"pomo/internal/observability"
	"pomo/internal/storage"

	"github.com/spf13/cobra"
)

// AppName names the config directory and the single-instance lock.
const AppName = "Pomo"

// DesktopFunc launches the desktop UI and blocks until it quits.
type DesktopFunc func(ctx context.Context, settings model.Settings, settingsPath string, logger *slog.Logger) error

type globalOptions struct {
	configFile string
	logLevel   string
	logJSON    bool
}

// BuildCLI returns the root command. desktop runs when no subcommand is given.
func BuildCLI(version string, desktop DesktopFunc) *cobra.Command {
	options := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "pomo",
		Short:         "Pomo: a Pomodoro timer",
		Long:          "Pomo alternates work sessions with short breaks, and takes a long break every few work sessions.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if desktop == nil {
				return fmt.Errorf("desktop mode is not available in this build, try %q", "pomo run")
			}
			settings, path, err := options.loadSettings()
			if err != nil {
				return err
			}
			logger, err := options.logger(settings)
			if err != nil {
				return err
			}
			return desktop(cmd.Context(), settings, path, logger)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&options.configFile, "config", "c", "", "settings file (default <user config dir>/Pomo/settings.yaml)")
	rootCmd.PersistentFlags().StringVar(&options.logLevel, "log-level", "", "log level: debug, info, warn, error (default from settings)")
	rootCmd.PersistentFlags().BoolVar(&options.logJSON, "log-json", false, "log as JSON")

	rootCmd.AddCommand(buildRunCommand(options))
	rootCmd.AddCommand(buildPlanCommand(options))
	rootCmd.AddCommand(buildConfigCommand(options))

	return rootCmd
}

func (options *globalOptions) settingsPath() (string, error) {
	if options.configFile != "" {
		return options.configFile, nil
	}
	return storage.SettingsPath(AppName)
}

func (options *globalOptions) loadSettings() (model.Settings, string, error) {
	path, err := options.settingsPath()
	if err != nil {
		return model.DefaultSettings(), "", err
	}
	settings, err := storage.LoadSettings(path)
	if err != nil {
		return settings, path, fmt.Errorf("load settings: %w", err)
	}
	return settings, path, nil
}

func (options *globalOptions) logger(settings model.Settings) (*slog.Logger, error) {
	levelName := settings.LogLevel
	if options.logLevel != "" {
		levelName = options.logLevel
	}
	level, err := observability.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	return observability.NewLogger(os.Stderr, level, options.logJSON), nil
}

// sessionFlags override the four session settings from the command line.
type sessionFlags struct {
	work       int
	breakLen   int
	longBreak  int
	beforeLong int
}

func (flags *sessionFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&flags.work, "work", 0, "work session minutes (default from settings)")
	cmd.Flags().IntVar(&flags.breakLen, "break", 0, "break session minutes (default from settings)")
	cmd.Flags().IntVar(&flags.longBreak, "long-break", 0, "long break session minutes (default from settings)")
	cmd.Flags().IntVar(&flags.beforeLong, "sessions-before-long-break", 0, "work sessions before a long break (default from settings)")
}

// apply overlays the flags the user set and validates the result.
func (flags *sessionFlags) apply(cmd *cobra.Command, settings model.Settings) (model.Settings, error) {
	if cmd.Flags().Changed("work") {
		settings.WorkMinutes = flags.work
	}
	if cmd.Flags().Changed("break") {
		settings.BreakMinutes = flags.breakLen
	}
	if cmd.Flags().Changed("long-break") {
		settings.LongBreakMinutes = flags.longBreak
	}
	if cmd.Flags().Changed("sessions-before-long-break") {
		settings.SessionsBeforeLongBreak = flags.beforeLong
	}
	if err := settings.Config().Validate(); err != nil {
		return settings, err
	}
	return settings, nil
}
