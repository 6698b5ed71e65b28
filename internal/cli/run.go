package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"pomo/internal/alarm"
	"pomo/internal/core/eventlog"
	"pomo/internal/core/model"
	"pomo/internal/core/session"
	"pomo/internal/core/timer"
	"pomo/internal/metrics"
	"pomo/internal/platform"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

const keyHelp = "keys: Enter=dismiss/next  p=pause/resume  c=cancel  q=quit"

func buildRunCommand(options *globalOptions) *cobra.Command {
	var (
		count       int
		auto        bool
		noSound     bool
		metricsAddr string
	)
	flags := &sessionFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run sessions in the terminal",
		Long:  "Run sessions in the terminal. " + keyHelp,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 0 {
				return fmt.Errorf("--count must not be negative")
			}
			settings, _, err := options.loadSettings()
			if err != nil {
				return err
			}
			settings, err = flags.apply(cmd, settings)
			if err != nil {
				return err
			}
			if noSound {
				settings.SoundEnabled = false
			}
			logger, err := options.logger(settings)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			registry := prometheus.NewRegistry()
			collector, err := metrics.NewCollector(registry)
			if err != nil {
				return err
			}
			if metricsAddr != "" {
				go func() {
					if err := metrics.Serve(ctx, metricsAddr, registry); err != nil {
						logger.Error("metrics endpoint stopped", "addr", metricsAddr, "error", err)
					}
				}()
				logger.Info("serving metrics", "addr", metricsAddr)
			}

			player := platform.NewService().NewSoundPlayer(settings.SoundFile)
			controller, err := session.New(session.Options{
				Config:  settings.Config(),
				Alarm:   alarm.New(player, settings.SoundEnabled, logger),
				Log:     eventlog.New(nil, nil),
				Metrics: collector,
				Logger:  logger,
			})
			if err != nil {
				return err
			}
			defer controller.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, keyHelp)
			runner := &Runner{Controller: controller, Out: out, Count: count, Auto: auto}
			return runner.Run(ctx, readLines(ctx, cmd.InOrStdin(), logger))
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 0, "sessions to complete before exiting (0 runs until interrupted)")
	cmd.Flags().BoolVar(&auto, "auto", false, "dismiss the alarm and start the next session automatically")
	cmd.Flags().BoolVar(&noSound, "no-sound", false, "do not play the alarm sound")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. 127.0.0.1:9090")
	flags.register(cmd)
	return cmd
}

// Runner drives a Controller from terminal keystrokes and renders it as text.
type Runner struct {
	Controller *session.Controller
	Out        io.Writer
	// Count stops the runner after this many dismissed sessions; 0 means no limit.
	Count int
	// Auto dismisses finished sessions and starts the next one without input.
	Auto bool

	completed int
	printed   int
}

// Run starts the first session and processes events and commands until done or ctx ends.
func (runner *Runner) Run(ctx context.Context, commands <-chan string) error {
	events := runner.Controller.Subscribe(16)
	if err := runner.next(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			runner.Controller.Cancel()
			runner.flushLog()
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			done, err := runner.handleEvent(event)
			if err != nil || done {
				return err
			}
		case command, ok := <-commands:
			if !ok {
				commands = nil
				continue
			}
			done, err := runner.handleCommand(command)
			if err != nil || done {
				return err
			}
		}
	}
}

func (runner *Runner) handleEvent(event timer.Event) (bool, error) {
	switch {
	case event.Type == timer.EventProgress:
		state := runner.Controller.Snapshot()
		fmt.Fprintf(runner.Out, "\r%s %s left ", state.Session.Type.Label(), model.FormatSeconds(event.Snapshot.RemainingSeconds))
	case event.Snapshot.Status == timer.StatusFinished:
		fmt.Fprint(runner.Out, "\r")
		runner.flushLog()
		if runner.Auto {
			return runner.advance()
		}
		fmt.Fprintln(runner.Out, "Press Enter to dismiss the alarm and start the next session.")
	}
	return false, nil
}

func (runner *Runner) handleCommand(command string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(command)) {
	case "":
		state := runner.Controller.Snapshot()
		if state.AlarmActive {
			return runner.advance()
		}
		if !state.Session.Active() {
			return false, runner.next()
		}
	case "p":
		if err := runner.Controller.TogglePause(); err != nil {
			fmt.Fprintf(runner.Out, "\r%v\n", err)
		}
		fmt.Fprint(runner.Out, "\r")
		runner.flushLog()
	case "c":
		runner.Controller.Cancel()
		fmt.Fprint(runner.Out, "\r")
		runner.flushLog()
		fmt.Fprintln(runner.Out, "Press Enter to start the next session.")
	case "q":
		runner.Controller.Cancel()
		fmt.Fprint(runner.Out, "\r")
		runner.flushLog()
		return true, nil
	default:
		fmt.Fprintf(runner.Out, "\r%s\n", keyHelp)
	}
	return false, nil
}

// advance dismisses the finished session and starts the next one unless Count is reached.
func (runner *Runner) advance() (bool, error) {
	if err := runner.Controller.Dismiss(); err != nil && !errors.Is(err, session.ErrNothingToDismiss) {
		return false, err
	}
	runner.completed++
	runner.flushLog()
	if runner.Count > 0 && runner.completed >= runner.Count {
		fmt.Fprintf(runner.Out, "Completed %d sessions.\n", runner.completed)
		return true, nil
	}
	return false, runner.next()
}

func (runner *Runner) next() error {
	if _, err := runner.Controller.Go(); err != nil {
		return err
	}
	runner.flushLog()
	return nil
}

func (runner *Runner) flushLog() {
	entries := runner.Controller.Entries()
	if runner.printed > len(entries) {
		runner.printed = 0
	}
	for _, entry := range entries[runner.printed:] {
		fmt.Fprintf(runner.Out, "[%s] %s\n", entry.At.Format("15:04:05"), entry.Message)
	}
	runner.printed = len(entries)
}

func readLines(ctx context.Context, in io.Reader, logger *slog.Logger) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			logger.Warn("stop reading input", "error", err)
		}
	}()
	return lines
}
