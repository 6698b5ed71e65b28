package session

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"pomo/internal/alarm"
	"pomo/internal/core/clock"
	"pomo/internal/core/eventlog"
	"pomo/internal/core/model"
	"pomo/internal/core/sequencer"
	"pomo/internal/core/timer"
	"pomo/internal/metrics"
)

var (
	// ErrAlarmActive indicates a finished session whose alarm has not been dismissed.
	ErrAlarmActive = errors.New("alarm not dismissed")
	// ErrSessionActive indicates a session is running or paused.
	ErrSessionActive = errors.New("session in progress")
	// ErrNothingToDismiss indicates Dismiss was called without a pending alarm.
	ErrNothingToDismiss = errors.New("nothing to dismiss")
)

// Session is the timer's view of the current session plus its type.
type Session struct {
	Type model.SessionType
	timer.Snapshot
}

// State is everything a renderer needs to draw the app.
type State struct {
	Session     Session
	Sequencer   sequencer.State
	// Next is the session Go will start, counting a pending completion.
	Next        model.SessionType
	AlarmActive bool
	// Pending is the finished session awaiting dismissal, if any.
	Pending model.SessionType
	Config  model.Config
}

// Options wires the Controller's collaborators. Only Config is required.
type Options struct {
	Config       model.Config
	Clock        clock.Clock
	TickInterval time.Duration
	Alarm        *alarm.Alarm
	Log          *eventlog.Log
	Metrics      *metrics.Collector
	Logger       *slog.Logger
}

// Controller runs the session cycle: Go, Pause, Resume, Cancel, Dismiss, Reset.
type Controller struct {
	mu          sync.Mutex
	timer       *timer.Timer
	alarm       *alarm.Alarm
	log         *eventlog.Log
	metrics     *metrics.Collector
	logger      *slog.Logger
	config      model.Config
	lastUsed    *model.Config
	sequence    sequencer.State
	current     model.SessionType
	run         uint64
	finishedRun uint64
	pending     model.SessionType
}

// New creates a Controller with an idle timer.
func New(options Options) (*Controller, error) {
	if err := options.Config.Validate(); err != nil {
		return nil, err
	}
	if options.Clock == nil {
		options.Clock = clock.Real()
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	if options.Log == nil {
		options.Log = eventlog.New(options.Clock, options.Logger)
	}
	if options.Alarm == nil {
		options.Alarm = alarm.New(nil, false, options.Logger)
	}

	controller := &Controller{
		alarm:   options.Alarm,
		log:     options.Log,
		metrics: options.Metrics,
		logger:  options.Logger,
		config:  options.Config,
	}
	controller.timer = timer.New(timer.Config{
		TickInterval: options.TickInterval,
		Clock:        options.Clock,
		OnFinish:     controller.handleFinish,
	})
	return controller, nil
}

// Go starts the next session decided by the sequencer.
func (controller *Controller) Go() (Session, error) {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	if controller.alarm.Active() {
		return Session{}, ErrAlarmActive
	}
	snapshot := controller.timer.Snapshot()
	if snapshot.Active() {
		return Session{}, ErrSessionActive
	}
	if snapshot.Status == timer.StatusFinished && snapshot.Run == controller.run && controller.finishedRun != controller.run {
		// The countdown ended but the finish callback has not run yet.
		controller.finishLocked(snapshot)
		return Session{}, ErrAlarmActive
	}

	config := controller.config
	if controller.lastUsed != nil {
		if changes := config.Diff(*controller.lastUsed); len(changes) > 0 {
			controller.log.Info("Configuration changed: "+strings.Join(changes, ", "), "changes", changes)
		}
	}

	next := sequencer.DecideNext(controller.sequence, config)
	seconds := sequencer.SecondsFor(next, config)
	if err := controller.timer.Start(seconds); err != nil {
		controller.log.Error(fmt.Sprintf("Could not start %s session: %v", strings.ToLower(next.Label()), err))
		return Session{}, fmt.Errorf("start %s session: %w", next, err)
	}

	controller.current = next
	controller.run = controller.timer.Snapshot().Run
	controller.lastUsed = &config
	controller.metrics.RecordStart(next)
	controller.log.Info(fmt.Sprintf("%s session started (%s)", next.Label(), model.FormatSeconds(seconds)),
		"type", next, "seconds", seconds)
	return controller.sessionLocked(), nil
}

// Pause freezes the running session.
func (controller *Controller) Pause() error {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	if err := controller.timer.Pause(); err != nil {
		return err
	}
	remaining := controller.timer.RemainingSeconds()
	controller.log.Info(fmt.Sprintf("%s session paused with %s left", controller.current.Label(), model.FormatSeconds(remaining)),
		"type", controller.current, "remaining_seconds", remaining)
	return nil
}

// Resume continues a paused session.
func (controller *Controller) Resume() error {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	if err := controller.timer.Resume(); err != nil {
		return err
	}
	controller.log.Info(fmt.Sprintf("%s session resumed", controller.current.Label()), "type", controller.current)
	return nil
}

// TogglePause pauses a running session or resumes a paused one.
func (controller *Controller) TogglePause() error {
	if controller.timer.Status() == timer.StatusPaused {
		return controller.Resume()
	}
	return controller.Pause()
}

// Cancel abandons the current session without recording a completion.
func (controller *Controller) Cancel() {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.cancelLocked()
}

// Dismiss silences the alarm and records the finished session.
func (controller *Controller) Dismiss() error {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	if controller.pending == "" && !controller.alarm.Active() {
		return ErrNothingToDismiss
	}
	controller.alarm.Dismiss()
	if controller.pending == "" {
		return nil
	}

	controller.sequence = sequencer.RecordCompletion(controller.sequence, controller.pending)
	controller.pending = ""
	controller.current = ""
	controller.timer.Cancel()
	controller.metrics.SetWorkSinceLongBreak(controller.sequence.CompletedWorkSessionsSinceLongBreak)

	next := sequencer.DecideNext(controller.sequence, controller.config)
	controller.log.Info(fmt.Sprintf("Alarm dismissed, next up: %s", strings.ToLower(next.Label())),
		"next", next, "work_since_long_break", controller.sequence.CompletedWorkSessionsSinceLongBreak)
	return nil
}

// Reset cancels everything, forgets the session history and clears the log.
func (controller *Controller) Reset() {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	controller.cancelLocked()
	controller.alarm.Dismiss()
	controller.timer.Cancel()
	controller.sequence = sequencer.State{}
	controller.pending = ""
	controller.current = ""
	controller.lastUsed = nil
	controller.log.Clear()
	controller.metrics.SetWorkSinceLongBreak(0)
	controller.logger.Info("session state reset")
}

// SetConfig replaces the configuration used by the next session.
func (controller *Controller) SetConfig(config model.Config) error {
	if err := config.Validate(); err != nil {
		return err
	}
	controller.mu.Lock()
	defer controller.mu.Unlock()
	if controller.timer.Snapshot().Active() {
		return ErrSessionActive
	}
	controller.config = config
	return nil
}

// ResetConfig restores the default configuration.
func (controller *Controller) ResetConfig() error {
	return controller.SetConfig(model.DefaultConfig())
}

// Config returns the configuration used by the next session.
func (controller *Controller) Config() model.Config {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.config
}

// Snapshot returns the current state for rendering.
func (controller *Controller) Snapshot() State {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return State{
		Session:     controller.sessionLocked(),
		Sequencer:   controller.sequence,
		Next:        controller.nextLocked(),
		AlarmActive: controller.alarm.Active(),
		Pending:     controller.pending,
		Config:      controller.config,
	}
}

// Entries returns the event log, oldest first.
func (controller *Controller) Entries() []eventlog.Entry {
	return controller.log.Entries()
}

// Subscribe registers an observer for timer events.
func (controller *Controller) Subscribe(buffer int) <-chan timer.Event {
	return controller.timer.Subscribe(buffer)
}

// Close stops the timer, silences the alarm and closes observers.
func (controller *Controller) Close() {
	controller.alarm.Dismiss()
	controller.timer.Close()
}

func (controller *Controller) handleFinish(snapshot timer.Snapshot) {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	if snapshot.Run != controller.run || controller.finishedRun == snapshot.Run || controller.current == "" {
		return
	}
	controller.finishLocked(snapshot)
}

func (controller *Controller) finishLocked(snapshot timer.Snapshot) {
	controller.finishedRun = snapshot.Run
	controller.pending = controller.current
	controller.alarm.Ring()
	controller.metrics.RecordCompletion(controller.current, snapshot.DurationSeconds)
	controller.log.Info(fmt.Sprintf("%s session finished", controller.current.Label()),
		"type", controller.current, "seconds", snapshot.DurationSeconds)
}

// cancelLocked returns the timer to idle. A countdown that already reached
// zero still counts as finished, so its alarm stays pending.
func (controller *Controller) cancelLocked() {
	snapshot := controller.timer.Snapshot()
	if snapshot.Status == timer.StatusFinished {
		if snapshot.Run == controller.run && controller.finishedRun != controller.run && controller.current != "" {
			controller.finishLocked(snapshot)
		}
		controller.timer.Cancel()
		return
	}
	if !snapshot.Active() {
		return
	}
	controller.timer.Cancel()
	controller.metrics.RecordCancel(controller.current)
	controller.log.Warn(fmt.Sprintf("%s session cancelled with %s left", controller.current.Label(), model.FormatSeconds(snapshot.RemainingSeconds)),
		"type", controller.current, "remaining_seconds", snapshot.RemainingSeconds)
	controller.current = ""
}

// nextLocked looks past a pending completion, so a ringing work session
// already reports the break that follows it.
func (controller *Controller) nextLocked() model.SessionType {
	sequence := controller.sequence
	if controller.pending != "" {
		sequence = sequencer.RecordCompletion(sequence, controller.pending)
	}
	return sequencer.DecideNext(sequence, controller.config)
}

func (controller *Controller) sessionLocked() Session {
	snapshot := controller.timer.Snapshot()
	session := Session{Snapshot: snapshot}
	if snapshot.Status != timer.StatusIdle {
		session.Type = controller.current
	}
	return session
}
