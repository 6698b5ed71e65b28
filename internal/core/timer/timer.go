package timer

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"pomo/internal/core/clock"
)

var (
	// ErrInvalidDuration indicates a non-positive duration passed to Start.
	ErrInvalidDuration = errors.New("invalid duration")
	// ErrInvalidTransition indicates an operation not allowed in the current status.
	ErrInvalidTransition = errors.New("invalid transition")
)

const defaultTickInterval = 100 * time.Millisecond

// Config contains runtime options for Timer.
type Config struct {
	TickInterval time.Duration
	Clock        clock.Clock
	// OnFinish runs once per run when the countdown reaches zero, outside the Timer lock.
	OnFinish func(Snapshot)
}

// Timer counts down a single session against an absolute end time.
type Timer struct {
	mu        sync.Mutex
	options   Config
	status    Status
	run       uint64
	duration  time.Duration
	remaining time.Duration
	startedAt time.Time
	endsAt    time.Time
	events    []chan Event
	stopCh    chan struct{}
	closed    bool
}

// New creates an idle Timer.
func New(options Config) *Timer {
	if options.TickInterval <= 0 {
		options.TickInterval = defaultTickInterval
	}
	if options.Clock == nil {
		options.Clock = clock.Real()
	}
	return &Timer{
		options: options,
		status:  StatusIdle,
	}
}

// Subscribe registers a new observer channel.
func (timer *Timer) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if timer.closed {
		close(ch)
		return ch
	}
	timer.events = append(timer.events, ch)
	return ch
}

// Start begins a new session of durationSeconds from idle or finished.
func (timer *Timer) Start(durationSeconds int) error {
	if durationSeconds <= 0 {
		return fmt.Errorf("%w: %d seconds", ErrInvalidDuration, durationSeconds)
	}

	timer.mu.Lock()
	defer timer.mu.Unlock()
	if timer.closed {
		return fmt.Errorf("%w: start after close", ErrInvalidTransition)
	}
	if timer.status == StatusRunning || timer.status == StatusPaused {
		return fmt.Errorf("%w: start while %s", ErrInvalidTransition, timer.status)
	}

	now := timer.options.Clock.Now()
	timer.run++
	timer.status = StatusRunning
	timer.duration = time.Duration(durationSeconds) * time.Second
	timer.remaining = timer.duration
	timer.startedAt = now
	timer.endsAt = now.Add(timer.duration)
	timer.startTickingLocked()

	timer.emitLocked(EventStateChange, now)
	return nil
}

// Pause freezes a running countdown.
func (timer *Timer) Pause() error {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if timer.status != StatusRunning {
		return fmt.Errorf("%w: pause while %s", ErrInvalidTransition, timer.status)
	}

	now := timer.options.Clock.Now()
	timer.stopTickingLocked()
	timer.remaining = clampRemaining(timer.endsAt.Sub(now), timer.duration)
	timer.endsAt = time.Time{}
	timer.status = StatusPaused

	timer.emitLocked(EventStateChange, now)
	return nil
}

// Resume continues a paused countdown from the remaining time captured at pause.
func (timer *Timer) Resume() error {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if timer.closed {
		return fmt.Errorf("%w: resume after close", ErrInvalidTransition)
	}
	if timer.status != StatusPaused {
		return fmt.Errorf("%w: resume while %s", ErrInvalidTransition, timer.status)
	}

	now := timer.options.Clock.Now()
	timer.endsAt = now.Add(timer.remaining)
	timer.status = StatusRunning
	timer.startTickingLocked()

	timer.emitLocked(EventStateChange, now)
	return nil
}

// Cancel discards the current session and returns to idle. Cancelling an idle Timer is a no-op.
func (timer *Timer) Cancel() {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if timer.status == StatusIdle {
		return
	}

	timer.stopTickingLocked()
	timer.status = StatusIdle
	timer.duration = 0
	timer.remaining = 0
	timer.startedAt = time.Time{}
	timer.endsAt = time.Time{}

	timer.emitLocked(EventStateChange, timer.options.Clock.Now())
}

// Close stops ticking and closes observers. The Timer must not be used afterwards.
func (timer *Timer) Close() {
	timer.mu.Lock()
	if timer.closed {
		timer.mu.Unlock()
		return
	}
	timer.closed = true
	timer.stopTickingLocked()
	events := timer.events
	timer.events = nil
	timer.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// Status returns the current status.
func (timer *Timer) Status() Status {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return timer.status
}

// RemainingSeconds returns the remaining time rounded up to whole seconds.
func (timer *Timer) RemainingSeconds() int {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return ceilSeconds(timer.remaining)
}

// Snapshot returns the current session view.
func (timer *Timer) Snapshot() Snapshot {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return timer.snapshotLocked()
}

func (timer *Timer) snapshotLocked() Snapshot {
	return Snapshot{
		Run:              timer.run,
		Status:           timer.status,
		DurationSeconds:  ceilSeconds(timer.duration),
		RemainingSeconds: ceilSeconds(timer.remaining),
		StartedAt:        timer.startedAt,
		EndsAt:           timer.endsAt,
	}
}

func (timer *Timer) startTickingLocked() {
	timer.stopTickingLocked()
	stopCh := make(chan struct{})
	timer.stopCh = stopCh
	ticker := timer.options.Clock.NewTicker(timer.options.TickInterval)
	go timer.loop(ticker, stopCh, timer.run)
}

// stopTickingLocked unschedules the tick loop; a tick already waiting on the lock sees the closed channel and drops out.
func (timer *Timer) stopTickingLocked() {
	if timer.stopCh != nil {
		close(timer.stopCh)
		timer.stopCh = nil
	}
}

func (timer *Timer) loop(ticker clock.Ticker, stopCh chan struct{}, run uint64) {
	defer ticker.Stop()
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C():
			if !timer.tick(stopCh, run) {
				return
			}
		}
	}
}

// tick recomputes the remaining time from the end time and reports whether ticking should continue.
func (timer *Timer) tick(stopCh chan struct{}, run uint64) bool {
	timer.mu.Lock()
	if timer.stopCh != stopCh || timer.run != run || timer.status != StatusRunning {
		timer.mu.Unlock()
		return false
	}

	now := timer.options.Clock.Now()
	remaining := timer.endsAt.Sub(now)
	if remaining > 0 {
		previous := ceilSeconds(timer.remaining)
		timer.remaining = clampRemaining(remaining, timer.duration)
		if ceilSeconds(timer.remaining) != previous {
			timer.emitLocked(EventProgress, now)
		}
		timer.mu.Unlock()
		return true
	}

	timer.remaining = 0
	timer.status = StatusFinished
	timer.stopTickingLocked()
	snapshot := timer.snapshotLocked()
	onFinish := timer.options.OnFinish
	timer.mu.Unlock()

	if onFinish != nil {
		onFinish(snapshot)
	}
	timer.emit(EventStateChange, now)
	return false
}

func (timer *Timer) emit(eventType EventType, at time.Time) {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	timer.emitLocked(eventType, at)
}

func (timer *Timer) emitLocked(eventType EventType, at time.Time) {
	snapshot := timer.snapshotLocked()
	event := Event{
		Type:     eventType,
		Snapshot: snapshot,
		Progress: snapshot.Progress(),
		At:       at,
	}
	for _, ch := range timer.events {
		select {
		case ch <- event:
		default:
		}
	}
}

func ceilSeconds(value time.Duration) int {
	if value <= 0 {
		return 0
	}
	return int((value + time.Second - 1) / time.Second)
}

func clampRemaining(remaining, duration time.Duration) time.Duration {
	if remaining < 0 {
		return 0
	}
	if remaining > duration {
		return duration
	}
	return remaining
}
