package alarm

import (
	"context"
	"log/slog"
	"sync"
)

// Player plays the alarm sound once, returning when playback ends or ctx is cancelled.
type Player interface {
	Play(ctx context.Context) error
}

// PlayerFunc adapts a function to Player.
type PlayerFunc func(ctx context.Context) error

// Play calls fn(ctx).
func (fn PlayerFunc) Play(ctx context.Context) error {
	return fn(ctx)
}

// Alarm is the single alarm handle. At most one playback runs at a time.
type Alarm struct {
	mu      sync.Mutex
	player  Player
	logger  *slog.Logger
	enabled bool
	active  bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates an Alarm. With sound disabled, Ring still marks the alarm active.
func New(player Player, soundEnabled bool, logger *slog.Logger) *Alarm {
	if logger == nil {
		logger = slog.Default()
	}
	return &Alarm{player: player, enabled: soundEnabled, logger: logger}
}

// Ring stops any prior playback and starts a new one.
func (alarm *Alarm) Ring() {
	alarm.mu.Lock()
	defer alarm.mu.Unlock()
	alarm.stopLocked()
	alarm.active = true
	if !alarm.enabled || alarm.player == nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	alarm.cancel = cancel
	alarm.done = done
	player := alarm.player
	go func() {
		defer close(done)
		if err := player.Play(ctx); err != nil && ctx.Err() == nil {
			alarm.logger.Warn("alarm playback failed", "error", err)
		}
	}()
}

// Dismiss stops playback and clears the active flag. Dismissing an inactive alarm is a no-op.
func (alarm *Alarm) Dismiss() {
	alarm.mu.Lock()
	defer alarm.mu.Unlock()
	alarm.stopLocked()
	alarm.active = false
}

// Active reports whether a rung alarm has not been dismissed.
func (alarm *Alarm) Active() bool {
	alarm.mu.Lock()
	defer alarm.mu.Unlock()
	return alarm.active
}

// SetSoundEnabled toggles audible playback for future rings.
func (alarm *Alarm) SetSoundEnabled(enabled bool) {
	alarm.mu.Lock()
	defer alarm.mu.Unlock()
	alarm.enabled = enabled
	if !enabled {
		alarm.stopLocked()
	}
}

// stopLocked cancels the current playback and waits for the player to return.
func (alarm *Alarm) stopLocked() {
	if alarm.cancel == nil {
		return
	}
	alarm.cancel()
	<-alarm.done
	alarm.cancel = nil
	alarm.done = nil
}
