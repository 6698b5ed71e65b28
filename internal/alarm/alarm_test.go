package alarm

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingPlayer plays until cancelled and tracks concurrent playbacks.
type blockingPlayer struct {
	playing atomic.Int32
	maxSeen atomic.Int32
	plays   atomic.Int32
}

func (player *blockingPlayer) Play(ctx context.Context) error {
	current := player.playing.Add(1)
	defer player.playing.Add(-1)
	player.plays.Add(1)
	for {
		seen := player.maxSeen.Load()
		if current <= seen || player.maxSeen.CompareAndSwap(seen, current) {
			break
		}
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestRingActivatesAndPlays(t *testing.T) {
	player := &blockingPlayer{}
	alarm := New(player, true, nil)

	alarm.Ring()
	assert.True(t, alarm.Active())
	require.Eventually(t, func() bool { return player.playing.Load() == 1 }, time.Second, 5*time.Millisecond)

	alarm.Dismiss()
	assert.False(t, alarm.Active())
	assert.Equal(t, int32(0), player.playing.Load())
}

func TestRingNeverOverlapsPlayback(t *testing.T) {
	player := &blockingPlayer{}
	alarm := New(player, true, nil)

	for i := 0; i < 5; i++ {
		alarm.Ring()
		require.Eventually(t, func() bool { return player.playing.Load() == 1 }, time.Second, 5*time.Millisecond)
	}
	alarm.Dismiss()

	assert.Equal(t, int32(5), player.plays.Load())
	assert.Equal(t, int32(1), player.maxSeen.Load())
}

func TestMutedAlarmStillActive(t *testing.T) {
	player := &blockingPlayer{}
	alarm := New(player, false, nil)

	alarm.Ring()
	assert.True(t, alarm.Active())
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int32(0), player.plays.Load())

	alarm.Dismiss()
	assert.False(t, alarm.Active())
}

func TestDismissWithoutRingIsNoop(t *testing.T) {
	alarm := New(nil, true, nil)
	alarm.Dismiss()
	assert.False(t, alarm.Active())
}

func TestSetSoundEnabledStopsPlayback(t *testing.T) {
	player := &blockingPlayer{}
	alarm := New(player, true, nil)
	alarm.Ring()
	require.Eventually(t, func() bool { return player.playing.Load() == 1 }, time.Second, 5*time.Millisecond)

	alarm.SetSoundEnabled(false)
	assert.Equal(t, int32(0), player.playing.Load())
	assert.True(t, alarm.Active())
}

func TestPlaybackErrorIsLogged(t *testing.T) {
	var buffer bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buffer, nil))
	failed := make(chan struct{})
	alarm := New(PlayerFunc(func(context.Context) error {
		defer close(failed)
		return errors.New("no audio device")
	}), true, logger)

	alarm.Ring()
	<-failed
	alarm.Dismiss()

	assert.Contains(t, buffer.String(), "alarm playback failed")
	assert.Contains(t, buffer.String(), "no audio device")
}
