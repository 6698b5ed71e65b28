package platform

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfigDir(t *testing.T) {
	dir, err := NewService().GetConfigDir()
	require.NoError(t, err)
	assert.NotEmpty(t, dir)
}

func TestLockAddressInRange(t *testing.T) {
	for _, name := range []string{"Pomo", "Pomo-run", ""} {
		_, portText, err := net.SplitHostPort(lockAddress(name))
		require.NoError(t, err)
		port, err := strconv.Atoi(portText)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, port, lockPortMin)
		assert.LessOrEqual(t, port, lockPortMax)
	}
	assert.Equal(t, lockAddress("Pomo"), lockAddress("Pomo"))
}

func TestSingleInstance(t *testing.T) {
	name := fmt.Sprintf("pomo-test-%d", time.Now().UnixNano())
	guard, err := AcquireSingleInstance(name)
	if err != nil {
		t.Skipf("loopback port unavailable: %v", err)
	}
	assert.Equal(t, name, guard.Name())

	_, err = AcquireSingleInstance(name)
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	require.NoError(t, guard.Release())
	require.NoError(t, guard.Release())

	again, err := AcquireSingleInstance(name)
	require.NoError(t, err)
	require.NoError(t, again.Release())

	var nilGuard *InstanceGuard
	assert.NoError(t, nilGuard.Release())
	assert.Equal(t, "", nilGuard.Name())
}

func TestBellPlayer(t *testing.T) {
	var buffer bytes.Buffer
	player := &bellPlayer{output: &buffer}
	require.NoError(t, player.Play(context.Background()))
	assert.Equal(t, "\a", buffer.String())

	assert.ErrorIs(t, (&bellPlayer{}).Play(context.Background()), ErrSoundUnsupported)
}

func TestCommandPlayerStopsOnCancel(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sleep")
	}
	path, err := exec.LookPath("sleep")
	if err != nil {
		t.Skip("sleep not available")
	}
	player := &commandPlayer{path: path, args: []string{"10"}}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- player.Play(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(3 * time.Second):
		t.Fatal("player did not stop after cancel")
	}
}

func TestCommandPlayerReportsFailure(t *testing.T) {
	path, err := exec.LookPath("false")
	if err != nil {
		t.Skip("false not available")
	}
	player := &commandPlayer{path: path}
	assert.Error(t, player.Play(context.Background()))
}

func TestMissingSoundFileFallsBackToBell(t *testing.T) {
	var buffer bytes.Buffer
	service := &platformService{bellOutput: &buffer}

	player := service.NewSoundPlayer(filepath.Join(t.TempDir(), "missing.oga"))
	require.IsType(t, &bellPlayer{}, player)
	require.NoError(t, player.Play(context.Background()))
	assert.Equal(t, "\a", buffer.String())
}

func TestExistingSoundFileKeepsBellAsFallback(t *testing.T) {
	soundFile := filepath.Join(t.TempDir(), "alarm.wav")
	require.NoError(t, os.WriteFile(soundFile, []byte("RIFF"), 0o644))

	player := (&platformService{}).NewSoundPlayer(soundFile)
	if command, ok := player.(*commandPlayer); ok {
		assert.Contains(t, strings.Join(command.args, " "), soundFile)
		assert.IsType(t, &bellPlayer{}, command.fallback)
	} else {
		assert.IsType(t, &bellPlayer{}, player, "no sound command on this system")
	}
}

func TestFailingCommandRingsBell(t *testing.T) {
	path, err := exec.LookPath("false")
	if err != nil {
		t.Skip("false not available")
	}
	var buffer bytes.Buffer
	player := &commandPlayer{path: path, fallback: &bellPlayer{output: &buffer}}

	err = player.Play(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rang the bell instead")
	assert.Equal(t, "\a", buffer.String())
}
