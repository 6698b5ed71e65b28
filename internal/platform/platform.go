package platform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"pomo/internal/alarm"
)

// ErrSoundUnsupported indicates no sound command is available on this system.
var ErrSoundUnsupported = errors.New("sound playback unsupported")

// Service defines OS-specific helpers needed by the application.
type Service interface {
	GetConfigDir() (string, error)
	NewSoundPlayer(soundFile string) alarm.Player
}

type platformService struct {
	bellOutput io.Writer
}

// NewService returns a platform-specific implementation.
func NewService() Service {
	return &platformService{bellOutput: os.Stderr}
}

// GetConfigDir returns the OS-standard configuration directory.
func (service *platformService) GetConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err == nil && configDir != "" {
		return configDir, nil
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("get config dir: %w", err)
		}
		return "", fmt.Errorf("get config dir: %w", homeErr)
	}

	return fallbackConfigDir(homeDir), nil
}

// NewSoundPlayer returns a player for soundFile, or the OS default sound when empty.
// A missing sound file or sound command falls back to the terminal bell, and so
// does a command that fails while playing.
func (service *platformService) NewSoundPlayer(soundFile string) alarm.Player {
	bell := &bellPlayer{output: service.bellOutput}
	if soundFile == "" {
		soundFile = defaultSoundFile
	}
	if soundFile != "" {
		if _, err := os.Stat(soundFile); err != nil {
			return bell
		}
	}
	path, args, err := soundCommand(soundFile)
	if err != nil {
		return bell
	}
	return &commandPlayer{path: path, args: args, fallback: bell}
}

type commandPlayer struct {
	path     string
	args     []string
	fallback alarm.Player
}

func (player *commandPlayer) Play(ctx context.Context) error {
	command := exec.CommandContext(ctx, player.path, player.args...)
	err := command.Run()
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	err = fmt.Errorf("%s: %w", player.path, err)
	if player.fallback != nil {
		if fallbackErr := player.fallback.Play(ctx); fallbackErr != nil {
			return errors.Join(err, fallbackErr)
		}
		return fmt.Errorf("%w (rang the bell instead)", err)
	}
	return err
}

type bellPlayer struct {
	output io.Writer
}

func (player *bellPlayer) Play(context.Context) error {
	if player.output == nil {
		return ErrSoundUnsupported
	}
	if _, err := io.WriteString(player.output, "\a"); err != nil {
		return fmt.Errorf("ring bell: %w", err)
	}
	return nil
}
