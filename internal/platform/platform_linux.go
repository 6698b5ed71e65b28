//go:build linux

package platform

import (
	"os/exec"
	"path/filepath"
)

const defaultSoundFile = "/usr/share/sounds/freedesktop/stereo/complete.oga"

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config")
}

func soundCommand(soundFile string) (string, []string, error) {
	if path, err := exec.LookPath("paplay"); err == nil {
		return path, []string{soundFile}, nil
	}
	if path, err := exec.LookPath("pw-play"); err == nil {
		return path, []string{soundFile}, nil
	}
	if path, err := exec.LookPath("aplay"); err == nil {
		return path, []string{"-q", soundFile}, nil
	}
	return "", nil, ErrSoundUnsupported
}
