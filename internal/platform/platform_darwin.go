//go:build darwin

package platform

import (
	"os/exec"
	"path/filepath"
)

const defaultSoundFile = "/System/Library/Sounds/Glass.aiff"

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, "Library", "Application Support")
}

func soundCommand(soundFile string) (string, []string, error) {
	path, err := exec.LookPath("afplay")
	if err != nil {
		return "", nil, ErrSoundUnsupported
	}
	return path, []string{soundFile}, nil
}
