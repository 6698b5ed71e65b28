//go:build windows

package platform

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// defaultSoundFile is empty: the system exclamation sound needs no file.
const defaultSoundFile = ""

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, "AppData", "Roaming")
}

func soundCommand(soundFile string) (string, []string, error) {
	path, err := exec.LookPath("powershell")
	if err != nil {
		return "", nil, ErrSoundUnsupported
	}
	script := "[System.Media.SystemSounds]::Exclamation.Play(); Start-Sleep -Milliseconds 800"
	if soundFile != "" {
		escaped := strings.ReplaceAll(soundFile, "'", "''")
		script = fmt.Sprintf("(New-Object Media.SoundPlayer '%s').PlaySync()", escaped)
	}
	return path, []string{"-NoProfile", "-NonInteractive", "-Command", script}, nil
}
