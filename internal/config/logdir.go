package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

// ErrNoLogDir means none of the candidate chat log directories exist.
var ErrNoLogDir = errors.New("no chat log directory found")

// CandidateLogDirs lists the places the game client usually writes chat logs
// on this OS, most likely first.
func CandidateLogDirs() []string {
	home, _ := os.UserHomeDir()
	return candidateLogDirs(runtime.GOOS, home, os.Getenv("USERNAME"))
}

func candidateLogDirs(goos, home, user string) []string {
	logs := func(base ...string) []string {
		root := filepath.Join(base...)
		return []string{
			filepath.Join(root, "EVE", "logs", "Chatlogs"),
			filepath.Join(root, "EVE", "logs", "Gamelogs"),
		}
	}

	var dirs []string
	switch goos {
	case "windows":
		dirs = append(dirs, logs(home, "Documents")...)
		dirs = append(dirs, logs(home, "My Documents")...)
		dirs = append(dirs, logs(home, "OneDrive", "Documents")...)
		for _, drive := range []string{"C:", "D:", "E:"} {
			dirs = append(dirs, logs(drive+`\`, "Users", user, "Documents")...)
			dirs = append(dirs, logs(drive+`\`, "Users", user, "My Documents")...)
		}
	case "linux":
		dirs = append(dirs, logs(home, "Documents")...)
		dirs = append(dirs, logs(home)...)
	default:
		dirs = append(dirs, logs(home, "Documents")...)
	}
	return dirs
}

// DefaultLogDir is reported when nothing is found.
func DefaultLogDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, "Documents", "EVE", "logs", "Chatlogs")
}

// DetectLogDir returns the first candidate that is an existing directory.
// When there is none it returns DefaultLogDir along with ErrNoLogDir.
func DetectLogDir(candidates []string) (string, error) {
	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir, nil
		}
	}
	return DefaultLogDir(), ErrNoLogDir
}
