// Package auth decides who may run admin chat commands.
package auth

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/ernie/giveaway-tracker/internal/textfile"
	"go.uber.org/zap"
)

// DefaultFileName is the allow-list name searched for when no path is configured.
const DefaultFileName = "admins.txt"

// ErrNoAdminFile is returned by Resolve when no allow-list exists anywhere.
var ErrNoAdminFile = errors.New("admin list not found")

// AdminList answers admin checks from a plain text allow-list. The file is
// read again on every check so edits take effect without a restart.
type AdminList struct {
	paths []string
	log   *zap.SugaredLogger
}

// NewAdminList builds the search path for the allow-list. An empty path
// means DefaultFileName in the usual places.
func NewAdminList(path string, log *zap.SugaredLogger) *AdminList {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &AdminList{paths: SearchPaths(path), log: log}
}

// SearchPaths lists where the allow-list is looked for, in order: the
// configured path, then its base name in the working directory, next to the
// executable, in the home directory, in ~/Documents and in ~/Desktop.
func SearchPaths(path string) []string {
	name := DefaultFileName
	var paths []string
	if path != "" {
		paths = append(paths, path)
		name = filepath.Base(path)
	}
	if wd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(wd, name))
	}
	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(exe), name))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, name),
			filepath.Join(home, "Documents", name),
			filepath.Join(home, "Desktop", name),
		)
	}
	return dedupe(paths)
}

func dedupe(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := paths[:0]
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// Resolve returns the first allow-list that exists.
func (a *AdminList) Resolve() (string, error) {
	for _, p := range a.paths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", ErrNoAdminFile
}

// Admins reads the current allow-list.
func (a *AdminList) Admins() (map[string]bool, error) {
	path, err := a.Resolve()
	if err != nil {
		return nil, err
	}
	res, err := textfile.ReadLines(path, textfile.PlainEncodings)
	if err != nil {
		if errors.Is(err, textfile.ErrUndecodable) {
			// empty file
			return map[string]bool{}, nil
		}
		return nil, err
	}
	return parseAdmins(res.Lines), nil
}

func parseAdmins(lines []string) map[string]bool {
	admins := make(map[string]bool)
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		admins[line] = true
	}
	return admins
}

// IsAdmin reports whether identity is listed. Names match exactly. A missing
// or unreadable list grants nobody.
func (a *AdminList) IsAdmin(identity string) bool {
	admins, err := a.Admins()
	if err != nil {
		if errors.Is(err, ErrNoAdminFile) {
			a.log.Warnf("No %s found, admin commands are disabled", DefaultFileName)
		} else {
			a.log.Warnf("Error reading admin list: %v", err)
		}
		return false
	}
	ok := admins[identity]
	a.log.Debugf("Admin check for %q: %t", identity, ok)
	return ok
}
