package collector

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ernie/giveaway-tracker/internal/textfile"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Line is the result of running one file through the read/normalize/parse pipeline
type Line struct {
	Path       string
	Encoding   string
	Raw        string
	Normalized string
	Message    Message
	Parsed     bool
}

// ReadLastLine decodes the file at path and parses its final non-empty line.
// A file with no such line returns a zero Line and no error.
func ReadLastLine(path string) (Line, error) {
	res, err := textfile.ReadLines(path, textfile.ChatLogEncodings)
	if err != nil {
		return Line{}, err
	}
	line := Line{Path: path, Encoding: res.Encoding}
	raw, ok := textfile.LastLine(res.Lines)
	if !ok {
		return line, nil
	}
	line.Raw = raw
	line.Normalized = NormalizeLine(raw)
	line.Message, line.Parsed = ParseMessage(line.Normalized)
	return line, nil
}

// TailerOptions configures a LogTailer
type TailerOptions struct {
	Dir        string
	FileMarker string        // substring required in the file name
	FileExt    string        // required extension, compared case-insensitively
	Rescan     time.Duration // periodic directory rescan; zero disables it
	Handle     func(Message)
	Logger     *zap.SugaredLogger
}

// fileStamp identifies a version of a file's contents
type fileStamp struct {
	size    int64
	modTime time.Time
}

func (s fileStamp) equal(o fileStamp) bool {
	return s.size == o.size && s.modTime.Equal(o.modTime)
}

// LogTailer watches a chat log directory and feeds the newest line of the
// most recently modified chat log to a handler. Every change re-reads the
// whole file and keeps only the last line.
type LogTailer struct {
	opts TailerOptions
	log  *zap.SugaredLogger

	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup

	// owned by the tail loop once started
	current string
	seen    map[string]fileStamp
}

// NewLogTailer creates a new log tailer
func NewLogTailer(opts TailerOptions) *LogTailer {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &LogTailer{
		opts: opts,
		log:  log,
		done: make(chan struct{}),
		seen: make(map[string]fileStamp),
	}
}

// Current returns the file being tracked. Only safe before Start or after Stop.
func (t *LogTailer) Current() string {
	return t.current
}

// Start begins watching the directory. The newest matching file is processed
// immediately so a message written before startup is not missed.
func (t *LogTailer) Start() error {
	info, err := os.Stat(t.opts.Dir)
	if err != nil {
		return fmt.Errorf("stat log directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("log path %s is not a directory", t.opts.Dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	if err := watcher.Add(t.opts.Dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watching %s: %w", t.opts.Dir, err)
	}
	t.watcher = watcher

	t.sync()

	t.wg.Add(1)
	go t.tailLoop()
	return nil
}

// Stop stops the tailer and waits for the loop to exit
func (t *LogTailer) Stop() {
	close(t.done)
	t.wg.Wait()
	if t.watcher != nil {
		t.watcher.Close()
	}
}

// tailLoop reacts to filesystem events and the periodic rescan
func (t *LogTailer) tailLoop() {
	defer t.wg.Done()

	var tick <-chan time.Time
	if t.opts.Rescan > 0 {
		ticker := time.NewTicker(t.opts.Rescan)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-t.done:
			return
		case event, ok := <-t.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !t.matches(event.Name) {
				continue
			}
			t.sync()
		case err, ok := <-t.watcher.Errors:
			if !ok {
				return
			}
			t.log.Warnf("Watcher error for %s: %v", t.opts.Dir, err)
		case <-tick:
			t.sync()
		}
	}
}

// sync switches to the newest chat log if it changed and processes the
// tracked file when its contents changed since the last look.
func (t *LogTailer) sync() {
	newest, err := t.newestFile()
	if err != nil {
		t.log.Warnf("Scanning %s: %v", t.opts.Dir, err)
		return
	}
	if newest == "" {
		return
	}
	if newest != t.current {
		t.log.Infof("Tracking chat log %s (was %q)", filepath.Base(newest), filepath.Base(t.current))
		t.current = newest
	}
	t.processIfChanged(t.current)
}

func (t *LogTailer) processIfChanged(path string) {
	info, err := os.Stat(path)
	if err != nil {
		t.log.Warnf("Stat %s: %v", path, err)
		return
	}
	stamp := fileStamp{size: info.Size(), modTime: info.ModTime()}
	if prev, ok := t.seen[path]; ok && prev.equal(stamp) {
		return
	}
	t.seen[path] = stamp

	line, err := ReadLastLine(path)
	if err != nil {
		if errors.Is(err, textfile.ErrUndecodable) {
			t.log.Debugf("Skipping %s: %v", filepath.Base(path), err)
		} else {
			t.log.Warnf("Reading chat log %s: %v", filepath.Base(path), err)
		}
		return
	}
	if line.Raw == "" {
		return
	}

	t.log.Debugf("Read with encoding %s: original=%q cleaned=%q", line.Encoding, line.Raw, line.Normalized)
	if !line.Parsed {
		t.log.Debugf("Line did not match any chat format: %q", line.Normalized)
		return
	}
	if t.opts.Handle != nil {
		t.opts.Handle(line.Message)
	}
}

// newestFile returns the matching file with the latest modification time
func (t *LogTailer) newestFile() (string, error) {
	entries, err := os.ReadDir(t.opts.Dir)
	if err != nil {
		return "", err
	}

	var newest string
	var newestMod time.Time
	for _, entry := range entries {
		if entry.IsDir() || !t.matches(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestMod) {
			newest = filepath.Join(t.opts.Dir, entry.Name())
			newestMod = info.ModTime()
		}
	}
	return newest, nil
}

// matches reports whether name follows the chat log naming convention
func (t *LogTailer) matches(name string) bool {
	base := filepath.Base(name)
	if t.opts.FileExt != "" && !strings.HasSuffix(strings.ToLower(base), strings.ToLower(t.opts.FileExt)) {
		return false
	}
	return strings.Contains(base, t.opts.FileMarker)
}
