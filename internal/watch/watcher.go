// Package watch regenerates routes when their inputs change on disk.
package watch

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	generrors "github.com/pclements12/tsoa/internal/errors"
	"github.com/pclements12/tsoa/internal/utils"
)

// DefaultDebounce is how long the watcher waits for a burst of writes to settle
const DefaultDebounce = 100 * time.Millisecond

// FileWatcher watches a fixed set of files. Parent directories are watched
// rather than the files themselves so editors that replace a file on save
// are still noticed.
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	debouncer *Debouncer
	files     map[string]struct{}
	diag      *utils.DiagnosticSystem
}

// NewFileWatcher creates a watcher for files. A nil diag discards diagnostics.
func NewFileWatcher(files []string, debounce time.Duration, diag *utils.DiagnosticSystem) (*FileWatcher, error) {
	if len(files) == 0 {
		return nil, generrors.NewConfigurationError("watch", nil, "no files to watch")
	}
	if diag == nil {
		diag = utils.NewSilentDiagnostics()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, generrors.WrapFileSystemError("create watcher", "", err)
	}

	fw := &FileWatcher{
		watcher:   watcher,
		debouncer: NewDebouncer(debounce),
		files:     make(map[string]struct{}, len(files)),
		diag:      diag,
	}

	dirs := make(map[string]struct{})
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			watcher.Close()
			return nil, generrors.WrapFileSystemError("watch", file, err)
		}
		fw.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, generrors.WrapFileSystemError("watch", dir, err)
		}
		diag.Debug("watching directory %s", dir)
	}

	return fw, nil
}

// Run blocks until ctx is done, calling onChange with the sorted absolute
// paths of files that changed. Calls to onChange never overlap.
func (fw *FileWatcher) Run(ctx context.Context, onChange func([]string)) error {
	fw.debouncer.SetCallback(onChange)
	defer fw.watcher.Close()
	defer fw.debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			name, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			if _, watched := fw.files[name]; watched {
				fw.diag.Verbose("changed: %s", name)
				fw.debouncer.Add(name)
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			fw.diag.Warn("watch: %v", err)
		}
	}
}

// Debouncer collects changed files and flushes them once no change has
// arrived for its duration
type Debouncer struct {
	duration time.Duration
	timer    *time.Timer
	files    map[string]struct{}
	mutex    sync.Mutex
	callback func([]string)
	stopped  bool
}

// NewDebouncer creates a debouncer
func NewDebouncer(duration time.Duration) *Debouncer {
	return &Debouncer{
		duration: duration,
		files:    make(map[string]struct{}),
	}
}

// Add records a change and restarts the timer
func (d *Debouncer) Add(file string) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.stopped {
		return
	}
	d.files[file] = struct{}{}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, d.flush)
}

// the lock is held through the callback so flushes never overlap
func (d *Debouncer) flush() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.stopped || len(d.files) == 0 {
		return
	}

	files := make([]string, 0, len(d.files))
	for file := range d.files {
		files = append(files, file)
	}
	sort.Strings(files)
	d.files = make(map[string]struct{})

	if d.callback != nil {
		d.callback(files)
	}
}

// SetCallback sets the function called on flush
func (d *Debouncer) SetCallback(callback func([]string)) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.callback = callback
}

// Stop drops pending changes. It is safe to call more than once.
func (d *Debouncer) Stop() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.stopped = true
}
