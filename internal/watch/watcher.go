// Package watch reports changes to the file currently on screen.
package watch

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Watcher follows a single file. It watches the file's directory rather than
// the file itself so editors that save by rename are still seen.
type Watcher struct {
	fs     *fsnotify.Watcher
	log    logrus.FieldLogger
	events chan string
	done   chan struct{}

	mu     sync.Mutex
	target string
	dir    string
	closed bool
}

// New starts a watcher with nothing targeted.
func New(log logrus.FieldLogger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	w := &Watcher{
		fs:     fsw,
		log:    log,
		events: make(chan string, 1),
		done:   make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Events delivers the path of the target each time it is written, created or
// renamed into place. Bursts are coalesced.
func (w *Watcher) Events() <-chan string { return w.events }

// Watch replaces the target with path.
func (w *Watcher) Watch(path string) error {
	path = filepath.Clean(path)
	dir := filepath.Dir(path)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return fmt.Errorf("watcher closed")
	}
	if dir != w.dir {
		if w.dir != "" {
			if err := w.fs.Remove(w.dir); err != nil {
				w.log.WithField("dir", w.dir).WithError(err).Debug("remove watch")
			}
		}
		if err := w.fs.Add(dir); err != nil {
			w.dir = ""
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		w.dir = dir
	}
	w.target = path
	w.log.WithField("file", path).Debug("watching file")
	return nil
}

// Target returns the watched path.
func (w *Watcher) Target() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.target
}

// Close stops the watcher and closes Events.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.done)
	return w.fs.Close()
}

func (w *Watcher) loop() {
	defer close(w.events)
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			target := w.Target()
			if target == "" || filepath.Clean(ev.Name) != target {
				continue
			}
			select {
			case w.events <- target:
			default:
				// a change is already pending
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Error("fsnotify watcher error")
		case <-w.done:
			return
		}
	}
}
