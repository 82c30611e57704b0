// Package watcher monitors the loaded pattern image for external edits.
//
// The user may touch up the pattern in an image editor while classifying;
// when the file is rewritten the watcher reports it (debounced, so partial
// writes settle first) and the application reloads the raster.
package watcher

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"tessella/internal/logging"
)

// Watcher watches a single image file for changes.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	path      string
	debounce  time.Duration

	reloads chan string
	done    chan struct{}
	wg      sync.WaitGroup
}

// New creates a watcher for the given file. debounce is how long the file
// must be quiet before a reload is reported.
func New(path string, debounce time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		fsWatcher.Close()
		return nil, err
	}

	// Watch the parent directory: editors typically replace files via
	// rename, which drops a watch registered on the file itself.
	if err := fsWatcher.Add(filepath.Dir(abs)); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		path:      abs,
		debounce:  debounce,
		reloads:   make(chan string, 1),
		done:      make(chan struct{}),
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Reloads returns the channel that delivers the file path after each settled
// change. The channel has capacity one; pending reloads coalesce.
func (w *Watcher) Reloads() <-chan string {
	return w.reloads
}

// Close stops watching.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.fsWatcher.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		case ev, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
		case <-timerC:
			timer = nil
			timerC = nil
			select {
			case w.reloads <- w.path:
			default: // a reload is already pending
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			logging.Warn("image watch error", "error", err)
		}
	}
}
