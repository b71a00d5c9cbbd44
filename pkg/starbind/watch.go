package starbind

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces editor write bursts into one reload.
const watchDebounce = 100 * time.Millisecond

// Watcher reloads a file-backed script when its source changes.
type Watcher struct {
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// Watch starts watching the script's source file. onReload is called
// after every reload attempt with the reload error (nil on success).
// The caller must Close the returned Watcher.
func (s *Script) Watch(onReload func(error)) (*Watcher, error) {
	if s.path == "" {
		return nil, fmt.Errorf("script %s is not file-backed", s.name)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	// Watch the directory: editors often replace the file, which drops
	// a watch registered on the file itself.
	if err := fw.Add(filepath.Dir(s.path)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("failed to watch script dir: %w", err)
	}

	w := &Watcher{watcher: fw, done: make(chan struct{})}
	go w.loop(s, onReload)
	return w, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}

func (w *Watcher) loop(s *Script, onReload func(error)) {
	var timer *time.Timer
	target := filepath.Clean(s.path)

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				err := s.Reload()
				s.logger.Debug("script reloaded", "script", s.name, "err", err)
				if onReload != nil {
					onReload(err)
				}
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Debug("watch error", "script", s.name, "err", err)
		}
	}
}
