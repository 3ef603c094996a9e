package server

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dmitrymomot/webserver/core/logger"
)

// certWatcher calls onChange after key or certificate files are rewritten.
// Directories are watched instead of files so rename-based updates (certbot
// swaps symlinks, editors write temp files) are still observed.
type certWatcher struct {
	files    map[string]struct{}
	debounce time.Duration
	onChange func()
	logger   *slog.Logger

	fw   *fsnotify.Watcher
	done chan struct{}
	wg   sync.WaitGroup

	mu     sync.Mutex
	timer  *time.Timer
	closed bool
}

func newCertWatcher(files []string, debounce time.Duration, l *slog.Logger, onChange func()) (*certWatcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create certificate watcher: %w", err)
	}

	w := &certWatcher{
		files:    make(map[string]struct{}, len(files)),
		debounce: debounce,
		onChange: onChange,
		logger:   l,
		fw:       fw,
		done:     make(chan struct{}),
	}

	dirs := make(map[string]struct{})
	for _, f := range files {
		f = filepath.Clean(f)
		w.files[f] = struct{}{}
		dirs[filepath.Dir(f)] = struct{}{}
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	w.wg.Add(1)
	go w.loop()

	w.logger.Info("certificate watcher started", logger.Count("dirs", len(dirs)))
	return w, nil
}

func (w *certWatcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if _, watched := w.files[filepath.Clean(event.Name)]; !watched {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.logger.Debug("certificate file changed",
				logger.File(event.Name),
				slog.String("op", event.Op.String()),
			)
			w.schedule()

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.logger.Error("certificate watcher error", logger.Error(err))

		case <-w.done:
			return
		}
	}
}

// schedule restarts the debounce timer so a burst of events yields one call.
func (w *certWatcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.onChange)
}

func (w *certWatcher) close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	close(w.done)
	err := w.fw.Close()
	w.wg.Wait()
	return err
}
