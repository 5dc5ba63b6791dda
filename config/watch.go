package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/multierr"

	"github.com/philipp01105/logshim/logger"
)

// WatchCallback is called after every reload attempt. f is nil when
// loading failed; err also reports Apply and watcher failures.
type WatchCallback func(f *File, err error)

// WatchOption configures a Watcher.
type WatchOption func(*watchOptions)

type watchOptions struct {
	debounce time.Duration
	callback WatchCallback
}

// WithDebounce sets how long the watcher waits for further changes
// before reloading. The default is 100ms.
func WithDebounce(d time.Duration) WatchOption {
	return func(o *watchOptions) {
		if d > 0 {
			o.debounce = d
		}
	}
}

// WithCallback sets the function notified after each reload.
func WithCallback(cb WatchCallback) WatchOption {
	return func(o *watchOptions) { o.callback = cb }
}

// Watcher reloads a configuration file into a Registry when it changes.
type Watcher struct {
	path     string
	reg      *logger.Registry
	fs       *fsnotify.Watcher
	debounce time.Duration
	callback WatchCallback

	mu      sync.Mutex
	timer   *time.Timer
	done    chan struct{}
	stopped bool
}

// Watch prepares a Watcher for path. The file's directory is watched, so
// editors that replace the file on save are handled. Call Start to run it.
func Watch(path string, r *logger.Registry, opts ...WatchOption) (*Watcher, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	if _, err := detectFormat(path); err != nil {
		return nil, err
	}
	o := watchOptions{debounce: 100 * time.Millisecond}
	for _, opt := range opts {
		opt(&o)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: failed to create watcher: %w", err)
	}
	dir := filepath.Dir(path)
	if err := fsw.Add(dir); err != nil {
		return nil, multierr.Append(fmt.Errorf("config: failed to watch directory %s: %w", dir, err), fsw.Close())
	}

	return &Watcher{
		path:     path,
		reg:      r,
		fs:       fsw,
		debounce: o.debounce,
		callback: o.callback,
		done:     make(chan struct{}),
	}, nil
}

// Start runs the watch loop until ctx is done or Stop is called. It
// returns ctx.Err() in the first case and nil in the second.
func (w *Watcher) Start(ctx context.Context) error {
	name := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			_ = w.Stop()
			return ctx.Err()
		case <-w.done:
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) == name && ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				w.schedule()
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.notify(nil, fmt.Errorf("config: watch error: %w", err))
		}
	}
}

// Stop ends the watch loop and releases the file watcher. It is safe to
// call more than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return nil
	}
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	close(w.done)
	return w.fs.Close()
}

// Reload loads the file and applies it now.
func (w *Watcher) Reload() (*File, error) {
	f, err := Load(w.path)
	if err != nil {
		return nil, err
	}
	return f, f.Apply(w.reg)
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case <-w.done:
			return
		default:
		}
		w.notify(w.Reload())
	})
}

func (w *Watcher) notify(f *File, err error) {
	if w.callback != nil {
		w.callback(f, err)
	}
}
