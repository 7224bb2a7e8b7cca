package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last event for a path
// before its handlers run.
const DefaultDebounce = 100 * time.Millisecond

var (
	// ErrNotFile indicates [Watcher.WatchFile] was given a directory.
	ErrNotFile = errors.New("not a file")
	// ErrNotDirectory indicates [Watcher.WatchDir] was given a file.
	ErrNotDirectory = errors.New("not a directory")
)

// Handler is called with the absolute path of a changed file.
type Handler func(path string)

// Watcher dispatches file change events to handlers.
//
// Create instances with [New], register paths, then call [Watcher.Run].
type Watcher struct {
	fs       *fsnotify.Watcher
	logger   *slog.Logger
	files    map[string][]Handler
	dirs     map[string][]Handler
	watched  map[string]bool
	timers   map[string]*time.Timer
	debounce time.Duration
	mu       sync.Mutex
}

// Option configures a [Watcher].
type Option func(*Watcher)

// WithDebounce sets the quiet period before handlers run. Zero runs
// handlers on every event.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithLogger sets the logger. The default is [slog.Default].
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// New creates a [Watcher].
func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		fs:       fsw,
		logger:   slog.Default(),
		files:    make(map[string][]Handler),
		dirs:     make(map[string][]Handler),
		watched:  make(map[string]bool),
		timers:   make(map[string]*time.Timer),
		debounce: DefaultDebounce,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// WatchFile calls fn when the file at path is written or created. The file
// does not need to exist yet, but its directory does.
func (w *Watcher) WatchFile(path string, fn Handler) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err == nil && info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotFile, path)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	err = w.add(filepath.Dir(abs))
	if err != nil {
		return err
	}

	w.files[abs] = append(w.files[abs], fn)

	return nil
}

// WatchDir calls fn for every file written or created directly inside dir.
func (w *Watcher) WatchDir(dir string, fn Handler) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", dir, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("stat %s: %w", dir, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	err = w.add(abs)
	if err != nil {
		return err
	}

	w.dirs[abs] = append(w.dirs[abs], fn)

	return nil
}

// add watches dir once. Callers hold w.mu.
func (w *Watcher) add(dir string) error {
	if w.watched[dir] {
		return nil
	}

	err := w.fs.Add(dir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	w.watched[dir] = true

	return nil
}

// Run dispatches events until ctx is done or the watcher is closed. It
// returns nil when ctx ends.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.stopTimers()

			return nil

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}

			w.handle(ev)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}

			w.logger.Warn("watch error", slog.Any("error", err))
		}
	}
}

// Close stops watching. Pending debounced calls are dropped.
func (w *Watcher) Close() error {
	w.stopTimers()

	return w.fs.Close()
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return
	}

	path := filepath.Clean(ev.Name)
	handlers := w.handlers(path)

	if len(handlers) == 0 {
		return
	}

	w.logger.Debug("file changed",
		slog.String("path", path),
		slog.String("op", ev.Op.String()),
	)

	if w.debounce <= 0 {
		dispatch(path, handlers)

		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.schedule(path)
}

// schedule (re)starts the debounce timer for path. w.mu must be held.
//
// A timer that already fired may be waiting for w.mu while a newer one is
// installed; it then finds itself replaced and does nothing.
func (w *Watcher) schedule(path string) {
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}

	var t *time.Timer

	t = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()

		current := w.timers[path] == t
		if current {
			delete(w.timers, path)
		}

		w.mu.Unlock()

		if current {
			dispatch(path, w.handlers(path))
		}
	})

	w.timers[path] = t
}

func (w *Watcher) handlers(path string) []Handler {
	w.mu.Lock()
	defer w.mu.Unlock()

	var out []Handler

	out = append(out, w.files[path]...)
	out = append(out, w.dirs[filepath.Dir(path)]...)

	return out
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}

func dispatch(path string, handlers []Handler) {
	for _, fn := range handlers {
		fn(path)
	}
}
