// Package watch calls handlers when watched files change.
//
// A [Watcher] wraps an [fsnotify.Watcher]. Files are watched through their
// parent directory, so a file replaced by rename (as atomic writes do) keeps
// being watched. Bursts of events for one path are debounced into a single
// handler call.
//
//	w, err := watch.New(watch.WithDebounce(200 * time.Millisecond))
//	if err != nil {
//		return err
//	}
//	defer w.Close()
//
//	err = w.WatchFile("config.yaml", func(path string) {
//		slog.Info("changed", slog.String("path", path))
//	})
//	if err != nil {
//		return err
//	}
//
//	return w.Run(ctx)
package watch
