package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"go.jacobcolvin.com/commentspec/schema"
	"go.jacobcolvin.com/commentspec/watch"
)

// yamlPattern selects the files rendered in watched directories.
const yamlPattern = "*.{yaml,yml}"

type watchFlags struct {
	debounce time.Duration
}

func (a *app) newWatchCmd() *cobra.Command {
	var f watchFlags

	cmd := &cobra.Command{
		Use:   "watch [flags] <file|dir> ...",
		Short: "Re-render files when they change",
		Long: `watch renders each file once, then again every time it is written. A
directory argument covers the YAML files directly inside it. Files are only
written when rendering changes their content. Stop with Ctrl-C.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return a.runWatch(ctx, f, args)
		},
	}

	cmd.Flags().DurationVar(&f.debounce, "debounce", watch.DefaultDebounce,
		"wait this long after the last change before rendering")

	return cmd
}

func (a *app) runWatch(ctx context.Context, f watchFlags, args []string) error {
	s, err := a.loadSchema()
	if err != nil {
		return err
	}

	w, err := watch.New(watch.WithDebounce(f.debounce), watch.WithLogger(a.logger))
	if err != nil {
		return err
	}

	defer w.Close() //nolint:errcheck // Close errors after Run are not actionable.

	refresh := func(path string) {
		a.refresh(s, path)
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err == nil && info.IsDir() {
			err := w.WatchDir(arg, func(path string) {
				ok, _ := doublestar.Match(yamlPattern, filepath.Base(path))
				if ok {
					refresh(path)
				}
			})
			if err != nil {
				return err
			}

			matches, err := doublestar.FilepathGlob(filepath.Join(arg, yamlPattern), doublestar.WithFilesOnly())
			if err != nil {
				return err
			}

			for _, m := range matches {
				refresh(m)
			}

			continue
		}

		err = w.WatchFile(arg, refresh)
		if err != nil {
			return err
		}

		refresh(arg)
	}

	a.logger.Info("watching", slog.Int("targets", len(args)))

	return w.Run(ctx)
}

// refresh renders the file at path and writes it when the content changed.
// Errors are logged so one bad file does not stop the watcher.
func (a *app) refresh(s *schema.Schema, path string) {
	r, err := a.renderFile(s, path, true)
	if err != nil {
		a.logger.Error("render file",
			slog.String("path", path),
			slog.Any("error", err),
		)

		return
	}

	a.logger.Debug("rendered file",
		slog.String("path", path),
		slog.Bool("changed", r.changed()),
	)
}
