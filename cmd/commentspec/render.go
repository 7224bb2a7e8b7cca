package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"go.jacobcolvin.com/commentspec/schema"
	"go.jacobcolvin.com/commentspec/socket"
)

type renderFlags struct {
	write bool
	diff  bool
}

// rendered is the outcome of rendering one file.
type rendered struct {
	path   string
	before string
	after  string
}

func (r rendered) changed() bool {
	return r.before != r.after
}

func (a *app) newRenderCmd() *cobra.Command {
	var f renderFlags

	cmd := &cobra.Command{
		Use:   "render [flags] <file|glob> ...",
		Short: "Render files with schema comments",
		Long: `render loads each file, fills in defaults from the schema, and prints the
result with the schema's comments and headers. With --write the files are
replaced in place; with --diff a diff against the current content is printed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRender(cmd.OutOrStdout(), f, args)
		},
	}

	cmd.Flags().BoolVarP(&f.write, "write", "w", false, "write the result back to each file")
	cmd.Flags().BoolVarP(&f.diff, "diff", "d", false, "print a diff instead of the rendered files")
	cmd.MarkFlagsMutuallyExclusive("write", "diff")

	return cmd
}

func (a *app) runRender(out io.Writer, f renderFlags, args []string) error {
	s, err := a.loadSchema()
	if err != nil {
		return err
	}

	paths, err := expandArgs(args)
	if err != nil {
		return err
	}

	results, err := a.renderAll(s, paths, f.write)
	if err != nil {
		return err
	}

	switch {
	case f.write:
		return nil

	case f.diff:
		p := newPalette(isTerminal(out))
		for _, r := range results {
			if !r.changed() {
				continue
			}

			err := writeString(out, unifiedDiff(r.path, r.before, r.after, p))
			if err != nil {
				return err
			}
		}

		return nil
	}

	for i, r := range results {
		if i > 0 {
			err := writeString(out, "---\n")
			if err != nil {
				return err
			}
		}

		err := writeString(out, r.after)
		if err != nil {
			return err
		}
	}

	return nil
}

// renderAll renders paths concurrently. Results keep the order of paths.
func (a *app) renderAll(s *schema.Schema, paths []string, write bool) ([]rendered, error) {
	results := make([]rendered, len(paths))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range paths {
		g.Go(func() error {
			r, err := a.renderFile(s, path, write)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			results[i] = r

			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		return nil, err
	}

	return results, nil
}

// renderFile renders the file at path. With write set, the file is saved
// when its content changes.
func (a *app) renderFile(s *schema.Schema, path string, write bool) (rendered, error) {
	before, err := socket.FromPath(path).Read()
	if err != nil {
		return rendered{}, err
	}

	ref, err := a.newReference(s, path)
	if err != nil {
		return rendered{}, err
	}

	err = ref.Reload()
	if err != nil {
		return rendered{}, err
	}

	lines, err := ref.Document().Render()
	if err != nil {
		return rendered{}, err
	}

	r := rendered{path: path, before: string(before), after: joinLines(lines)}

	if write && r.changed() {
		err := ref.Save()
		if err != nil {
			return rendered{}, err
		}

		a.logger.Info("wrote file", slog.String("path", path))
	}

	return r, nil
}

// expandArgs expands doublestar globs in args. Arguments without glob
// syntax are used as-is, so a missing file renders from defaults.
func expandArgs(args []string) ([]string, error) {
	var paths []string

	for _, arg := range args {
		if !hasMeta(arg) {
			if !slices.Contains(paths, arg) {
				paths = append(paths, arg)
			}

			continue
		}

		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", arg, err)
		}

		if len(matches) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoMatch, arg)
		}

		slices.Sort(matches)

		for _, m := range matches {
			if !slices.Contains(paths, m) {
				paths = append(paths, m)
			}
		}
	}

	return paths, nil
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd())) //nolint:gosec // File descriptors fit in an int.
}
