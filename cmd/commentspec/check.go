package main

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"go.jacobcolvin.com/commentspec/schema"
)

const (
	statusMatched   = "matched"
	statusUnmatched = "unmatched"
)

// pathStatus is one row of the check report.
type pathStatus struct {
	file   string
	path   string
	status string
}

func (a *app) newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [flags] <file|glob> ...",
		Short: "Report comment paths that match nothing",
		Long: `check renders each file and lists every comment path from the schema with
whether it matched a location in the document. It fails when any path is
unmatched, and with --validate when any document is invalid.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCheck(cmd.OutOrStdout(), args)
		},
	}
}

func (a *app) runCheck(out io.Writer, args []string) error {
	s, err := a.loadSchema()
	if err != nil {
		return err
	}

	paths, err := expandArgs(args)
	if err != nil {
		return err
	}

	var (
		rows []pathStatus
		errs []error
	)

	for _, path := range paths {
		fileRows, err := a.checkFile(s, path)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
		}

		rows = append(rows, fileRows...)
	}

	renderReport(out, rows, isTerminal(out))

	unmatched := 0
	for _, r := range rows {
		if r.status == statusUnmatched {
			unmatched++
		}
	}

	if unmatched > 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrUnmatched, unmatched))
	}

	return errors.Join(errs...)
}

// checkFile returns the status of every comment path for the file at path.
// Validation errors are returned alongside the rows.
func (a *app) checkFile(s *schema.Schema, path string) ([]pathStatus, error) {
	ref, err := a.newReference(s, path)
	if err != nil {
		return nil, err
	}

	var validationErr error

	err = ref.Reload()
	switch {
	case errors.Is(err, schema.ErrValidation):
		validationErr = err
	case err != nil:
		return nil, err
	}

	doc := ref.Document()

	unmatched, err := doc.Unmatched()
	if err != nil {
		return nil, err
	}

	paths := doc.Comments().Paths()
	rows := make([]pathStatus, 0, len(paths))

	for _, p := range paths {
		status := statusMatched
		if slices.Contains(unmatched, p) {
			status = statusUnmatched
		}

		rows = append(rows, pathStatus{file: path, path: p, status: status})
	}

	return rows, validationErr
}

func renderReport(out io.Writer, rows []pathStatus, colored bool) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"File", "Path", "Status"})

	for _, r := range rows {
		status := r.status
		if colored {
			status = statusColor(r.status).Sprint(r.status)
		}

		t.AppendRow(table.Row{r.file, r.path, status})
	}

	t.Render()
}

func statusColor(status string) text.Colors {
	if status == statusUnmatched {
		return text.Colors{text.FgRed}
	}

	return text.Colors{text.FgGreen}
}
