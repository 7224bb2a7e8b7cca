package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"go.jacobcolvin.com/commentspec/socket"
)

type schemaFlags struct {
	output string
	indent int
}

func (a *app) newSchemaCmd() *cobra.Command {
	var f schemaFlags

	cmd := &cobra.Command{
		Use:   "schema [flags]",
		Short: "Print the JSON Schema for a schema definition",
		Long: `schema converts the schema definition given by --schema to JSON Schema
(Draft 7), including descriptions, defaults, bounds, and property order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSchema(cmd.OutOrStdout(), f)
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write to a file instead of stdout")
	cmd.Flags().IntVar(&f.indent, "json-indent", 2, "spaces per JSON indentation level")

	return cmd
}

func (a *app) runSchema(out io.Writer, f schemaFlags) error {
	s, err := a.loadSchema()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(s.JSONSchema(), "", strings.Repeat(" ", max(f.indent, 0)))
	if err != nil {
		return fmt.Errorf("marshal json schema: %w", err)
	}

	if f.output == "" || f.output == "-" {
		return writeString(out, string(data)+"\n")
	}

	err = socket.FromPath(f.output).WriteLines([]string{string(data)})
	if err != nil {
		return err
	}

	a.logger.Info("wrote json schema", slog.String("path", f.output))

	return nil
}
