package main

import (
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"go.jacobcolvin.com/commentspec/schema"
	"go.jacobcolvin.com/commentspec/socket"
)

type inferFlags struct {
	output string
	header []string
}

func (a *app) newInferCmd() *cobra.Command {
	var f inferFlags

	cmd := &cobra.Command{
		Use:   "infer [flags] <example.yaml>",
		Short: "Derive a schema definition from an example file",
		Long: `infer reads an existing YAML file and prints a schema definition for it.
Each key becomes a field with its value as the default, its inferred type,
and its comment. Use "-" to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInfer(cmd.InOrStdin(), cmd.OutOrStdout(), f, args[0])
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write to a file instead of stdout")
	cmd.Flags().StringArrayVar(&f.header, "header", nil, "header line for the definition (repeatable)")

	return cmd
}

func (a *app) runInfer(in io.Reader, out io.Writer, f inferFlags, input string) error {
	src := socket.FromPath(input)
	if input == "-" {
		src = socket.ReadOnly(func() (io.ReadCloser, error) {
			return io.NopCloser(in), nil
		})
	}

	data, err := src.Read()
	if err != nil {
		return err
	}

	s, err := schema.Infer(data)
	if err != nil {
		return err
	}

	s.Header = f.header

	def, err := schema.Marshal(s)
	if err != nil {
		return err
	}

	if f.output == "" || f.output == "-" {
		return writeString(out, string(def))
	}

	err = socket.FromPath(f.output).WriteLines(strings.Split(strings.TrimSuffix(string(def), "\n"), "\n"))
	if err != nil {
		return err
	}

	a.logger.Info("wrote schema definition",
		slog.String("path", f.output),
		slog.Int("fields", len(s.Fields)),
	)

	return nil
}
