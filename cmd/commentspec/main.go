// Command commentspec renders YAML configuration files with comments and
// headers taken from a schema definition.
//
// # Usage
//
//	commentspec render --schema schema.yaml [--write|--diff] <file|glob> ...
//	commentspec check --schema schema.yaml <file> ...
//	commentspec schema --schema schema.yaml [-o schema.json]
//	commentspec infer [--header text] <example.yaml>
//	commentspec watch --schema schema.yaml <file|dir> ...
//	commentspec version
//
// Globs use doublestar syntax, so "config/**/*.yaml" matches YAML files at
// any depth under config/.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"go.jacobcolvin.com/commentspec/document"
	"go.jacobcolvin.com/commentspec/log"
	"go.jacobcolvin.com/commentspec/profile"
	"go.jacobcolvin.com/commentspec/schema"
	"go.jacobcolvin.com/commentspec/socket"
)

var (
	// ErrNoSchema indicates a command was run without --schema.
	ErrNoSchema = errors.New("no schema given")
	// ErrNoMatch indicates a glob matched no files.
	ErrNoMatch = errors.New("no files match")
	// ErrUnmatched indicates comment paths that match nothing in a document.
	ErrUnmatched = errors.New("unmatched comment paths")
)

func main() {
	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// app holds the state shared by all subcommands.
type app struct {
	logCfg     *log.Config
	docCfg     *document.Config
	profCfg    *profile.Config
	profiling  *profile.Session
	logger     *slog.Logger
	schemaPath string
}

func newRootCmd() *cobra.Command {
	a := &app{
		logCfg:  log.NewConfig(),
		docCfg:  document.NewConfig(),
		profCfg: profile.NewConfig(),
		logger:  slog.New(slog.DiscardHandler),
	}

	rootCmd := &cobra.Command{
		Use:   "commentspec",
		Short: "Render YAML configuration with schema comments",
		Long: `commentspec renders YAML configuration files with the comments, headers,
defaults, and field order described by a schema definition. Values already
present in a file are kept; missing values are filled from defaults.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := a.logCfg.NewLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			a.logger = logger
			a.profCfg.Logger = logger

			a.profiling, err = a.profCfg.Start()

			return err
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return a.profiling.Stop()
		},
	}

	flags := rootCmd.PersistentFlags()
	a.logCfg.RegisterFlags(flags)
	a.docCfg.RegisterFlags(flags)
	a.profCfg.RegisterFlags(flags)
	flags.StringVarP(&a.schemaPath, "schema", "s", "", "path to the schema definition")

	err := a.logCfg.RegisterCompletions(rootCmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", err)
	}

	err = a.docCfg.RegisterCompletions(rootCmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", err)
	}

	err = a.profCfg.RegisterCompletions(rootCmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", err)
	}

	rootCmd.AddCommand(
		a.newRenderCmd(),
		a.newCheckCmd(),
		a.newSchemaCmd(),
		a.newInferCmd(),
		a.newWatchCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

func (a *app) loadSchema() (*schema.Schema, error) {
	if a.schemaPath == "" {
		return nil, ErrNoSchema
	}

	return schema.Load(a.schemaPath)
}

// newReference creates a [document.Reference] for the file at path.
func (a *app) newReference(s *schema.Schema, path string) (*document.Reference, error) {
	opts, err := a.docCfg.NewOptions()
	if err != nil {
		return nil, err
	}

	opts = append(opts, document.WithLogger(a.logger))
	doc := document.New(socket.FromPath(path), opts...)

	return document.NewReference(doc, s, a.docCfg.NewReferenceOptions()...), nil
}

// joinLines joins rendered lines into file content.
func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}

	return strings.Join(lines, "\n") + "\n"
}

func writeString(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}
