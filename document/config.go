package document

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.jacobcolvin.com/commentspec/emitter"
	"go.jacobcolvin.com/commentspec/weave"
)

// Flags holds CLI flag names for document rendering, allowing callers to
// customize flag names while keeping sensible defaults.
type Flags struct {
	ArrayStyle    string
	Emitter       string
	Indent        string
	AlignComments string
	Validate      string
}

// Config holds CLI flag values for document rendering.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewOptions] to build [Document]
// options and [Config.NewReferenceOptions] for [Reference] options.
type Config struct {
	Flags         Flags
	ArrayStyle    string
	Emitter       string
	Indent        int
	AlignComments bool
	Validate      bool
}

// NewConfig returns a new [Config] with default flag names.
func NewConfig() *Config {
	f := Flags{
		ArrayStyle:    "array-style",
		Emitter:       "emitter",
		Indent:        "indent",
		AlignComments: "align-comments",
		Validate:      "validate",
	}

	return &Config{Flags: f}
}

// RegisterFlags adds document flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.ArrayStyle, c.Flags.ArrayStyle, weave.FirstElement.String(),
		"comment list elements: first or all")
	flags.StringVar(&c.Emitter, c.Flags.Emitter, emitter.NameGoccy,
		"YAML emitter: goccy or yaml.v3")
	flags.IntVar(&c.Indent, c.Flags.Indent, 2,
		"spaces per indentation level")
	flags.BoolVar(&c.AlignComments, c.Flags.AlignComments, true,
		"indent comments to match the key they describe")
	flags.BoolVar(&c.Validate, c.Flags.Validate, false,
		"validate documents against the schema")
}

// RegisterCompletions registers shell completions for document flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.ArrayStyle,
		cobra.FixedCompletions(weave.GetAllArrayCommentStyleStrings(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.ArrayStyle, err)
	}

	err = cmd.RegisterFlagCompletionFunc(c.Flags.Emitter,
		cobra.FixedCompletions(emitter.GetAllNames(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Emitter, err)
	}

	err = cmd.RegisterFlagCompletionFunc(c.Flags.Indent,
		cobra.FixedCompletions([]string{"2", "4"}, cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Indent, err)
	}

	return nil
}

// NewOptions creates [Document] options from this [Config].
func (c *Config) NewOptions() ([]Option, error) {
	style, err := weave.ParseArrayCommentStyle(c.ArrayStyle)
	if err != nil {
		return nil, err
	}

	em, err := emitter.New(c.Emitter, c.Indent)
	if err != nil {
		return nil, err
	}

	return []Option{
		WithArrayCommentStyle(style),
		WithEmitter(em),
		WithAlignedComments(c.AlignComments),
	}, nil
}

// NewReferenceOptions creates [Reference] options from this [Config].
func (c *Config) NewReferenceOptions() []ReferenceOption {
	return []ReferenceOption{WithValidation(c.Validate)}
}
