package profile

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags holds CLI flag names for profiling configuration, allowing callers to
// customize flag names while keeping sensible defaults via [NewConfig].
type Flags struct {
	Profiles string
	Dir      string
}

// NewConfig creates a new [Config] embedding these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{
		Flags: f,
		Dir:   ".",
	}
}

// Config holds profiling configuration. A zero-value Config has all profiles
// disabled.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.Start] to begin a [Session].
type Config struct {
	Logger   *slog.Logger
	Flags    Flags
	Dir      string
	Profiles []string
}

// NewConfig creates a new [Config] with default flag names and all profiles
// disabled.
func NewConfig() *Config {
	f := Flags{
		Profiles: "profile",
		Dir:      "profile-dir",
	}

	return f.NewConfig()
}

// RegisterFlags adds profiling flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringSliceVar(&c.Profiles, c.Flags.Profiles, nil,
		fmt.Sprintf("write profiles, any of: %s", GetAllKindStrings()))
	flags.StringVar(&c.Dir, c.Flags.Dir, ".",
		"directory for profile files")
}

// RegisterCompletions registers shell completions for profile flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.Profiles,
		cobra.FixedCompletions(GetAllKindStrings(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Profiles, err)
	}

	err = cmd.RegisterFlagCompletionFunc(c.Flags.Dir,
		cobra.FixedCompletions(nil, cobra.ShellCompDirectiveFilterDirs))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Dir, err)
	}

	return nil
}

// Kinds parses the configured profile names. Duplicates are removed.
func (c *Config) Kinds() ([]Kind, error) {
	var kinds []Kind

	for _, name := range c.Profiles {
		k, err := ParseKind(name)
		if err != nil {
			return nil, err
		}

		if !slices.Contains(kinds, k) {
			kinds = append(kinds, k)
		}
	}

	return kinds, nil
}

// Start parses the configuration and starts a [Session].
func (c *Config) Start() (*Session, error) {
	kinds, err := c.Kinds()
	if err != nil {
		return nil, err
	}

	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}

	dir := strings.TrimSpace(c.Dir)
	if dir == "" {
		dir = "."
	}

	s := &Session{dir: dir, kinds: kinds, logger: logger}

	err = s.start()
	if err != nil {
		return nil, err
	}

	return s, nil
}
