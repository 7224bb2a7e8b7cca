// Package log builds [log/slog] handlers from command-line flags.
//
// Three formats are available. [FormatText] is the default and prints
// colored, human-readable lines through [charm.land/log/v2]. [FormatJSON]
// and [FormatLogfmt] use the standard library handlers and include source
// locations, for log collectors. Levels are [LevelError], [LevelWarn],
// [LevelInfo] and [LevelDebug]; "warning" is accepted as an alias.
//
// Commands register the flags once on the root command and build the logger
// before running:
//
//	cfg := log.NewConfig()
//	cfg.RegisterFlags(root.PersistentFlags())
//	err := cfg.RegisterCompletions(root)
//
//	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
//		logger, err := cfg.NewLogger(cmd.ErrOrStderr())
//		if err != nil {
//			return err
//		}
//		// Pass logger to the components that need it.
//		return nil
//	}
//
// Use [Flags.NewConfig] to register the flags under other names, or
// [NewHandler] to build a handler without flags.
package log
