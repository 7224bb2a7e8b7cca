// Package profile writes pprof profiles for a single CLI invocation.
//
// Profiles are selected by [Kind] and written as "<kind>.pprof" into one
// directory, which makes it easy to profile a large "commentspec render" run
// and open the results with "go tool pprof".
//
// Typical usage registers flags on the root command and wraps execution in a
// [Session]:
//
//	cfg := profile.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//
//	rootCmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
//	    session, err = cfg.Start()
//	    return err
//	}
//	rootCmd.PersistentPostRunE = func(_ *cobra.Command, _ []string) error {
//	    return session.Stop()
//	}
//
// Users then enable profiling with flags like
// "--profile cpu,heap --profile-dir ./prof".
package profile
