package main

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"go.jacobcolvin.com/commentspec/version"
)

var versionFormats = []string{"text", "json", "yaml"}

func newVersionCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Get()

			switch format {
			case "text":
				return writeString(cmd.OutOrStdout(), info.String()+"\n")

			case "json":
				data, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal version: %w", err)
				}

				return writeString(cmd.OutOrStdout(), string(data)+"\n")

			case "yaml":
				data, err := yaml.Marshal(info)
				if err != nil {
					return fmt.Errorf("marshal version: %w", err)
				}

				return writeString(cmd.OutOrStdout(), string(data))
			}

			return fmt.Errorf("unknown output format %q, one of: %s", format, versionFormats)
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", "text",
		fmt.Sprintf("output format, one of: %s", versionFormats))

	//nolint:errcheck // Only fails for an unknown flag.
	cmd.RegisterFlagCompletionFunc("output",
		cobra.FixedCompletions(slices.Clone(versionFormats), cobra.ShellCompDirectiveNoFileComp))

	return cmd
}
