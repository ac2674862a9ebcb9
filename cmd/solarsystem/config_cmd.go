package main

import (
	"github.com/spf13/cobra"
)

func newConfigCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective settings as TOML",
		Long: `Prints the settings after defaults, the settings file and flags are applied.
The output can be saved as a .toml file and passed back with --config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := opts.settings.EncodeTOML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
