package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [target]",
		Short: "Build, then rebuild whenever a source changes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Watch(cmd.Context(), buildOptions(cmd, args))
		},
	}
	addBuildFlags(cmd)
	return cmd
}
