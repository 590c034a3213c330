package cmd

import (
	"github.com/spf13/cobra"
	"github.com/vermeil/vae/internal/display"
	"github.com/vermeil/vae/internal/models"
)

// NewVersionCommand creates the version command
func NewVersionCommand(info models.BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version and build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			display.Banner(cmd.OutOrStdout(), info)
		},
	}
}
