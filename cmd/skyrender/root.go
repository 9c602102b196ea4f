package main

import (
	"github.com/spf13/cobra"

	"constellation-viewer/internal/version"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "skyrender",
		Short:        "Render constellation results over their photographs",
		Version:      version.String(),
		SilenceUsage: true,
	}
	cmd.AddCommand(renderCmd(), resolveCmd())
	return cmd
}
