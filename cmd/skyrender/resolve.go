package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"constellation-viewer/internal/imagepath"
)

// errNoCandidate is returned when a path has no distinct fallback.
var errNoCandidate = errors.New("no fallback candidate")

func resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <image-path>",
		Short: "Print the fallback location tried when an image path fails",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			candidate, ok := imagepath.Resolve(args[0])
			if !ok {
				return fmt.Errorf("%s: %w", args[0], errNoCandidate)
			}
			fmt.Fprintln(cmd.OutOrStdout(), candidate)
			return nil
		},
	}
}
