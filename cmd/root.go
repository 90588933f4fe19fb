// Package cmd は kaiwa のコマンドラインです。
package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "kaiwa",
		Short:         "A chat transcript that reveals itself",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(NewPlayCmd())
	root.AddCommand(NewExportCmd())
	root.AddCommand(NewServeCmd())

	return root
}
