package cmd

import (
	"github.com/spf13/cobra"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the mediamorph version",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println("mediamorph " + Version)
		},
	}
}
