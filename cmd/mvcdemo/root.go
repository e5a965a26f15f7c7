package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mvcdemo",
		Short:         "Demo application for the mvc controller framework",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newServeCmd(), newTokenCmd(), newMigrateCmd())
	return root
}
