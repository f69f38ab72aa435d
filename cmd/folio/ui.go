package main

import (
	"github.com/spf13/cobra"

	"github.com/five82/folio/internal/app"
)

func newUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ui [path]",
		Short: "Open the interactive UI",
		Long: `Open the interactive UI. The optional path selects the first view, for
example /portfolio or /instrument/MSFT. Without it the last visited view is
restored.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runUI,
	}
}

func runUI(cmd *cobra.Command, args []string) error {
	var start string
	if len(args) == 1 {
		start = args[0]
	}
	return app.Run(cmd.Context(), options(cmd), start)
}
