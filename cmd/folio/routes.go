package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/folio/internal/router"
)

func newRoutesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the views reachable by path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "NAME\tPATH\tTITLE")
			for _, r := range router.Routes() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Name, r.Pattern, r.Title)
			}
			return tw.Flush()
		},
	}
}
