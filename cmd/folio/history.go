package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/folio/internal/api"
)

func newHistoryCmd() *cobra.Command {
	var (
		output jsonOutput
		last   int
	)

	cmd := &cobra.Command{
		Use:   "history TICKER",
		Short: "Print the price history of a security",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			securities, err := loadOnce(cmd.Context(), rt.Stores.Securities)
			if err != nil {
				return err
			}
			sec, ok := findSecurity(securities, args[0])
			if !ok {
				return fmt.Errorf("unknown security %q", strings.ToUpper(args[0]))
			}

			points := sortHistory(sec.History)
			if last > 0 && len(points) > last {
				points = points[len(points)-last:]
			}
			w := cmd.OutOrStdout()
			if output.active() {
				return output.write(w, points)
			}
			if len(points) == 0 {
				fmt.Fprintf(w, "No price history for %s.\n", sec.Ticker)
				return nil
			}

			tw := newTable(w)
			fmt.Fprintln(tw, "DATE\tCLOSE\tCHANGE")
			for i, p := range points {
				change := "-"
				if i > 0 {
					pct := api.PercentChange(points[i-1].Close.Decimal, p.Close.Decimal)
					change = pct.StringFixed(2) + "%"
					if pct.IsPositive() {
						change = "+" + change
					}
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Date, api.FormatMoney(p.Close.Decimal, sec.Currency), change)
			}
			return tw.Flush()
		},
	}

	output.bind(cmd.Flags())
	cmd.Flags().IntVar(&last, "last", 0, "Only print the most recent N points")
	return cmd
}

func findSecurity(securities []api.Security, ticker string) (api.Security, bool) {
	for _, s := range securities {
		if equalTicker(s.Ticker, ticker) {
			return s, true
		}
	}
	return api.Security{}, false
}

func equalTicker(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
