package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/five82/folio/internal/api"
)

func newPortfolioCmd() *cobra.Command {
	var output jsonOutput

	cmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Print current holdings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			holdings, err := loadOnce(cmd.Context(), rt.Stores.Portfolio)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if output.active() {
				return output.write(w, holdings)
			}
			if len(holdings) == 0 {
				fmt.Fprintln(w, "No holdings.")
				return nil
			}

			tw := newTable(w)
			fmt.Fprintln(tw, "TICKER\tNAME\tQTY\tAVG COST\tPRICE\tVALUE\tGAIN")
			for _, h := range holdings {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					h.Ticker,
					orDash(h.Name),
					api.FormatQty(h.Qty.Decimal),
					api.FormatMoney(h.AvgCost.Decimal, h.Currency),
					api.FormatMoney(h.Price.Decimal, h.Currency),
					api.FormatMoney(h.MarketValue(), h.Currency),
					api.FormatMoney(h.Gain(), h.Currency),
				)
			}
			return tw.Flush()
		},
	}

	output.bind(cmd.Flags())
	return cmd
}

func newSecuritiesCmd() *cobra.Command {
	var output jsonOutput

	cmd := &cobra.Command{
		Use:   "securities",
		Short: "Print known securities and their last close",
		Args:  cobra.NoArgs,
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
			w := cmd.OutOrStdout()
			if output.active() {
				return output.write(w, securities)
			}
			if len(securities) == 0 {
				fmt.Fprintln(w, "No securities.")
				return nil
			}

			tw := newTable(w)
			fmt.Fprintln(tw, "TICKER\tNAME\tEXCHANGE\tCURRENCY\tLAST CLOSE\tPOINTS")
			for _, s := range securities {
				last := "-"
				if history := sortHistory(s.History); len(history) > 0 {
					last = api.FormatMoney(history[len(history)-1].Close.Decimal, s.Currency)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n",
					s.Ticker, orDash(s.Name), orDash(s.Exchange), orDash(s.Currency), last, len(s.History))
			}
			return tw.Flush()
		},
	}

	output.bind(cmd.Flags())
	return cmd
}

func newTransactionsCmd() *cobra.Command {
	var (
		output jsonOutput
		ticker string
	)

	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "Print the transaction log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			txs, err := loadOnce(cmd.Context(), rt.Stores.Transactions)
			if err != nil {
				return err
			}
			if ticker != "" {
				txs = filterTicker(txs, ticker)
			}
			w := cmd.OutOrStdout()
			if output.active() {
				return output.write(w, txs)
			}
			if len(txs) == 0 {
				fmt.Fprintln(w, "No transactions.")
				return nil
			}

			tw := newTable(w)
			fmt.Fprintln(tw, "DATE\tTYPE\tTICKER\tQTY\tPRICE\tAMOUNT\tNOTE\tID")
			for _, tx := range txs {
				qty, price := "-", "-"
				if !tx.Qty.IsZero() {
					qty = api.FormatQty(tx.Qty.Decimal)
				}
				if !tx.Price.IsZero() {
					price = api.FormatMoney(tx.Price.Decimal, tx.Currency)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					orDash(tx.Date), orDash(string(tx.Type)), orDash(tx.Ticker), qty, price,
					api.FormatMoney(tx.Amount.Decimal, tx.Currency), orDash(tx.Note), orDash(string(tx.ID)))
			}
			return tw.Flush()
		},
	}

	output.bind(cmd.Flags())
	cmd.Flags().StringVar(&ticker, "ticker", "", "Only show transactions for this ticker")
	return cmd
}

func filterTicker(txs []api.Transaction, ticker string) []api.Transaction {
	var out []api.Transaction
	for _, tx := range txs {
		if equalTicker(tx.Ticker, ticker) {
			out = append(out, tx)
		}
	}
	return out
}

// sortHistory returns a copy of points ordered by date, oldest first.
func sortHistory(points []api.PricePoint) []api.PricePoint {
	out := append([]api.PricePoint(nil), points...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ParsedDate().Before(out[j].ParsedDate())
	})
	return out
}
