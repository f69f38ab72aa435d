package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/folio/internal/api"
)

func newAddTransactionCmd() *cobra.Command {
	var (
		in     api.TransactionInput
		asJSON bool
	)

	types := make([]string, 0, len(api.TransactionTypes()))
	for _, t := range api.TransactionTypes() {
		types = append(types, string(t))
	}

	cmd := &cobra.Command{
		Use:   "add-transaction",
		Short: "Record a new transaction",
		Example: `  folio add-transaction --type buy --ticker AAPL --qty 10 --price 187.20
  folio add-transaction --type deposit --amt 5000 --currency USD --note "monthly"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tx, err := in.Build(time.Now())
			if err != nil {
				return fmt.Errorf("invalid transaction: %w", err)
			}

			rt, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			if info := rt.Stores.Transactions.TryAppend(cmd.Context(), tx); info != nil {
				return info
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, tx)
			}
			fmt.Fprintf(out, "Added %s (id %s)\n", describe(tx), tx.ID)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&in.Type, "type", "", "Transaction type: "+strings.Join(types, ", "))
	f.StringVar(&in.Ticker, "ticker", "", "Security ticker (required for buy, sell and dividend)")
	f.StringVar(&in.Qty, "qty", "", "Quantity for buy and sell")
	f.StringVar(&in.Price, "price", "", "Unit price for buy and sell")
	f.StringVar(&in.Amount, "amt", "", "Cash amount; derived from qty and price for trades when omitted")
	f.StringVar(&in.Date, "date", "", "Trade date as YYYY-MM-DD (default today)")
	f.StringVar(&in.Currency, "currency", "", "ISO currency code")
	f.StringVar(&in.Note, "note", "", "Free-form note")
	f.StringVar(&in.ID, "id", "", "Explicit id (default a new ULID)")
	f.BoolVar(&asJSON, "json", false, "Print the stored transaction as JSON")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func describe(tx api.Transaction) string {
	amount := api.FormatMoney(tx.Amount.Decimal, tx.Currency)
	switch tx.Type {
	case api.TypeBuy, api.TypeSell:
		return fmt.Sprintf("%s %s %s @ %s = %s", tx.Type, api.FormatQty(tx.Qty.Decimal), tx.Ticker,
			api.FormatMoney(tx.Price.Decimal, tx.Currency), amount)
	case api.TypeDividend:
		return fmt.Sprintf("dividend %s %s", tx.Ticker, amount)
	default:
		return fmt.Sprintf("%s %s", tx.Type, amount)
	}
}

