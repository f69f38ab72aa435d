package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

// TransactionInput is the text a user typed for a new transaction, as
// collected by the TUI form or the add-transaction command.
type TransactionInput struct {
	ID       string
	Date     string
	Ticker   string
	Type     string
	Qty      string
	Price    string
	Amount   string
	Currency string
	Note     string
}

// Validation errors returned by TransactionInput.Build.
var (
	ErrTickerRequired = errors.New("ticker is required for trades and dividends")
	ErrTradeFields    = errors.New("qty and price must be positive for buy and sell")
	ErrAmountRequired = errors.New("amount is required")
)

// NewTransactionID returns a client-generated, time-ordered id.
func NewTransactionID() ID {
	return ID(ulid.Make().String())
}

// Build validates the input and produces the transaction to append. An empty
// Date means now's date and an empty ID gets a fresh ULID. When Amount is left
// empty on a trade it is derived as qty*price, negative for buys. Withdrawals
// are always stored negative and deposits and dividends positive.
func (in TransactionInput) Build(now time.Time) (Transaction, error) {
	typ, err := ParseTransactionType(in.Type)
	if err != nil {
		return Transaction{}, err
	}

	tx := Transaction{
		ID:       ID(strings.TrimSpace(in.ID)),
		Date:     strings.TrimSpace(in.Date),
		Ticker:   strings.ToUpper(strings.TrimSpace(in.Ticker)),
		Type:     typ,
		Currency: strings.ToUpper(strings.TrimSpace(in.Currency)),
		Note:     strings.TrimSpace(in.Note),
	}
	if tx.ID == "" {
		tx.ID = NewTransactionID()
	}
	if tx.Date == "" {
		tx.Date = now.Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, tx.Date); err != nil {
		return Transaction{}, fmt.Errorf("date %q: want YYYY-MM-DD", tx.Date)
	}

	qty, err := optionalNumber("qty", in.Qty)
	if err != nil {
		return Transaction{}, err
	}
	price, err := optionalNumber("price", in.Price)
	if err != nil {
		return Transaction{}, err
	}
	amount, err := optionalNumber("amount", in.Amount)
	if err != nil {
		return Transaction{}, err
	}

	switch typ {
	case TypeBuy, TypeSell:
		if tx.Ticker == "" {
			return Transaction{}, ErrTickerRequired
		}
		if !qty.IsPositive() || !price.IsPositive() {
			return Transaction{}, ErrTradeFields
		}
		tx.Qty, tx.Price = qty, price
		if strings.TrimSpace(in.Amount) == "" {
			gross := qty.Mul(price.Decimal)
			if typ == TypeBuy {
				gross = gross.Neg()
			}
			amount = Number{gross}
		}
	case TypeDividend:
		if tx.Ticker == "" {
			return Transaction{}, ErrTickerRequired
		}
		if amount.IsZero() {
			return Transaction{}, ErrAmountRequired
		}
		amount = Number{amount.Abs()}
	case TypeDeposit:
		if amount.IsZero() {
			return Transaction{}, ErrAmountRequired
		}
		amount = Number{amount.Abs()}
	case TypeWithdrawal:
		if amount.IsZero() {
			return Transaction{}, ErrAmountRequired
		}
		amount = Number{amount.Abs().Neg()}
	}
	tx.Amount = amount
	return tx, nil
}

func optionalNumber(field, raw string) (Number, error) {
	if strings.TrimSpace(raw) == "" {
		return Number{decimal.Zero}, nil
	}
	n, err := ParseNumber(raw)
	if err != nil {
		return Number{}, fmt.Errorf("%s: %w", field, err)
	}
	return n, nil
}
