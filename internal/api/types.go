package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Holding mirrors one entry of GET /portfolio.
type Holding struct {
	Ticker   string `json:"ticker"`
	Name     string `json:"name,omitempty"`
	Qty      Number `json:"qty"`
	AvgCost  Number `json:"avgCost,omitzero"`
	Price    Number `json:"price,omitzero"`
	Currency string `json:"currency,omitempty"`
}

// MarketValue is Qty * Price.
func (h Holding) MarketValue() decimal.Decimal {
	return h.Qty.Mul(h.Price.Decimal)
}

// CostBasis is Qty * AvgCost.
func (h Holding) CostBasis() decimal.Decimal {
	return h.Qty.Mul(h.AvgCost.Decimal)
}

// Gain is the unrealised profit or loss of the position.
func (h Holding) Gain() decimal.Decimal {
	return h.MarketValue().Sub(h.CostBasis())
}

// Security mirrors one entry of GET /securities.
type Security struct {
	Ticker   string       `json:"ticker"`
	Name     string       `json:"name,omitempty"`
	Currency string       `json:"currency,omitempty"`
	Exchange string       `json:"exchange,omitempty"`
	History  []PricePoint `json:"history,omitempty"`
}

// PricePoint is one closing price of a security.
type PricePoint struct {
	Date  string `json:"date"`
	Close Number `json:"close"`
}

// ParsedDate returns the point date, or the zero time when unparsable.
func (p PricePoint) ParsedDate() time.Time {
	return parseDate(p.Date)
}

// TransactionType classifies a transaction.
type TransactionType string

const (
	TypeBuy        TransactionType = "buy"
	TypeSell       TransactionType = "sell"
	TypeDividend   TransactionType = "dividend"
	TypeDeposit    TransactionType = "deposit"
	TypeWithdrawal TransactionType = "withdrawal"
)

// TransactionTypes lists the known types in display order.
func TransactionTypes() []TransactionType {
	return []TransactionType{TypeBuy, TypeSell, TypeDividend, TypeDeposit, TypeWithdrawal}
}

// ParseTransactionType accepts any case and surrounding whitespace.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range TransactionTypes() {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown transaction type %q", s)
}

// Transaction mirrors one entry of GET /transactions and the body of POST /transactions.
type Transaction struct {
	ID       ID              `json:"id,omitempty"`
	Date     string          `json:"date,omitempty"`
	Ticker   string          `json:"ticker,omitempty"`
	Type     TransactionType `json:"type,omitempty"`
	Qty      Number          `json:"qty,omitzero"`
	Price    Number          `json:"price,omitzero"`
	Amount   Number          `json:"amt"`
	Currency string          `json:"currency,omitempty"`
	Note     string          `json:"note,omitempty"`
}

// ParsedDate returns the transaction date, or the zero time when unparsable.
func (t Transaction) ParsedDate() time.Time {
	return parseDate(t.Date)
}

// Number is a decimal that decodes from JSON numbers, numeric strings or null
// and always encodes as a bare JSON number.
type Number struct {
	decimal.Decimal
}

// Num builds a Number from a float, mostly for tests and literals.
func Num(f float64) Number {
	return Number{decimal.NewFromFloat(f)}
}

// ParseNumber parses a decimal string such as "12.50".
func ParseNumber(s string) (Number, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Number{}, fmt.Errorf("parse number %q: %w", s, err)
	}
	return Number{d}, nil
}

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.Decimal.String()), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		n.Decimal = decimal.Zero
		return nil
	}
	return n.Decimal.UnmarshalJSON(data)
}

// ID is a record identifier. Backends use either integers or strings; both decode.
type ID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	*id = ID(num.String())
	return nil
}

// MarshalJSON keeps canonical integer ids numeric so they round-trip
// unchanged. Anything else, including "007" or "+5", is a JSON string.
func (id ID) MarshalJSON() ([]byte, error) {
	if isCanonicalInt(string(id)) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// isCanonicalInt reports whether s is an integer literal in the form
// json.Number produces: optional minus sign, no leading zeros, any length.
func isCanonicalInt(s string) bool {
	digits := strings.TrimPrefix(s, "-")
	if digits == "" || (len(digits) > 1 && digits[0] == '0') || (digits == "0" && s != digits) {
		return false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return false
		}
	}
	return true
}

func parseDate(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{dateLayout, time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
