package api

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatMoney renders value in currency's display format ("$1,234.50").
// An empty currency renders the value with two decimals and no symbol.
func FormatMoney(value decimal.Decimal, currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if code == "" {
		return value.StringFixed(2)
	}
	// money.New never returns a nil currency, unknown codes get a generic format.
	cur := *money.New(0, code).Currency()
	minor := value.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// FormatQty renders a quantity without trailing zeros.
func FormatQty(value decimal.Decimal) string {
	return value.String()
}

// PercentChange returns (to-from)/from*100, or zero when from is zero.
func PercentChange(from, to decimal.Decimal) decimal.Decimal {
	if from.IsZero() {
		return decimal.Zero
	}
	return to.Sub(from).Div(from).Mul(decimal.NewFromInt(100))
}
