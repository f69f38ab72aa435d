package ui

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/five82/folio/internal/api"
)

// currencyTotal aggregates holdings that share a currency.
type currencyTotal struct {
	Currency string
	Value    decimal.Decimal
	Cost     decimal.Decimal
}

func (t currencyTotal) Gain() decimal.Decimal {
	return t.Value.Sub(t.Cost)
}

// totalsByCurrency sums holdings per currency, sorted by currency code.
// Holdings without a currency are grouped under "".
func totalsByCurrency(holdings []api.Holding) []currencyTotal {
	byCode := make(map[string]*currencyTotal)
	for _, h := range holdings {
		code := strings.ToUpper(strings.TrimSpace(h.Currency))
		t, ok := byCode[code]
		if !ok {
			t = &currencyTotal{Currency: code}
			byCode[code] = t
		}
		t.Value = t.Value.Add(h.MarketValue())
		t.Cost = t.Cost.Add(h.CostBasis())
	}

	out := make([]currencyTotal, 0, len(byCode))
	for _, t := range byCode {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Currency < out[j].Currency })
	return out
}

// findSecurity looks a ticker up case-insensitively.
func findSecurity(securities []api.Security, ticker string) (api.Security, bool) {
	for _, s := range securities {
		if strings.EqualFold(s.Ticker, ticker) {
			return s, true
		}
	}
	return api.Security{}, false
}

func findHolding(holdings []api.Holding, ticker string) (api.Holding, bool) {
	for _, h := range holdings {
		if strings.EqualFold(h.Ticker, ticker) {
			return h, true
		}
	}
	return api.Holding{}, false
}

// historyStats summarises a price series.
type historyStats struct {
	First, Last api.PricePoint
	Min, Max    decimal.Decimal
	Change      decimal.Decimal // percent, first to last
}

// sortedHistory returns points in ascending date order. Points with
// unparsable dates keep their relative order at the end.
func sortedHistory(points []api.PricePoint) []api.PricePoint {
	out := append([]api.PricePoint(nil), points...)
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := out[i].ParsedDate(), out[j].ParsedDate()
		if di.IsZero() || dj.IsZero() {
			return !di.IsZero() && dj.IsZero()
		}
		return di.Before(dj)
	})
	return out
}

func statsOf(points []api.PricePoint) (historyStats, bool) {
	if len(points) == 0 {
		return historyStats{}, false
	}
	s := historyStats{
		First: points[0],
		Last:  points[len(points)-1],
		Min:   points[0].Close.Decimal,
		Max:   points[0].Close.Decimal,
	}
	for _, p := range points[1:] {
		s.Min = decimal.Min(s.Min, p.Close.Decimal)
		s.Max = decimal.Max(s.Max, p.Close.Decimal)
	}
	s.Change = api.PercentChange(s.First.Close.Decimal, s.Last.Close.Decimal)
	return s, true
}

// describeTransaction is a one-line label such as "buy 10 AAPL".
func describeTransaction(tx api.Transaction) string {
	parts := []string{string(tx.Type)}
	if !tx.Qty.IsZero() {
		parts = append(parts, api.FormatQty(tx.Qty.Decimal))
	}
	if tx.Ticker != "" {
		parts = append(parts, tx.Ticker)
	} else {
		parts = append(parts, api.FormatMoney(tx.Amount.Decimal, tx.Currency))
	}
	return strings.Join(parts, " ")
}

// signed prefixes positive figures with "+".
func signed(d decimal.Decimal, s string) string {
	if d.IsPositive() {
		return "+" + s
	}
	return s
}

func formatPercent(d decimal.Decimal) string {
	return signed(d, d.StringFixed(2)+"%")
}
