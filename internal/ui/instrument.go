package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/five82/folio/internal/api"
)

const barWidth = 30

func (m Model) handleInstrumentKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sec, ok := findSecurity(m.securities.Items, m.ticker)
	if !ok {
		return m, nil
	}
	n := len(sec.History)
	switch {
	case key.Matches(msg, m.keys.Down):
		m.historyOffset++
	case key.Matches(msg, m.keys.Up):
		m.historyOffset--
	case key.Matches(msg, m.keys.Top):
		m.historyOffset = 0
	case key.Matches(msg, m.keys.Bottom):
		m.historyOffset = n
	case key.Matches(msg, m.keys.PageDown):
		m.historyOffset += m.contentHeight() / 2
	case key.Matches(msg, m.keys.PageUp):
		m.historyOffset -= m.contentHeight() / 2
	}
	m.historyOffset = clamp(m.historyOffset, n)
	return m, nil
}

// renderInstrument shows one security's price history, newest first.
func (m Model) renderInstrument() string {
	st := m.securities
	sec, ok := findSecurity(st.Items, m.ticker)
	if !ok {
		switch {
		case st.Loading:
			return m.renderEmpty("Loading " + m.ticker + "…")
		case st.Err != nil:
			return m.renderEmpty(st.Err.Error())
		default:
			return m.renderEmpty("No security " + m.ticker)
		}
	}

	styles := m.theme.Styles()
	history := sortedHistory(sec.History)

	var lines []string
	title := sec.Ticker
	if sec.Name != "" {
		title += " · " + sec.Name
	}
	meta := []string{}
	if sec.Exchange != "" {
		meta = append(meta, sec.Exchange)
	}
	if sec.Currency != "" {
		meta = append(meta, sec.Currency)
	}
	meta = append(meta, fmt.Sprintf("%d closes", len(history)))
	lines = append(lines, styles.MutedText.Render(strings.Join(meta, " · ")))

	if h, held := findHolding(m.portfolio.Items, sec.Ticker); held {
		gain := h.Gain()
		lines = append(lines,
			styles.Text.Render(fmt.Sprintf("Position %s @ %s  value %s  ",
				api.FormatQty(h.Qty.Decimal),
				api.FormatMoney(h.AvgCost.Decimal, h.Currency),
				api.FormatMoney(h.MarketValue(), h.Currency)))+
				lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SignColor(gain.Sign()))).
					Render(signed(gain, api.FormatMoney(gain, h.Currency))))
	}

	stats, hasStats := statsOf(history)
	if !hasStats {
		lines = append(lines, "", styles.MutedText.Render("No price history"))
		return m.renderTitledBox(title, strings.Join(lines, "\n"), m.width, m.contentHeight())
	}

	change := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SignColor(stats.Change.Sign()))).
		Render(formatPercent(stats.Change))
	lines = append(lines,
		styles.Text.Render(fmt.Sprintf("%s → %s  %s → %s  ",
			stats.First.Date, stats.Last.Date,
			api.FormatMoney(stats.First.Close.Decimal, sec.Currency),
			api.FormatMoney(stats.Last.Close.Decimal, sec.Currency)))+change,
		styles.MutedText.Render(fmt.Sprintf("low %s  high %s",
			api.FormatMoney(stats.Min, sec.Currency),
			api.FormatMoney(stats.Max, sec.Currency))),
		"",
	)

	bodyHeight := max(m.contentHeight()-2-len(lines), 1)
	offset := clamp(m.historyOffset, len(history))
	for i := len(history) - 1 - offset; i >= 0 && bodyHeight > 0; i-- {
		p := history[i]
		delta := ""
		color := m.theme.Text
		if i > 0 {
			d := p.Close.Sub(history[i-1].Close.Decimal)
			delta = signed(d, d.StringFixed(2))
			color = m.theme.SignColor(d.Sign())
		}
		row := fmt.Sprintf("%-10s %14s %10s ", p.Date,
			api.FormatMoney(p.Close.Decimal, sec.Currency), delta)
		lines = append(lines,
			styles.Text.Render(row)+
				lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(priceBar(p.Close.Decimal, stats.Min, stats.Max, barWidth)))
		bodyHeight--
	}

	return m.renderTitledBox(title, strings.Join(lines, "\n"), m.width, m.contentHeight())
}

// priceBar scales v between lo and hi onto 1..width cells.
func priceBar(v, lo, hi decimal.Decimal, width int) string {
	if width <= 0 {
		return ""
	}
	span := hi.Sub(lo)
	if span.IsZero() {
		return strings.Repeat("█", width)
	}
	frac := v.Sub(lo).Div(span)
	cells := int(frac.Mul(decimal.NewFromInt(int64(width - 1))).Round(0).IntPart()) + 1
	return strings.Repeat("█", min(max(cells, 1), width))
}
