package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/folio/internal/api"
	"github.com/five82/folio/internal/router"
)

func (m Model) handlePortfolioKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.portfolio.Items)
	switch {
	case key.Matches(msg, m.keys.Open):
		if n == 0 {
			return m, nil
		}
		ticker := m.portfolio.Items[m.portfolioRow].Ticker
		path, err := router.Path(router.InstrumentHistory, map[string]string{router.ParamTicker: ticker})
		if err != nil {
			m.setFlash(err.Error(), true)
			return m, nil
		}
		return m.navigate(path)
	default:
		m.portfolioRow = moveRow(m.keys, msg, m.portfolioRow, n, m.contentHeight()-4)
	}
	return m, nil
}

// moveRow applies a navigation key to a selection over n rows.
func moveRow(keys keyMap, msg tea.KeyMsg, row, n, page int) int {
	if n == 0 {
		return 0
	}
	page = max(page, 1)
	switch {
	case key.Matches(msg, keys.Down):
		row++
	case key.Matches(msg, keys.Up):
		row--
	case key.Matches(msg, keys.Top):
		row = 0
	case key.Matches(msg, keys.Bottom):
		row = n - 1
	case key.Matches(msg, keys.PageDown):
		row += page
	case key.Matches(msg, keys.PageUp):
		row -= page
	}
	return clamp(row, n)
}

type column struct {
	title string
	width int
	right bool
}

func (m Model) portfolioColumns() []column {
	cols := []column{
		{title: "Ticker", width: 10},
		{title: "Qty", width: 12, right: true},
		{title: "Avg cost", width: 14, right: true},
		{title: "Price", width: 14, right: true},
		{title: "Value", width: 16, right: true},
		{title: "P/L", width: 16, right: true},
		{title: "P/L %", width: 9, right: true},
	}
	if m.width >= LayoutWideWidth {
		name := column{title: "Name", width: max(m.width-4-sumWidths(cols)-len(cols), 12)}
		cols = append(cols[:1], append([]column{name}, cols[1:]...)...)
	}
	return cols
}

func sumWidths(cols []column) int {
	total := 0
	for _, c := range cols {
		total += c.width
	}
	return total
}

func renderCells(cols []column, cells []string) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		cell := ""
		if i < len(cells) {
			cell = truncate(cells[i], c.width)
		}
		if c.right {
			parts[i] = padLeft(cell, c.width)
		} else {
			parts[i] = padRight(cell, c.width)
		}
	}
	return strings.Join(parts, " ")
}

func (m Model) holdingCells(h api.Holding, withName bool) []string {
	gain := h.Gain()
	cells := []string{h.Ticker}
	if withName {
		cells = append(cells, h.Name)
	}
	return append(cells,
		api.FormatQty(h.Qty.Decimal),
		api.FormatMoney(h.AvgCost.Decimal, h.Currency),
		api.FormatMoney(h.Price.Decimal, h.Currency),
		api.FormatMoney(h.MarketValue(), h.Currency),
		signed(gain, api.FormatMoney(gain, h.Currency)),
		formatPercent(api.PercentChange(h.CostBasis(), h.MarketValue())),
	)
}

// renderPortfolio renders the holdings table with per-currency totals.
func (m Model) renderPortfolio() string {
	st := m.portfolio
	if len(st.Items) == 0 {
		switch {
		case st.Loading:
			return m.renderEmpty("Loading portfolio…")
		case st.Err != nil:
			return m.renderEmpty(st.Err.Error())
		default:
			return m.renderEmpty("No holdings")
		}
	}

	styles := m.theme.Styles()
	cols := m.portfolioColumns()
	withName := len(cols) == 8
	innerWidth := m.width - 2

	totals := totalsByCurrency(st.Items)
	bodyHeight := max(m.contentHeight()-2-2-len(totals)-1, 1)

	var lines []string
	lines = append(lines, styles.MutedText.Render(renderCells(cols, columnTitles(cols))))
	lines = append(lines, styles.FaintText.Render(strings.Repeat("─", innerWidth)))

	start, end := window(m.portfolioRow, len(st.Items), bodyHeight)
	for i := start; i < end; i++ {
		h := st.Items[i]
		row := renderCells(cols, m.holdingCells(h, withName))
		if i == m.portfolioRow {
			lines = append(lines, styles.Selected.Width(innerWidth).Render(row))
			continue
		}
		color := m.theme.SignColor(h.Gain().Sign())
		lines = append(lines, m.colorTail(row, cols, 2, color))
	}

	lines = append(lines, styles.FaintText.Render(strings.Repeat("─", innerWidth)))
	for _, t := range totals {
		label := "Total"
		if t.Currency != "" {
			label += " " + t.Currency
		}
		cells := []string{label}
		if withName {
			cells = append(cells, "")
		}
		cells = append(cells, "", "", "",
			api.FormatMoney(t.Value, t.Currency),
			signed(t.Gain(), api.FormatMoney(t.Gain(), t.Currency)),
			formatPercent(api.PercentChange(t.Cost, t.Value)),
		)
		lines = append(lines, styles.Text.Bold(true).Render(renderCells(cols, cells)))
	}

	title := fmt.Sprintf("Portfolio (%d)", len(st.Items))
	if st.Err != nil {
		title += " · " + st.Err.Message
	}
	return m.renderTitledBox(title, strings.Join(lines, "\n"), m.width, m.contentHeight())
}

// colorTail renders row in Text color except its last n columns, which use
// color. Rows are plain text, so the split is by column width.
func (m Model) colorTail(row string, cols []column, n int, color string) string {
	split := 0
	for _, c := range cols[:len(cols)-n] {
		split += c.width + 1
	}
	runes := []rune(row)
	if split > len(runes) {
		split = len(runes)
	}
	head := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Text)).Render(string(runes[:split]))
	tail := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(string(runes[split:]))
	return head + tail
}

func columnTitles(cols []column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.title
	}
	return out
}
