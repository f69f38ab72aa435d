package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/folio/internal/api"
)

func (m Model) handleTransactionsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.AddTransaction) {
		m.modal = newTransactionForm(m.now, m.formDefaults())
		return m, m.modal.Init()
	}
	m.txRow = moveRow(m.keys, msg, m.txRow, len(m.transactions.Items), m.contentHeight()-4)
	return m, nil
}

// formDefaults pre-fills the add form from the selected transaction so
// repeated buys of one ticker need less typing.
func (m Model) formDefaults() api.TransactionInput {
	in := api.TransactionInput{Type: string(api.TypeBuy)}
	if len(m.transactions.Items) == 0 {
		return in
	}
	sel := m.transactions.Items[clamp(m.txRow, len(m.transactions.Items))]
	in.Ticker = sel.Ticker
	in.Currency = sel.Currency
	if sel.Type != "" {
		in.Type = string(sel.Type)
	}
	return in
}

var transactionColumns = []column{
	{title: "Date", width: 10},
	{title: "Type", width: 12},
	{title: "Ticker", width: 10},
	{title: "Qty", width: 12, right: true},
	{title: "Price", width: 14, right: true},
	{title: "Amount", width: 16, right: true},
}

func transactionCells(tx api.Transaction) []string {
	qty, price := "", ""
	if !tx.Qty.IsZero() {
		qty = api.FormatQty(tx.Qty.Decimal)
	}
	if !tx.Price.IsZero() {
		price = api.FormatMoney(tx.Price.Decimal, tx.Currency)
	}
	return []string{
		tx.Date,
		titleCase(string(tx.Type)),
		tx.Ticker,
		qty,
		price,
		signed(tx.Amount.Decimal, api.FormatMoney(tx.Amount.Decimal, tx.Currency)),
	}
}

// renderTransactions lists transactions in store order, which is server
// order followed by anything appended since the last load.
func (m Model) renderTransactions() string {
	st := m.transactions
	if len(st.Items) == 0 {
		switch {
		case st.Loading:
			return m.renderEmpty("Loading transactions…")
		case st.Err != nil:
			return m.renderEmpty(st.Err.Error() + "  (a to add)")
		default:
			return m.renderEmpty("No transactions  (a to add)")
		}
	}

	styles := m.theme.Styles()
	innerWidth := m.width - 2
	noteWidth := innerWidth - sumWidths(transactionColumns) - len(transactionColumns) - 1
	cols := transactionColumns
	if noteWidth >= 8 {
		cols = append(append([]column(nil), cols...), column{title: "Note", width: noteWidth})
	}

	bodyHeight := max(m.contentHeight()-4, 1)
	lines := []string{
		styles.MutedText.Render(renderCells(cols, columnTitles(cols))),
		styles.FaintText.Render(strings.Repeat("─", innerWidth)),
	}

	start, end := window(m.txRow, len(st.Items), bodyHeight)
	for i := start; i < end; i++ {
		tx := st.Items[i]
		cells := append(transactionCells(tx), tx.Note)
		if i == m.txRow {
			lines = append(lines, styles.Selected.Width(innerWidth).Render(renderCells(cols, cells)))
			continue
		}
		lines = append(lines, m.renderTransactionRow(cols, cells, tx))
	}

	title := fmt.Sprintf("Transactions (%d)", len(st.Items))
	if st.Err != nil {
		title += " · " + st.Err.Message
	}
	return m.renderTitledBox(title, strings.Join(lines, "\n"), m.width, m.contentHeight())
}

// renderTransactionRow colors the type column by transaction type and the
// amount by sign.
func (m Model) renderTransactionRow(cols []column, cells []string, tx api.Transaction) string {
	text := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Text))
	typeColor := m.theme.TypeColors[string(tx.Type)]
	if typeColor == "" {
		typeColor = m.theme.Muted
	}
	parts := make([]string, len(cols))
	for i, c := range cols {
		single := renderCells([]column{c}, []string{cells[i]})
		switch c.title {
		case "Type":
			parts[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(typeColor)).Render(single)
		case "Amount":
			parts[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SignColor(tx.Amount.Sign()))).Render(single)
		default:
			parts[i] = text.Render(single)
		}
	}
	return strings.Join(parts, " ")
}
