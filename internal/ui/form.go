package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/folio/internal/api"
)

type formField int

const (
	fieldDate formField = iota
	fieldType
	fieldTicker
	fieldQty
	fieldPrice
	fieldAmount
	fieldCurrency
	fieldNote
	fieldID
	fieldCount
)

var formLabels = [fieldCount]string{
	fieldDate:     "Date",
	fieldType:     "Type",
	fieldTicker:   "Ticker",
	fieldQty:      "Qty",
	fieldPrice:    "Price",
	fieldAmount:   "Amount",
	fieldCurrency: "Currency",
	fieldNote:     "Note",
	fieldID:       "ID",
}

// transactionForm collects a new transaction. Enter submits from any field;
// validation errors keep the form open.
type transactionForm struct {
	inputs [fieldCount]textinput.Model
	focus  formField
	now    func() time.Time
	err    string
}

func newTransactionForm(now func() time.Time, defaults api.TransactionInput) *transactionForm {
	f := &transactionForm{now: now}
	placeholders := [fieldCount]string{
		fieldDate:     now().Format("2006-01-02"),
		fieldType:     joinTypes(),
		fieldTicker:   "AAPL",
		fieldQty:      "10",
		fieldPrice:    "189.50",
		fieldAmount:   "derived for buy/sell",
		fieldCurrency: "USD",
		fieldNote:     "",
		fieldID:       "generated when empty",
	}
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholders[i]
		in.CharLimit = 64
		in.Width = 32
		f.inputs[i] = in
	}
	f.inputs[fieldType].SetValue(defaults.Type)
	f.inputs[fieldTicker].SetValue(defaults.Ticker)
	f.inputs[fieldCurrency].SetValue(defaults.Currency)
	return f
}

func joinTypes() string {
	types := api.TransactionTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, "/")
}

func (f *transactionForm) Init() tea.Cmd {
	return f.inputs[f.focus].Focus()
}

// input returns the form contents as typed.
func (f *transactionForm) input() api.TransactionInput {
	v := func(field formField) string { return f.inputs[field].Value() }
	return api.TransactionInput{
		ID:       v(fieldID),
		Date:     v(fieldDate),
		Ticker:   v(fieldTicker),
		Type:     v(fieldType),
		Qty:      v(fieldQty),
		Price:    v(fieldPrice),
		Amount:   v(fieldAmount),
		Currency: v(fieldCurrency),
		Note:     v(fieldNote),
	}
}

func (f *transactionForm) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, keys.Cancel):
			return f, nil, true
		case key.Matches(k, keys.Confirm):
			tx, err := f.input().Build(f.now())
			if err != nil {
				f.err = err.Error()
				return f, nil, false
			}
			return f, func() tea.Msg { return submitTransactionMsg{tx: tx} }, true
		case key.Matches(k, keys.NextField):
			return f, f.moveFocus(1), false
		case key.Matches(k, keys.PrevField):
			return f, f.moveFocus(-1), false
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd, false
}

func (f *transactionForm) moveFocus(delta int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = formField((int(f.focus) + delta + int(fieldCount)) % int(fieldCount))
	return f.inputs[f.focus].Focus()
}

func (f *transactionForm) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Muted)).Width(10)
	activeLabel := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Accent)).Bold(true).Width(10)

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Add transaction"))
	b.WriteString("\n\n")
	for i := range f.inputs {
		label := labelStyle
		if formField(i) == f.focus {
			label = activeLabel
		}
		b.WriteString(label.Render(formLabels[i]))
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if f.err != "" {
		b.WriteString(styles.DangerText.Render(f.err))
		b.WriteString("\n")
	}
	km := DefaultKeyMap()
	b.WriteString(styles.FaintText.Render(fmt.Sprintf("%s submit  %s next  %s cancel",
		km.Confirm.Help().Key, km.NextField.Help().Key, km.Cancel.Help().Key)))
	return placeModal(theme, width, height, 52, b.String())
}
