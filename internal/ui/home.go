package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/five82/folio/internal/api"
)

// markdownCache keeps one glamour renderer per wrap width.
type markdownCache struct {
	width    int
	renderer *glamour.TermRenderer
}

func (c *markdownCache) render(md string, width int) (string, error) {
	if c.renderer == nil || c.width != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return "", err
		}
		c.renderer, c.width = r, width
	}
	return c.renderer.Render(md)
}

func (m Model) renderHome() string {
	md := m.homeMarkdown()
	out, err := m.md.render(md, max(m.width-4, 20))
	if err != nil {
		m.logger.Debug().Err(err).Msg("markdown render failed")
		return md
	}
	return out
}

// homeMarkdown is the overview document shown on the Home view.
func (m Model) homeMarkdown() string {
	var b strings.Builder
	b.WriteString("# Overview\n\n")

	holdings := m.portfolio.Items
	switch {
	case len(holdings) == 0 && m.portfolio.Loading:
		b.WriteString("_Loading portfolio…_\n\n")
	case len(holdings) == 0:
		b.WriteString("_No holdings yet._\n\n")
	default:
		fmt.Fprintf(&b, "**%d** positions\n\n", len(holdings))
		b.WriteString("| Currency | Market value | Cost basis | P/L | P/L % |\n")
		b.WriteString("|---|---:|---:|---:|---:|\n")
		for _, t := range totalsByCurrency(holdings) {
			code := t.Currency
			if code == "" {
				code = "-"
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				code,
				api.FormatMoney(t.Value, t.Currency),
				api.FormatMoney(t.Cost, t.Currency),
				signed(t.Gain(), api.FormatMoney(t.Gain(), t.Currency)),
				formatPercent(api.PercentChange(t.Cost, t.Value)),
			)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Activity\n\n")
	fmt.Fprintf(&b, "- **Securities tracked:** %d\n", len(m.securities.Items))
	fmt.Fprintf(&b, "- **Transactions:** %d\n", len(m.transactions.Items))
	if n := len(m.transactions.Items); n > 0 {
		last := m.transactions.Items[n-1]
		fmt.Fprintf(&b, "- **Latest:** %s %s\n", last.Date, describeTransaction(last))
	}
	b.WriteString("\n")

	b.WriteString("## Data\n\n")
	b.WriteString("| Resource | Items | State | Updated |\n")
	b.WriteString("|---|---:|---|---|\n")
	for _, st := range m.storeStatuses() {
		state := "ok"
		switch {
		case st.loading:
			state = "loading"
		case st.err != nil:
			state = st.err.Message
			if st.err.Status != 0 {
				state += fmt.Sprintf(" (HTTP %d)", st.err.Status)
			}
		case st.updated.IsZero():
			state = "not loaded"
		}
		updated := "-"
		if !st.updated.IsZero() {
			updated = st.updated.Format("15:04:05")
		}
		fmt.Fprintf(&b, "| %s | %d | %s | %s |\n", st.label, st.count, state, updated)
	}
	if m.apiURL != "" {
		fmt.Fprintf(&b, "\nBackend: `%s`\n", m.apiURL)
	}
	return b.String()
}
