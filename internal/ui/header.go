package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/folio/internal/store"
)

// storeStatus is what the header shows for one store.
type storeStatus struct {
	label   string
	count   int
	loading bool
	err     *store.ErrorInfo
	updated time.Time
}

func statusOf[T any](label string, st store.State[T]) storeStatus {
	return storeStatus{
		label:   label,
		count:   len(st.Items),
		loading: st.Loading,
		err:     st.Err,
		updated: st.UpdatedAt,
	}
}

func (m Model) storeStatuses() []storeStatus {
	return []storeStatus{
		statusOf("Portfolio", m.portfolio),
		statusOf("Securities", m.securities),
		statusOf("Transactions", m.transactions),
	}
}

// renderHeader renders the status bar: logo, view, backend and one
// indicator per store.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	parts := []string{
		bg.Render("folio", styles.Logo),
		bg.Render(m.viewTitle(), styles.AccentText),
	}

	var latest time.Time
	for _, st := range m.storeStatuses() {
		parts = append(parts, m.renderIndicator(st, styles, bg, compact))
		if st.updated.After(latest) {
			latest = st.updated
		}
	}

	if !compact && m.apiURL != "" {
		parts = append(parts, bg.Render(truncateMiddle(m.apiURL, 32), styles.FaintText))
	}
	if !latest.IsZero() {
		parts = append(parts, bg.Render(latest.Format("15:04:05"), styles.MutedText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

func (m Model) renderIndicator(st storeStatus, styles Styles, bg BgStyle, compact bool) string {
	label := st.label
	if compact {
		label = st.label[:1]
	}
	out := bg.Render(label, styles.MutedText) + bg.Space() +
		bg.Render(fmt.Sprintf("%d", st.count), styles.Text)
	switch {
	case st.loading:
		out += bg.Space() + bg.Render("…", styles.WarningText)
	case st.err != nil:
		out += bg.Space() + bg.Render("!", styles.DangerText)
	}
	return out
}

func (m Model) viewTitle() string {
	if m.currentView == ViewInstrument && m.ticker != "" {
		return m.ticker
	}
	return m.currentView.String()
}

// renderCommandBar renders the key hints for the current view, or the
// latest flash message.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	bar := lipgloss.NewStyle().Background(lipgloss.Color(m.theme.Surface)).Width(m.width)

	if m.flash != "" {
		style := styles.SuccessText
		if m.flashErr {
			style = styles.DangerText
		}
		return bar.Render(bg.Space() + bg.Render(truncate(m.flash, m.width-2), style))
	}

	type cmd struct{ key, desc string }
	var commands []cmd
	switch m.currentView {
	case ViewPortfolio:
		commands = []cmd{{"j/k", "Navigate"}, {"enter", "History"}, {"r", "Reload"}}
	case ViewTransactions:
		commands = []cmd{{"j/k", "Navigate"}, {"a", "Add"}, {"r", "Reload"}}
	case ViewInstrument:
		commands = []cmd{{"j/k", "Scroll"}, {"esc", "Portfolio"}, {"r", "Reload"}}
	case ViewLogs:
		follow := "Pause"
		if !m.logs.follow {
			follow = "Follow"
		}
		commands = []cmd{{"Space", follow}, {"j/k", "Scroll"}, {"r", "Reload"}}
	default:
		commands = []cmd{{"r", "Reload"}}
	}
	commands = append(commands,
		cmd{"1-4", "Views"},
		cmd{":", "Go to"},
		cmd{"?", "More"},
	)

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands))
	for _, c := range commands {
		segments = append(segments, bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	return bar.Render(bg.Space() + bg.Join(segments, "  "))
}
