package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/folio/internal/logtail"
)

// logState holds the Logs view.
type logState struct {
	follow   bool
	maxLines int
	entries  []logtail.Entry
	err      error
	viewport viewport.Model
}

func newLogState(maxLines int) logState {
	if maxLines <= 0 {
		maxLines = LogDefaultLines
	}
	return logState{follow: true, maxLines: maxLines, viewport: viewport.New(80, 20)}
}

type logsMsg struct {
	entries []logtail.Entry
	err     error
}

func (m Model) readLogsCmd() tea.Cmd {
	path, limit := m.logFile, m.logs.maxLines
	return func() tea.Msg {
		if path == "" {
			return logsMsg{}
		}
		lines, err := logtail.Read(path, limit)
		return logsMsg{entries: logtail.ParseAll(lines), err: err}
	}
}

func (m *Model) handleLogs(msg logsMsg) {
	m.logs.err = msg.err
	if msg.err == nil {
		m.logs.entries = msg.entries
	}
	m.logs.viewport.SetContent(m.formatLogEntries())
	if m.logs.follow {
		m.logs.viewport.GotoBottom()
	}
}

func (m *Model) resizeLogs() {
	m.logs.viewport.Width = max(m.width-2, 10)
	m.logs.viewport.Height = max(m.contentHeight()-2, 1)
	m.logs.viewport.SetContent(m.formatLogEntries())
	if m.logs.follow {
		m.logs.viewport.GotoBottom()
	}
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logs.follow = !m.logs.follow
		if m.logs.follow {
			m.logs.viewport.GotoBottom()
			return m, m.readLogsCmd()
		}
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.logs.follow = false
		m.logs.viewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.logs.viewport.GotoBottom()
		return m, nil
	}

	// Any manual scroll pauses follow mode.
	if key.Matches(msg, m.keys.Up, m.keys.PageUp) {
		m.logs.follow = false
	}
	var cmd tea.Cmd
	m.logs.viewport, cmd = m.logs.viewport.Update(msg)
	return m, cmd
}

func (m Model) renderLogs() string {
	title := "Logs"
	if m.logFile != "" {
		title += " · " + truncateMiddle(m.logFile, 48)
	}
	if !m.logs.follow {
		title += " · paused"
	}

	content := m.logs.viewport.View()
	switch {
	case m.logFile == "":
		content = m.theme.Styles().MutedText.Render("Logging to the console; no log file to show")
	case m.logs.err != nil:
		content = m.theme.Styles().DangerText.Render(m.logs.err.Error())
	case len(m.logs.entries) == 0:
		content = m.theme.Styles().MutedText.Render("No log entries yet")
	}
	return m.renderTitledBox(title, content, m.width, m.contentHeight())
}

// formatLogEntries renders decoded lines as
// "15:04:05 ERR store portfolio/load message error=… status=500".
func (m Model) formatLogEntries() string {
	styles := m.theme.Styles()
	lines := make([]string, 0, len(m.logs.entries))
	for _, e := range m.logs.entries {
		if e.Level == "" && e.Time.IsZero() {
			lines = append(lines, styles.MutedText.Render(e.Message))
			continue
		}
		var b strings.Builder
		if !e.Time.IsZero() {
			b.WriteString(styles.FaintText.Render(e.Time.Local().Format("15:04:05")))
			b.WriteString(" ")
		}
		b.WriteString(m.levelStyle(e.Level).Render(levelTag(e.Level)))
		if e.Component != "" {
			b.WriteString(" ")
			b.WriteString(styles.AccentText.Render(e.Component))
		}
		if e.Resource != "" || e.Op != "" {
			b.WriteString(" ")
			b.WriteString(styles.InfoText.Render(strings.Trim(e.Resource+"/"+e.Op, "/")))
		}
		b.WriteString(" ")
		b.WriteString(styles.Text.Render(e.Message))
		if e.Error != "" {
			b.WriteString(" ")
			b.WriteString(styles.DangerText.Render("error=" + e.Error))
		}
		for _, k := range e.FieldKeys() {
			b.WriteString(" ")
			b.WriteString(styles.MutedText.Render(fmt.Sprintf("%s=%s", k, e.Fields[k])))
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

func levelTag(level string) string {
	switch strings.ToLower(level) {
	case "debug":
		return "DBG"
	case "info":
		return "INF"
	case "warn":
		return "WRN"
	case "error":
		return "ERR"
	case "fatal", "panic":
		return "FTL"
	case "":
		return "---"
	default:
		return strings.ToUpper(level)
	}
}

func (m Model) levelStyle(level string) lipgloss.Style {
	styles := m.theme.Styles()
	switch strings.ToLower(level) {
	case "error", "fatal", "panic":
		return styles.DangerText
	case "warn":
		return styles.WarningText
	case "info":
		return styles.SuccessText
	default:
		return styles.FaintText
	}
}
