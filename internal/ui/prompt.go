package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/folio/internal/router"
)

// pathPrompt asks for a router path such as /instrument/AAPL.
type pathPrompt struct {
	input textinput.Model
	err   string
}

func newPathPrompt(current string) *pathPrompt {
	in := textinput.New()
	in.Prompt = ": "
	in.Placeholder = "/instrument/AAPL"
	in.CharLimit = 128
	in.Width = 40
	if current == "" {
		current = "/"
	}
	in.SetValue(current)
	in.CursorEnd()
	return &pathPrompt{input: in}
}

func (p *pathPrompt) Init() tea.Cmd {
	return p.input.Focus()
}

func (p *pathPrompt) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, keys.Cancel):
			return p, nil, true
		case key.Matches(k, keys.Confirm):
			path := strings.TrimSpace(p.input.Value())
			if _, ok := router.Resolve(path); !ok {
				p.err = "No view at " + path
				return p, nil, false
			}
			return p, func() tea.Msg { return gotoMsg{path: path} }, true
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	p.err = ""
	return p, cmd, false
}

func (p *pathPrompt) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Go to"))
	b.WriteString("\n\n")
	b.WriteString(p.input.View())
	b.WriteString("\n\n")
	if p.err != "" {
		b.WriteString(styles.DangerText.Render(p.err))
		b.WriteString("\n")
	}
	routes := router.Routes()
	patterns := make([]string, 0, len(routes))
	for _, r := range routes {
		patterns = append(patterns, r.Pattern)
	}
	b.WriteString(styles.FaintText.Render(strings.Join(patterns, "  ")))
	return placeModal(theme, width, height, 56, b.String())
}
