package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/five82/folio/internal/api"
	"github.com/five82/folio/internal/prefs"
	"github.com/five82/folio/internal/router"
	"github.com/five82/folio/internal/store"
)

// View represents the current active view.
type View int

const (
	ViewHome View = iota
	ViewPortfolio
	ViewTransactions
	ViewInstrument
	ViewLogs
)

func (v View) String() string {
	switch v {
	case ViewPortfolio:
		return "Portfolio"
	case ViewTransactions:
		return "Transactions"
	case ViewInstrument:
		return "Instrument"
	case ViewLogs:
		return "Logs"
	default:
		return "Home"
	}
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Stores    *store.Set
	Logger    zerolog.Logger
	LogFile   string
	APIURL    string
	Prefs     prefs.Prefs
	PrefsPath string
	// StartPath is resolved through the router; empty opens Home.
	StartPath   string
	RefreshTick time.Duration
	// Now stamps new transactions; nil uses time.Now.
	Now func() time.Time
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	stores    *store.Set
	logger    zerolog.Logger
	logFile   string
	apiURL    string
	prefs     prefs.Prefs
	prefsPath string
	tick      time.Duration
	now       func() time.Time
	keys      keyMap

	// UI state
	theme       Theme
	currentView View
	ticker      string
	width       int
	height      int
	ready       bool
	md          *markdownCache

	// Data state, copied from the stores on every refresh tick
	portfolio    store.State[api.Holding]
	securities   store.State[api.Security]
	transactions store.State[api.Transaction]

	// Selection
	portfolioRow  int
	txRow         int
	historyOffset int

	logs logState

	// Overlays
	showHelp bool
	modal    Modal

	flash     string
	flashErr  bool
	flashedAt time.Time
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	tick := opts.RefreshTick
	if tick <= 0 {
		tick = DefaultRefreshTick
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	userPrefs := opts.Prefs
	if userPrefs.Theme == "" {
		userPrefs = prefs.Defaults()
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	m := Model{
		ctx:       ctx,
		stores:    opts.Stores,
		logger:    opts.Logger,
		logFile:   opts.LogFile,
		apiURL:    opts.APIURL,
		prefs:     userPrefs,
		prefsPath: prefsPath,
		tick:      tick,
		now:       now,
		keys:      DefaultKeyMap(),
		theme:     GetTheme(userPrefs.Theme),
		md:        &markdownCache{},
		logs:      newLogState(userPrefs.LogLines),
	}
	m.readSnapshots()

	if path := strings.TrimSpace(opts.StartPath); path != "" {
		m, _ = m.navigate(path)
	}
	return m
}

// Init implements tea.Model. The first loads come from the poller, so Init
// only starts the refresh tick and any view-specific reads.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.tick)}
	if m.currentView == ViewLogs {
		cmds = append(cmds, m.readLogsCmd())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeLogs()
		return m, nil

	case tickMsg:
		return m.handleTick(time.Time(msg))

	case loadedMsg:
		m.readSnapshots()
		return m, nil

	case submitTransactionMsg:
		m.modal = nil
		return m, m.appendCmd(msg.tx)

	case appendedMsg:
		m.readSnapshots()
		if msg.err != nil {
			m.setFlash(msg.err.Error(), true)
		} else {
			m.setFlash("Added "+describeTransaction(msg.tx), false)
			m.txRow = max(len(m.transactions.Items)-1, 0)
		}
		return m, nil

	case gotoMsg:
		m.modal = nil
		return m.navigate(msg.path)

	case logsMsg:
		m.handleLogs(msg)
		return m, nil
	}

	if m.modal != nil {
		return m.updateModal(msg)
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.modal != nil {
		return m.updateModal(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.savePrefs()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		return m, m.mountCmd()

	case key.Matches(msg, m.keys.GoTo):
		m.modal = newPathPrompt(m.currentPath())
		return m, m.modal.Init()

	case key.Matches(msg, m.keys.ViewHome):
		return m.navigate(router.MustPath(router.HomePage, nil))

	case key.Matches(msg, m.keys.ViewPortfolio):
		return m.navigate(router.MustPath(router.PortfolioPage, nil))

	case key.Matches(msg, m.keys.ViewTransactions):
		return m.navigate(router.MustPath(router.Transactions, nil))

	case key.Matches(msg, m.keys.ViewLogs):
		m.currentView = ViewLogs
		return m, m.readLogsCmd()

	case key.Matches(msg, m.keys.Escape):
		back := router.HomePage
		if m.currentView == ViewInstrument {
			back = router.PortfolioPage
		}
		return m.navigate(router.MustPath(back, nil))
	}

	switch m.currentView {
	case ViewPortfolio:
		return m.handlePortfolioKey(msg)
	case ViewTransactions:
		return m.handleTransactionsKey(msg)
	case ViewInstrument:
		return m.handleInstrumentKey(msg)
	case ViewLogs:
		return m.handleLogsKey(msg)
	}
	return m, nil
}

func (m Model) updateModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd, done := m.modal.Update(msg, m.keys)
	if done {
		m.modal = nil
	} else {
		m.modal = next
	}
	return m, cmd
}

// navigate resolves path and switches to its view, loading the stores the
// view reads from. Unknown paths leave the view unchanged.
func (m Model) navigate(path string) (Model, tea.Cmd) {
	match, ok := router.Resolve(path)
	if !ok {
		m.setFlash("No view at "+strings.TrimSpace(path), true)
		return m, nil
	}

	switch match.Route.Name {
	case router.HomePage:
		m.currentView = ViewHome
	case router.PortfolioPage:
		m.currentView = ViewPortfolio
	case router.Transactions:
		m.currentView = ViewTransactions
	case router.InstrumentHistory:
		m.currentView = ViewInstrument
		m.ticker = strings.ToUpper(strings.TrimSpace(match.Param(router.ParamTicker)))
		m.historyOffset = 0
	}
	return m, m.mountCmd()
}

// currentPath is the router location of the current view, or "" for views
// the router does not know about.
func (m Model) currentPath() string {
	switch m.currentView {
	case ViewHome:
		return router.MustPath(router.HomePage, nil)
	case ViewPortfolio:
		return router.MustPath(router.PortfolioPage, nil)
	case ViewTransactions:
		return router.MustPath(router.Transactions, nil)
	case ViewInstrument:
		p, err := router.Path(router.InstrumentHistory, map[string]string{router.ParamTicker: m.ticker})
		if err != nil {
			return ""
		}
		return p
	default:
		return ""
	}
}

// mountCmd loads the stores the current view renders.
func (m Model) mountCmd() tea.Cmd {
	if m.stores == nil {
		return nil
	}
	switch m.currentView {
	case ViewHome:
		return tea.Batch(
			loadCmd(m.ctx, m.stores.Portfolio.Load),
			loadCmd(m.ctx, m.stores.Securities.Load),
			loadCmd(m.ctx, m.stores.Transactions.Load),
		)
	case ViewPortfolio:
		return loadCmd(m.ctx, m.stores.Portfolio.Load)
	case ViewTransactions:
		return loadCmd(m.ctx, m.stores.Transactions.Load)
	case ViewInstrument:
		return tea.Batch(
			loadCmd(m.ctx, m.stores.Securities.Load),
			loadCmd(m.ctx, m.stores.Portfolio.Load),
		)
	case ViewLogs:
		return m.readLogsCmd()
	}
	return nil
}

func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	m.readSnapshots()
	if m.flash != "" && now.Sub(m.flashedAt) > FlashDuration {
		m.flash = ""
	}

	cmds := []tea.Cmd{tickCmd(m.tick)}
	if m.currentView == ViewLogs && m.logs.follow {
		cmds = append(cmds, m.readLogsCmd())
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) readSnapshots() {
	if m.stores == nil {
		return
	}
	m.portfolio = m.stores.Portfolio.Snapshot()
	m.securities = m.stores.Securities.Snapshot()
	m.transactions = m.stores.Transactions.Snapshot()
	m.clampSelection()
}

func (m *Model) clampSelection() {
	m.portfolioRow = clamp(m.portfolioRow, len(m.portfolio.Items))
	m.txRow = clamp(m.txRow, len(m.transactions.Items))
}

func clamp(row, n int) int {
	if n == 0 || row < 0 {
		return 0
	}
	if row >= n {
		return n - 1
	}
	return row
}

func (m *Model) setFlash(text string, isErr bool) {
	m.flash = text
	m.flashErr = isErr
	m.flashedAt = m.now()
}

func (m *Model) savePrefs() {
	if path := m.currentPath(); path != "" {
		m.prefs.LastPath = path
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.logger.Warn().Err(err).Str("path", m.prefsPath).Msg("save prefs failed")
	}
}

// renderMain renders header, command bar and the active view.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	return b.String()
}

func (m Model) renderContent() string {
	switch m.currentView {
	case ViewPortfolio:
		return m.renderPortfolio()
	case ViewTransactions:
		return m.renderTransactions()
	case ViewInstrument:
		return m.renderInstrument()
	case ViewLogs:
		return m.renderLogs()
	default:
		return m.renderHome()
	}
}

// contentHeight is the space left under the header and command bar.
func (m Model) contentHeight() int {
	return max(m.height-2, 3)
}

// Messages

type tickMsg time.Time

type loadedMsg struct{}

type gotoMsg struct{ path string }

type submitTransactionMsg struct{ tx api.Transaction }

type appendedMsg struct {
	tx  api.Transaction
	err *store.ErrorInfo
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func loadCmd(ctx context.Context, load func(context.Context)) tea.Cmd {
	return func() tea.Msg {
		load(ctx)
		return loadedMsg{}
	}
}

func (m Model) appendCmd(tx api.Transaction) tea.Cmd {
	if m.stores == nil {
		return nil
	}
	transactions := m.stores.Transactions
	ctx := m.ctx
	return func() tea.Msg {
		return appendedMsg{tx: tx, err: transactions.TryAppend(ctx, tx)}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
