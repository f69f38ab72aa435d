package ui

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/folio/internal/api"
	"github.com/five82/folio/internal/prefs"
	"github.com/five82/folio/internal/store"
)

// backend is a scriptable stand-in for the portfolio API.
type backend struct {
	mu         sync.Mutex
	status     map[string]int
	bodies     map[string]string
	posted     []map[string]any
	postStatus int
}

func newBackend(t *testing.T) (*backend, *store.Set) {
	t.Helper()
	b := &backend{
		status: map[string]int{},
		bodies: map[string]string{
			"/portfolio":    `[{"ticker":"AAPL","name":"Apple Inc.","qty":10,"avgCost":100,"price":123.45,"currency":"USD"}]`,
			"/securities":   `[{"ticker":"AAPL","name":"Apple Inc.","currency":"USD","exchange":"NASDAQ","history":[{"date":"2024-05-02","close":"110"},{"date":"2024-05-01","close":"100"},{"date":"2024-05-03","close":"123.45"}]}]`,
			"/transactions": `[{"id":1,"date":"2024-05-01","ticker":"AAPL","type":"buy","qty":10,"price":100,"amt":-1000,"currency":"USD"}]`,
		},
		postStatus: http.StatusCreated,
	}
	srv := httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(srv.Close)

	client, err := api.NewClient(srv.URL)
	require.NoError(t, err)
	return b, store.NewSet(client, store.Options{})
}

func (b *backend) serve(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if r.Method == http.MethodPost {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(raw, &body)
		b.posted = append(b.posted, body)
		w.WriteHeader(b.postStatus)
		_, _ = w.Write([]byte(`{}`))
		return
	}
	if code := b.status[r.URL.Path]; code != 0 {
		http.Error(w, "boom", code)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(b.bodies[r.URL.Path]))
}

func (b *backend) postedBodies() []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]map[string]any(nil), b.posted...)
}

func (b *backend) fail(path string, code int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status[path] = code
}

var fixedNow = func() time.Time { return time.Date(2024, 5, 6, 12, 0, 0, 0, time.UTC) }

func newTestModel(t *testing.T, stores *store.Set, opts Options) Model {
	t.Helper()
	opts.Stores = stores
	opts.Now = fixedNow
	if opts.PrefsPath == "" {
		opts.PrefsPath = filepath.Join(t.TempDir(), "prefs.toml")
	}
	m := New(opts)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	return next.(Model)
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// run executes cmd and any batched commands, returning their messages.
func run(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(t, c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// feed runs cmd, delivers its messages back into the model and follows the
// commands those updates return. None of the flows under test schedule ticks.
func feed(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for _, msg := range run(t, cmd) {
		if msg == nil {
			continue
		}
		next, follow := m.Update(msg)
		m = feed(t, next.(Model), follow)
	}
	return m
}

func press(t *testing.T, m Model, k tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(k)
	return next.(Model), cmd
}

func TestNew_StartPathResolvesInstrument(t *testing.T) {
	m := New(Options{StartPath: "/instrument/aapl", PrefsPath: filepath.Join(t.TempDir(), "p.toml")})
	assert.Equal(t, ViewInstrument, m.currentView)
	assert.Equal(t, "AAPL", m.ticker)
	assert.Equal(t, "/instrument/AAPL", m.currentPath())
}

func TestNew_UnknownStartPathStaysHome(t *testing.T) {
	m := New(Options{StartPath: "/nowhere", Now: fixedNow, PrefsPath: filepath.Join(t.TempDir(), "p.toml")})
	assert.Equal(t, ViewHome, m.currentView)
	assert.True(t, m.flashErr)
	assert.Contains(t, m.flash, "/nowhere")
}

func TestNavigateKey_LoadsPortfolioAndRenders(t *testing.T) {
	_, stores := newBackend(t)
	m := newTestModel(t, stores, Options{})

	m, cmd := press(t, m, keyRunes("2"))
	require.Equal(t, ViewPortfolio, m.currentView)
	require.NotNil(t, cmd, "entering a view should load its store")

	m = feed(t, m, cmd)
	require.Len(t, m.portfolio.Items, 1)

	out := m.View()
	assert.Contains(t, out, "AAPL")
	assert.Contains(t, out, "$1,234.50")
	assert.Contains(t, out, "+$234.50")
	assert.Contains(t, out, "+23.45%")
}

func TestPortfolio_EnterOpensInstrumentHistory(t *testing.T) {
	_, stores := newBackend(t)
	m := newTestModel(t, stores, Options{StartPath: "/portfolio"})
	m = feed(t, m, m.mountCmd())

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, ViewInstrument, m.currentView)
	assert.Equal(t, "AAPL", m.ticker)

	m = feed(t, m, cmd)
	out := m.View()
	assert.Contains(t, out, "NASDAQ")
	assert.Contains(t, out, "2024-05-01 → 2024-05-03")
	assert.Contains(t, out, "+23.45%")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewPortfolio, m.currentView)
}

func TestLoadFailure_KeepsStaleRowsAndFlagsHeader(t *testing.T) {
	be, stores := newBackend(t)
	m := newTestModel(t, stores, Options{StartPath: "/portfolio"})
	m = feed(t, m, m.mountCmd())
	require.Len(t, m.portfolio.Items, 1)

	be.fail("/portfolio", http.StatusInternalServerError)
	m, cmd := press(t, m, keyRunes("r"))
	m = feed(t, m, cmd)

	require.NotNil(t, m.portfolio.Err)
	assert.Equal(t, store.LoadFailed, m.portfolio.Err.Kind)
	out := m.View()
	assert.Contains(t, out, "AAPL", "stale rows stay visible")
	assert.Contains(t, out, "Failed to load portfolio")
}

func TestAddTransaction_AppendsThroughStore(t *testing.T) {
	be, stores := newBackend(t)
	m := newTestModel(t, stores, Options{StartPath: "/transactions"})
	m = feed(t, m, m.mountCmd())
	require.Len(t, m.transactions.Items, 1)

	m, _ = press(t, m, keyRunes("a"))
	form, ok := m.modal.(*transactionForm)
	require.True(t, ok, "a should open the add form")
	assert.Equal(t, "AAPL", form.inputs[fieldTicker].Value(), "form copies the selected ticker")

	form.inputs[fieldTicker].SetValue("msft")
	form.inputs[fieldQty].SetValue("2")
	form.inputs[fieldPrice].SetValue("300")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, m.modal)

	// submit -> append -> appended
	m = feed(t, m, cmd)

	posted := be.postedBodies()
	require.Len(t, posted, 1)
	assert.Equal(t, "MSFT", posted[0]["ticker"])
	assert.Equal(t, float64(-600), posted[0]["amt"])
	assert.Equal(t, "2024-05-06", posted[0]["date"])

	require.Len(t, m.transactions.Items, 2)
	assert.Equal(t, "MSFT", m.transactions.Items[1].Ticker)
	assert.Equal(t, 1, m.txRow, "selection follows the new row")
	assert.False(t, m.flashErr)
	assert.Contains(t, m.flash, "Added buy 2 MSFT")
}

func TestAddTransaction_ValidationKeepsFormOpen(t *testing.T) {
	_, stores := newBackend(t)
	m := newTestModel(t, stores, Options{StartPath: "/transactions"})

	m, _ = press(t, m, keyRunes("a"))
	form := m.modal.(*transactionForm)
	form.inputs[fieldType].SetValue("buy")
	form.inputs[fieldTicker].SetValue("")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	require.NotNil(t, m.modal)
	assert.Contains(t, m.modal.(*transactionForm).err, "ticker")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, m.modal)
	assert.Equal(t, ViewTransactions, m.currentView)
}

func TestAddTransaction_RejectedByServer(t *testing.T) {
	be, stores := newBackend(t)
	be.postStatus = http.StatusUnprocessableEntity
	m := newTestModel(t, stores, Options{StartPath: "/transactions"})
	m = feed(t, m, m.mountCmd())

	tx, err := api.TransactionInput{Type: "deposit", Amount: "50"}.Build(fixedNow())
	require.NoError(t, err)
	next, cmd := m.Update(submitTransactionMsg{tx: tx})
	m = feed(t, next.(Model), cmd)

	assert.True(t, m.flashErr)
	assert.Contains(t, m.flash, "Failed to add transaction")
	assert.Len(t, m.transactions.Items, 1, "rejected item is not added")
	require.NotNil(t, m.transactions.Err)
	assert.Equal(t, store.AppendFailed, m.transactions.Err.Kind)
}

func TestGoToPrompt(t *testing.T) {
	_, stores := newBackend(t)
	m := newTestModel(t, stores, Options{})

	m, _ = press(t, m, keyRunes(":"))
	prompt, ok := m.modal.(*pathPrompt)
	require.True(t, ok)
	assert.Equal(t, "/", prompt.input.Value())

	prompt.input.SetValue("/nope")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	require.NotNil(t, m.modal)
	assert.Contains(t, m.modal.(*pathPrompt).err, "/nope")

	m.modal.(*pathPrompt).input.SetValue("/transactions/")
	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, m.modal)
	m = feed(t, m, cmd)
	assert.Equal(t, ViewTransactions, m.currentView)
}

func TestHomeMarkdown_SummarisesStores(t *testing.T) {
	be, stores := newBackend(t)
	be.fail("/securities", http.StatusBadGateway)
	m := newTestModel(t, stores, Options{APIURL: "http://backend:8000"})
	m = feed(t, m, m.mountCmd())

	md := m.homeMarkdown()
	assert.Contains(t, md, "**1** positions")
	assert.Contains(t, md, "| USD | $1,234.50 | $1,000.00 | +$234.50 | +23.45% |")
	assert.Contains(t, md, "- **Transactions:** 1")
	assert.Contains(t, md, "Failed to load securities (HTTP 502)")
	assert.Contains(t, md, "`http://backend:8000`")

	assert.NotEmpty(t, m.renderHome())
}

func TestThemeCycle_PersistsPrefs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	m := newTestModel(t, nil, Options{PrefsPath: path, Prefs: prefs.Prefs{Theme: "Nightfox"}, StartPath: "/portfolio"})

	m, _ = press(t, m, keyRunes("T"))
	assert.Equal(t, "Kanagawa", m.theme.Name)

	saved, err := prefs.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Kanagawa", saved.Theme)
	assert.Equal(t, "/portfolio", saved.LastPath)
}

func TestLogsView_DecodesZerologFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "folio.log")
	lines := []string{
		`{"level":"info","app":"folio","component":"poller","time":"2024-05-06T12:00:00Z","message":"runtime ready"}`,
		`{"level":"error","app":"folio","component":"store","resource":"portfolio","op":"load","status":500,"error":"boom","time":"2024-05-06T12:00:01Z","message":"load failed"}`,
	}
	require.NoError(t, os.WriteFile(logFile, []byte(strings.Join(lines, "\n")+"\n"), 0o644))

	m := newTestModel(t, nil, Options{LogFile: logFile})
	m, cmd := press(t, m, keyRunes("4"))
	require.Equal(t, ViewLogs, m.currentView)
	m = feed(t, m, cmd)

	require.Len(t, m.logs.entries, 2)
	out := m.formatLogEntries()
	assert.Contains(t, out, "ERR")
	assert.Contains(t, out, "portfolio/load")
	assert.Contains(t, out, "status=500")

	m, _ = press(t, m, keyRunes(" "))
	assert.False(t, m.logs.follow)
}

func TestMountCmd_NilStores(t *testing.T) {
	m := New(Options{Context: context.Background(), PrefsPath: filepath.Join(t.TempDir(), "p.toml")})
	assert.Nil(t, m.mountCmd())
	assert.Nil(t, m.appendCmd(api.Transaction{}))
}
