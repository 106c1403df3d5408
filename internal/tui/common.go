package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/timeledger/internal/export"
	"github.com/sadopc/timeledger/internal/ledger"
	"github.com/sadopc/timeledger/internal/log"
	"github.com/sadopc/timeledger/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDay viewState = iota
	viewAccounts
	viewSummary
	viewUnderlag
	viewSettings
)

var viewNames = []string{"Day", "Accounts", "Summary", "Underlag", "Settings"}

// env is shared by every view.
type env struct {
	store     *store.Store
	log       *log.Logger
	now       func() time.Time
	exportDir string
}

func (e env) today() string {
	return ledger.DateKey(e.now())
}

// --- Messages ---

// ledgerMsg carries a fresh snapshot after a load or a mutation.
type ledgerMsg struct {
	state  ledger.State
	prefs  store.Preferences
	status string
}

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

type importedMsg struct {
	previous ledger.State
	state    ledger.State
	prefs    store.Preferences
	info     export.BackupInfo
}

type chimeDoneMsg struct {
	text string
	err  error
}

// --- Commands ---

func loadLedger(e env) tea.Cmd {
	return func() tea.Msg {
		st, err := e.store.Load()
		if err != nil {
			return errStatus(e, log.OpLoad, "Load error", err)
		}
		prefs, err := e.store.Preferences()
		if err != nil {
			return errStatus(e, log.OpLoad, "Settings error", err)
		}
		return ledgerMsg{state: st, prefs: prefs}
	}
}

// mutate applies fn through the store and reports the new snapshot, or the
// rejection as a status line.
func mutate(e env, okText string, fn func(ledger.State) (ledger.State, error)) tea.Cmd {
	return func() tea.Msg {
		st, err := e.store.Update(fn)
		if err != nil {
			return errStatus(e, log.OpSave, "Error", err)
		}
		prefs, err := e.store.Preferences()
		if err != nil {
			return errStatus(e, log.OpLoad, "Settings error", err)
		}
		return ledgerMsg{state: st, prefs: prefs, status: okText}
	}
}

func errStatus(e env, op, prefix string, err error) statusMsg {
	e.log.Warn("operation failed", log.FieldOperation, op, log.FieldError, err)
	return statusMsg{text: fmt.Sprintf("%s: %v", prefix, err), isError: true}
}

func statusCmd(text string, isError bool) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text, isError: isError} }
}

// --- Helpers ---

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func formatTimestamp(ts *int64) string {
	if ts == nil {
		return "—"
	}
	return time.UnixMilli(*ts).Format("15:04")
}

func clampCursor(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	return max(0, cursor)
}
