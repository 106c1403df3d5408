package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/timeledger/internal/export"
	"github.com/sadopc/timeledger/internal/ledger"
	"github.com/sadopc/timeledger/internal/locale"
	"github.com/sadopc/timeledger/internal/log"
	"github.com/sadopc/timeledger/internal/store"
)

var exportFormats = []string{"CSV", "JSON", "HTML"}

type underlagModel struct {
	env    env
	width  int
	height int

	state ledger.State
	prefs store.Preferences
	fmt   locale.Formatter

	month    ledger.Period
	accounts []ledger.Account
	selector int // 0 is every account, otherwise accounts[selector-1]

	billing ledger.Billing

	picking      bool
	exportCursor int
}

func newUnderlagModel(e env) underlagModel {
	p, _ := ledger.NewPeriod(ledger.PeriodMonth, "", e.now())
	u := underlagModel{
		env:   e,
		state: ledger.NewState(),
		prefs: store.DefaultPreferences(),
		fmt:   locale.New(locale.DefaultTag),
		month: p,
	}
	u.rebuild()
	return u
}

func (u *underlagModel) setSize(w, h int) {
	u.width = w
	u.height = h
}

func (u underlagModel) account() string {
	if u.selector == 0 || u.selector > len(u.accounts) {
		return ledger.AllAccounts
	}
	return u.accounts[u.selector-1].ID
}

func (u *underlagModel) rebuild() {
	u.billing = u.state.BuildBilling(u.month.Label(), u.account())
}

func (u underlagModel) update(msg tea.Msg) (underlagModel, tea.Cmd) {
	switch msg := msg.(type) {
	case ledgerMsg:
		selected := u.account()
		u.state = msg.state
		u.prefs = msg.prefs
		u.fmt = locale.New(msg.prefs.Locale)
		u.accounts = ledger.SortedAccounts(msg.state.Accounts)
		u.selector = 0
		for i, a := range u.accounts {
			if a.ID == selected {
				u.selector = i + 1
			}
		}
		u.rebuild()
		return u, nil

	case tea.KeyMsg:
		if u.picking {
			return u.updatePicker(msg)
		}
		switch {
		case key.Matches(msg, keys.Left):
			u.month = u.month.Shift(-1)
		case key.Matches(msg, keys.Right):
			u.month = u.month.Shift(1)
		case key.Matches(msg, keys.Today):
			u.month, _ = ledger.NewPeriod(ledger.PeriodMonth, "", u.env.now())
		case key.Matches(msg, keys.Account):
			u.selector = (u.selector + 1) % (len(u.accounts) + 1)
		case key.Matches(msg, keys.Enter):
			if len(u.billing.Rows) == 0 {
				return u, statusCmd("No work found for month/account", true)
			}
			u.picking = true
			u.exportCursor = 0
			return u, nil
		default:
			return u, nil
		}
		u.rebuild()
	}
	return u, nil
}

func (u underlagModel) updatePicker(msg tea.KeyMsg) (underlagModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if u.exportCursor > 0 {
			u.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if u.exportCursor < len(exportFormats)-1 {
			u.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		u.picking = false
		return u, u.doExport(u.exportCursor)
	case key.Matches(msg, keys.Back):
		u.picking = false
	}
	return u, nil
}

func (u underlagModel) meta() export.Meta {
	return export.Meta{
		InvoiceNo: u.prefs.InvoiceNo,
		Company:   u.prefs.CompanyName,
		CreatedAt: u.env.now(),
	}
}

func (u underlagModel) doExport(format int) tea.Cmd {
	b, m, f, dir := u.billing, u.meta(), u.fmt, u.env.exportDir
	e := u.env
	return func() tea.Msg {
		var path string
		var err error
		switch format {
		case 0:
			path = filepath.Join(dir, export.FileName(m, b.Month, "csv"))
			err = export.ToCSV(b, f, path)
		case 1:
			path = filepath.Join(dir, export.FileName(m, b.Month, "json"))
			err = export.ToJSON(b, m, path)
		default:
			path = filepath.Join(dir, export.FileName(m, b.Month, "html"))
			err = export.ToHTML(b, m, f, path)
		}
		if err != nil {
			return errStatus(e, log.OpExport, exportFormats[min(format, 2)]+" error", err)
		}
		e.log.Info("underlag exported",
			log.FieldOperation, log.OpExport,
			log.FieldMonth, b.Month,
			log.FieldAccount, b.AccountLabel,
			log.FieldPath, path,
			log.FieldCount, len(b.Rows))
		return exportDoneMsg{path: path}
	}
}

func (u underlagModel) view() string {
	w := u.width - 4
	if u.picking {
		return u.renderPicker(w)
	}

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Underlag"), "  ",
		highlightStyle.Render(u.month.Label()), "  ",
		subtitleStyle.Render(u.billing.AccountLabel), "  ",
		mutedStyle.Render("invoice "+u.prefs.InvoiceNo),
	)

	rows := []string{header, ""}
	if len(u.billing.Rows) == 0 {
		rows = append(rows, mutedStyle.Render("  No work found for month/account"))
	} else {
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-10s %-11s %8s  %-18s %s", "Date", "Time", "Hours", "Account", "Text")))
		rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", max(0, min(w-6, 64)))))
		for _, r := range u.billing.Rows {
			rows = append(rows, fmt.Sprintf("  %-10s %s–%s %8s  %-18s %s",
				r.Date, r.Start, r.End, u.fmt.Hours(r.HoursDecimal, 2), truncate(r.AccountName, 18), r.Text))
		}
		rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", max(0, min(w-6, 64)))))
		rows = append(rows, titleStyle.Render(fmt.Sprintf("  %-22s %8s", "SUMMA", u.fmt.Hours(u.billing.TotalHours(), 2))))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  ←/→: month  a: account  t: current  enter: export to "+u.env.exportDir))
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (u underlagModel) renderPicker(w int) string {
	rows := []string{titleStyle.Render("Export Format"), ""}
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == u.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
