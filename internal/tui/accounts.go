package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/timeledger/internal/ledger"
	"github.com/sadopc/timeledger/internal/locale"
)

type accountsModel struct {
	env    env
	width  int
	height int

	state    ledger.State
	fmt      locale.Formatter
	accounts []ledger.Account // sorted by name
	totals   map[string]int   // this month's minutes per account
	cursor   int

	formActive bool
	form       *huh.Form
	formType   string // "new", "rename", "delete"
	editingID  string

	formName    *string
	formConfirm *bool
}

func newAccountsModel(e env) accountsModel {
	name, confirm := "", false
	return accountsModel{
		env:         e,
		state:       ledger.NewState(),
		fmt:         locale.New(locale.DefaultTag),
		totals:      map[string]int{},
		formName:    &name,
		formConfirm: &confirm,
	}
}

func (a *accountsModel) setSize(w, h int) {
	a.width = w
	a.height = h
}

func (a accountsModel) update(msg tea.Msg) (accountsModel, tea.Cmd) {
	if msg, ok := msg.(ledgerMsg); ok {
		a.state = msg.state
		a.fmt = locale.New(msg.prefs.Locale)
		a.accounts = ledger.SortedAccounts(msg.state.Accounts)
		month := ledger.ResolveKeys(msg.state.Days, ledger.PeriodMonth, "", a.env.now())
		a.totals = msg.state.Days.Aggregate(month).PerAccount
		a.cursor = clampCursor(a.cursor, len(a.accounts))
		return a, nil
	}

	if a.formActive && a.form != nil {
		return a.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if a.cursor > 0 {
				a.cursor--
			}
		case key.Matches(msg, keys.Down):
			if a.cursor < len(a.accounts)-1 {
				a.cursor++
			}
		case key.Matches(msg, keys.New):
			return a.showNameForm("new", ledger.Account{})
		case key.Matches(msg, keys.Edit), key.Matches(msg, keys.Enter):
			if len(a.accounts) > 0 {
				return a.showNameForm("rename", a.accounts[a.cursor])
			}
		case key.Matches(msg, keys.Delete):
			if len(a.accounts) > 0 {
				return a.showDeleteForm(a.accounts[a.cursor])
			}
		}
	}
	return a, nil
}

func (a accountsModel) showNameForm(formType string, acc ledger.Account) (accountsModel, tea.Cmd) {
	a.formType = formType
	a.editingID = acc.ID
	*a.formName = acc.Name

	a.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Account name").Value(a.formName).Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return ledger.ErrEmptyAccountName
				}
				return nil
			}),
		),
	).WithShowHelp(true).WithShowErrors(true)

	a.formActive = true
	return a, a.form.Init()
}

func (a accountsModel) showDeleteForm(acc ledger.Account) (accountsModel, tea.Cmd) {
	a.formType = "delete"
	a.editingID = acc.ID
	*a.formConfirm = false

	a.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete account %q?", acc.Name)).
				Description("Logged intervals stay and show as " + ledger.Unassigned + ".").
				Value(a.formConfirm),
		),
	).WithShowHelp(true)

	a.formActive = true
	return a, a.form.Init()
}

func (a accountsModel) updateForm(msg tea.Msg) (accountsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			a.formActive = false
			a.form = nil
			return a, nil
		}
	}

	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	if a.form.State == huh.StateCompleted {
		a.formActive = false
		name, id := *a.formName, a.editingID
		switch a.formType {
		case "new":
			return a, mutate(a.env, "Account added", func(st ledger.State) (ledger.State, error) {
				st, _, err := st.AddAccount(name)
				return st, err
			})
		case "rename":
			return a, mutate(a.env, "Account renamed", func(st ledger.State) (ledger.State, error) {
				return st.RenameAccount(id, name)
			})
		case "delete":
			if *a.formConfirm {
				return a, mutate(a.env, "Account deleted", func(st ledger.State) (ledger.State, error) {
					return st.DeleteAccount(id), nil
				})
			}
		}
		return a, nil
	}
	return a, cmd
}

func (a accountsModel) view() string {
	w := a.width - 4

	if a.formActive && a.form != nil {
		title := "New Account"
		switch a.formType {
		case "rename":
			title = "Rename Account"
		case "delete":
			title = "Delete Account"
		}
		content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), "", a.form.View())
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Accounts")
	if len(a.accounts) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No accounts yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-28s %12s", "Name", "This month")))

	for i, acc := range a.accounts {
		cursor := "  "
		style := normalItemStyle
		if i == a.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		mins := a.totals[acc.ID]
		rows = append(rows, style.Render(fmt.Sprintf("%s%-28s %10s h", cursor, truncate(acc.Name, 28), a.fmt.Hours(float64(mins)/60, 2))))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: rename  d: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
