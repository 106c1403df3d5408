package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/timeledger/internal/chime"
	"github.com/sadopc/timeledger/internal/ledger"
	"github.com/sadopc/timeledger/internal/log"
	"github.com/sadopc/timeledger/internal/store"
)

// Options configures the app beyond its store. Zero values are usable.
type Options struct {
	ExportDir     string
	ChimeEnabled  bool
	ChimeInterval time.Duration
	Notifier      chime.Notifier
	Logger        *log.Logger
	Now           func() time.Time
}

// App is the root Bubble Tea model.
type App struct {
	env    env
	width  int
	height int

	state ledger.State
	clock dayClock

	activeView viewState
	showHelp   bool

	day      dayModel
	accounts accountsModel
	summary  summaryModel
	underlag underlagModel
	settings settingsModel

	help   help.Model
	status string
	isErr  bool
}

func NewApp(s *store.Store, opts Options) App {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}
	e := env{
		store:     s,
		log:       opts.Logger.WithComponent(log.ComponentTUI),
		now:       opts.Now,
		exportDir: opts.ExportDir,
	}

	h := help.New()
	h.ShowAll = false

	return App{
		env:        e,
		state:      ledger.NewState(),
		clock:      newDayClock(opts.ChimeEnabled, opts.ChimeInterval, opts.Notifier),
		activeView: viewDay,
		day:        newDayModel(e),
		accounts:   newAccountsModel(e),
		summary:    newSummaryModel(e),
		underlag:   newUnderlagModel(e),
		settings:   newSettingsModel(e),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		loadLedger(a.env),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.day.setSize(a.width, contentHeight)
		a.accounts.setSize(a.width, contentHeight)
		a.summary.setSize(a.width, contentHeight)
		a.underlag.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewDay
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewAccounts
			return a, nil
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewSummary
			return a, nil
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewUnderlag
			return a, nil
		case key.Matches(msg, keys.Tab5):
			a.activeView = viewSettings
			return a, a.settings.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, nil
		}

	case tickMsg:
		now := a.env.now()
		a.clock.sync(a.state.Day(ledger.DateKey(now)))
		return a, tea.Batch(tickCmd(), a.clock.check(now))

	case ledgerMsg:
		return a.broadcast(msg)

	case importedMsg:
		prev := msg.previous
		a.settings.undo = &prev
		return a.broadcast(ledgerMsg{state: msg.state, prefs: msg.prefs, status: "Backup imported"})

	case statusMsg:
		a.status = msg.text
		a.isErr = msg.isError
		return a, nil

	case chimeDoneMsg:
		a.status, a.isErr = "♪ "+msg.text, false
		if msg.err != nil {
			a.env.log.Warn("chime failed", log.FieldOperation, log.OpChime, log.FieldError, msg.err)
		}
		return a, nil

	case exportDoneMsg:
		a.status, a.isErr = "Exported to "+msg.path, false
		return a, nil

	case backupReadMsg:
		a.activeView = viewSettings
	}

	return a.updateActiveView(msg)
}

// broadcast hands a fresh snapshot to every view.
func (a App) broadcast(msg ledgerMsg) (tea.Model, tea.Cmd) {
	a.state = msg.state
	if msg.status != "" {
		a.status, a.isErr = msg.status, false
	}
	a.clock.sync(a.state.Day(a.env.today()))

	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.day, cmd = a.day.update(msg)
	cmds = append(cmds, cmd)
	a.accounts, cmd = a.accounts.update(msg)
	cmds = append(cmds, cmd)
	a.summary, cmd = a.summary.update(msg)
	cmds = append(cmds, cmd)
	a.underlag, cmd = a.underlag.update(msg)
	cmds = append(cmds, cmd)
	a.settings, cmd = a.settings.update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDay:
		a.day, cmd = a.day.update(msg)
	case viewAccounts:
		a.accounts, cmd = a.accounts.update(msg)
	case viewSummary:
		a.summary, cmd = a.summary.update(msg)
	case viewUnderlag:
		a.underlag, cmd = a.underlag.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewDay:
		return a.day.formActive
	case viewAccounts:
		return a.accounts.formActive
	case viewUnderlag:
		return a.underlag.picking
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDay:
		content = a.day.view()
	case viewAccounts:
		content = a.accounts.view()
	case viewSummary:
		content = a.summary.view()
	case viewUnderlag:
		content = a.underlag.view()
	case viewSettings:
		content = a.settings.view()
	}

	contentHeight := max(1, a.height-lipgloss.Height(header)-lipgloss.Height(footer))
	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("timeledger")
	gap := max(1, a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.isErr {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	// Day clock indicator in footer
	clockInfo := ""
	today := a.state.Day(a.env.today())
	if today.Started() {
		clockInfo = successStyle.Render(" ● " + formatDuration(dayElapsed(today, a.env.now())))
		if a.clock.armed() {
			clockInfo += mutedStyle.Render(" ♪ " + a.clock.sched.Next().Format("15:04"))
		}
	}

	left := footerStyle.Render(helpView)
	right := clockInfo + status

	gap := max(1, a.width-lipgloss.Width(left)-lipgloss.Width(right)-2)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}
