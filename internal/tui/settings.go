package tui

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/timeledger/internal/export"
	"github.com/sadopc/timeledger/internal/ledger"
	"github.com/sadopc/timeledger/internal/log"
	"github.com/sadopc/timeledger/internal/store"
)

type backupReadMsg struct {
	path  string
	state ledger.State
	info  export.BackupInfo
}

type settingsModel struct {
	env    env
	width  int
	height int

	prefs    store.Preferences
	settings []store.Setting

	formActive bool
	form       *huh.Form
	formType   string // "prefs", "import_path", "import_confirm"

	// Form values as pointers (survive value copies)
	budget    *string
	invoiceNo *string
	localeTag *string
	policy    *string
	company   *string
	path      *string
	confirm   *bool

	pending *backupReadMsg
	undo    *ledger.State
}

func newSettingsModel(e env) settingsModel {
	b, inv, loc, pol, comp, path := "", "", "", "", "", ""
	confirm := false
	return settingsModel{
		env:       e,
		prefs:     store.DefaultPreferences(),
		budget:    &b,
		invoiceNo: &inv,
		localeTag: &loc,
		policy:    &pol,
		company:   &comp,
		path:      &path,
		confirm:   &confirm,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := s.env.store.GetAllSettings()
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil
	case ledgerMsg:
		s.prefs = msg.prefs
		return s, s.refresh()
	}

	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case backupReadMsg:
		return s.showImportConfirm(msg)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Edit):
			return s.showPrefsForm()
		case key.Matches(msg, keys.Backup):
			return s, s.writeBackup()
		case key.Matches(msg, keys.Import):
			return s.showImportPath()
		case key.Matches(msg, keys.Undo):
			if s.undo == nil {
				return s, statusCmd("Nothing to undo", true)
			}
			prev := *s.undo
			s.undo = nil
			return s, s.restore(prev)
		}
	}
	return s, nil
}

func (s settingsModel) showPrefsForm() (settingsModel, tea.Cmd) {
	*s.budget = strconv.FormatFloat(s.prefs.DailyBudgetHours, 'f', -1, 64)
	*s.invoiceNo = s.prefs.InvoiceNo
	*s.localeTag = s.prefs.Locale
	*s.policy = string(s.prefs.ForecastPolicy)
	*s.company = s.prefs.CompanyName
	s.formType = "prefs"

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Daily budget (hours)").Value(s.budget).Validate(validBudget),
			huh.NewSelect[string]().Title("Forecast for other months").
				Options(
					huh.NewOption("Calendar (past elapsed, future not)", string(ledger.ElapsedCalendar)),
					huh.NewOption("Whole month elapsed", string(ledger.ElapsedWholeMonth)),
				).Value(s.policy),
		).Title("Budget"),
		huh.NewGroup(
			huh.NewInput().Title("Invoice number").Value(s.invoiceNo).Validate(func(v string) error {
				if strings.TrimSpace(v) == "" {
					return fmt.Errorf("invoice number cannot be empty")
				}
				return nil
			}),
			huh.NewInput().Title("Company name").Value(s.company),
			huh.NewSelect[string]().Title("Number format").
				Options(
					huh.NewOption("Svenska (2,50)", "sv"),
					huh.NewOption("English (2.50)", "en"),
				).Value(s.localeTag),
		).Title("Underlag"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func validBudget(v string) error {
	_, err := parseBudget(v)
	return err
}

func parseBudget(v string) (float64, error) {
	h, err := strconv.ParseFloat(strings.Replace(strings.TrimSpace(v), ",", ".", 1), 64)
	if err != nil || h < 0 || h > 24 {
		return 0, fmt.Errorf("enter hours between 0 and 24")
	}
	return h, nil
}

func (s settingsModel) showImportPath() (settingsModel, tea.Cmd) {
	*s.path = filepath.Join(s.env.exportDir, export.BackupFileName(s.env.now()))
	s.formType = "import_path"
	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Backup file").Value(s.path),
		),
	).WithShowHelp(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) showImportConfirm(msg backupReadMsg) (settingsModel, tea.Cmd) {
	s.pending = &msg
	*s.confirm = false
	s.formType = "import_confirm"

	app := msg.info.App
	if app == "" {
		app = "unknown"
	}
	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Replace all data with this backup?").
				Description(fmt.Sprintf("app: %s  exported: %s\n%d accounts, %d days, %d intervals\nThe current data can be restored with U.",
					app, msg.info.Exported, msg.info.Accounts, msg.info.Days, msg.info.Intervals)).
				Value(s.confirm),
		),
	).WithShowHelp(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			s.pending = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		switch s.formType {
		case "prefs":
			return s, s.savePrefs()
		case "import_path":
			return s, s.readBackup(*s.path)
		case "import_confirm":
			pending := s.pending
			s.pending = nil
			if *s.confirm && pending != nil {
				return s, s.applyImport(pending.state, pending.info)
			}
			return s, statusCmd("Import cancelled", false)
		}
	}

	return s, cmd
}

func (s settingsModel) savePrefs() tea.Cmd {
	p := s.prefs
	p.DailyBudgetHours, _ = parseBudget(*s.budget)
	p.InvoiceNo = *s.invoiceNo
	p.Locale = *s.localeTag
	p.ForecastPolicy = ledger.ParseElapsedPolicy(*s.policy)
	p.CompanyName = *s.company
	e := s.env
	return func() tea.Msg {
		if err := e.store.SavePreferences(p); err != nil {
			return errStatus(e, log.OpSave, "Settings error", err)
		}
		return loadLedger(e)()
	}
}

func (s settingsModel) writeBackup() tea.Cmd {
	e := s.env
	return func() tea.Msg {
		st, err := e.store.Load()
		if err != nil {
			return errStatus(e, log.OpExport, "Backup error", err)
		}
		now := e.now()
		path := filepath.Join(e.exportDir, export.BackupFileName(now))
		if err := export.WriteBackup(st, now, path); err != nil {
			return errStatus(e, log.OpExport, "Backup error", err)
		}
		e.log.Info("backup written", log.FieldOperation, log.OpExport, log.FieldPath, path)
		return exportDoneMsg{path: path}
	}
}

func (s settingsModel) readBackup(path string) tea.Cmd {
	e := s.env
	return func() tea.Msg {
		st, info, err := export.ReadBackup(strings.TrimSpace(path))
		if err != nil {
			return errStatus(e, log.OpImport, "Import error", err)
		}
		return backupReadMsg{path: path, state: st, info: info}
	}
}

// applyImport replaces the ledger and keeps the previous snapshot for undo.
func (s settingsModel) applyImport(st ledger.State, info export.BackupInfo) tea.Cmd {
	e := s.env
	return func() tea.Msg {
		prev, err := e.store.Load()
		if err != nil {
			return errStatus(e, log.OpImport, "Import error", err)
		}
		if err := e.store.Save(st); err != nil {
			return errStatus(e, log.OpImport, "Import error", err)
		}
		prefs, _ := e.store.Preferences()
		e.log.Info("backup imported", log.FieldOperation, log.OpImport, log.FieldCount, info.Days)
		return importedMsg{previous: prev, state: st, prefs: prefs, info: info}
	}
}

func (s settingsModel) restore(prev ledger.State) tea.Cmd {
	e := s.env
	return func() tea.Msg {
		if err := e.store.Save(prev); err != nil {
			return errStatus(e, log.OpRestore, "Undo error", err)
		}
		prefs, _ := e.store.Preferences()
		e.log.Info("import undone", log.FieldOperation, log.OpRestore)
		return ledgerMsg{state: prev, prefs: prefs, status: "Import undone"}
	}
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		if s.formType != "prefs" {
			title = titleStyle.Render("Import Backup")
		}
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	var rows []string
	rows = append(rows, titleStyle.Render("Settings"))
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, titleStyle.Render("Backup"))
	rows = append(rows, mutedStyle.Render("  Folder: "+s.env.exportDir))
	if s.undo != nil {
		rows = append(rows, warningStyle.Render("  An import can be undone with U"))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: edit settings  B: write backup  I: import backup  U: undo import"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	switch k {
	case store.KeyDailyBudgetHours:
		return v + " h/day"
	case store.KeyCompanyName, store.KeyInvoiceNo:
		if v == "" {
			return "—"
		}
	}
	return v
}
