package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/timeledger/internal/ledger"
	"github.com/sadopc/timeledger/internal/locale"
	"github.com/sadopc/timeledger/internal/store"
)

var errNotToday = errors.New("start and end can only be set for today")

type dayModel struct {
	env    env
	width  int
	height int

	state ledger.State
	prefs store.Preferences
	fmt   locale.Formatter

	date   string
	cursor int

	formActive bool
	form       *huh.Form
	formType   string // "add", "edit", "clear"
	editingID  string

	// Form field pointers (survive value copies)
	formStart   *string
	formEnd     *string
	formAccount *string
	formText    *string
	formBreak   *bool
	formConfirm *bool
}

func newDayModel(e env) dayModel {
	start, end, acc, text := "", "", "", ""
	isBreak, confirm := false, false
	return dayModel{
		env:         e,
		state:       ledger.NewState(),
		prefs:       store.DefaultPreferences(),
		fmt:         locale.New(locale.DefaultTag),
		date:        e.today(),
		formStart:   &start,
		formEnd:     &end,
		formAccount: &acc,
		formText:    &text,
		formBreak:   &isBreak,
		formConfirm: &confirm,
	}
}

func (d *dayModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d dayModel) day() ledger.Day {
	return d.state.Day(d.date)
}

func (d dayModel) selected() (ledger.Interval, bool) {
	ivs := d.day().Intervals
	if d.cursor < 0 || d.cursor >= len(ivs) {
		return ledger.Interval{}, false
	}
	return ivs[d.cursor], true
}

func (d dayModel) update(msg tea.Msg) (dayModel, tea.Cmd) {
	if msg, ok := msg.(ledgerMsg); ok {
		d.state = msg.state
		d.prefs = msg.prefs
		d.fmt = locale.New(msg.prefs.Locale)
		d.cursor = clampCursor(d.cursor, len(d.day().Intervals))
		return d, nil
	}

	if d.formActive && d.form != nil {
		return d.updateForm(msg)
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		return d.updateKeys(msg)
	}
	return d, nil
}

func (d dayModel) updateKeys(msg tea.KeyMsg) (dayModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Left):
		d.shiftDate(-1)
	case key.Matches(msg, keys.Right):
		d.shiftDate(1)
	case key.Matches(msg, keys.Today):
		d.date = d.env.today()
		d.cursor = 0
	case key.Matches(msg, keys.Up):
		if d.cursor > 0 {
			d.cursor--
		}
	case key.Matches(msg, keys.Down):
		if d.cursor < len(d.day().Intervals)-1 {
			d.cursor++
		}

	case key.Matches(msg, keys.Start):
		if d.date != d.env.today() {
			return d, statusCmd(errNotToday.Error(), true)
		}
		date, now := d.date, d.env.now()
		return d, mutate(d.env, "Day started", func(st ledger.State) (ledger.State, error) {
			return st.StartDay(date, now), nil
		})

	case key.Matches(msg, keys.End):
		if d.date != d.env.today() {
			return d, statusCmd(errNotToday.Error(), true)
		}
		date, now := d.date, d.env.now()
		return d, mutate(d.env, "Day ended", func(st ledger.State) (ledger.State, error) {
			return st.EndDay(date, now)
		})

	case key.Matches(msg, keys.New):
		return d.showIntervalForm("add", ledger.Interval{})

	case key.Matches(msg, keys.Edit), key.Matches(msg, keys.Enter):
		if iv, ok := d.selected(); ok {
			return d.showIntervalForm("edit", iv)
		}

	case key.Matches(msg, keys.Delete):
		if iv, ok := d.selected(); ok {
			date, id := d.date, iv.ID
			return d, mutate(d.env, "Interval deleted", func(st ledger.State) (ledger.State, error) {
				return st.DeleteInterval(date, id)
			})
		}

	case key.Matches(msg, keys.Break):
		if iv, ok := d.selected(); ok {
			date, id := d.date, iv.ID
			return d, mutate(d.env, "Break toggled", func(st ledger.State) (ledger.State, error) {
				return st.ToggleBreak(date, id)
			})
		}

	case key.Matches(msg, keys.Clear):
		if len(d.day().Intervals) > 0 {
			return d.showClearForm()
		}
	}
	return d, nil
}

func (d *dayModel) shiftDate(n int) {
	t, err := ledger.ParseDateKey(d.date)
	if err != nil {
		t, _ = ledger.ParseDateKey(d.env.today())
	}
	d.date = ledger.DateKey(t.AddDate(0, 0, n))
	d.cursor = 0
}

func validTime(s string) error {
	_, err := ledger.ParseTime(s)
	return err
}

func (d dayModel) accountOptions() []huh.Option[string] {
	opts := []huh.Option[string]{huh.NewOption(ledger.Unassigned, "")}
	for _, a := range ledger.SortedAccounts(d.state.Accounts) {
		opts = append(opts, huh.NewOption(a.Name, a.ID))
	}
	return opts
}

func (d dayModel) showIntervalForm(formType string, iv ledger.Interval) (dayModel, tea.Cmd) {
	d.formType = formType
	if formType == "edit" {
		d.editingID = iv.ID
		*d.formStart = ledger.FormatTime(iv.StartMin)
		*d.formEnd = ledger.FormatTime(iv.EndMin)
		*d.formAccount = iv.AccountID
		*d.formText = iv.Text
		*d.formBreak = iv.IsBreak
	} else {
		d.editingID = ""
		*d.formStart = d.day().NextStartSuggestion()
		*d.formEnd = ""
		*d.formAccount = ""
		*d.formText = ""
		*d.formBreak = false
	}

	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Start (HH:MM)").Value(d.formStart).Validate(validTime),
			huh.NewInput().Title("End (HH:MM)").Value(d.formEnd).Validate(validTime),
			huh.NewSelect[string]().Title("Account").Options(d.accountOptions()...).Value(d.formAccount),
			huh.NewInput().Title("Text").Value(d.formText),
			huh.NewConfirm().Title("Break?").Value(d.formBreak),
		),
	).WithShowHelp(true).WithShowErrors(true)

	d.formActive = true
	return d, d.form.Init()
}

func (d dayModel) showClearForm() (dayModel, tea.Cmd) {
	d.formType = "clear"
	*d.formConfirm = false
	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Remove all %d intervals of %s?", len(d.day().Intervals), d.date)).
				Value(d.formConfirm),
		),
	).WithShowHelp(true)

	d.formActive = true
	return d, d.form.Init()
}

func (d dayModel) intervalInput() ledger.IntervalInput {
	return ledger.IntervalInput{
		Start:     *d.formStart,
		End:       *d.formEnd,
		AccountID: *d.formAccount,
		Text:      *d.formText,
		IsBreak:   *d.formBreak,
	}
}

func (d dayModel) updateForm(msg tea.Msg) (dayModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			d.formActive = false
			d.form = nil
			return d, nil
		}
	}

	form, cmd := d.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		d.form = f
	}

	if d.form.State == huh.StateCompleted {
		d.formActive = false
		return d, d.submitForm()
	}
	return d, cmd
}

func (d dayModel) submitForm() tea.Cmd {
	date := d.date
	switch d.formType {
	case "add":
		in := d.intervalInput()
		return mutate(d.env, "Interval added", func(st ledger.State) (ledger.State, error) {
			st, _, err := st.AddInterval(date, in)
			return st, err
		})
	case "edit":
		in, id := d.intervalInput(), d.editingID
		return mutate(d.env, "Interval updated", func(st ledger.State) (ledger.State, error) {
			return st.EditInterval(date, id, in)
		})
	case "clear":
		if !*d.formConfirm {
			return nil
		}
		return mutate(d.env, "Day cleared", func(st ledger.State) (ledger.State, error) {
			return st.ClearDay(date), nil
		})
	}
	return nil
}

func (d dayModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}
	w := d.width - 4

	if d.formActive && d.form != nil {
		title := "New Interval"
		switch d.formType {
		case "edit":
			title = "Edit Interval"
		case "clear":
			title = "Clear Day"
		}
		content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title+" · "+d.date), "", d.form.View())
		return activePanelStyle.Width(w).Render(content)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		d.renderClockPanel(w),
		d.renderIntervals(w),
		d.renderTotals(w),
	)
}

func (d dayModel) renderClockPanel(w int) string {
	day := d.day()
	isToday := d.date == d.env.today()

	dateLine := titleStyle.Render(d.dateLabel())
	if isToday {
		dateLine += "  " + highlightStyle.Render("today")
	}

	markers := mutedStyle.Render(fmt.Sprintf("Started %s · Ended %s",
		formatTimestamp(day.StartTS), formatTimestamp(day.EndTS)))

	elapsed := formatDuration(dayElapsed(day, d.env.now()))
	var clock, indicator string
	switch {
	case day.Started():
		clock = clockRunningStyle.Width(w - 6).Render(elapsed)
		indicator = successStyle.Render("●  IN PROGRESS")
	case day.StartTS != nil:
		clock = clockEndedStyle.Width(w - 6).Render(elapsed)
		indicator = warningStyle.Render("■  ENDED")
	default:
		clock = clockStyle.Width(w - 6).Render("00:00:00")
		indicator = mutedStyle.Render("○  NOT STARTED")
		if isToday {
			indicator += mutedStyle.Render("  (s to start)")
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Center, dateLine, clock, indicator, markers)
	if day.Started() {
		return activePanelStyle.Width(w).Render(content)
	}
	return panelStyle.Width(w).Render(content)
}

func (d dayModel) dateLabel() string {
	t, err := ledger.ParseDateKey(d.date)
	if err != nil {
		return d.date
	}
	return t.Format("Monday 2006-01-02")
}

func (d dayModel) renderIntervals(w int) string {
	title := titleStyle.Render("Intervals")
	ivs := d.day().Intervals
	if len(ivs) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No intervals. Press n to add one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	rows := []string{title}
	for i, iv := range ivs {
		cursor := "  "
		style := normalItemStyle
		if iv.IsBreak {
			style = breakItemStyle
		}
		if i == d.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		label := ledger.DisplayName(d.state.Accounts, iv.AccountID)
		if iv.IsBreak {
			label = "break"
		}
		row := fmt.Sprintf("%s%s–%s  %6s  %-18s %s",
			cursor,
			ledger.FormatTime(iv.StartMin),
			ledger.FormatTime(iv.EndMin),
			d.fmt.HM(iv.Duration()),
			truncate(label, 18),
			iv.Text,
		)
		rows = append(rows, style.Render(row))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  d: delete  b: break  c: clear  ←/→: day  t: today"))
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dayModel) renderTotals(w int) string {
	day := d.day()
	work := day.WorkMinutes()
	brk := day.BreakMinutes()

	line := fmt.Sprintf("%s  %s h (%s)   %s  %s",
		titleStyle.Render("Work"),
		highlightStyle.Render(d.fmt.Hours(float64(work)/60, 2)),
		d.fmt.HM(work),
		titleStyle.Render("Break"),
		mutedStyle.Render(d.fmt.HM(brk)),
	)

	budget := d.prefs.DailyBudgetHours
	if t, err := ledger.ParseDateKey(d.date); err == nil && budget > 0 && isWeekday(t) {
		delta := float64(work)/60 - budget
		style := successStyle
		if delta < 0 {
			style = warningStyle
		}
		line += fmt.Sprintf("   %s %s h  %s",
			titleStyle.Render("Budget"),
			d.fmt.Hours(budget, 2),
			style.Render(signed(d.fmt, delta)+" h"),
		)
	}
	return panelStyle.Width(w).Render(line)
}

func isWeekday(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

func signed(f locale.Formatter, v float64) string {
	if v > 0 {
		return "+" + f.Hours(v, 2)
	}
	return f.Hours(v, 2)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
