package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/timeledger/internal/ledger"
	"github.com/sadopc/timeledger/internal/locale"
	"github.com/sadopc/timeledger/internal/store"
)

const summaryMaxRows = 12

type summaryModel struct {
	env    env
	width  int
	height int

	state ledger.State
	prefs store.Preferences
	fmt   locale.Formatter

	period ledger.Period
	agg    ledger.Aggregate

	chart barchart.Model
}

func newSummaryModel(e env) summaryModel {
	p, _ := ledger.NewPeriod(ledger.PeriodWeek, "", e.now())
	return summaryModel{
		env:    e,
		state:  ledger.NewState(),
		prefs:  store.DefaultPreferences(),
		fmt:    locale.New(locale.DefaultTag),
		period: p,
		chart:  barchart.New(60, 12),
	}
}

func (s *summaryModel) setSize(w, h int) {
	s.width = w
	s.height = h
	s.recompute()
}

func (s summaryModel) update(msg tea.Msg) (summaryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case ledgerMsg:
		s.state = msg.state
		s.prefs = msg.prefs
		s.fmt = locale.New(msg.prefs.Locale)
		s.recompute()
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			s.period = s.period.Shift(-1)
		case key.Matches(msg, keys.Right):
			s.period = s.period.Shift(1)
		case key.Matches(msg, keys.Today):
			s.period, _ = ledger.NewPeriod(s.period.Kind, "", s.env.now())
		case key.Matches(msg, keys.Mode):
			s.period.Kind = nextKind(s.period.Kind)
		default:
			return s, nil
		}
		s.recompute()
	}
	return s, nil
}

func nextKind(k ledger.PeriodKind) ledger.PeriodKind {
	for i, kind := range ledger.PeriodKinds {
		if kind == k {
			return ledger.PeriodKinds[(i+1)%len(ledger.PeriodKinds)]
		}
	}
	return ledger.PeriodDay
}

func (s *summaryModel) recompute() {
	s.agg = s.state.Days.Aggregate(s.period.Keys(s.state.Days))
	s.buildChart()
}

// calendarKeys lists every date of the period, recorded or not.
func calendarKeys(p ledger.Period) []string {
	var from, to time.Time
	switch p.Kind {
	case ledger.PeriodWeek:
		wd := int(p.Ref.Weekday())
		if wd == 0 {
			wd = 7
		}
		from = p.Ref.AddDate(0, 0, 1-wd)
		to = from.AddDate(0, 0, 6)
	case ledger.PeriodMonth:
		from = time.Date(p.Ref.Year(), p.Ref.Month(), 1, 0, 0, 0, 0, time.UTC)
		to = from.AddDate(0, 1, -1)
	default:
		return []string{ledger.DateKey(p.Ref)}
	}
	var keys []string
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		keys = append(keys, ledger.DateKey(d))
	}
	return keys
}

func (s *summaryModel) buildChart() {
	chartWidth := max(20, s.width-8)
	chartHeight := 10
	if s.height > 34 {
		chartHeight = 14
	}
	s.chart = barchart.New(chartWidth, chartHeight)

	worked := map[string]int{}
	for _, dt := range s.state.Days.DailyWork(s.period.Keys(s.state.Days)) {
		worked[dt.Date] = dt.WorkMinutes
	}

	barStyle := lipgloss.NewStyle().Foreground(colorPrimary)
	var bars []barchart.BarData
	for _, k := range calendarKeys(s.period) {
		t, _ := ledger.ParseDateKey(k)
		label := t.Format("Mon 02")
		if s.period.Kind == ledger.PeriodMonth {
			label = t.Format("02")
		}
		bars = append(bars, barchart.BarData{
			Label: label,
			Values: []barchart.BarValue{{
				Name:  k,
				Value: float64(worked[k]) / 60,
				Style: barStyle,
			}},
		})
	}

	s.chart.PushAll(bars)
	s.chart.Draw()
}

func (s summaryModel) view() string {
	w := s.width - 4

	var tabs []string
	for _, kind := range ledger.PeriodKinds {
		name := strings.ToUpper(string(kind[:1])) + string(kind[1:])
		if kind == s.period.Kind {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Summary"), "  ",
		lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...), "  ",
		highlightStyle.Render(s.period.Label()),
	)

	parts := []string{header, "", s.renderOverview()}
	if s.period.Kind != ledger.PeriodDay {
		parts = append(parts, "", s.chart.View())
	}
	parts = append(parts, "", s.renderAccountTotals())
	if s.period.Kind == ledger.PeriodMonth {
		parts = append(parts, "", s.renderForecast())
	}
	parts = append(parts, "", s.renderRows(w))
	parts = append(parts, "", mutedStyle.Render("  ←/→: navigate  m: day/week/month  t: current"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (s summaryModel) renderOverview() string {
	return fmt.Sprintf("  Work %s h (%s)   Break %s   Days %d",
		highlightStyle.Render(s.fmt.Hours(float64(s.agg.TotalWorkMinutes)/60, 2)),
		s.fmt.HM(s.agg.TotalWorkMinutes),
		mutedStyle.Render(s.fmt.HM(s.agg.TotalBreakMinutes)),
		s.agg.DaysWithData,
	)
}

func (s summaryModel) renderAccountTotals() string {
	totals := s.agg.AccountTotals(s.state.Accounts)
	if len(totals) == 0 {
		return mutedStyle.Render("  No work logged in this period")
	}
	rows := []string{mutedStyle.Render(fmt.Sprintf("  %-24s %10s %8s", "Account", "Hours", "H:MM"))}
	for _, t := range totals {
		rows = append(rows, fmt.Sprintf("  %-24s %10s %8s",
			truncate(t.Name, 24), s.fmt.Hours(float64(t.Minutes)/60, 2), s.fmt.HM(t.Minutes)))
	}
	return strings.Join(rows, "\n")
}

func (s summaryModel) renderForecast() string {
	f := s.state.Days.MonthForecast(s.period.Label(), s.prefs.DailyBudgetHours, s.env.now(), s.prefs.ForecastPolicy)
	h := func(v float64) string { return s.fmt.Hours(v, 2) }

	deltaStyle := successStyle
	if f.DeltaNow < 0 {
		deltaStyle = warningStyle
	}
	lines := []string{
		titleStyle.Render("  Forecast") + mutedStyle.Render(fmt.Sprintf("  (%s h/day, %s)", h(s.prefs.DailyBudgetHours), f.Month)),
		fmt.Sprintf("  Workdays %d   elapsed %d   remaining %d", f.WorkdaysInMonth, f.ElapsedWorkdays, f.RemainingWorkdays),
		fmt.Sprintf("  Budget %s h   so far %s h   worked %s h   delta %s",
			h(f.BudgetMonth), h(f.BudgetSoFar), h(f.WorkedSoFar), deltaStyle.Render(signed(s.fmt, f.DeltaNow)+" h")),
		fmt.Sprintf("  Projected %s h (%s)   left %s h   needed %s h/day",
			h(f.Projected), signed(s.fmt, f.ProjectedDelta), h(f.BudgetRemaining), h(f.RequiredPerDay)),
	}
	return strings.Join(lines, "\n")
}

func (s summaryModel) renderRows(w int) string {
	rows := s.agg.SortedRows()
	if len(rows) == 0 {
		return mutedStyle.Render("  No intervals for this period")
	}

	out := []string{mutedStyle.Render(fmt.Sprintf("  %-10s %-11s %6s  %-18s %s", "Date", "Time", "H:MM", "Account", "Text"))}
	out = append(out, mutedStyle.Render("  "+strings.Repeat("─", max(0, min(w-6, 64)))))

	start := max(0, len(rows)-summaryMaxRows)
	if start > 0 {
		out = append(out, mutedStyle.Render(fmt.Sprintf("  … %d earlier", start)))
	}
	for _, r := range rows[start:] {
		label := ledger.DisplayName(s.state.Accounts, r.AccountID)
		style := normalItemStyle
		if r.IsBreak {
			label = "break"
			style = breakItemStyle
		}
		out = append(out, style.Render(fmt.Sprintf("  %-10s %s–%s %6s  %-18s %s",
			r.Date, ledger.FormatTime(r.StartMin), ledger.FormatTime(r.EndMin),
			s.fmt.HM(r.Duration()), truncate(label, 18), r.Text)))
	}
	return strings.Join(out, "\n")
}
