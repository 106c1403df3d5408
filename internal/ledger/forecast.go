package ledger

import (
	"strings"
	"time"
)

// ElapsedPolicy decides how much of a month other than the current one
// counts as elapsed when computing budget so far.
type ElapsedPolicy string

const (
	// ElapsedCalendar treats past months as fully elapsed and future months
	// as not started.
	ElapsedCalendar ElapsedPolicy = "calendar"
	// ElapsedWholeMonth treats every month other than the current one as
	// fully elapsed.
	ElapsedWholeMonth ElapsedPolicy = "whole_month"
)

// ParseElapsedPolicy falls back to ElapsedCalendar for unknown values.
func ParseElapsedPolicy(s string) ElapsedPolicy {
	if ElapsedPolicy(strings.TrimSpace(s)) == ElapsedWholeMonth {
		return ElapsedWholeMonth
	}
	return ElapsedCalendar
}

// Forecast is the budget-vs-actual model of one month. Hours are plain
// float64 values; rounding only happens when they are formatted.
type Forecast struct {
	Month string

	WorkdaysInMonth   int
	ElapsedWorkdays   int
	RemainingWorkdays int

	BudgetMonth float64
	BudgetSoFar float64
	WorkedSoFar float64
	DeltaNow    float64

	// Projected assumes exactly budget pace on every remaining workday.
	Projected      float64
	ProjectedDelta float64

	BudgetRemaining float64
	RequiredPerDay  float64
}

// MonthForecast evaluates month (YYYY-MM) against a daily budget. today is
// read once by the caller. A malformed month yields zero workdays.
func (days Days) MonthForecast(month string, dailyBudgetHours float64, today time.Time, policy ElapsedPolicy) Forecast {
	f := Forecast{
		Month:       month,
		WorkedSoFar: float64(days.monthWorkMinutes(month)) / 60,
	}

	if first, err := time.Parse(monthLayout, month); err == nil {
		last := first.AddDate(0, 1, -1)
		f.WorkdaysInMonth = countWeekdays(first, last)
		if end, ok := elapsedEnd(first, last, today, policy); ok {
			f.ElapsedWorkdays = countWeekdays(first, end)
		}
	}

	f.BudgetMonth = float64(f.WorkdaysInMonth) * dailyBudgetHours
	f.BudgetSoFar = float64(f.ElapsedWorkdays) * dailyBudgetHours
	f.DeltaNow = f.WorkedSoFar - f.BudgetSoFar

	f.RemainingWorkdays = max(0, f.WorkdaysInMonth-f.ElapsedWorkdays)
	f.BudgetRemaining = max(0, f.BudgetMonth-f.WorkedSoFar)

	f.Projected = f.WorkedSoFar + float64(f.RemainingWorkdays)*dailyBudgetHours
	f.ProjectedDelta = f.Projected - f.BudgetMonth

	if f.RemainingWorkdays > 0 {
		f.RequiredPerDay = f.BudgetRemaining / float64(f.RemainingWorkdays)
	}
	return f
}

// monthWorkMinutes sums non-break minutes over every day of the month,
// including days after today.
func (days Days) monthWorkMinutes(month string) int {
	prefix := month + "-"
	total := 0
	for k, day := range days {
		if strings.HasPrefix(k, prefix) {
			total += day.WorkMinutes()
		}
	}
	return total
}

// elapsedEnd returns the last elapsed date of the month, or false when no
// day of the month has elapsed.
func elapsedEnd(first, last, today time.Time, policy ElapsedPolicy) (time.Time, bool) {
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	cur := today.Year()*12 + int(today.Month())
	m := first.Year()*12 + int(first.Month())
	switch {
	case m == cur:
		return today, true
	case m > cur && policy == ElapsedCalendar:
		return time.Time{}, false
	default:
		return last, true
	}
}

// countWeekdays counts Monday to Friday dates in [from, to].
func countWeekdays(from, to time.Time) int {
	n := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			n++
		}
	}
	return n
}
