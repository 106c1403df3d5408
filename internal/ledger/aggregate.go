package ledger

import (
	"slices"
	"strings"
)

// Row is an interval tagged with the day it belongs to.
type Row struct {
	Date string
	Interval
}

type Aggregate struct {
	TotalWorkMinutes  int
	TotalBreakMinutes int
	// PerAccount holds work minutes per account id; "" is the unassigned
	// bucket. Its values always sum to TotalWorkMinutes.
	PerAccount   map[string]int
	Rows         []Row
	DaysWithData int
}

// AccountTotal is one line of the per-account breakdown.
type AccountTotal struct {
	AccountID string
	Name      string
	Minutes   int
}

// Aggregate folds the day records of keys, in ascending key order, into
// totals, a per-account breakdown and the list of rows. Keys without a
// record are skipped.
func (days Days) Aggregate(keys []string) Aggregate {
	agg := Aggregate{PerAccount: make(map[string]int)}
	sorted := slices.Clone(keys)
	slices.Sort(sorted)

	for _, k := range sorted {
		day, ok := days[k]
		if !ok {
			continue
		}
		agg.DaysWithData++
		agg.TotalBreakMinutes += day.BreakMinutes()
		agg.TotalWorkMinutes += day.WorkMinutes()
		for _, iv := range day.Intervals {
			agg.Rows = append(agg.Rows, Row{Date: k, Interval: iv})
			if iv.IsBreak {
				continue
			}
			agg.PerAccount[iv.AccountID] += iv.Duration()
		}
	}
	return agg
}

// SortedRows returns a copy of the rows ordered by date, then start time.
func (a Aggregate) SortedRows() []Row {
	rows := slices.Clone(a.Rows)
	slices.SortStableFunc(rows, func(x, y Row) int {
		if c := strings.Compare(x.Date, y.Date); c != 0 {
			return c
		}
		return x.StartMin - y.StartMin
	})
	return rows
}

// AccountTotals resolves account names and orders the breakdown by minutes,
// largest first. Equal totals are ordered by name.
func (a Aggregate) AccountTotals(accounts []Account) []AccountTotal {
	totals := make([]AccountTotal, 0, len(a.PerAccount))
	for id, mins := range a.PerAccount {
		totals = append(totals, AccountTotal{
			AccountID: id,
			Name:      DisplayName(accounts, id),
			Minutes:   mins,
		})
	}
	slices.SortFunc(totals, func(x, y AccountTotal) int {
		if x.Minutes != y.Minutes {
			return y.Minutes - x.Minutes
		}
		return strings.Compare(x.Name, y.Name)
	})
	return totals
}

// DailyWork returns the work minutes of each key, in ascending key order.
func (days Days) DailyWork(keys []string) []DayTotal {
	sorted := slices.Clone(keys)
	slices.Sort(sorted)
	out := make([]DayTotal, 0, len(sorted))
	for _, k := range sorted {
		day, ok := days[k]
		if !ok {
			continue
		}
		out = append(out, DayTotal{
			Date:         k,
			WorkMinutes:  day.WorkMinutes(),
			BreakMinutes: day.BreakMinutes(),
		})
	}
	return out
}

type DayTotal struct {
	Date         string
	WorkMinutes  int
	BreakMinutes int
}
