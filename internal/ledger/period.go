package ledger

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

type PeriodKind string

const (
	PeriodDay   PeriodKind = "day"
	PeriodWeek  PeriodKind = "week"
	PeriodMonth PeriodKind = "month"
)

// PeriodKinds lists the kinds in the order the UI cycles through them.
var PeriodKinds = []PeriodKind{PeriodDay, PeriodWeek, PeriodMonth}

func ParsePeriodKind(s string) (PeriodKind, error) {
	switch k := PeriodKind(strings.ToLower(strings.TrimSpace(s))); k {
	case PeriodDay, PeriodWeek, PeriodMonth:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPeriodKind, s)
}

// Period is a day, ISO week or calendar month anchored at a reference date.
type Period struct {
	Kind PeriodKind
	Ref  time.Time
}

// DateKey formats t as a YYYY-MM-DD day key.
func DateKey(t time.Time) string {
	return t.Format(dateLayout)
}

// MonthKey formats t as a YYYY-MM month identifier.
func MonthKey(t time.Time) string {
	return t.Format(monthLayout)
}

// ParseDateKey parses a YYYY-MM-DD key as a calendar date (UTC midnight).
func ParseDateKey(key string) (time.Time, error) {
	return time.Parse(dateLayout, key)
}

// ISOWeekKey returns the ISO 8601 week identifier of t, e.g. "2026-W01".
// Week keys of reference dates and of stored day keys both come from here.
func ISOWeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// NewPeriod resolves the reference date. An empty ref means today; a ref
// that does not parse yields ErrUnresolvableReferenceDate.
func NewPeriod(kind PeriodKind, ref string, today time.Time) (Period, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		ref = DateKey(today)
	}
	t, err := ParseDateKey(ref)
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q", ErrUnresolvableReferenceDate, ref)
	}
	if kind == "" {
		kind = PeriodDay
	}
	return Period{Kind: kind, Ref: t}, nil
}

// Label is the identifier of the period: the date, ISO week or month.
func (p Period) Label() string {
	switch p.Kind {
	case PeriodWeek:
		return ISOWeekKey(p.Ref)
	case PeriodMonth:
		return MonthKey(p.Ref)
	default:
		return DateKey(p.Ref)
	}
}

// Contains reports whether the day key belongs to the period.
func (p Period) Contains(key string) bool {
	switch p.Kind {
	case PeriodMonth:
		return strings.HasPrefix(key, MonthKey(p.Ref)+"-")
	case PeriodWeek:
		t, err := ParseDateKey(key)
		if err != nil {
			return false
		}
		return ISOWeekKey(t) == ISOWeekKey(p.Ref)
	default:
		return key == DateKey(p.Ref)
	}
}

// Keys returns the existing day keys of the period in ascending order. It
// never fabricates keys for days without a record.
func (p Period) Keys(days Days) []string {
	var keys []string
	for _, k := range slices.Sorted(maps.Keys(days)) {
		if p.Contains(k) {
			keys = append(keys, k)
		}
	}
	return keys
}

// Shift moves the reference date n periods forward (negative n goes back).
func (p Period) Shift(n int) Period {
	switch p.Kind {
	case PeriodWeek:
		p.Ref = p.Ref.AddDate(0, 0, 7*n)
	case PeriodMonth:
		first := time.Date(p.Ref.Year(), p.Ref.Month(), 1, 0, 0, 0, 0, time.UTC)
		p.Ref = first.AddDate(0, n, 0)
	default:
		p.Ref = p.Ref.AddDate(0, 0, n)
	}
	return p
}

// ResolveKeys is NewPeriod followed by Keys. An unparseable reference date
// degrades to no keys so downstream aggregation reports zeros.
func ResolveKeys(days Days, kind PeriodKind, ref string, today time.Time) []string {
	p, err := NewPeriod(kind, ref, today)
	if err != nil {
		return nil
	}
	return p.Keys(days)
}
