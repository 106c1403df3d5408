package ledger

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewState returns an empty ledger.
func NewState() State {
	return State{Days: make(Days)}
}

// Clone deep-copies the snapshot so transforms never alias the caller's
// slices or map.
func (s State) Clone() State {
	out := State{
		Accounts: slices.Clone(s.Accounts),
		Days:     make(Days, len(s.Days)),
	}
	for k, d := range s.Days {
		out.Days[k] = d.clone()
	}
	return out
}

func (d Day) clone() Day {
	out := Day{Intervals: slices.Clone(d.Intervals)}
	if out.Intervals == nil {
		out.Intervals = []Interval{}
	}
	if d.StartTS != nil {
		v := *d.StartTS
		out.StartTS = &v
	}
	if d.EndTS != nil {
		v := *d.EndTS
		out.EndTS = &v
	}
	return out
}

// Day returns the record for key, or an empty one if it was never touched.
func (s State) Day(key string) Day {
	if d, ok := s.Days[key]; ok {
		return d
	}
	return Day{Intervals: []Interval{}}
}

// Touch creates an empty record for key if none exists.
func (s State) Touch(key string) State {
	if _, ok := s.Days[key]; ok {
		return s
	}
	out := s.Clone()
	out.Days[key] = Day{Intervals: []Interval{}}
	return out
}

// --- Accounts ---

// AccountName returns the name for id, or "" if it does not resolve.
func AccountName(accounts []Account, id string) string {
	for _, a := range accounts {
		if a.ID == id {
			return a.Name
		}
	}
	return ""
}

// DisplayName is AccountName with the Unassigned placeholder.
func DisplayName(accounts []Account, id string) string {
	if name := AccountName(accounts, id); name != "" {
		return name
	}
	return Unassigned
}

// AccountLabel names a billing account selector.
func AccountLabel(accounts []Account, selector string) string {
	if selector == AllAccounts {
		return "All accounts"
	}
	return DisplayName(accounts, selector)
}

// FindAccountByName matches names case-insensitively after trimming.
func FindAccountByName(accounts []Account, name string) (Account, bool) {
	n := strings.TrimSpace(name)
	for _, a := range accounts {
		if strings.EqualFold(a.Name, n) {
			return a, true
		}
	}
	return Account{}, false
}

// SortedAccounts returns the accounts ordered by name for display.
func SortedAccounts(accounts []Account) []Account {
	out := slices.Clone(accounts)
	slices.SortStableFunc(out, func(a, b Account) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return out
}

func (s State) AddAccount(name string) (State, Account, error) {
	n := strings.TrimSpace(name)
	if n == "" {
		return s, Account{}, ErrEmptyAccountName
	}
	if _, ok := FindAccountByName(s.Accounts, n); ok {
		return s, Account{}, fmt.Errorf("%w: %q", ErrDuplicateAccount, n)
	}
	a := Account{ID: uuid.NewString(), Name: n}
	out := s.Clone()
	out.Accounts = append(out.Accounts, a)
	return out, a, nil
}

func (s State) RenameAccount(id, name string) (State, error) {
	n := strings.TrimSpace(name)
	if n == "" {
		return s, ErrEmptyAccountName
	}
	idx := slices.IndexFunc(s.Accounts, func(a Account) bool { return a.ID == id })
	if idx < 0 {
		return s, fmt.Errorf("%w: %s", ErrAccountNotFound, id)
	}
	if other, ok := FindAccountByName(s.Accounts, n); ok && other.ID != id {
		return s, fmt.Errorf("%w: %q", ErrDuplicateAccount, n)
	}
	out := s.Clone()
	out.Accounts[idx].Name = n
	return out, nil
}

// DeleteAccount removes the account. Intervals keep the stale id and show
// up as unassigned.
func (s State) DeleteAccount(id string) State {
	out := s.Clone()
	out.Accounts = slices.DeleteFunc(out.Accounts, func(a Account) bool { return a.ID == id })
	return out
}

// --- Intervals ---

func (s State) AddInterval(key string, in IntervalInput) (State, Interval, error) {
	iv, err := NewInterval(in)
	if err != nil {
		return s, Interval{}, err
	}
	out := s.Clone()
	day := out.Day(key)
	day.Intervals = append(day.Intervals, iv)
	SortIntervals(day.Intervals)
	out.Days[key] = day
	return out, iv, nil
}

// EditInterval replaces every field of interval id, keeping its id.
func (s State) EditInterval(key, id string, in IntervalInput) (State, error) {
	idx := s.intervalIndex(key, id)
	if idx < 0 {
		return s, fmt.Errorf("%w: %s", ErrIntervalNotFound, id)
	}
	iv, err := buildInterval(in)
	if err != nil {
		return s, err
	}
	iv.ID = id
	out := s.Clone()
	day := out.Days[key]
	day.Intervals[idx] = iv
	SortIntervals(day.Intervals)
	out.Days[key] = day
	return out, nil
}

func (s State) DeleteInterval(key, id string) (State, error) {
	if s.intervalIndex(key, id) < 0 {
		return s, fmt.Errorf("%w: %s", ErrIntervalNotFound, id)
	}
	out := s.Clone()
	day := out.Days[key]
	day.Intervals = slices.DeleteFunc(day.Intervals, func(iv Interval) bool { return iv.ID == id })
	out.Days[key] = day
	return out, nil
}

func (s State) ToggleBreak(key, id string) (State, error) {
	idx := s.intervalIndex(key, id)
	if idx < 0 {
		return s, fmt.Errorf("%w: %s", ErrIntervalNotFound, id)
	}
	out := s.Clone()
	day := out.Days[key]
	day.Intervals[idx].IsBreak = !day.Intervals[idx].IsBreak
	out.Days[key] = day
	return out, nil
}

// ClearDay removes every interval of the day but keeps the record.
func (s State) ClearDay(key string) State {
	out := s.Clone()
	day := out.Day(key)
	day.Intervals = []Interval{}
	out.Days[key] = day
	return out
}

func (s State) intervalIndex(key, id string) int {
	day, ok := s.Days[key]
	if !ok {
		return -1
	}
	return slices.IndexFunc(day.Intervals, func(iv Interval) bool { return iv.ID == id })
}

// --- Day markers ---

// StartDay sets the start marker once and clears any end marker.
func (s State) StartDay(key string, now time.Time) State {
	if d, ok := s.Days[key]; ok && d.StartTS != nil {
		return s
	}
	out := s.Clone()
	day := out.Day(key)
	ts := now.UnixMilli()
	day.StartTS = &ts
	day.EndTS = nil
	out.Days[key] = day
	return out
}

func (s State) EndDay(key string, now time.Time) (State, error) {
	if d, ok := s.Days[key]; !ok || d.StartTS == nil {
		return s, fmt.Errorf("%w: %s", ErrDayNotStarted, key)
	}
	out := s.Clone()
	day := out.Days[key]
	ts := now.UnixMilli()
	day.EndTS = &ts
	out.Days[key] = day
	return out, nil
}
