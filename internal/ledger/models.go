// Package ledger turns day records of work and break intervals into totals,
// per-account breakdowns, period reports, a monthly budget forecast and
// billing rows. Every function here is a pure computation over an in-memory
// State; persistence lives in the store package.
package ledger

// Unassigned is shown for intervals whose account id is empty or no longer
// resolves to an account.
const Unassigned = "(unassigned)"

// AllAccounts selects every account when building billing rows.
const AllAccounts = "ALL"

type Account struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Interval is a contiguous range of wall-clock minutes within one day.
// EndMin is always greater than StartMin for intervals created through
// NewInterval.
type Interval struct {
	ID        string `json:"id"`
	StartMin  int    `json:"start_min"`
	EndMin    int    `json:"end_min"`
	AccountID string `json:"account_id"`
	Text      string `json:"text"`
	IsBreak   bool   `json:"is_break"`
}

// Day is the record stored under a YYYY-MM-DD key. StartTS and EndTS are
// epoch milliseconds set by StartDay/EndDay; aggregation ignores them.
type Day struct {
	StartTS   *int64     `json:"start_ts,omitempty"`
	EndTS     *int64     `json:"end_ts,omitempty"`
	Intervals []Interval `json:"intervals"`
}

// Days maps a YYYY-MM-DD key to its day record.
type Days map[string]Day

// State is a full snapshot of the ledger as loaded from the store.
type State struct {
	Accounts []Account `json:"accounts"`
	Days     Days      `json:"days"`
}

// IntervalInput carries the raw fields of an interval as typed by the user.
type IntervalInput struct {
	Start     string
	End       string
	AccountID string
	Text      string
	IsBreak   bool
}
