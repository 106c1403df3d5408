package ledger

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

type BillingRow struct {
	Date         string
	AccountID    string
	AccountName  string
	Start        string
	End          string
	Minutes      int
	HoursDecimal float64
	Text         string
}

// Billing is the underlag of one month for one account or all accounts.
type Billing struct {
	Month        string
	AccountLabel string
	Rows         []BillingRow
	TotalMinutes int
}

// DecimalHours converts minutes to hours rounded half-up to two decimals.
func DecimalHours(mins int) float64 {
	return decimal.NewFromInt(int64(mins)).
		Div(decimal.NewFromInt(60)).
		Round(2).
		InexactFloat64()
}

// TotalHours rounds the accumulated minutes once.
func (b Billing) TotalHours() float64 {
	return DecimalHours(b.TotalMinutes)
}

// BuildBilling collects the non-break intervals of month (YYYY-MM) for the
// selected account, or every account when account is AllAccounts. Days are
// visited in date order and intervals by start minute.
func (s State) BuildBilling(month, account string) Billing {
	b := Billing{Month: month, AccountLabel: AccountLabel(s.Accounts, account)}
	prefix := month + "-"

	var keys []string
	for k := range s.Days {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	for _, k := range keys {
		var ivs []Interval
		for _, iv := range s.Days[k].Intervals {
			if iv.IsBreak {
				continue
			}
			if account != AllAccounts && iv.AccountID != account {
				continue
			}
			ivs = append(ivs, iv)
		}
		SortIntervals(ivs)

		for _, iv := range ivs {
			mins := iv.Duration()
			if mins <= 0 {
				continue
			}
			b.TotalMinutes += mins
			b.Rows = append(b.Rows, BillingRow{
				Date:         k,
				AccountID:    iv.AccountID,
				AccountName:  DisplayName(s.Accounts, iv.AccountID),
				Start:        FormatTime(iv.StartMin),
				End:          FormatTime(iv.EndMin),
				Minutes:      mins,
				HoursDecimal: DecimalHours(mins),
				Text:         iv.Text,
			})
		}
	}
	return b
}
