package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/sadopc/timeledger/internal/ledger"
	"github.com/sadopc/timeledger/internal/locale"
)

// ToCSV writes one row per billing row plus a TOTAL row. Hours use the
// formatter's decimal separator.
func ToCSV(b ledger.Billing, f locale.Formatter, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write([]string{"Date", "Account", "Start", "End", "Minutes", "Hours", "Text"}); err != nil {
		return err
	}

	for _, r := range b.Rows {
		row := []string{
			r.Date,
			r.AccountName,
			r.Start,
			r.End,
			strconv.Itoa(r.Minutes),
			f.Hours(r.HoursDecimal, 2),
			r.Text,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	total := []string{"TOTAL", b.AccountLabel, "", "", strconv.Itoa(b.TotalMinutes), f.Hours(b.TotalHours(), 2), ""}
	if err := w.Write(total); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}
