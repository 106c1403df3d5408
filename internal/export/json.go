package export

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sadopc/timeledger/internal/ledger"
)

type underlagPayload struct {
	Version   int           `json:"v"`
	CreatedAt int64         `json:"created_at"`
	InvoiceNo string        `json:"invoice_no"`
	Company   string        `json:"company,omitempty"`
	Month     string        `json:"month"`
	Account   string        `json:"account"`
	Hours     float64       `json:"total_hours"`
	Rows      []underlagRow `json:"rows"`
}

type underlagRow struct {
	Date        string  `json:"date"`
	Start       string  `json:"start"`
	End         string  `json:"end"`
	Hours       float64 `json:"hours"`
	Text        string  `json:"text"`
	AccountID   string  `json:"account_id"`
	AccountName string  `json:"account"`
}

// ToJSON writes the underlag payload. Hours are plain decimal numbers; the
// locale only applies to the CSV and HTML renderings.
func ToJSON(b ledger.Billing, m Meta, path string) error {
	payload := underlagPayload{
		Version:   1,
		CreatedAt: m.CreatedAt.UnixMilli(),
		InvoiceNo: m.InvoiceNo,
		Company:   m.Company,
		Month:     b.Month,
		Account:   b.AccountLabel,
		Hours:     b.TotalHours(),
		Rows:      make([]underlagRow, 0, len(b.Rows)),
	}
	for _, r := range b.Rows {
		payload.Rows = append(payload.Rows, underlagRow{
			Date:        r.Date,
			Start:       r.Start,
			End:         r.End,
			Hours:       r.HoursDecimal,
			Text:        r.Text,
			AccountID:   r.AccountID,
			AccountName: r.AccountName,
		})
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
