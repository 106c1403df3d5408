package store

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sadopc/timeledger/internal/ledger"
)

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (s *Store) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// Preferences are the user-editable settings in typed form.
type Preferences struct {
	DailyBudgetHours float64
	InvoiceNo        string
	Locale           string
	ForecastPolicy   ledger.ElapsedPolicy
	CompanyName      string
}

// DefaultPreferences matches the values seeded by the initial migration.
func DefaultPreferences() Preferences {
	return Preferences{
		DailyBudgetHours: 3.2,
		InvoiceNo:        "26-001",
		Locale:           "sv",
		ForecastPolicy:   ledger.ElapsedCalendar,
	}
}

// Preferences reads the typed preferences. Missing or unparseable values
// fall back to their defaults.
func (s *Store) Preferences() (Preferences, error) {
	p := DefaultPreferences()
	settings, err := s.GetAllSettings()
	if err != nil {
		return p, err
	}
	for _, st := range settings {
		switch st.Key {
		case KeyDailyBudgetHours:
			if v, err := strconv.ParseFloat(strings.Replace(st.Value, ",", ".", 1), 64); err == nil && v >= 0 {
				p.DailyBudgetHours = v
			}
		case KeyInvoiceNo:
			if st.Value != "" {
				p.InvoiceNo = st.Value
			}
		case KeyLocale:
			if st.Value != "" {
				p.Locale = st.Value
			}
		case KeyForecastPolicy:
			p.ForecastPolicy = ledger.ParseElapsedPolicy(st.Value)
		case KeyCompanyName:
			p.CompanyName = st.Value
		}
	}
	return p, nil
}

// SavePreferences validates p and writes every key in one transaction.
func (s *Store) SavePreferences(p Preferences) error {
	if p.DailyBudgetHours < 0 {
		return fmt.Errorf("daily budget hours %v: must not be negative", p.DailyBudgetHours)
	}
	if strings.TrimSpace(p.InvoiceNo) == "" {
		return fmt.Errorf("invoice number cannot be empty")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin preferences: %w", err)
	}
	defer tx.Rollback()

	values := map[string]string{
		KeyDailyBudgetHours: strconv.FormatFloat(p.DailyBudgetHours, 'f', -1, 64),
		KeyInvoiceNo:        strings.TrimSpace(p.InvoiceNo),
		KeyLocale:           p.Locale,
		KeyForecastPolicy:   string(ledger.ParseElapsedPolicy(string(p.ForecastPolicy))),
		KeyCompanyName:      strings.TrimSpace(p.CompanyName),
	}
	for k, v := range values {
		if _, err := tx.Exec(
			`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			k, v,
		); err != nil {
			return fmt.Errorf("set %s: %w", k, err)
		}
	}
	return tx.Commit()
}
