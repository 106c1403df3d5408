package store

import (
	"database/sql"
	"fmt"

	"github.com/sadopc/timeledger/internal/ledger"
)

func loadDays(q querier) (ledger.Days, error) {
	rows, err := q.Query(`SELECT date_key, start_ts, end_ts FROM days`)
	if err != nil {
		return nil, fmt.Errorf("list days: %w", err)
	}
	defer rows.Close()

	days := ledger.Days{}
	for rows.Next() {
		var key string
		var start, end sql.NullInt64
		if err := rows.Scan(&key, &start, &end); err != nil {
			return nil, err
		}
		d := ledger.Day{Intervals: []ledger.Interval{}}
		if start.Valid {
			d.StartTS = &start.Int64
		}
		if end.Valid {
			d.EndTS = &end.Int64
		}
		days[key] = d
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := loadIntervals(q, days); err != nil {
		return nil, err
	}
	return days, nil
}

func loadIntervals(q querier, days ledger.Days) error {
	rows, err := q.Query(
		`SELECT id, date_key, start_min, end_min, account_id, text, is_break
		 FROM intervals ORDER BY date_key, position`,
	)
	if err != nil {
		return fmt.Errorf("list intervals: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var iv ledger.Interval
		var key string
		var isBreak int
		if err := rows.Scan(&iv.ID, &key, &iv.StartMin, &iv.EndMin, &iv.AccountID, &iv.Text, &isBreak); err != nil {
			return err
		}
		iv.IsBreak = isBreak == 1
		d := days[key]
		d.Intervals = append(d.Intervals, iv)
		days[key] = d
	}
	return rows.Err()
}

func saveDays(q querier, days ledger.Days) error {
	// intervals go with their day through ON DELETE CASCADE
	if _, err := q.Exec(`DELETE FROM days`); err != nil {
		return fmt.Errorf("clear days: %w", err)
	}
	for key, d := range days {
		if _, err := q.Exec(
			`INSERT INTO days (date_key, start_ts, end_ts) VALUES (?, ?, ?)`,
			key, nullInt(d.StartTS), nullInt(d.EndTS),
		); err != nil {
			return fmt.Errorf("insert day %s: %w", key, err)
		}
		for i, iv := range d.Intervals {
			if _, err := q.Exec(
				`INSERT INTO intervals (id, date_key, position, start_min, end_min, account_id, text, is_break)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				iv.ID, key, i, iv.StartMin, iv.EndMin, iv.AccountID, iv.Text, boolToInt(iv.IsBreak),
			); err != nil {
				return fmt.Errorf("insert interval on %s: %w", key, err)
			}
		}
	}
	return nil
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
