package store

import (
	"fmt"

	"github.com/sadopc/timeledger/internal/ledger"
)

func loadAccounts(q querier) ([]ledger.Account, error) {
	rows, err := q.Query(`SELECT id, name FROM accounts ORDER BY position, name`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	accounts := []ledger.Account{}
	for rows.Next() {
		var a ledger.Account
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func saveAccounts(q querier, accounts []ledger.Account) error {
	if _, err := q.Exec(`DELETE FROM accounts`); err != nil {
		return fmt.Errorf("clear accounts: %w", err)
	}
	for i, a := range accounts {
		if _, err := q.Exec(
			`INSERT INTO accounts (id, name, position) VALUES (?, ?, ?)`,
			a.ID, a.Name, i,
		); err != nil {
			return fmt.Errorf("insert account %q: %w", a.Name, err)
		}
	}
	return nil
}
