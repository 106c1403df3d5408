package store

import (
	"fmt"
	"time"

	"github.com/sadopc/timeledger/internal/ledger"
	"github.com/sadopc/timeledger/internal/log"
)

// Load reads the whole ledger.
func (s *Store) Load() (ledger.State, error) {
	return loadState(s.db)
}

// Save replaces the stored ledger with st in one transaction.
func (s *Store) Save(st ledger.State) error {
	start := time.Now()
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	if err := saveState(tx, st); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	s.log.Debug("snapshot saved",
		log.FieldOperation, log.OpSave,
		log.FieldCount, len(st.Days),
		log.FieldDuration, time.Since(start).Milliseconds())
	return nil
}

// Update loads the ledger, applies fn and saves the result atomically. When
// fn fails nothing is written and the error is returned unchanged, so
// callers can match ledger sentinels with errors.Is.
func (s *Store) Update(fn func(ledger.State) (ledger.State, error)) (ledger.State, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return ledger.State{}, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback()

	cur, err := loadState(tx)
	if err != nil {
		return ledger.State{}, err
	}
	next, err := fn(cur)
	if err != nil {
		return cur, err
	}
	if err := saveState(tx, next); err != nil {
		return cur, err
	}
	if err := tx.Commit(); err != nil {
		return cur, fmt.Errorf("commit update: %w", err)
	}
	return next, nil
}

func loadState(q querier) (ledger.State, error) {
	accounts, err := loadAccounts(q)
	if err != nil {
		return ledger.State{}, fmt.Errorf("load accounts: %w", err)
	}
	days, err := loadDays(q)
	if err != nil {
		return ledger.State{}, fmt.Errorf("load days: %w", err)
	}
	return ledger.State{Accounts: accounts, Days: days}, nil
}

func saveState(q querier, st ledger.State) error {
	if err := saveAccounts(q, st.Accounts); err != nil {
		return fmt.Errorf("save accounts: %w", err)
	}
	if err := saveDays(q, st.Days); err != nil {
		return fmt.Errorf("save days: %w", err)
	}
	return nil
}
