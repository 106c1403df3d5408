package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/sadopc/timeledger/internal/ledger"
)

const (
	backupApp    = "TimeLedger"
	backupSchema = 1
)

var ErrInvalidBackup = errors.New("invalid backup")

type backupFile struct {
	App      string        `json:"app"`
	Exported string        `json:"exported"`
	Schema   int           `json:"schema"`
	Data     *ledger.State `json:"data"`
}

// BackupFileName returns timeledger-backup-YYYY-MM-DD.json.
func BackupFileName(now time.Time) string {
	return "timeledger-backup-" + ledger.DateKey(now) + ".json"
}

// WriteBackup writes the whole ledger as a schema 1 backup.
func WriteBackup(st ledger.State, now time.Time, path string) error {
	b := backupFile{
		App:      backupApp,
		Exported: ledger.DateKey(now),
		Schema:   backupSchema,
		Data:     &st,
	}
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal backup: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write backup file: %w", err)
	}
	return nil
}

// BackupInfo summarizes a decoded backup for confirmation.
type BackupInfo struct {
	App       string
	Exported  string
	Accounts  int
	Days      int
	Intervals int
}

// ReadBackup decodes and validates a backup file. Intervals without an id
// get a fresh one and each day's intervals are ordered by start.
func ReadBackup(path string) (ledger.State, BackupInfo, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ledger.State{}, BackupInfo{}, fmt.Errorf("read backup file: %w", err)
	}

	var b backupFile
	if err := json.Unmarshal(raw, &b); err != nil {
		return ledger.State{}, BackupInfo{}, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	if b.Data == nil {
		return ledger.State{}, BackupInfo{}, fmt.Errorf("%w: missing data", ErrInvalidBackup)
	}
	if b.Schema != backupSchema {
		return ledger.State{}, BackupInfo{}, fmt.Errorf("%w: unsupported schema %d", ErrInvalidBackup, b.Schema)
	}

	st := b.Data.Clone()
	if st.Accounts == nil {
		st.Accounts = []ledger.Account{}
	}
	info := BackupInfo{App: b.App, Exported: b.Exported, Accounts: len(st.Accounts), Days: len(st.Days)}
	for key, d := range st.Days {
		if _, err := ledger.ParseDateKey(key); err != nil {
			return ledger.State{}, BackupInfo{}, fmt.Errorf("%w: day %q: %v", ErrInvalidBackup, key, err)
		}
		for i, iv := range d.Intervals {
			if iv.StartMin < 0 || iv.EndMin <= iv.StartMin {
				return ledger.State{}, BackupInfo{}, fmt.Errorf("%w: interval on %s ends before it starts", ErrInvalidBackup, key)
			}
			if iv.ID == "" {
				d.Intervals[i].ID = uuid.NewString()
			}
		}
		ledger.SortIntervals(d.Intervals)
		info.Intervals += len(d.Intervals)
	}
	return st, info, nil
}
