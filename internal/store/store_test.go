package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sadopc/timeledger/internal/ledger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// seedState builds a small ledger with one account and two days.
func seedState(t *testing.T) (ledger.State, ledger.Account) {
	t.Helper()
	st, acc, err := ledger.NewState().AddAccount("Acme")
	if err != nil {
		t.Fatal(err)
	}
	inputs := []struct {
		key string
		in  ledger.IntervalInput
	}{
		{"2026-01-05", ledger.IntervalInput{Start: "10:30", End: "11:00", Text: "lunch", IsBreak: true}},
		{"2026-01-05", ledger.IntervalInput{Start: "09:00", End: "10:30", AccountID: acc.ID, Text: "design"}},
		{"2026-01-06", ledger.IntervalInput{Start: "08:00", End: "08:45", AccountID: acc.ID}},
	}
	for _, x := range inputs {
		st, _, err = st.AddInterval(x.key, x.in)
		if err != nil {
			t.Fatalf("add %s: %v", x.key, err)
		}
	}
	st = st.StartDay("2026-01-06", time.Date(2026, 1, 6, 8, 0, 0, 0, time.UTC))
	return st, acc
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	version, err := s.schemaVersion()
	if err != nil {
		t.Fatal(err)
	}
	if version != 1 {
		t.Fatalf("expected schema version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "timeledger.db")
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	st, _ := seedState(t)
	if err := s.Save(st); err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen: migrations are a no-op and data survives
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	got, err := s2.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Days) != 2 || len(got.Accounts) != 1 {
		t.Fatalf("reopened state = %+v", got)
	}
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "timeledger.db" {
		t.Fatalf("unexpected path %q", path)
	}
}

func TestPragmasConfigured(t *testing.T) {
	s := newTestStore(t)

	var fk int
	s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk)
	if fk != 1 {
		t.Fatalf("expected foreign_keys=1, got %d", fk)
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := runMigrations(s.db); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

// ============================================================
// Snapshot load / save
// ============================================================

func TestLoadEmpty(t *testing.T) {
	s := newTestStore(t)

	st, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(st.Accounts) != 0 || len(st.Days) != 0 {
		t.Fatalf("expected empty ledger, got %+v", st)
	}
	if st.Days == nil || st.Accounts == nil {
		t.Fatal("empty ledger should have non-nil collections")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	st, acc := seedState(t)

	if err := s.Save(st); err != nil {
		t.Fatal(err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}

	if len(got.Accounts) != 1 || got.Accounts[0] != acc {
		t.Fatalf("accounts = %+v", got.Accounts)
	}
	day := got.Days["2026-01-05"]
	if len(day.Intervals) != 2 {
		t.Fatalf("expected 2 intervals, got %d", len(day.Intervals))
	}
	if day.Intervals[0].StartMin != 540 || day.Intervals[1].StartMin != 630 {
		t.Fatalf("interval order not preserved: %+v", day.Intervals)
	}
	if !day.Intervals[1].IsBreak || day.Intervals[1].Text != "lunch" {
		t.Fatalf("break interval = %+v", day.Intervals[1])
	}
	if day.StartTS != nil {
		t.Fatal("day without start marker should load nil StartTS")
	}

	d2 := got.Days["2026-01-06"]
	if d2.StartTS == nil || *d2.StartTS != *st.Days["2026-01-06"].StartTS {
		t.Fatalf("start marker lost: %+v", d2)
	}
	if d2.EndTS != nil {
		t.Fatal("end marker should be nil")
	}
}

func TestSaveReplacesSnapshot(t *testing.T) {
	s := newTestStore(t)
	st, _ := seedState(t)
	if err := s.Save(st); err != nil {
		t.Fatal(err)
	}

	st = st.ClearDay("2026-01-05")
	delete(st.Days, "2026-01-06")
	if err := s.Save(st); err != nil {
		t.Fatal(err)
	}

	got, _ := s.Load()
	if len(got.Days) != 1 {
		t.Fatalf("expected 1 day, got %d", len(got.Days))
	}
	if n := len(got.Days["2026-01-05"].Intervals); n != 0 {
		t.Fatalf("cleared day still has %d intervals", n)
	}

	var orphans int
	s.db.QueryRow(`SELECT COUNT(*) FROM intervals`).Scan(&orphans)
	if orphans != 0 {
		t.Fatalf("expected no stored intervals, got %d", orphans)
	}
}

func TestLoadedAggregateMatches(t *testing.T) {
	s := newTestStore(t)
	st, acc := seedState(t)
	s.Save(st)

	got, _ := s.Load()
	keys := []string{"2026-01-05", "2026-01-06"}
	want := st.Days.Aggregate(keys)
	agg := got.Days.Aggregate(keys)
	if agg.TotalWorkMinutes != want.TotalWorkMinutes || agg.TotalBreakMinutes != want.TotalBreakMinutes {
		t.Fatalf("aggregate = %+v, want %+v", agg, want)
	}
	if agg.PerAccount[acc.ID] != 135 {
		t.Fatalf("per-account = %d, want 135", agg.PerAccount[acc.ID])
	}
}

// ============================================================
// Update
// ============================================================

func TestUpdateAppliesAndPersists(t *testing.T) {
	s := newTestStore(t)

	next, err := s.Update(func(st ledger.State) (ledger.State, error) {
		st, _, err := st.AddAccount("Beta")
		return st, err
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(next.Accounts) != 1 {
		t.Fatalf("returned state = %+v", next)
	}

	got, _ := s.Load()
	if len(got.Accounts) != 1 || got.Accounts[0].Name != "Beta" {
		t.Fatalf("stored accounts = %+v", got.Accounts)
	}
}

func TestUpdateRejectedLeavesStoreUnchanged(t *testing.T) {
	s := newTestStore(t)
	st, _ := seedState(t)
	s.Save(st)

	cur, err := s.Update(func(st ledger.State) (ledger.State, error) {
		st, _, err := st.AddInterval("2026-01-05", ledger.IntervalInput{Start: "12:00", End: "11:00"})
		return st, err
	})
	if !errors.Is(err, ledger.ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval, got %v", err)
	}
	if len(cur.Days["2026-01-05"].Intervals) != 2 {
		t.Fatal("rejected update should return the current state")
	}

	got, _ := s.Load()
	if len(got.Days["2026-01-05"].Intervals) != 2 {
		t.Fatal("rejected update changed the store")
	}
}

func TestUpdateStartEndDay(t *testing.T) {
	s := newTestStore(t)
	now := time.Date(2026, 1, 7, 8, 0, 0, 0, time.UTC)

	if _, err := s.Update(func(st ledger.State) (ledger.State, error) {
		return st.EndDay("2026-01-07", now)
	}); !errors.Is(err, ledger.ErrDayNotStarted) {
		t.Fatalf("expected ErrDayNotStarted, got %v", err)
	}

	s.Update(func(st ledger.State) (ledger.State, error) {
		return st.StartDay("2026-01-07", now), nil
	})
	s.Update(func(st ledger.State) (ledger.State, error) {
		return st.EndDay("2026-01-07", now.Add(3*time.Hour))
	})

	got, _ := s.Load()
	d := got.Days["2026-01-07"]
	if d.StartTS == nil || d.EndTS == nil {
		t.Fatalf("markers not stored: %+v", d)
	}
	if *d.EndTS-*d.StartTS != (3 * time.Hour).Milliseconds() {
		t.Fatalf("marker span = %d ms", *d.EndTS-*d.StartTS)
	}
}

// ============================================================
// Settings
// ============================================================

func TestSettingsDefaults(t *testing.T) {
	s := newTestStore(t)

	defaults := map[string]string{
		KeyDailyBudgetHours: "3.2",
		KeyInvoiceNo:        "26-001",
		KeyLocale:           "sv",
		KeyForecastPolicy:   "calendar",
		KeyCompanyName:      "",
	}

	for k, expected := range defaults {
		val, err := s.GetSetting(k)
		if err != nil {
			t.Fatalf("GetSetting(%q): %v", k, err)
		}
		if val != expected {
			t.Fatalf("GetSetting(%q) = %q, want %q", k, val, expected)
		}
	}
}

func TestSetSettingOverwrite(t *testing.T) {
	s := newTestStore(t)

	s.SetSetting(KeyInvoiceNo, "26-002")
	val, _ := s.GetSetting(KeyInvoiceNo)
	if val != "26-002" {
		t.Fatalf("expected 26-002, got %s", val)
	}
}

func TestGetSettingNotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.GetSetting("nonexistent"); err == nil {
		t.Fatal("expected error for missing setting")
	}
}

func TestGetAllSettings(t *testing.T) {
	s := newTestStore(t)

	all, err := s.GetAllSettings()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 5 {
		t.Fatalf("expected 5 settings, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Key > all[i].Key {
			t.Fatal("settings not sorted by key")
		}
	}
}

// ============================================================
// Preferences
// ============================================================

func TestPreferencesDefaults(t *testing.T) {
	s := newTestStore(t)

	p, err := s.Preferences()
	if err != nil {
		t.Fatal(err)
	}
	if p != DefaultPreferences() {
		t.Fatalf("preferences = %+v, want %+v", p, DefaultPreferences())
	}
}

func TestSavePreferences(t *testing.T) {
	s := newTestStore(t)

	want := Preferences{
		DailyBudgetHours: 4.5,
		InvoiceNo:        "26-007",
		Locale:           "en",
		ForecastPolicy:   ledger.ElapsedWholeMonth,
		CompanyName:      "Konsult AB",
	}
	if err := s.SavePreferences(want); err != nil {
		t.Fatal(err)
	}
	got, _ := s.Preferences()
	if got != want {
		t.Fatalf("preferences = %+v, want %+v", got, want)
	}
}

func TestSavePreferencesValidation(t *testing.T) {
	s := newTestStore(t)

	p := DefaultPreferences()
	p.DailyBudgetHours = -1
	if err := s.SavePreferences(p); err == nil {
		t.Fatal("expected error for negative budget")
	}
	p = DefaultPreferences()
	p.InvoiceNo = "  "
	if err := s.SavePreferences(p); err == nil {
		t.Fatal("expected error for empty invoice number")
	}
}

func TestPreferencesBadValuesFallBack(t *testing.T) {
	s := newTestStore(t)

	s.SetSetting(KeyDailyBudgetHours, "lots")
	s.SetSetting(KeyForecastPolicy, "weird")
	p, _ := s.Preferences()
	if p.DailyBudgetHours != 3.2 || p.ForecastPolicy != ledger.ElapsedCalendar {
		t.Fatalf("preferences = %+v", p)
	}

	s.SetSetting(KeyDailyBudgetHours, "2,5")
	p, _ = s.Preferences()
	if p.DailyBudgetHours != 2.5 {
		t.Fatalf("comma decimal: got %v", p.DailyBudgetHours)
	}
}

// ============================================================
// Foreign key enforcement
// ============================================================

func TestForeignKeyIntervalDay(t *testing.T) {
	s := newTestStore(t)
	_, err := s.db.Exec(
		`INSERT INTO intervals (id, date_key, start_min, end_min) VALUES ('x', '2026-01-01', 0, 10)`,
	)
	if err == nil {
		t.Fatal("expected foreign key error for interval without day")
	}
}

// ============================================================
// Close
// ============================================================

func TestCloseStore(t *testing.T) {
	s, _ := NewMemory()
	err := s.Close()
	if err != nil {
		t.Fatalf("first close: %v", err)
	}
}
