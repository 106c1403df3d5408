package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/timeledger/internal/ledger"
	"github.com/sadopc/timeledger/internal/locale"
)

// sampleState has two accounts, a break and a day outside January.
func sampleState(t *testing.T) (ledger.State, ledger.Account, ledger.Account) {
	t.Helper()
	st, a, err := ledger.NewState().AddAccount("Acme")
	if err != nil {
		t.Fatal(err)
	}
	st, b, err := st.AddAccount("Beta")
	if err != nil {
		t.Fatal(err)
	}
	add := func(key string, in ledger.IntervalInput) {
		var err error
		st, _, err = st.AddInterval(key, in)
		if err != nil {
			t.Fatalf("add %s: %v", key, err)
		}
	}
	add("2026-01-06", ledger.IntervalInput{Start: "13:00", End: "13:45", AccountID: b.ID, Text: `fix "quotes", commas`})
	add("2026-01-05", ledger.IntervalInput{Start: "09:00", End: "10:30", AccountID: a.ID, Text: "design"})
	add("2026-01-05", ledger.IntervalInput{Start: "10:30", End: "11:00", IsBreak: true})
	add("2026-02-02", ledger.IntervalInput{Start: "08:00", End: "09:00", AccountID: a.ID})
	return st, a, b
}

func sampleMeta() Meta {
	return Meta{
		InvoiceNo: "26-001",
		Company:   "Konsult AB",
		CreatedAt: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
	}
}

// ============================================================
// File names
// ============================================================

func TestSafeFilePart(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"26-001", "26-001"},
		{`a/b\c:d*e?f"g<h>i|j`, "a-b-c-d-e-f-g-h-i-j"},
		{"a//b", "a-b"},
		{"  many   spaces\there ", "many spaces here"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SafeFilePart(tt.in); got != tt.want {
			t.Errorf("SafeFilePart(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDocumentTitle(t *testing.T) {
	m := sampleMeta()
	if got := DocumentTitle(m); got != "Fakturaunderlag-26-001 Konsult AB" {
		t.Fatalf("title = %q", got)
	}
	m.Company = ""
	m.InvoiceNo = "26/002"
	if got := DocumentTitle(m); got != "Fakturaunderlag-26-002" {
		t.Fatalf("title = %q", got)
	}
	if got := FileName(m, "2026-01", "csv"); got != "Fakturaunderlag-26-002 2026-01.csv" {
		t.Fatalf("file name = %q", got)
	}
}

func TestBackupFileName(t *testing.T) {
	got := BackupFileName(time.Date(2026, 3, 9, 23, 0, 0, 0, time.UTC))
	if got != "timeledger-backup-2026-03-09.json" {
		t.Fatalf("backup file name = %q", got)
	}
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	st, _, _ := sampleState(t)
	b := st.BuildBilling("2026-01", ledger.AllAccounts)
	path := filepath.Join(t.TempDir(), "test.csv")

	if err := ToCSV(b, locale.New("sv"), path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	// header + 2 work rows + total; the break and February are excluded
	if len(records) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(records))
	}

	expectedHeader := []string{"Date", "Account", "Start", "End", "Minutes", "Hours", "Text"}
	for i, h := range expectedHeader {
		if records[0][i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}

	row := records[1]
	if row[0] != "2026-01-05" || row[1] != "Acme" || row[2] != "09:00" || row[3] != "10:30" {
		t.Fatalf("first row = %v", row)
	}
	if row[4] != "90" || row[5] != "1,50" {
		t.Fatalf("first row minutes/hours = %q/%q", row[4], row[5])
	}
	if records[2][6] != `fix "quotes", commas` {
		t.Fatalf("text not round-tripped: %q", records[2][6])
	}

	total := records[3]
	if total[0] != "TOTAL" || total[4] != "135" || total[5] != "2,25" {
		t.Fatalf("total row = %v", total)
	}
}

func TestToCSVEnglishSeparator(t *testing.T) {
	st, a, _ := sampleState(t)
	b := st.BuildBilling("2026-01", a.ID)
	path := filepath.Join(t.TempDir(), "en.csv")

	if err := ToCSV(b, locale.New("en"), path); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "1.50") {
		t.Fatalf("expected dot decimal separator:\n%s", data)
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	if err := ToCSV(ledger.Billing{Month: "2026-03"}, locale.New("sv"), path); err != nil {
		t.Fatal(err)
	}
	f, _ := os.Open(path)
	defer f.Close()
	records, _ := csv.NewReader(f).ReadAll()
	if len(records) != 2 {
		t.Fatalf("expected header and total only, got %d rows", len(records))
	}
}

func TestToCSVBadPath(t *testing.T) {
	err := ToCSV(ledger.Billing{}, locale.New("sv"), "/nonexistent/dir/file.csv")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	st, _, b := sampleState(t)
	billing := st.BuildBilling("2026-01", b.ID)
	path := filepath.Join(t.TempDir(), "test.json")

	if err := ToJSON(billing, sampleMeta(), path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, _ := os.ReadFile(path)
	var result underlagPayload
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if result.Version != 1 || result.InvoiceNo != "26-001" || result.Month != "2026-01" {
		t.Fatalf("payload header = %+v", result)
	}
	if result.Account != "Beta" {
		t.Fatalf("account = %q, want Beta", result.Account)
	}
	if result.CreatedAt != sampleMeta().CreatedAt.UnixMilli() {
		t.Fatalf("created_at = %d", result.CreatedAt)
	}
	if len(result.Rows) != 1 || result.Rows[0].Hours != 0.75 || result.Rows[0].AccountName != "Beta" {
		t.Fatalf("rows = %+v", result.Rows)
	}
	if result.Hours != 0.75 {
		t.Fatalf("total hours = %v", result.Hours)
	}
}

func TestToJSONEmptyRowsIsArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := ToJSON(ledger.Billing{Month: "2026-03"}, sampleMeta(), path); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `"rows": []`) {
		t.Fatalf("expected empty rows array:\n%s", data)
	}
}

func TestToJSONBadPath(t *testing.T) {
	err := ToJSON(ledger.Billing{}, sampleMeta(), "/nonexistent/dir/file.json")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

// ============================================================
// HTML
// ============================================================

func TestToHTML(t *testing.T) {
	st, _, _ := sampleState(t)
	b := st.BuildBilling("2026-01", ledger.AllAccounts)
	path := filepath.Join(t.TempDir(), "underlag.html")

	if err := ToHTML(b, sampleMeta(), locale.New("sv"), path); err != nil {
		t.Fatalf("ToHTML: %v", err)
	}

	data, _ := os.ReadFile(path)
	html := string(data)
	for _, want := range []string{
		"<title>Fakturaunderlag-26-001 Konsult AB</title>",
		"09:00–10:30",
		"1,50",
		"SUMMA",
		"2,25",
		"All accounts",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("html missing %q", want)
		}
	}
}

func TestToHTMLEscapesText(t *testing.T) {
	st, acc, err := ledger.NewState().AddAccount("Acme")
	if err != nil {
		t.Fatal(err)
	}
	st, _, err = st.AddInterval("2026-01-05", ledger.IntervalInput{
		Start: "09:00", End: "10:00", AccountID: acc.ID, Text: "<script>alert(1)</script>",
	})
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "esc.html")
	ToHTML(st.BuildBilling("2026-01", acc.ID), sampleMeta(), locale.New("sv"), path)

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "<script>") {
		t.Fatal("interval text was not escaped")
	}
}

// ============================================================
// Backup
// ============================================================

func TestBackupRoundTrip(t *testing.T) {
	st, a, _ := sampleState(t)
	st = st.StartDay("2026-01-05", time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC))
	path := filepath.Join(t.TempDir(), "backup.json")

	if err := WriteBackup(st, time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC), path); err != nil {
		t.Fatal(err)
	}

	got, info, err := ReadBackup(path)
	if err != nil {
		t.Fatalf("ReadBackup: %v", err)
	}
	if info.App != "TimeLedger" || info.Exported != "2026-02-01" {
		t.Fatalf("info = %+v", info)
	}
	if info.Accounts != 2 || info.Days != 3 || info.Intervals != 4 {
		t.Fatalf("counts = %+v", info)
	}
	if ledger.AccountName(got.Accounts, a.ID) != "Acme" {
		t.Fatal("account lost in round trip")
	}
	if got.Days["2026-01-05"].StartTS == nil {
		t.Fatal("start marker lost in round trip")
	}

	keys := []string{"2026-01-05", "2026-01-06", "2026-02-02"}
	if got.Days.Aggregate(keys).TotalWorkMinutes != st.Days.Aggregate(keys).TotalWorkMinutes {
		t.Fatal("aggregate differs after round trip")
	}
}

func TestBackupHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")
	WriteBackup(ledger.NewState(), time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC), path)

	data, _ := os.ReadFile(path)
	var raw map[string]any
	json.Unmarshal(data, &raw)
	if raw["app"] != "TimeLedger" || raw["schema"] != float64(1) {
		t.Fatalf("backup header = %v", raw)
	}
	if _, ok := raw["data"].(map[string]any); !ok {
		t.Fatal("backup data should be an object")
	}
}

func TestReadBackupRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{{`},
		{"missing data", `{"app":"TimeLedger","schema":1}`},
		{"wrong schema", `{"app":"TimeLedger","schema":2,"data":{"accounts":[],"days":{}}}`},
		{"bad date key", `{"schema":1,"data":{"accounts":[],"days":{"jan 5":{"intervals":[]}}}}`},
		{"inverted interval", `{"schema":1,"data":{"accounts":[],"days":{"2026-01-05":{"intervals":[{"id":"x","start_min":600,"end_min":540}]}}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.json")
			os.WriteFile(path, []byte(tt.body), 0o644)
			if _, _, err := ReadBackup(path); !errors.Is(err, ErrInvalidBackup) {
				t.Fatalf("expected ErrInvalidBackup, got %v", err)
			}
		})
	}
}

func TestReadBackupNormalizes(t *testing.T) {
	body := `{"schema":1,"data":{"days":{"2026-01-05":{"intervals":[
		{"start_min":600,"end_min":660},
		{"id":"a","start_min":540,"end_min":570}
	]}}}}`
	path := filepath.Join(t.TempDir(), "loose.json")
	os.WriteFile(path, []byte(body), 0o644)

	st, _, err := ReadBackup(path)
	if err != nil {
		t.Fatal(err)
	}
	if st.Accounts == nil {
		t.Fatal("accounts should be non-nil")
	}
	ivs := st.Days["2026-01-05"].Intervals
	if ivs[0].ID != "a" || ivs[1].ID == "" {
		t.Fatalf("intervals not normalized: %+v", ivs)
	}
}

func TestReadBackupMissingFile(t *testing.T) {
	if _, _, err := ReadBackup(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
