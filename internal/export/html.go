package export

import (
	"fmt"
	"html/template"
	"os"

	"github.com/sadopc/timeledger/internal/ledger"
	"github.com/sadopc/timeledger/internal/locale"
)

var underlagTmpl = template.Must(template.New("underlag").Funcs(template.FuncMap{
	"hours": func(f locale.Formatter, h float64) string { return f.Hours(h, 2) },
}).Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; width: 100%; }
th, td { border-bottom: 1px solid #ccc; padding: 4px 8px; text-align: left; }
.right { text-align: right; }
.sumrow td { font-weight: bold; border-top: 2px solid #000; }
@media print { body { margin: 0; } }
</style>
</head>
<body>
<h1>Underlag</h1>
<div class="kv">
{{- if .Company}}
<div><b>{{.Company}}</b></div>
{{- end}}
<div><b>Faktura:</b> {{.InvoiceNo}}</div>
<div><b>Månad:</b> {{.Billing.Month}}</div>
<div><b>Konto:</b> {{.Billing.AccountLabel}}</div>
</div>
<table>
<thead>
<tr><th>Datum</th><th>Tid</th><th class="right">Timmar</th><th>Aktivitet</th></tr>
</thead>
<tbody>
{{- range .Billing.Rows}}
<tr><td>{{.Date}}</td><td>{{.Start}}–{{.End}}</td><td class="right">{{hours $.Fmt .HoursDecimal}}</td><td>{{.Text}}</td></tr>
{{- end}}
<tr class="sumrow"><td colspan="2">SUMMA</td><td class="right">{{hours .Fmt .Billing.TotalHours}}</td><td></td></tr>
</tbody>
</table>
</body>
</html>
`))

type htmlDoc struct {
	Title     string
	Lang      string
	InvoiceNo string
	Company   string
	Billing   ledger.Billing
	Fmt       locale.Formatter
}

// ToHTML writes a printable underlag document.
func ToHTML(b ledger.Billing, m Meta, f locale.Formatter, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create html file: %w", err)
	}
	defer file.Close()

	doc := htmlDoc{
		Title:     DocumentTitle(m),
		Lang:      f.Tag(),
		InvoiceNo: m.InvoiceNo,
		Company:   m.Company,
		Billing:   b,
		Fmt:       f,
	}
	if err := underlagTmpl.Execute(file, doc); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}
