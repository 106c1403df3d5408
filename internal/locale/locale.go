// Package locale formats ledger numbers for display and export. The numeric
// model stays in float64 minutes/hours; the locale's decimal separator is
// only applied here.
package locale

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sadopc/timeledger/internal/ledger"
)

const DefaultTag = "sv"

type Formatter struct {
	tag     language.Tag
	printer *message.Printer
}

// New builds a formatter for a BCP 47 tag such as "sv" or "en-GB". An
// unparseable tag falls back to DefaultTag.
func New(tag string) Formatter {
	t, err := language.Parse(tag)
	if err != nil {
		t = language.MustParse(DefaultTag)
	}
	return Formatter{tag: t, printer: message.NewPrinter(t)}
}

func (f Formatter) Tag() string {
	return f.tag.String()
}

// Hours renders hours with prec decimals, e.g. 2.5 -> "2,50" in Swedish.
func (f Formatter) Hours(h float64, prec int) string {
	return f.printer.Sprintf("%.*f", prec, h)
}

// HM renders minutes as "H:MM".
func (f Formatter) HM(mins int) string {
	return ledger.FormatHM(mins)
}
