// Package export writes the monthly underlag (billing backup) and full
// ledger backups to disk.
package export

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Meta describes the document an underlag belongs to.
type Meta struct {
	InvoiceNo string
	Company   string
	CreatedAt time.Time
}

var (
	unsafeFileChars = regexp.MustCompile(`[\\/:*?"<>|]+`)
	spaceRun        = regexp.MustCompile(`\s+`)
)

// SafeFilePart replaces characters that are not allowed in file names with
// "-" and collapses whitespace.
func SafeFilePart(s string) string {
	s = unsafeFileChars.ReplaceAllString(s, "-")
	s = spaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// DocumentTitle is the printable title, also used as the file stem.
func DocumentTitle(m Meta) string {
	title := "Fakturaunderlag-" + SafeFilePart(m.InvoiceNo)
	if c := SafeFilePart(m.Company); c != "" {
		title += " " + c
	}
	return title
}

// FileName builds "<title> <month>.<ext>".
func FileName(m Meta, month, ext string) string {
	return fmt.Sprintf("%s %s.%s", DocumentTitle(m), SafeFilePart(month), ext)
}
