package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"time"

	"gridbill/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// summaryColumns defines the fixed bill-summary CSV header row.
var summaryColumns = []string{
	"Field",
	"Value",
}

// chargeColumns defines the charges-breakdown CSV header row.
var chargeColumns = []string{
	"Charge Type",
	"Amount",
	"Unit",
}

// summaryOrder lists the well-known summary keys first; any remaining keys
// follow alphabetically.
var summaryOrder = []string{
	"account_number",
	"billing_period",
	"total_amount_due",
	"total_amount",
	"due_date",
	"energy_usage_kwh",
	"energy_usage",
	"note",
}

// Writer exports bill records as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteRecord writes one bill record as a summary section followed by a
// charges section. Failed records produce an error section instead.
func (w *Writer) WriteRecord(rec *domain.BillRecord) error {
	if rec.Failed() {
		if err := w.csv.Write([]string{"Error", rec.Error}); err != nil {
			return err
		}
		return w.csv.Write([]string{"Message", rec.Message})
	}

	if err := w.csv.Write(summaryColumns); err != nil {
		return err
	}
	for _, key := range orderedKeys(rec.BillSummary) {
		if err := w.csv.Write([]string{key, rec.BillSummary[key]}); err != nil {
			return err
		}
	}

	if err := w.csv.Write(nil); err != nil {
		return err
	}

	if err := w.csv.Write(chargeColumns); err != nil {
		return err
	}
	for _, item := range rec.ChargesBreakdown {
		if err := w.csv.Write([]string{item.ChargeType, item.Amount, item.Unit}); err != nil {
			return err
		}
	}

	if len(rec.NEMDetails) > 0 {
		if err := w.csv.Write(nil); err != nil {
			return err
		}
		if err := w.csv.Write([]string{"NEM Detail", "Value"}); err != nil {
			return err
		}
		for _, key := range orderedKeys(rec.NEMDetails) {
			if err := w.csv.Write([]string{key, rec.NEMDetails[key]}); err != nil {
				return err
			}
		}
	}

	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// orderedKeys returns the map's keys with the well-known summary keys first,
// then the rest sorted alphabetically.
func orderedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	seen := make(map[string]bool, len(m))
	for _, k := range summaryOrder {
		if _, ok := m[k]; ok {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	var rest []string
	for k := range m {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a document name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for Content-Disposition header.
// Format: {sanitized_document_name}_{YYYY-MM-DD}.csv
func BuildFilename(documentName string) string {
	sanitized := SanitizeFilename(documentName)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.csv", sanitized, date)
}
