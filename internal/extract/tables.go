package extract

import (
	"fmt"
	"strings"

	"gridbill/internal/domain"
	"gridbill/internal/port"
)

var chargeKeywords = []string{"charge", "amount", "rate", "kwh"}

// RowMap is one data row of a table, keyed by header text. Headers keeps
// the original column order so lookups stay deterministic.
type RowMap struct {
	Headers []string
	Cells   map[string]string
}

// RowMaps normalizes one raw table into header-keyed row maps. Row 0 is
// treated as the header row; blank header cells get synthetic Column_<i>
// names. Tables with at most one row and fully blank data rows are skipped.
func RowMaps(table [][]string) []RowMap {
	if len(table) <= 1 {
		return nil
	}

	headers := make([]string, len(table[0]))
	for i, h := range table[0] {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Column_%d", i)
		}
		headers[i] = h
	}

	var rows []RowMap
	for _, row := range table[1:] {
		blank := true
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				blank = false
				break
			}
		}
		if blank {
			continue
		}

		cells := make(map[string]string, len(headers))
		for i, cell := range row {
			if i < len(headers) {
				cells[headers[i]] = strings.TrimSpace(cell)
			}
		}
		rows = append(rows, RowMap{Headers: headers, Cells: cells})
	}
	return rows
}

// chargeRelevant reports whether a row plausibly belongs to a charge
// table: any header or cell mentions a charge keyword.
func chargeRelevant(row RowMap) bool {
	for _, h := range row.Headers {
		lower := strings.ToLower(h)
		for _, kw := range chargeKeywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	for _, v := range row.Cells {
		lower := strings.ToLower(v)
		for _, kw := range chargeKeywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}

// ChargeItems classifies row maps and normalizes charge rows into line
// items. Rows lacking a description-like or amount-like column contribute
// nothing; table layouts vary too much across bill formats to treat that
// as a failure.
func ChargeItems(rows []RowMap) []domain.ChargeLineItem {
	var items []domain.ChargeLineItem
	for _, row := range rows {
		if !chargeRelevant(row) {
			continue
		}

		var descKey, amountKey string
		for _, h := range row.Headers {
			if descKey == "" && strings.Contains(strings.ToLower(h), "desc") {
				descKey = h
			}
			if amountKey == "" && (strings.Contains(strings.ToLower(h), "amount") || strings.Contains(h, "$")) {
				amountKey = h
			}
		}
		if descKey == "" || amountKey == "" {
			continue
		}

		desc := row.Cells[descKey]
		amount := row.Cells[amountKey]
		if desc == "" || amount == "" {
			continue
		}

		items = append(items, domain.ChargeLineItem{
			ChargeType: desc,
			Amount:     strings.TrimSpace(strings.ReplaceAll(amount, "$", "")),
		})
	}
	return items
}

// PageCharges extracts charge line items from every table on a page.
func PageCharges(page port.Page) []domain.ChargeLineItem {
	var items []domain.ChargeLineItem
	for _, table := range page.Tables {
		items = append(items, ChargeItems(RowMaps(table))...)
	}
	return items
}
