package history

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gridbill/internal/domain"
)

// expected CSV header for historical bill imports.
var expectedHeader = []string{
	"account_number",
	"month",
	"usage_kwh",
	"generation_kwh",
	"net_usage_kwh",
	"usage_cost",
	"generation_credit",
	"amount_due",
}

// Load reads historical monthly bills from CSV. The first row must be the
// header; rows with an empty account number or month are skipped.
func Load(r io.Reader) ([]domain.HistoricalBill, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	var bills []domain.HistoricalBill
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", line, err)
		}

		account := strings.TrimSpace(row[0])
		month := strings.TrimSpace(row[1])
		if account == "" || month == "" {
			continue
		}

		bill := domain.HistoricalBill{
			AccountNumber: account,
			Month:         month,
		}
		numeric := []*float64{
			&bill.UsageKWH,
			&bill.GenerationKWH,
			&bill.NetUsageKWH,
			&bill.UsageCost,
			&bill.GenerationCredit,
			&bill.AmountDue,
		}
		for i, dst := range numeric {
			v, err := parseAmount(row[i+2])
			if err != nil {
				return nil, fmt.Errorf("row %d, column %s: %w", line, expectedHeader[i+2], err)
			}
			*dst = v
		}

		bills = append(bills, bill)
	}

	return bills, nil
}

func checkHeader(header []string) error {
	if len(header) < len(expectedHeader) {
		return fmt.Errorf("header has %d columns, want %d", len(header), len(expectedHeader))
	}
	for i, want := range expectedHeader {
		got := strings.ToLower(strings.TrimSpace(header[i]))
		// The first header cell may carry a UTF-8 BOM from Excel exports.
		got = strings.TrimPrefix(got, "\uFEFF")
		if got != want {
			return fmt.Errorf("header column %d is %q, want %q", i, header[i], want)
		}
	}
	return nil
}

// parseAmount parses a numeric cell, tolerating $ signs, commas, and blanks.
func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %q: %w", s, err)
	}
	return v, nil
}
