// Command seedbills converts a monthly bill-history Excel workbook into a
// SQL seed file for the bill_history table.
// Usage: go run ./cmd/seedbills history.xlsx
// Output: db/seeds/bill_history.sql
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"gridbill/internal/domain"
)

const batchSize = 500

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if len(os.Args) < 2 {
		return fmt.Errorf("usage: seedbills history.xlsx")
	}
	xlsxPath := os.Args[1]
	outPath := "db/seeds/bill_history.sql"

	f, err := excelize.OpenFile(xlsxPath)
	if err != nil {
		return fmt.Errorf("open Excel file: %w", err)
	}
	defer func() { _ = f.Close() }()

	bills, err := parseSheet(f)
	if err != nil {
		return fmt.Errorf("parse sheet: %w", err)
	}
	log.Printf("parsed %d bill rows", len(bills))

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() { _ = out.Close() }()

	w := func(s string) error { _, werr := fmt.Fprintln(out, s); return werr }

	for _, line := range []string{
		"-- Bill history seed data generated from Excel.",
		fmt.Sprintf("-- %d rows in batches of %d.", len(bills), batchSize),
		"BEGIN;",
		"",
	} {
		if werr := w(line); werr != nil {
			return fmt.Errorf("write header: %w", werr)
		}
	}

	for i := 0; i < len(bills); i += batchSize {
		end := i + batchSize
		if end > len(bills) {
			end = len(bills)
		}
		if err := writeBatch(out, bills[i:end]); err != nil {
			return fmt.Errorf("write batch at offset %d: %w", i, err)
		}
	}

	for _, line := range []string{"", "COMMIT;"} {
		if werr := w(line); werr != nil {
			return fmt.Errorf("write footer: %w", werr)
		}
	}

	log.Printf("Generated %d rows (%d batches) in %s",
		len(bills), (len(bills)+batchSize-1)/batchSize, outPath)
	return nil
}

// parseSheet reads the first sheet. Columns: A=account number, B=month,
// C=usage kWh, D=generation kWh, E=net usage kWh, F=usage cost,
// G=generation credit, H=amount due. Data starts at row index 1 (after the
// header row).
func parseSheet(f *excelize.File) ([]domain.HistoricalBill, error) {
	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}

	var bills []domain.HistoricalBill
	for i := 1; i < len(rows); i++ {
		row := rows[i]

		account := strings.TrimSpace(cellVal(row, 0))
		month := strings.TrimSpace(cellVal(row, 1))
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
		for j, dst := range numeric {
			v, perr := parseAmount(cellVal(row, j+2))
			if perr != nil {
				log.Printf("skipping row %d: %v", i+1, perr)
				bill.AccountNumber = ""
				break
			}
			*dst = v
		}
		if bill.AccountNumber == "" {
			continue
		}

		bills = append(bills, bill)
	}
	return bills, nil
}

func writeBatch(out *os.File, batch []domain.HistoricalBill) error {
	if len(batch) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString("INSERT INTO bill_history (account_number, month, usage_kwh, generation_kwh, net_usage_kwh, usage_cost, generation_credit, amount_due) VALUES\n")

	for i := range batch {
		bill := &batch[i]
		if i > 0 {
			b.WriteString(",\n")
		}
		fmt.Fprintf(&b, "  ('%s', '%s', %.2f, %.2f, %.2f, %.2f, %.2f, %.2f)",
			escapeSQL(bill.AccountNumber), escapeSQL(bill.Month),
			bill.UsageKWH, bill.GenerationKWH, bill.NetUsageKWH,
			bill.UsageCost, bill.GenerationCredit, bill.AmountDue)
	}

	b.WriteString("\nON CONFLICT (account_number, month) DO NOTHING;\n")

	_, err := out.WriteString(b.String())
	return err
}

func cellVal(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return v, nil
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
