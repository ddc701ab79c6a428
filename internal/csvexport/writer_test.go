package csvexport

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridbill/internal/domain"
)

func TestWriteRecord(t *testing.T) {
	rec := domain.NewBillRecord()
	rec.BillSummary["account_number"] = "123456789"
	rec.BillSummary["total_amount_due"] = "-17.02"
	rec.BillSummary["note"] = domain.CreditBalanceNote
	rec.ChargesBreakdown = append(rec.ChargesBreakdown,
		domain.ChargeLineItem{ChargeType: "Generation Charges", Amount: "75.00"},
		domain.ChargeLineItem{ChargeType: "NEM Credit", Amount: "-92.02", Unit: "kWh"},
	)
	rec.NEMDetails = map[string]string{"credits": "$92.02"}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteRecord(&rec))
	w.Flush()
	require.NoError(t, w.Error())

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	assert.Equal(t, "Field,Value", lines[0])
	// Well-known keys come first, in a stable order.
	assert.Equal(t, "account_number,123456789", lines[1])
	assert.Equal(t, "total_amount_due,-17.02", lines[2])
	assert.Contains(t, out, "Charge Type,Amount,Unit")
	assert.Contains(t, out, "Generation Charges,75.00,")
	assert.Contains(t, out, "NEM Credit,-92.02,kWh")
	assert.Contains(t, out, "NEM Detail,Value")
	assert.Contains(t, out, "credits,$92.02")
}

func TestWriteRecord_Failed(t *testing.T) {
	rec := domain.ErrorRecord(errors.New("boom"), "try again")

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteRecord(&rec))
	w.Flush()

	out := buf.String()
	assert.Contains(t, out, "Error,boom")
	assert.Contains(t, out, "Message,try again")
	assert.NotContains(t, out, "Field,Value")
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "march_bill_2024", SanitizeFilename("march bill (2024)"))
	assert.Equal(t, "a-b_c", SanitizeFilename("a-b  c"))
	assert.Len(t, SanitizeFilename(strings.Repeat("x", 200)), 100)
}

func TestBuildFilename(t *testing.T) {
	name := BuildFilename("bill.pdf")
	assert.True(t, strings.HasPrefix(name, "bill_pdf_"))
	assert.True(t, strings.HasSuffix(name, ".csv"))
}
