package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridbill/internal/domain"
)

func TestDecodeBillRecord_PlainJSON(t *testing.T) {
	content := `{"bill_summary":{"account_number":"123","total_amount_due":"45.10"},"charges_breakdown":[{"charge_type":"Delivery","amount":"20.00"}]}`

	rec, err := DecodeBillRecord(content)
	require.NoError(t, err)

	assert.Equal(t, "123", rec.BillSummary["account_number"])
	require.Len(t, rec.ChargesBreakdown, 1)
	assert.Equal(t, "Delivery", rec.ChargesBreakdown[0].ChargeType)
}

func TestDecodeBillRecord_FencedBlock(t *testing.T) {
	content := "Here is the extracted data:\n```json\n{\"bill_summary\":{\"account_number\":\"999\"}}\n```\nLet me know if you need anything else."

	rec, err := DecodeBillRecord(content)
	require.NoError(t, err)
	assert.Equal(t, "999", rec.BillSummary["account_number"])
}

func TestDecodeBillRecord_BracesInProse(t *testing.T) {
	content := `Sure! The result is {"bill_summary":{"account_number":"777"},"charges_breakdown":[]} as requested.`

	rec, err := DecodeBillRecord(content)
	require.NoError(t, err)
	assert.Equal(t, "777", rec.BillSummary["account_number"])
}

func TestDecodeBillRecord_ControlCharacters(t *testing.T) {
	// Raw tabs and newlines inside string literals are invalid JSON; the
	// final candidate strips them.
	content := "{\"bill_summary\":{\"account_number\":\"55\t5\"}}"

	rec, err := DecodeBillRecord(content)
	require.NoError(t, err)
	assert.Equal(t, "555", rec.BillSummary["account_number"])
}

func TestDecodeBillRecord_BackfillsContainers(t *testing.T) {
	rec, err := DecodeBillRecord(`{}`)
	require.NoError(t, err)

	assert.NotNil(t, rec.BillSummary)
	assert.NotNil(t, rec.ChargesBreakdown)
}

func TestDecodeBillRecord_CreditBalanceNote(t *testing.T) {
	rec, err := DecodeBillRecord(`{"bill_summary":{"total_amount_due":"-17.02"}}`)
	require.NoError(t, err)
	assert.Equal(t, domain.CreditBalanceNote, rec.BillSummary["note"])

	rec, err = DecodeBillRecord(`{"bill_summary":{"total_amount_due":"22.57"}}`)
	require.NoError(t, err)
	assert.NotContains(t, rec.BillSummary, "note")
}

func TestDecodeBillRecord_NumericAmounts(t *testing.T) {
	content := `{"bill_summary":{"total_amount_due":-17.02},"charges_breakdown":[{"type":"Generation","amount":75}]}`

	rec, err := DecodeBillRecord(content)
	require.NoError(t, err)

	assert.Equal(t, "-17.02", rec.BillSummary["total_amount_due"])
	assert.Equal(t, domain.CreditBalanceNote, rec.BillSummary["note"])
	require.Len(t, rec.ChargesBreakdown, 1)
	assert.Equal(t, "Generation", rec.ChargesBreakdown[0].ChargeType)
	assert.Equal(t, "75", rec.ChargesBreakdown[0].Amount)
}

func TestDecodeBillRecord_NoJSON(t *testing.T) {
	_, err := DecodeBillRecord("I'm sorry, I could not read this bill.")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrModelUnparsable)
}
