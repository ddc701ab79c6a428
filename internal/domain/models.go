package domain

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CreditBalanceNote is attached to bill_summary when the total due is negative.
const CreditBalanceNote = "Credit balance. No payment required."

// BillSummary maps summary field names (account_number, billing_period,
// total_amount_due, ...) to display strings. Values stay strings so the
// bill's original notation survives round-trips to the UI.
type BillSummary map[string]string

// UnmarshalJSON accepts any JSON object and coerces scalar values to strings.
// Models frequently return amounts as bare numbers; the original formatting
// of the literal is preserved. Nested objects and arrays are dropped.
func (s *BillSummary) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(BillSummary, len(raw))
	for k, v := range raw {
		if val, ok := scalarString(v); ok {
			out[k] = val
		}
	}
	*s = out
	return nil
}

// ChargeLineItem is one named monetary component of a bill. Amount is a
// string-encoded numeric, keeping a leading minus for credits.
type ChargeLineItem struct {
	ChargeType string `json:"charge_type"`
	Amount     string `json:"amount"`
	Unit       string `json:"unit,omitempty"`
}

// UnmarshalJSON tolerates the legacy "type" key and numeric amounts.
func (c *ChargeLineItem) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := raw["charge_type"]; ok {
		c.ChargeType, _ = scalarString(v)
	} else if v, ok := raw["type"]; ok {
		c.ChargeType, _ = scalarString(v)
	}
	if v, ok := raw["amount"]; ok {
		c.Amount, _ = scalarString(v)
	}
	if v, ok := raw["unit"]; ok {
		c.Unit, _ = scalarString(v)
	}
	return nil
}

// scalarString renders a JSON scalar as its display string. Strings are
// unquoted; numbers and booleans keep their literal form; null and
// composites report !ok.
func scalarString(raw json.RawMessage) (string, bool) {
	t := strings.TrimSpace(string(raw))
	if t == "" || t == "null" {
		return "", false
	}
	switch t[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false
		}
		return s, true
	case '{', '[':
		return "", false
	default:
		return t, true
	}
}

// BillRecord is the canonical output of every extraction strategy.
// A non-empty Error means extraction failed; consumers must then treat
// the remaining fields as absent.
type BillRecord struct {
	BillSummary      BillSummary       `json:"bill_summary"`
	ChargesBreakdown []ChargeLineItem  `json:"charges_breakdown"`
	NEMDetails       map[string]string `json:"nem_details,omitempty"`
	Error            string            `json:"error,omitempty"`
	Message          string            `json:"message,omitempty"`
}

// NewBillRecord returns an empty record with initialized collections, so
// partial results never surface nil containers.
func NewBillRecord() BillRecord {
	return BillRecord{
		BillSummary:      BillSummary{},
		ChargesBreakdown: []ChargeLineItem{},
	}
}

// ErrorRecord builds the failure-shaped record the UI contract expects.
func ErrorRecord(err error, message string) BillRecord {
	r := NewBillRecord()
	r.Error = err.Error()
	r.Message = message
	return r
}

// Failed reports whether the record carries an extraction error.
func (r *BillRecord) Failed() bool {
	return r.Error != ""
}

// AnnotateCreditBalance adds the credit note when total_amount_due starts
// with a minus sign. Idempotent; a no-op when the key is absent.
func (r *BillRecord) AnnotateCreditBalance() {
	total, ok := r.BillSummary["total_amount_due"]
	if ok && strings.HasPrefix(total, "-") {
		r.BillSummary["note"] = CreditBalanceNote
	}
}

// HistoricalBill is one imported monthly bill row for an account.
type HistoricalBill struct {
	AccountNumber    string  `db:"account_number" json:"account_number"`
	Month            string  `db:"month" json:"month"`
	UsageKWH         float64 `db:"usage_kwh" json:"usage_kwh"`
	GenerationKWH    float64 `db:"generation_kwh" json:"generation_kwh"`
	NetUsageKWH      float64 `db:"net_usage_kwh" json:"net_usage_kwh"`
	UsageCost        float64 `db:"usage_cost" json:"usage_cost"`
	GenerationCredit float64 `db:"generation_credit" json:"generation_credit"`
	AmountDue        float64 `db:"amount_due" json:"amount_due"`
}

// BillUpload describes a bill document stored in object storage.
type BillUpload struct {
	ID           uuid.UUID `json:"id"`
	OriginalName string    `json:"original_name"`
	FileSize     int64     `json:"file_size"`
	S3Bucket     string    `json:"s3_bucket"`
	S3Key        string    `json:"s3_key"`
	UploadedAt   time.Time `json:"uploaded_at"`
}
