package extract

import (
	"strings"

	"gridbill/internal/domain"
	"gridbill/internal/rules"
)

// summaryFields are the scalar fields that land in bill_summary under
// their own names on the rule-based path.
var summaryFields = []rules.Field{
	rules.FieldAccountNumber,
	rules.FieldBillingPeriod,
	rules.FieldTotalAmount,
	rules.FieldDueDate,
	rules.FieldEnergyUsage,
}

// Assemble merges the extraction strategies into one canonical record.
//
// When an error-free model record is supplied it is the base: pattern
// fields may fill keys the model left absent but never overwrite one.
// Without a model record, bill_summary comes from the scalar fields,
// charges_breakdown from the generation/delivery patterns followed by
// table-derived items, and nem_details.credits from the NEM pattern.
// Assemble never fails; empty inputs produce empty collections.
func Assemble(fields map[rules.Field]string, tableCharges []domain.ChargeLineItem, ai *domain.BillRecord) domain.BillRecord {
	if ai != nil && !ai.Failed() {
		rec := cloneRecord(ai)
		for _, f := range summaryFields {
			v := fields[f]
			if !Found(v) {
				continue
			}
			if _, exists := rec.BillSummary[string(f)]; !exists {
				rec.BillSummary[string(f)] = stripCurrency(v)
			}
		}
		rec.AnnotateCreditBalance()
		return rec
	}

	rec := domain.NewBillRecord()
	for _, f := range summaryFields {
		if v := fields[f]; Found(v) {
			rec.BillSummary[string(f)] = stripCurrency(v)
		}
	}

	if v := fields[rules.FieldGenerationCharges]; Found(v) {
		rec.ChargesBreakdown = append(rec.ChargesBreakdown, domain.ChargeLineItem{
			ChargeType: "Generation Charges",
			Amount:     stripCurrency(v),
		})
	}
	if v := fields[rules.FieldDeliveryCharges]; Found(v) {
		rec.ChargesBreakdown = append(rec.ChargesBreakdown, domain.ChargeLineItem{
			ChargeType: "Delivery Charges",
			Amount:     stripCurrency(v),
		})
	}
	rec.ChargesBreakdown = append(rec.ChargesBreakdown, tableCharges...)

	if v := fields[rules.FieldNEMCredits]; Found(v) {
		rec.NEMDetails = map[string]string{"credits": stripCurrency(v)}
	}

	rec.AnnotateCreditBalance()
	return rec
}

// stripCurrency drops the display marker the currency extractor adds;
// assembled records keep amounts in the bill's bare numeric notation.
func stripCurrency(v string) string {
	return strings.TrimPrefix(v, "$")
}

// cloneRecord deep-copies the mutable collections so assembly never
// mutates the parser's output in place.
func cloneRecord(src *domain.BillRecord) domain.BillRecord {
	rec := domain.NewBillRecord()
	for k, v := range src.BillSummary {
		rec.BillSummary[k] = v
	}
	rec.ChargesBreakdown = append(rec.ChargesBreakdown, src.ChargesBreakdown...)
	if src.NEMDetails != nil {
		rec.NEMDetails = make(map[string]string, len(src.NEMDetails))
		for k, v := range src.NEMDetails {
			rec.NEMDetails[k] = v
		}
	}
	rec.Error = src.Error
	rec.Message = src.Message
	return rec
}
