package rules

import (
	"regexp"

	"gridbill/internal/domain"
)

// Field names the scalar values a pattern set can extract from bill text.
type Field string

const (
	FieldAccountNumber     Field = "account_number"
	FieldBillingPeriod     Field = "billing_period"
	FieldTotalAmount       Field = "total_amount"
	FieldDueDate           Field = "due_date"
	FieldEnergyUsage       Field = "energy_usage"
	FieldGenerationCharges Field = "generation_charges"
	FieldDeliveryCharges   Field = "delivery_charges"
	FieldNEMCredits        Field = "nem_credits"
)

// AllFields lists every field a complete pattern set must cover.
var AllFields = []Field{
	FieldAccountNumber,
	FieldBillingPeriod,
	FieldTotalAmount,
	FieldDueDate,
	FieldEnergyUsage,
	FieldGenerationCharges,
	FieldDeliveryCharges,
	FieldNEMCredits,
}

// PatternSet maps each field to a compiled expression with exactly one
// capture group.
type PatternSet map[Field]*regexp.Regexp

func mustSet(raw map[Field]string) PatternSet {
	ps := make(PatternSet, len(raw))
	for f, expr := range raw {
		ps[f] = regexp.MustCompile(`(?im)` + expr)
	}
	return ps
}

// Generic covers bills from utilities without a hand-authored set.
var generic = mustSet(map[Field]string{
	FieldAccountNumber:     `Account\s*Number[:\s]*([A-Za-z0-9-]+)`,
	FieldBillingPeriod:     `Billing\s*Period[:\s]*([A-Za-z0-9,\s]+to[A-Za-z0-9,\s]+)`,
	FieldTotalAmount:       `Total\s*Amount\s*Due[:\s]*\$?([0-9,.]+)`,
	FieldDueDate:           `Due\s*Date[:\s]*([A-Za-z0-9,\s]+)`,
	FieldEnergyUsage:       `Total\s*kWh\s*Used[:\s]*([0-9,.]+)`,
	FieldGenerationCharges: `Generation\s*Charges[:\s]*\$?([0-9,.]+)`,
	FieldDeliveryCharges:   `Delivery\s*Charges[:\s]*\$?([0-9,.]+)`,
	FieldNEMCredits:        `NEM\s*Credits[:\s]*\$?([0-9,.]+)`,
})

// byUtility holds the hand-authored pattern sets. Built once at init and
// read-only after; safe for unlimited concurrent readers.
var byUtility = map[domain.Utility]PatternSet{
	domain.UtilitySDGE: mustSet(map[Field]string{
		FieldAccountNumber:     `Account\s*Number[:\s]*([A-Za-z0-9-]+)`,
		FieldBillingPeriod:     `Billing\s*period[:\s]*([A-Za-z0-9,\s]+to[A-Za-z0-9,\s]+)`,
		FieldTotalAmount:       `TOTAL\s*AMOUNT\s*DUE[:\s]*\$?([0-9,.]+)`,
		FieldDueDate:           `Due\s*Date[:\s]*([A-Za-z0-9,\s]+)`,
		FieldEnergyUsage:       `Total\s*kWh\s*this\s*month[:\s]*([0-9,.]+)`,
		FieldGenerationCharges: `Generation[:\s]*\$?([0-9,.]+)`,
		FieldDeliveryCharges:   `Delivery[:\s]*\$?([0-9,.]+)`,
		FieldNEMCredits:        `NEM\s*Credit[:\s]*\$?([0-9,.]+)`,
	}),
	domain.UtilityPGE: mustSet(map[Field]string{
		FieldAccountNumber:     `Account\s*No[:\s]*([A-Za-z0-9-]+)`,
		FieldBillingPeriod:     `Service\s*from[:\s]*([A-Za-z0-9,\s]+to[A-Za-z0-9,\s]+)`,
		FieldTotalAmount:       `Total\s*Amount\s*Due[:\s]*\$?([0-9,.]+)`,
		FieldDueDate:           `Due\s*Date[:\s]*([A-Za-z0-9,\s]+)`,
		FieldEnergyUsage:       `Total\s*Usage[:\s]*([0-9,.]+)\s*kWh`,
		FieldGenerationCharges: `Generation[:\s]*\$?([0-9,.]+)`,
		FieldDeliveryCharges:   `Delivery[:\s]*\$?([0-9,.]+)`,
		FieldNEMCredits:        `Net\s*Surplus\s*Compensation[:\s]*\$?([0-9,.]+)`,
	}),
	domain.UtilitySCE: mustSet(map[Field]string{
		FieldAccountNumber:     `Account\s*number[:\s]*([A-Za-z0-9-]+)`,
		FieldBillingPeriod:     `Billing\s*period[:\s]*([A-Za-z0-9,\s]+to[A-Za-z0-9,\s]+)`,
		FieldTotalAmount:       `Total\s*amount\s*due[:\s]*\$?([0-9,.]+)`,
		FieldDueDate:           `Payment\s*Due\s*by[:\s]*([A-Za-z0-9,\s]+)`,
		FieldEnergyUsage:       `Total\s*kWh[:\s]*([0-9,.]+)`,
		FieldGenerationCharges: `Generation[:\s]*\$?([0-9,.]+)`,
		FieldDeliveryCharges:   `Delivery[:\s]*\$?([0-9,.]+)`,
		FieldNEMCredits:        `NEM\s*Credits[:\s]*\$?([0-9,.]+)`,
	}),
}

// For returns the pattern set for a utility, falling back to the generic
// set for anything unrecognized. The result is always complete.
func For(u domain.Utility) PatternSet {
	if ps, ok := byUtility[u]; ok {
		return ps
	}
	return generic
}
