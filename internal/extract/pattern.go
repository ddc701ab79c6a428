package extract

import (
	"regexp"
	"strings"

	"gridbill/internal/rules"
)

// Sentinels returned when a pattern has no match. Absence of a match is an
// ordinary outcome, not an error, and must stay distinguishable from a
// genuinely empty value.
const (
	NotFound       = "not found"
	AmountNotFound = "Not found"
)

// Field applies a single-capture-group pattern to bill text and returns
// the trimmed capture, or NotFound. Total for any input.
func Field(text string, re *regexp.Regexp) string {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return NotFound
	}
	return strings.TrimSpace(m[1])
}

// CurrencyField is Field with a currency marker prefixed to the capture.
// No semantic validation happens here; a malformed number that matches the
// pattern is returned as-is.
func CurrencyField(text string, re *regexp.Regexp) string {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return AmountNotFound
	}
	return "$" + strings.TrimSpace(m[1])
}

// currencyFields carry a leading $ on success and the AmountNotFound
// sentinel on a miss.
var currencyFields = map[rules.Field]bool{
	rules.FieldTotalAmount:       true,
	rules.FieldGenerationCharges: true,
	rules.FieldDeliveryCharges:   true,
	rules.FieldNEMCredits:        true,
}

// Fields runs every pattern of a set against the text.
func Fields(text string, ps rules.PatternSet) map[rules.Field]string {
	out := make(map[rules.Field]string, len(ps))
	for f, re := range ps {
		if currencyFields[f] {
			out[f] = CurrencyField(text, re)
		} else {
			out[f] = Field(text, re)
		}
	}
	return out
}

// Found reports whether a field value is a real capture rather than a
// not-found sentinel.
func Found(v string) bool {
	return v != "" && v != NotFound && v != AmountNotFound
}
