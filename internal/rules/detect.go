package rules

import (
	"strings"

	"gridbill/internal/domain"
)

type signature struct {
	substrings []string
	utility    domain.Utility
}

// Declaration order is the tie-break: the first matching rule wins.
var signatures = []signature{
	{[]string{"san diego gas & electric", "sdg&e"}, domain.UtilitySDGE},
	{[]string{"pacific gas and electric", "pg&e"}, domain.UtilityPGE},
	{[]string{"southern california edison", "sce"}, domain.UtilitySCE},
}

// Detect classifies bill text to a utility by substring signature.
// It never fails; unknown layouts report UtilityGeneric.
func Detect(text string) domain.Utility {
	lower := strings.ToLower(text)
	for _, sig := range signatures {
		for _, sub := range sig.substrings {
			if strings.Contains(lower, sub) {
				return sig.utility
			}
		}
	}
	return domain.UtilityGeneric
}
