package parser

import (
	"encoding/json"
	"fmt"
	"regexp"

	"gridbill/internal/domain"
)

var (
	fencedJSONRe = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	braceRe      = regexp.MustCompile(`(?s)\{.*\}`)
	controlRe    = regexp.MustCompile(`[\n\r\t]`)
)

// DecodeBillRecord parses a model reply into a bill record. Models wrap
// JSON in prose, code fences, or stray control characters, so parsing is
// a cascade of candidate substrings tried in order, first success wins:
//
//  1. the contents of a ```json fenced block
//  2. the first-to-last brace-delimited substring
//  3. the best guess so far with newline/carriage-return/tab stripped
//
// Missing top-level keys are backfilled with empty defaults; partial
// structure is acceptable, total unparsability is not.
func DecodeBillRecord(content string) (domain.BillRecord, error) {
	candidates := make([]string, 0, 3)
	if m := fencedJSONRe.FindStringSubmatch(content); len(m) == 2 {
		candidates = append(candidates, m[1])
	}
	if m := braceRe.FindString(content); m != "" {
		candidates = append(candidates, m)
	}
	best := content
	if len(candidates) > 0 {
		best = candidates[0]
	}
	candidates = append(candidates, controlRe.ReplaceAllString(best, ""))

	var firstErr error
	for _, cand := range candidates {
		var rec domain.BillRecord
		if err := json.Unmarshal([]byte(cand), &rec); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if rec.BillSummary == nil {
			rec.BillSummary = domain.BillSummary{}
		}
		if rec.ChargesBreakdown == nil {
			rec.ChargesBreakdown = []domain.ChargeLineItem{}
		}
		rec.AnnotateCreditBalance()
		return rec, nil
	}

	return domain.BillRecord{}, fmt.Errorf("%w: %v", domain.ErrModelUnparsable, firstErr)
}
