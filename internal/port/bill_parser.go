package port

import (
	"context"

	"gridbill/internal/domain"
)

// ParseInput carries the extracted bill text handed to a model parser.
type ParseInput struct {
	BillText string
	Utility  domain.Utility
}

// ParseOutput contains the structured result from a model-backed parser.
// Record.Error is set when the model replied but its output was
// unrecoverable; a Go error is reserved for transport-level failures.
type ParseOutput struct {
	Record      domain.BillRecord
	ModelUsed   string
	PromptUsed  string
	RawResponse string
}

// BillParser abstracts LLM-based bill parsing.
type BillParser interface {
	Parse(ctx context.Context, input ParseInput) (*ParseOutput, error)
}
