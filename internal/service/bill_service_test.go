package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridbill/internal/domain"
	"gridbill/internal/parser"
	"gridbill/internal/port"
)

type stubDocs struct {
	pages []port.Page
	err   error
}

func (s *stubDocs) Pages(ctx context.Context, content []byte) ([]port.Page, error) {
	return s.pages, s.err
}

type stubBillParser struct {
	out  *port.ParseOutput
	err  error
	last port.ParseInput
}

func (s *stubBillParser) Parse(ctx context.Context, input port.ParseInput) (*port.ParseOutput, error) {
	s.last = input
	return s.out, s.err
}

func sdgeBillPages() []port.Page {
	return []port.Page{{
		Text: "San Diego Gas & Electric\n" +
			"Account Number: 123456789\n" +
			"TOTAL AMOUNT DUE: $123.45\n",
		Tables: [][][]string{{
			{"Description", "Amount"},
			{"Generation Charges", "$75.00"},
			{"Delivery Charges", "$48.45"},
		}},
	}}
}

func TestExtractContent_RulesStrategy(t *testing.T) {
	svc := NewBillService(nil, &stubDocs{pages: sdgeBillPages()}, nil, 25)

	result, err := svc.ExtractContent(context.Background(), []byte("pdf"), domain.StrategyRules)
	require.NoError(t, err)

	assert.Equal(t, domain.UtilitySDGE, result.Utility)
	assert.Equal(t, domain.StrategyRules, result.Strategy)
	assert.Equal(t, "123456789", result.Record.BillSummary["account_number"])
	assert.Equal(t, "123.45", result.Record.BillSummary["total_amount"])

	require.Len(t, result.Record.ChargesBreakdown, 2)
	assert.Equal(t, "Generation Charges", result.Record.ChargesBreakdown[0].ChargeType)
	assert.Equal(t, "75.00", result.Record.ChargesBreakdown[0].Amount)
}

func TestExtractContent_ModelStrategy(t *testing.T) {
	rec := domain.NewBillRecord()
	rec.BillSummary["account_number"] = "model-123"
	rec.BillSummary["total_amount_due"] = "123.45"
	p := &stubBillParser{out: &port.ParseOutput{Record: rec, ModelUsed: "gpt-4o"}}

	svc := NewBillService(nil, &stubDocs{pages: sdgeBillPages()}, p, 25)

	result, err := svc.ExtractContent(context.Background(), []byte("pdf"), domain.StrategyModel)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o", result.ModelUsed)
	assert.Equal(t, domain.UtilitySDGE, p.last.Utility)
	assert.Contains(t, p.last.BillText, "Account Number: 123456789")
	assert.Equal(t, "model-123", result.Record.BillSummary["account_number"])
	assert.False(t, result.Record.Failed())
}

func TestExtractContent_ModelStrategyFallsBackToRulesWhenUnconfigured(t *testing.T) {
	svc := NewBillService(nil, &stubDocs{pages: sdgeBillPages()}, nil, 25)

	result, err := svc.ExtractContent(context.Background(), []byte("pdf"), domain.StrategyModel)
	require.NoError(t, err)

	assert.Equal(t, domain.StrategyRules, result.Strategy)
	assert.False(t, result.Record.Failed())
}

func TestExtractContent_Deterministic(t *testing.T) {
	rec := domain.NewBillRecord()
	rec.BillSummary["account_number"] = "123456789"
	rec.BillSummary["total_amount_due"] = "-17.02"
	p := &stubBillParser{out: &port.ParseOutput{Record: rec, ModelUsed: "gpt-4o"}}
	svc := NewBillService(nil, &stubDocs{pages: sdgeBillPages()}, p, 25)

	content := []byte("pdf")
	first, err := svc.ExtractContent(context.Background(), content, domain.StrategyModel)
	require.NoError(t, err)
	second, err := svc.ExtractContent(context.Background(), content, domain.StrategyModel)
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first.Record)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second.Record)
	require.NoError(t, err)
	assert.Equal(t, string(firstJSON), string(secondJSON))

	// The credit-balance note is applied on each run without compounding.
	assert.Equal(t, domain.CreditBalanceNote, second.Record.BillSummary["note"])
}

func TestExtractContent_RulesDeterministic(t *testing.T) {
	svc := NewBillService(nil, &stubDocs{pages: sdgeBillPages()}, nil, 25)

	content := []byte("pdf")
	first, err := svc.ExtractContent(context.Background(), content, domain.StrategyRules)
	require.NoError(t, err)
	second, err := svc.ExtractContent(context.Background(), content, domain.StrategyRules)
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first.Record)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second.Record)
	require.NoError(t, err)
	assert.Equal(t, string(firstJSON), string(secondJSON))
}

func TestExtractContent_ParserTransportError(t *testing.T) {
	p := &stubBillParser{err: errors.New("connection refused")}
	svc := NewBillService(nil, &stubDocs{pages: sdgeBillPages()}, p, 25)

	result, err := svc.ExtractContent(context.Background(), []byte("pdf"), domain.StrategyModel)
	require.NoError(t, err, "parser failure is reported in the record, not as an error")

	assert.True(t, result.Record.Failed())
	assert.Equal(t, parser.ModelFailureMessage, result.Record.Message)
}

func TestExtractContent_UnparsableModelOutputSurfacesAsIs(t *testing.T) {
	failed := domain.ErrorRecord(errors.New("no JSON found"), parser.ModelFailureMessage)
	p := &stubBillParser{out: &port.ParseOutput{Record: failed, ModelUsed: "gpt-4o"}}
	svc := NewBillService(nil, &stubDocs{pages: sdgeBillPages()}, p, 25)

	result, err := svc.ExtractContent(context.Background(), []byte("pdf"), domain.StrategyModel)
	require.NoError(t, err)

	assert.True(t, result.Record.Failed())
	assert.Equal(t, parser.ModelFailureMessage, result.Record.Message)
}

func TestExtractContent_DocumentReadFailure(t *testing.T) {
	svc := NewBillService(nil, &stubDocs{err: errors.New("not a pdf")}, nil, 25)

	result, err := svc.ExtractContent(context.Background(), []byte("junk"), domain.StrategyRules)
	require.NoError(t, err)

	assert.True(t, result.Record.Failed())
	assert.Equal(t, ProcessFailureMessage, result.Record.Message)
}

func TestExtractContent_EmptyDocument(t *testing.T) {
	svc := NewBillService(nil, &stubDocs{pages: []port.Page{{Text: "   \n "}}}, nil, 25)

	_, err := svc.ExtractContent(context.Background(), []byte("pdf"), domain.StrategyRules)
	assert.ErrorIs(t, err, domain.ErrEmptyDocument)
}
