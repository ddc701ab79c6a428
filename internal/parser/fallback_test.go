package parser

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridbill/internal/domain"
	"gridbill/internal/port"
)

type stubParser struct {
	out   *port.ParseOutput
	err   error
	calls int
}

func (s *stubParser) Parse(ctx context.Context, input port.ParseInput) (*port.ParseOutput, error) {
	s.calls++
	return s.out, s.err
}

func okOutput() *port.ParseOutput {
	rec := domain.NewBillRecord()
	rec.BillSummary["account_number"] = "1"
	return &port.ParseOutput{Record: rec, ModelUsed: "stub"}
}

func TestFallbackParser_PrimarySucceeds(t *testing.T) {
	primary := &stubParser{out: okOutput()}
	secondary := &stubParser{out: okOutput()}
	fp := NewFallbackParser([]port.BillParser{primary, secondary}, []string{"a", "b"})

	out, err := fp.Parse(context.Background(), port.ParseInput{BillText: "x"})
	require.NoError(t, err)
	assert.Equal(t, "stub", out.ModelUsed)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 0, secondary.calls)
}

func TestFallbackParser_FallsThroughOnError(t *testing.T) {
	primary := &stubParser{err: errors.New("boom")}
	secondary := &stubParser{out: okOutput()}
	fp := NewFallbackParser([]port.BillParser{primary, secondary}, []string{"a", "b"})

	out, err := fp.Parse(context.Background(), port.ParseInput{BillText: "x"})
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

func TestFallbackParser_AllFail(t *testing.T) {
	primary := &stubParser{err: errors.New("boom1")}
	secondary := &stubParser{err: errors.New("boom2")}
	fp := NewFallbackParser([]port.BillParser{primary, secondary}, []string{"a", "b"})

	_, err := fp.Parse(context.Background(), port.ParseInput{BillText: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all parsers failed")
}

func TestFallbackParser_RateLimitOpensCircuit(t *testing.T) {
	primary := &stubParser{err: NewRateLimitError("a", errors.New("429"), 60)}
	secondary := &stubParser{out: okOutput()}
	fp := NewFallbackParser([]port.BillParser{primary, secondary}, []string{"a", "b"})

	_, err := fp.Parse(context.Background(), port.ParseInput{BillText: "x"})
	require.NoError(t, err)
	assert.Equal(t, 1, primary.calls)

	// Second call skips the rate-limited primary entirely.
	_, err = fp.Parse(context.Background(), port.ParseInput{BillText: "x"})
	require.NoError(t, err)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 2, secondary.calls)
}

func TestFallbackParser_AllRateLimited(t *testing.T) {
	primary := &stubParser{err: NewRateLimitError("a", errors.New("429"), 30)}
	secondary := &stubParser{err: NewRateLimitError("b", errors.New("429"), 90)}
	fp := NewFallbackParser([]port.BillParser{primary, secondary}, []string{"a", "b"})

	_, err := fp.Parse(context.Background(), port.ParseInput{BillText: "x"})
	require.Error(t, err)

	var rlErr *RateLimitError
	require.ErrorAs(t, err, &rlErr)
	assert.LessOrEqual(t, rlErr.RetryAfter.Seconds(), 30.0)
}

func TestNewRateLimitError_DefaultDelay(t *testing.T) {
	e := NewRateLimitError("openai", errors.New("429"), 0)
	assert.Equal(t, defaultRetryAfter, e.RetryAfter)

	e = NewRateLimitError("openai", errors.New("429"), 17)
	assert.Equal(t, 17*time.Second, e.RetryAfter)
}

func TestParseRetryAfterHeader(t *testing.T) {
	assert.Equal(t, 30, ParseRetryAfterHeader("30"))
	assert.Equal(t, 0, ParseRetryAfterHeader(""))
	assert.Equal(t, 0, ParseRetryAfterHeader("Wed, 21 Oct 2025 07:28:00 GMT"))
}
