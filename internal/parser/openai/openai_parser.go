package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"gridbill/internal/config"
	"gridbill/internal/domain"
	"gridbill/internal/parser"
	"gridbill/internal/port"
)

const apiURL = "https://api.openai.com/v1/chat/completions"

// defaults favoring deterministic extraction output.
const (
	temperature      = 0.3
	defaultMaxTokens = 1000
)

// Parser implements port.BillParser using the OpenAI Chat Completions API.
type Parser struct {
	apiKey    string
	model     string
	endpoint  string
	maxTokens int
	client    *http.Client
}

// NewParser creates an OpenAI-based bill parser from a provider config.
func NewParser(cfg *config.ParserProviderConfig, maxTokens int) *Parser {
	return newParser(cfg, maxTokens, apiURL)
}

// NewParserWithEndpoint creates a parser pointing at a custom API endpoint (for testing).
func NewParserWithEndpoint(cfg *config.ParserProviderConfig, maxTokens int, endpoint string) *Parser {
	return newParser(cfg, maxTokens, endpoint)
}

func newParser(cfg *config.ParserProviderConfig, maxTokens int, endpoint string) *Parser {
	model := cfg.DefaultModel
	if model == "" {
		model = "gpt-4o"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &Parser{
		apiKey:    cfg.APIKey,
		model:     model,
		endpoint:  endpoint,
		maxTokens: maxTokens,
		client:    &http.Client{Timeout: timeout},
	}
}

func (p *Parser) Parse(ctx context.Context, input port.ParseInput) (*port.ParseOutput, error) {
	prompt := parser.BuildBillPrompt(input.BillText)

	reqBody := map[string]interface{}{
		"model":       p.model,
		"temperature": temperature,
		"max_tokens":  p.maxTokens,
		"messages": []map[string]interface{}{
			{"role": "system", "content": parser.SystemPrompt},
			{"role": "user", "content": prompt},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling openai API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("openai API error (status %d): %s", resp.StatusCode, string(respBody))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := parser.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return nil, parser.NewRateLimitError("openai", baseErr, retryAfter)
		}
		return nil, baseErr
	}

	return parseResponse(respBody, p.model, prompt)
}

// apiResponse models the OpenAI Chat Completions API response.
type apiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func parseResponse(body []byte, model, prompt string) (*port.ParseOutput, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from API: no choices")
	}

	if resp.Choices[0].FinishReason == "length" {
		return nil, fmt.Errorf("output truncated (finish_reason: length): response exceeded output token limit")
	}

	text := resp.Choices[0].Message.Content

	rec, err := parser.DecodeBillRecord(text)
	if err != nil {
		// Unrecoverable model output is reported through the record, not
		// as a transport error.
		rec = domain.ErrorRecord(err, parser.ModelFailureMessage)
	}

	return &port.ParseOutput{
		Record:      rec,
		ModelUsed:   model,
		PromptUsed:  prompt,
		RawResponse: text,
	}, nil
}
