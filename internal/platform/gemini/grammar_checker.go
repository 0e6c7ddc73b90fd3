// Package gemini adapts Google's Gemini API to the grammar-checking
// collaborator interface. The checker is deliberately fail-soft: under
// timeout, transport failure, or an unparseable model response it
// reports an indeterminate result rather than an error, so answer
// validation never blocks on the external service.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/parlato/parlato-api/internal/config"
	"github.com/parlato/parlato-api/internal/service/answer"
	"google.golang.org/genai"
)

const grammarPromptTemplate = `You are a grammar checker for the language with BCP 47 code %q.
Count the grammar mistakes in the text between the markers. Spelling of
proper nouns, casing, and punctuation style are not mistakes.
Respond with ONLY a JSON object of the form {"issue_count": <integer>}.

<text>
%s
</text>`

// grammarResponse is the JSON shape the model is instructed to return.
type grammarResponse struct {
	IssueCount int `json:"issue_count"`
}

// GrammarChecker implements answer.GrammarChecker against the Gemini
// API.
type GrammarChecker struct {
	logger  *slog.Logger
	client  *genai.Client
	model   string
	timeout time.Duration
}

// Verify interface compliance at compile time
var _ answer.GrammarChecker = (*GrammarChecker)(nil)

// NewGrammarChecker creates a GrammarChecker from configuration.
// Returns an error when the API key or model name is missing or the
// client cannot be constructed.
func NewGrammarChecker(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.GrammarConfig,
) (*GrammarChecker, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, errors.New("gemini API key cannot be empty")
	}
	if cfg.ModelName == "" {
		return nil, errors.New("model name cannot be empty")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &GrammarChecker{
		logger:  logger.With(slog.String("component", "gemini_grammar_checker")),
		client:  client,
		model:   cfg.ModelName,
		timeout: timeout,
	}, nil
}

// CheckGrammar implements answer.GrammarChecker. A nil result with a
// nil error means the check was indeterminate and the grammar signal
// must be omitted.
func (c *GrammarChecker) CheckGrammar(
	ctx context.Context,
	text, languageCode string,
) (*answer.GrammarResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := fmt.Sprintf(grammarPromptTemplate, languageCode, text)

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		c.logger.WarnContext(ctx, "grammar check call failed",
			slog.String("language", languageCode),
			slog.String("error", err.Error()))
		return nil, nil
	}

	raw, ok := responseText(resp)
	if !ok {
		c.logger.WarnContext(ctx, "grammar check returned no content",
			slog.String("language", languageCode))
		return nil, nil
	}

	parsed, err := parseGrammarResponse(raw)
	if err != nil {
		c.logger.WarnContext(ctx, "grammar check response unparseable",
			slog.String("language", languageCode),
			slog.String("error", err.Error()))
		return nil, nil
	}

	return &answer.GrammarResult{
		Score:      answer.GrammarScoreFromIssues(parsed.IssueCount),
		IssueCount: parsed.IssueCount,
	}, nil
}

// responseText extracts the concatenated text parts of the first
// candidate.
func responseText(resp *genai.GenerateContentResponse) (string, bool) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", false
	}

	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			text += part.Text
		}
	}
	if text == "" {
		return "", false
	}
	return text, true
}

// parseGrammarResponse decodes the model's JSON, tolerating markdown
// code fences around it.
func parseGrammarResponse(raw string) (*grammarResponse, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var parsed grammarResponse
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse grammar response: %w", err)
	}
	if parsed.IssueCount < 0 {
		return nil, fmt.Errorf("negative issue count %d", parsed.IssueCount)
	}
	return &parsed, nil
}
