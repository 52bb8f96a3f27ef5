// Package openai classifies legal documents via an OpenAI-compatible
// chat completion API: document text in, structured metadata out.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/techjusticelab/Motion-Index/internal/domain"
	"github.com/techjusticelab/Motion-Index/internal/metrics"
)

// maxPromptTextLen bounds how much document text goes into the prompt.
const maxPromptTextLen = 8000

// Classifier is a document classifier using the OpenAI-compatible API.
type Classifier struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// Config holds the classifier provider settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Logger  *zap.Logger
}

// NewClassifier creates an OpenAI-compatible document classifier.
func NewClassifier(cfg *Config) *Classifier {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Classifier{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: cfg.Logger,
	}
}

const systemPrompt = "You are an expert legal document analyzer. You meticulously classify " +
	"documents and extract key information based on the provided text, responding only in " +
	"the specified valid JSON format."

// llmResult is the JSON contract the model is asked to fill.
type llmResult struct {
	DocumentType string   `json:"document_type"`
	Subject      string   `json:"subject"`
	Status       string   `json:"status"`
	Timestamp    string   `json:"timestamp"`
	CaseName     string   `json:"case_name"`
	CaseNumber   string   `json:"case_number"`
	Author       string   `json:"author"`
	Judge        string   `json:"judge"`
	Court        string   `json:"court"`
	LegalTags    []string `json:"legal_tags"`
}

// Classify implements domain.Classifier.
func (c *Classifier) Classify(
	ctx context.Context, fileName, text string,
) (domain.Classification, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(fileName, text)},
		},
		Temperature: 0.1,
		MaxTokens:   600,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		metrics.ClassificationRequestsTotal.WithLabelValues(c.model, "error").Inc()
		return domain.Classification{}, parseAPIError(err)
	}
	if len(resp.Choices) == 0 {
		metrics.ClassificationRequestsTotal.WithLabelValues(c.model, "error").Inc()
		return domain.Classification{}, fmt.Errorf("empty completion response: %w", domain.ErrClassifier)
	}

	metrics.ClassificationRequestsTotal.WithLabelValues(c.model, "success").Inc()

	cls, err := parseResponse(resp.Choices[0].Message.Content)
	if err != nil {
		c.logger.Warn("Failed to parse classifier response",
			zap.String("file", fileName),
			zap.Error(err),
		)
		return domain.Classification{DocType: "Unknown"}, nil
	}
	return cls, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (c *Classifier) HealthCheck(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

func buildPrompt(fileName, text string) string {
	text = truncateText(text, maxPromptTextLen)
	types := strings.Join(domain.DocumentTypes, ", ")

	var b strings.Builder
	b.WriteString("Analyze the following legal document text. Perform two tasks:\n")
	b.WriteString("1. Classify the document into ONE of the following categories: " + types + "\n")
	b.WriteString("2. Extract the specified fields from the text.\n\n")
	b.WriteString("Pay close attention to these fields:\n")
	b.WriteString(`- "subject": a concise summary of the main topic or purpose (5-10 words)` + "\n")
	b.WriteString(`- "timestamp": the document's filing date, signature date, or publication date.` + "\n")
	b.WriteString("  Search near terms like \"Filed on\", \"Dated\", \"Signed this\", \"Entered\";" +
		" check the header, footer, signature blocks and certificate of service." +
		" Prefer the filing date when several dates appear. Format as YYYY-MM-DD;" +
		" use null only when no such date exists.\n")
	b.WriteString(`- "legal_tags": up to five legal topic labels describing the charges or issues` + "\n\n")
	b.WriteString("Respond ONLY with a single, valid JSON object with these keys:\n")
	b.WriteString(`{"document_type": "...", "subject": "...", "status": "...", "timestamp": "...",` +
		` "case_name": "...", "case_number": "...", "author": "...", "judge": "...",` +
		` "court": "...", "legal_tags": ["..."]}` + "\n")
	b.WriteString("If a field cannot be found or is not applicable, use the JSON value null.\n")
	b.WriteString("Do not include any explanations or text outside the JSON object.\n\n")
	b.WriteString("File name: " + fileName + "\n")
	b.WriteString("Document Text:\n---\n" + text + "\n---\n\nJSON Output:")
	return b.String()
}

// truncateText cuts s to at most max bytes without splitting a
// multi-byte rune; a split rune would put invalid UTF-8 in the prompt.
func truncateText(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// parseResponse decodes the model output into a classification. Code
// fences around the JSON are stripped; the document type is validated
// against the closed set.
func parseResponse(content string) (domain.Classification, error) {
	content = stripCodeFence(content)

	var parsed llmResult
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return domain.Classification{}, fmt.Errorf("decode model output: %w", err)
	}

	cls := domain.Classification{
		DocType: domain.NormalizeDocType(parsed.DocumentType),
		Metadata: domain.Metadata{
			Subject:    cleanField(parsed.Subject),
			Status:     cleanField(parsed.Status),
			CaseName:   cleanField(parsed.CaseName),
			CaseNumber: cleanField(parsed.CaseNumber),
			Author:     cleanField(parsed.Author),
			Judge:      cleanField(parsed.Judge),
			Court:      cleanField(parsed.Court),
			LegalTags:  parsed.LegalTags,
		},
	}

	if ts := parseTimestamp(parsed.Timestamp); ts != nil {
		cls.Metadata.Timestamp = ts
	}
	cls.Metadata.DocumentName = cls.Metadata.Subject
	return cls, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// cleanField drops the sentinel strings models emit instead of null.
func cleanField(s string) string {
	s = strings.TrimSpace(s)
	if s == "null" || s == "N/A" {
		return ""
	}
	return s
}

// timestampLayouts are tried in order when parsing the extracted date.
var timestampLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"01/02/2006",
	"January 2, 2006",
}

func parseTimestamp(raw string) *time.Time {
	raw = cleanField(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			ts = ts.UTC()
			return &ts
		}
	}
	return nil
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrClassifier for correct 502 mapping.
func parseAPIError(err error) error {
	wrap := domain.ErrClassifier

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("classification API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("classification API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("classification request failed: %w", wrap)
}
