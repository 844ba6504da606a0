package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alkinoy/10x-politico-sub002/internal/core/port"
	"github.com/alkinoy/10x-politico-sub002/internal/infra/config"
)

// ErrorCategory classifies summarization failures for logging and metrics.
// Every category is non-fatal to the caller; the distinction only matters
// for operators deciding what to fix.
type ErrorCategory string

const (
	CategoryAuth        ErrorCategory = "auth"
	CategoryRateLimited ErrorCategory = "rate_limited"
	CategoryBadData     ErrorCategory = "bad_data"
	CategoryNetwork     ErrorCategory = "network"
)

// ClientError is a categorized summarization failure.
type ClientError struct {
	Category ErrorCategory
	Message  string
	Err      error
}

func (e *ClientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("summarizer %s: %s: %v", e.Category, e.Message, e.Err)
	}
	return fmt.Sprintf("summarizer %s: %s", e.Category, e.Message)
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

const summaryPrompt = `Summarize the following political statement in one or two plain sentences. Respond as JSON: {"summary": "..."}.

Statement:
%s`

// Client calls an Ollama-compatible generation endpoint to produce short
// statement summaries.
type Client struct {
	endpoint string
	model    string
	http     *http.Client
	logger   *zap.Logger
}

// NewClient constructs a summarization client from configuration.
func NewClient(cfg config.SummarizerSettings, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		model:    cfg.Model,
		http:     &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
	Format string `json:"format"`
}

type generateResponse struct {
	Response string `json:"response"`
}

type summaryPayload struct {
	Summary string `json:"summary"`
}

// Summarize produces a short summary of the supplied text.
func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: fmt.Sprintf(summaryPrompt, text),
		Stream: false,
		Format: "json",
	})
	if err != nil {
		return "", &ClientError{Category: CategoryBadData, Message: "encode request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", &ClientError{Category: CategoryNetwork, Message: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &ClientError{Category: CategoryNetwork, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", c.statusError(resp)
	}

	var generated generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&generated); err != nil {
		return "", &ClientError{Category: CategoryBadData, Message: "decode response", Err: err}
	}

	var payload summaryPayload
	if err := json.Unmarshal([]byte(generated.Response), &payload); err != nil {
		return "", &ClientError{Category: CategoryBadData, Message: "parse model output", Err: err}
	}

	summary := strings.TrimSpace(payload.Summary)
	if summary == "" {
		return "", &ClientError{Category: CategoryBadData, Message: "empty summary"}
	}

	return summary, nil
}

func (c *Client) statusError(resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

	category := CategoryNetwork
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		category = CategoryAuth
	case resp.StatusCode == http.StatusTooManyRequests:
		category = CategoryRateLimited
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		category = CategoryBadData
	}

	return &ClientError{
		Category: category,
		Message:  fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))),
	}
}

var _ port.Summarizer = (*Client)(nil)
