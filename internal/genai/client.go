package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Risho92/rufus/internal/model"
)

// Default client settings.
const (
	// DefaultBaseURL is the OpenAI API base URL. Any compatible endpoint
	// (local inference servers included) can be substituted.
	DefaultBaseURL = "https://api.openai.com/v1"

	// DefaultModel is the model requested when none is configured.
	DefaultModel = "gpt-4o-mini"

	// DefaultTimeout bounds each generation request. A hung service call
	// would otherwise stall the whole crawl.
	DefaultTimeout = 60 * time.Second

	// maxErrorBodySize limits how much of an error response body is read
	// for diagnostics.
	maxErrorBodySize = 4 * 1024
)

// ChatClient is a TextGenerator backed by an OpenAI-compatible
// chat-completions endpoint.
type ChatClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	logger     *slog.Logger
}

// ChatClientOption configures a ChatClient.
type ChatClientOption func(*ChatClient)

// WithBaseURL sets the API base URL (no trailing slash).
func WithBaseURL(baseURL string) ChatClientOption {
	return func(c *ChatClient) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithModel sets the model name sent with each request.
func WithModel(model string) ChatClientOption {
	return func(c *ChatClient) {
		if model != "" {
			c.model = model
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ChatClientOption {
	return func(c *ChatClient) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client. Useful in tests and
// for callers that need custom transports.
func WithHTTPClient(hc *http.Client) ChatClientOption {
	return func(c *ChatClient) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithClientLogger sets a custom logger.
func WithClientLogger(logger *slog.Logger) ChatClientOption {
	return func(c *ChatClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewChatClient creates a ChatClient authenticated with the given API key.
func NewChatClient(apiKey string, opts ...ChatClientOption) *ChatClient {
	c := &ChatClient{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		model:      DefaultModel,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// chatRequest is the wire format of a chat-completions request.
type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

// chatResponse is the wire format of a chat-completions response.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// complete sends one user prompt and returns the assistant message content.
// jsonMode requests a JSON object response; maxTokens of zero means no cap.
func (c *ChatClient) complete(ctx context.Context, prompt string, jsonMode bool, maxTokens int) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	reqBody := chatRequest{
		Model:     c.model,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens: maxTokens,
	}
	if jsonMode {
		reqBody.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to encode generation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return "", fmt.Errorf("generation request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}

	return parsed.Choices[0].Message.Content, nil
}

// PlanStrategy implements TextGenerator.
func (c *ChatClient) PlanStrategy(ctx context.Context, startURL, instructions string) (*model.CrawlStrategy, error) {
	content, err := c.complete(ctx, planPrompt(startURL, instructions), true, 0)
	if err != nil {
		return nil, err
	}

	var strategy model.CrawlStrategy
	if err := json.Unmarshal([]byte(content), &strategy); err != nil {
		return nil, fmt.Errorf("%w: strategy: %v", ErrMalformedResponse, err)
	}
	strategy.Normalize()

	c.logger.Debug("planned crawl strategy",
		"keywords", strategy.Keywords,
		"contentTypes", strategy.ContentTypes,
	)
	return &strategy, nil
}

// SelectLinks implements TextGenerator.
func (c *ChatClient) SelectLinks(ctx context.Context, strategy *model.CrawlStrategy, candidates []string) ([]string, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	content, err := c.complete(ctx, selectLinksPrompt(strategy, candidates), true, 0)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		RelevantLinks []string `json:"relevant_links"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("%w: link selection: %v", ErrMalformedResponse, err)
	}

	// The service may hallucinate URLs that were never offered; only
	// candidates are allowed back into the frontier.
	allowed := make(map[string]bool, len(candidates))
	for _, link := range candidates {
		allowed[link] = true
	}
	selected := make([]string, 0, len(parsed.RelevantLinks))
	for _, link := range parsed.RelevantLinks {
		if allowed[link] {
			selected = append(selected, link)
		}
	}
	return selected, nil
}

// JudgeRelevance implements TextGenerator.
func (c *ChatClient) JudgeRelevance(ctx context.Context, task, excerpt string) (float64, error) {
	content, err := c.complete(ctx, judgeRelevancePrompt(task, excerpt), false, 10)
	if err != nil {
		return 0, err
	}

	score, err := strconv.ParseFloat(strings.TrimSpace(content), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: relevance score %q: %v", ErrMalformedResponse, content, err)
	}

	// The contract is [0,1]; the service occasionally strays.
	if score < 0 {
		score = 0
	} else if score > 1 {
		score = 1
	}
	return score, nil
}

// SynthesizeDocument implements TextGenerator.
func (c *ChatClient) SynthesizeDocument(ctx context.Context, category, combinedContent, instructions string) (string, error) {
	return c.complete(ctx, synthesisPrompt(category, combinedContent, instructions), false, 0)
}
