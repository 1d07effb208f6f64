package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"prereq-orchestrator/internal/domain"
)

const (
	completionTemperature      = 0
	completionTopP             = 1
	completionFrequencyPenalty = 0.3
	completionPresencePenalty  = 0
)

// stopSequence bounds generation at the start of an 11th list item. The
// prompt asks for five; this is a safety bound, not the primary
// termination signal.
var stopSequence = []string{"11."}

type completionRequest struct {
	Model            string   `json:"model"`
	Prompt           string   `json:"prompt"`
	Temperature      float64  `json:"temperature"`
	MaxTokens        int      `json:"max_tokens"`
	TopP             float64  `json:"top_p"`
	FrequencyPenalty float64  `json:"frequency_penalty"`
	PresencePenalty  float64  `json:"presence_penalty"`
	Stop             []string `json:"stop"`
}

type completionResponse struct {
	Choices []struct {
		Text string `json:"text"`
	} `json:"choices"`
}

// Client sends prompts to an OpenAI-compatible completions endpoint.
type Client struct {
	baseURL   string
	apiKey    string
	model     string
	maxTokens int
	http      *http.Client
	logger    *slog.Logger
}

// NewClient constructs a completion client. An empty apiKey is allowed;
// every call then fails fast with StatusInvalidInput.
func NewClient(baseURL, apiKey, model string, maxTokens int, httpClient *http.Client, logger *slog.Logger) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		model:     model,
		maxTokens: maxTokens,
		http:      httpClient,
		logger:    logger,
	}
}

// Complete sends the prompt with greedy decoding and returns the
// generated text. Failure statuses carry the error detail as the text
// payload for diagnostics.
func (c *Client) Complete(ctx context.Context, prompt string) (string, domain.Status) {
	if c.apiKey == "" {
		return "", domain.StatusInvalidInput
	}

	reqBody := completionRequest{
		Model:            c.model,
		Prompt:           prompt,
		Temperature:      completionTemperature,
		MaxTokens:        c.maxTokens,
		TopP:             completionTopP,
		FrequencyPenalty: completionFrequencyPenalty,
		PresencePenalty:  completionPresencePenalty,
		Stop:             stopSequence,
	}

	jsonPayload, err := json.Marshal(reqBody)
	if err != nil {
		return err.Error(), domain.StatusUnknownFailure
	}

	url := fmt.Sprintf("%s/v1/completions", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonPayload))
	if err != nil {
		return err.Error(), domain.StatusUnknownFailure
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("completion request failed", slog.String("error", err.Error()))
		return err.Error(), domain.StatusUpstreamFailure
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("completion endpoint returned error",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(body)))
		return string(body), domain.StatusUpstreamFailure
	}

	var decoded completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return err.Error(), domain.StatusUpstreamFailure
	}
	if len(decoded.Choices) == 0 {
		return "", domain.StatusUpstreamFailure
	}
	return decoded.Choices[0].Text, domain.StatusOkay
}

var _ domain.CompletionClient = (*Client)(nil)
