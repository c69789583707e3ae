package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// chatRequest is the OpenRouter-compatible chat-completions body.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the subset of the completions response we read.
type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// OpenRouterOption configures the OpenRouter client.
type OpenRouterOption func(*openRouterClient)

// WithOpenRouterBaseURL overrides the default API base URL.
func WithOpenRouterBaseURL(u string) OpenRouterOption {
	return func(c *openRouterClient) {
		c.baseURL = u
	}
}

// WithOpenRouterHTTPClient overrides the default http.Client.
func WithOpenRouterHTTPClient(hc *http.Client) OpenRouterOption {
	return func(c *openRouterClient) {
		c.http = hc
	}
}

type openRouterClient struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

// NewOpenRouter creates an extraction oracle backed by an
// OpenRouter-compatible chat-completions endpoint. The key and model
// are caller-supplied per client because the service boundary lets
// each request bring its own credential.
func NewOpenRouter(apiKey, model string, opts ...OpenRouterOption) Client {
	c := &openRouterClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultOpenRouterBaseURL,
		http: &http.Client{
			Timeout: 120 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *openRouterClient) Complete(ctx context.Context, instruction string, payload any) (string, error) {
	userContent, err := encodePayload(payload)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: instruction},
			{Role: "user", Content: userContent},
		},
	})
	if err != nil {
		return "", eris.Wrap(err, "oracle: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", eris.Wrap(err, "oracle: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "oracle: send request")
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", eris.Wrap(err, "oracle: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return "", eris.Errorf("oracle: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", eris.Wrap(err, "oracle: unmarshal response")
	}
	if len(parsed.Choices) == 0 {
		return "", eris.New("oracle: response has no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}
