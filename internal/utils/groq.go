package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const chatMaxRetries = 2

// ChatClient calls an OpenAI-compatible chat-completions endpoint (Groq).
type ChatClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client

	// first delay between attempts on 429/5xx
	retryInterval time.Duration
}

func NewChatClient(apiKey, baseURL, model string, timeout time.Duration) *ChatClient {
	return &ChatClient{
		apiKey:        apiKey,
		baseURL:       strings.TrimRight(baseURL, "/"),
		model:         model,
		httpClient:    &http.Client{Timeout: timeout},
		retryInterval: time.Second,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *ChatClient) Name() string { return "groq:" + c.model }

// Complete sends prompt as a single user message and returns the first choice.
func (c *ChatClient) Complete(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("groq: API key not configured")
	}

	payload, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("groq: marshal request: %w", err)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryInterval

	text, err := backoff.Retry(ctx, func() (string, error) {
		text, retry, err := c.send(ctx, payload)
		if err != nil && !retry {
			return "", backoff.Permanent(err)
		}
		return text, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(chatMaxRetries+1))
	if err != nil {
		return "", err
	}
	return text, nil
}

func (c *ChatClient) send(ctx context.Context, payload []byte) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", false, fmt.Errorf("groq: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("groq: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, fmt.Errorf("groq: read response: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return "", true, fmt.Errorf("groq: status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("groq: status %d: %s", resp.StatusCode, string(body))
	}

	var out chatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", false, fmt.Errorf("groq: parse response: %w", err)
	}
	if out.Error != nil {
		return "", false, fmt.Errorf("groq: %s", out.Error.Message)
	}
	if len(out.Choices) == 0 {
		return "", false, fmt.Errorf("groq: no completion returned")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), false, nil
}
