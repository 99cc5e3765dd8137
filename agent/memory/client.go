package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	contractx "github.com/naruebet/memochat/agent/contract"
)

const maxResponseSizeBytes = 2 << 20

type Config struct {
	BaseURL string        `envconfig:"BASE_URL" split_words:"true" default:"https://api.mem0.ai"`
	Token   string        `envconfig:"TOKEN" split_words:"true" required:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

// Option customizes Mem0Client.
type Option func(*Mem0Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Mem0Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// Mem0Client talks to the Mem0 REST API. It implements contract.MemoryStore.
type Mem0Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

var _ contractx.MemoryStore = (*Mem0Client)(nil)

func NewMem0Client(cfg Config, opts ...Option) (*Mem0Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("mem0 base url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid mem0 url: %w", err)
	}

	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errors.New("mem0 token is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Mem0Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

type searchRequest struct {
	Query  string `json:"query"`
	UserID string `json:"user_id"`
	Limit  int    `json:"limit,omitempty"`
}

type resultsResponse struct {
	Results []contractx.MemoryFact `json:"results"`
}

// Search returns ranked facts for a user, most relevant first.
func (c *Mem0Client) Search(ctx context.Context, query, userID string, limit int) ([]contractx.MemoryFact, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, errors.New("user id is required")
	}

	raw, err := c.post(ctx, "/v1/memories/search/", searchRequest{
		Query:  query,
		UserID: userID,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}

	var parsed resultsResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode mem0 search response: %w", err)
	}
	return parsed.Results, nil
}

type addRequest struct {
	Messages []contractx.InteractionMessage `json:"messages"`
	UserID   string                         `json:"user_id"`
}

// Add writes one interaction to the store as a single unit.
func (c *Mem0Client) Add(ctx context.Context, userID string, messages []contractx.InteractionMessage) error {
	if strings.TrimSpace(userID) == "" {
		return errors.New("user id is required")
	}
	if len(messages) == 0 {
		return errors.New("interaction is empty")
	}

	_, err := c.post(ctx, "/v1/memories/", addRequest{
		Messages: messages,
		UserID:   userID,
	})
	return err
}

func (c *Mem0Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal mem0 request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build mem0 request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute mem0 request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("read mem0 response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("mem0 http status=%d body=%s", resp.StatusCode, string(raw))
	}

	return raw, nil
}
