// Package client is a Go consumer of the todo HTTP API: list, create, health.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Todo mirrors the wire shape of a todo item.
type Todo struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Done        bool      `json:"done"`
	Datetime    time.Time `json:"datetime"`
}

type Client struct {
	baseURL string
	httpc   *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default HTTP client (10s timeout).
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Health checks GET /health.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// List fetches all todos.
func (c *Client) List(ctx context.Context) ([]Todo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/todo", nil)
	if err != nil {
		return nil, err
	}
	return c.doList(req)
}

// Create posts a new todo and returns the created item as the server reports
// it (the response is a one-element array).
func (c *Client) Create(ctx context.Context, description string) (Todo, error) {
	body, err := json.Marshal(map[string]string{"description": description})
	if err != nil {
		return Todo{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/todo", bytes.NewReader(body))
	if err != nil {
		return Todo{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	list, err := c.doList(req)
	if err != nil {
		return Todo{}, err
	}
	if len(list) != 1 {
		return Todo{}, fmt.Errorf("create: expected one todo in response, got %d", len(list))
	}
	return list[0], nil
}

func (c *Client) doList(req *http.Request) ([]Todo, error) {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(b)))
	}
	var list []Todo
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return list, nil
}
