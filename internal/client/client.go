// Package client is a thin HTTP client for the relabel API, used by the CLI.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/thenoetrevino/relabel/internal/models"
)

// Sentinel errors mapped from API status codes
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// APIError is a non-2xx API response
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
}

// Unwrap lets callers use errors.Is against the models and client sentinels
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusBadRequest:
		return models.ErrInvalidArgument
	case http.StatusNotFound:
		return models.ErrLabelNotFound
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	}
	return nil
}

// Client calls a relabel server
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a client for the server at baseURL (e.g. http://localhost:8080)
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// EventsURL returns the websocket URL of the event stream
func (c *Client) EventsURL() string {
	u := c.baseURL + "/api/events"
	switch {
	case strings.HasPrefix(u, "https://"):
		return "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		return "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u
}

// Token returns the bearer token the client sends
func (c *Client) Token() string {
	return c.token
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// LabelsResponse is the data of GET /api/labels
type LabelsResponse struct {
	Labels    map[string]map[string]string `json:"labels"`
	RawLabels []*models.Label              `json:"rawLabels"`
}

// ListLabels fetches every label
func (c *Client) ListLabels(ctx context.Context) (*LabelsResponse, error) {
	var out LabelsResponse
	if err := c.do(ctx, http.MethodGet, "/api/labels", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateResponse is the data of PUT /api/labels/:key
type UpdateResponse struct {
	Label         *models.Label        `json:"label"`
	PreviousValue string               `json:"previousValue"`
	History       *models.HistoryEntry `json:"history"`
}

// UpdateLabel sets key to value
func (c *Client) UpdateLabel(ctx context.Context, key, value string) (*UpdateResponse, error) {
	var out UpdateResponse
	body := map[string]string{"value": value}
	if err := c.do(ctx, http.MethodPut, "/api/labels/"+url.PathEscape(key), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// History returns up to limit entries, optionally for one key
func (c *Client) History(ctx context.Context, key string, limit int) ([]*models.HistoryEntry, error) {
	q := url.Values{}
	if key != "" {
		q.Set("labelKey", key)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var out struct {
		History []*models.HistoryEntry `json:"history"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/labels/history?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out.History, nil
}

// Search returns labels whose key or value contains query
func (c *Client) Search(ctx context.Context, query string) ([]*models.Label, error) {
	var out struct {
		Labels []*models.Label `json:"labels"`
	}
	path := "/api/labels/search?" + url.Values{"query": {query}}.Encode()
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Labels, nil
}

// CommandResponse is the data of POST /api/chatbot/process
type CommandResponse struct {
	Response    string          `json:"response"`
	Type        string          `json:"type"`
	Labels      []*models.Label `json:"labels,omitempty"`
	Suggestions []string        `json:"suggestions,omitempty"`
	Label       *struct {
		Key      string `json:"label_key"`
		OldValue string `json:"old_value"`
		NewValue string `json:"new_value"`
		Page     string `json:"page"`
	} `json:"label,omitempty"`
}

// SendCommand submits free-text command
func (c *Client) SendCommand(ctx context.Context, command string) (*CommandResponse, error) {
	var out CommandResponse
	if err := c.do(ctx, http.MethodPost, "/api/chatbot/process", map[string]string{"command": command}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	if resp.StatusCode >= 300 || !env.Success {
		return &APIError{Status: resp.StatusCode, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
