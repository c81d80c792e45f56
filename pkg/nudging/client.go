// Package nudging is the HTTP client for the external nudging service, which
// owns notification storage and push-subscription management in delegated
// deployments. Every call forwards the caller's bearer token: the nudging
// service authorizes per-user, not per-service.
package nudging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"rec-webapp-backend/internal/httperr"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Notification is the nudging service's wire shape for one notification.
type Notification struct {
	ID        string  `json:"id"`
	CreatedAt string  `json:"created_at"`
	Title     string  `json:"title"`
	Body      string  `json:"body"`
	Severity  string  `json:"severity"`
	ReadAt    *string `json:"read_at"`
}

// ListNotifications fetches the caller's notifications.
func (c *Client) ListNotifications(ctx context.Context, token string) ([]Notification, error) {
	var notifications []Notification
	if err := c.do(ctx, token, http.MethodGet, "/notifications", nil, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead marks one notification read. An unknown id maps to ErrNotFound.
func (c *Client) MarkRead(ctx context.Context, token, id string) error {
	return c.do(ctx, token, http.MethodPost, "/notifications/"+id+"/read", nil, nil)
}

// Subscribe registers a web-push subscription payload for the caller.
func (c *Client) Subscribe(ctx context.Context, token string, payload map[string]interface{}) error {
	return c.do(ctx, token, http.MethodPost, "/webpush/subscriptions", payload, nil)
}

// Unsubscribe removes the subscription for the given endpoint.
func (c *Client) Unsubscribe(ctx context.Context, token, endpoint string) error {
	body := map[string]interface{}{"endpoint": endpoint}
	return c.do(ctx, token, http.MethodPost, "/webpush/subscriptions/delete", body, nil)
}

func (c *Client) do(ctx context.Context, token, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewBuffer(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("nudging request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return httperr.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("nudging service returned %d: %s", resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode nudging response: %w", err)
		}
	}
	return nil
}
