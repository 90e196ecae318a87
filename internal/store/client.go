package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/chronoflow/chronod/internal/models"
)

const defaultTimeout = 10 * time.Second

// NetworkError wraps any transport failure or non-success response from the
// store. Callers treat it as "no due events this tick" and let the next poll
// retry naturally.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Client talks to the remote ChronoFlow store. Events are owned by the
// store; the client only reads snapshots and reports triggers back.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a store client for the given base URL. The token is
// optional and passed through opaquely as a bearer credential when set.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

type eventsResponse struct {
	Events []models.Event `json:"events"`
}

// FetchEvents retrieves the current event snapshot for the given account.
func (c *Client) FetchEvents(ctx context.Context, email string) ([]models.Event, error) {
	endpoint := c.baseURL + "/get_events?email=" + url.QueryEscape(email)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &NetworkError{Op: "fetch", Err: err}
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: "fetch", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &NetworkError{Op: "fetch", Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	var decoded eventsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &NetworkError{Op: "fetch", Err: fmt.Errorf("decode response: %w", err)}
	}

	return decoded.Events, nil
}

// MarkTriggered records delivery for the given event in the remote store.
// Best-effort: the caller logs failures and moves on; the next snapshot
// fetch reflects whatever the store actually recorded.
func (c *Client) MarkTriggered(ctx context.Context, eventID string) error {
	endpoint := c.baseURL + "/update_event/" + url.PathEscape(eventID)

	body, err := json.Marshal(map[string]bool{"triggered": true})
	if err != nil {
		return &NetworkError{Op: "mark", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return &NetworkError{Op: "mark", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Op: "mark", Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &NetworkError{Op: "mark", Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	return nil
}

// Health probes the store's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return &NetworkError{Op: "health", Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Op: "health", Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return &NetworkError{Op: "health", Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
