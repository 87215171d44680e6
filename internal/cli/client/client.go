package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ccheshirecat/folio/internal/contact"
	"github.com/ccheshirecat/folio/internal/session"
)

const (
	DefaultAPIBase   = "http://127.0.0.1:8080"
	DefaultAdminBase = "http://127.0.0.1:8081"

	adminKeyHeader = "X-Folio-Admin-Key"
)

// Client wraps REST access to the foliod public and admin APIs.
type Client struct {
	apiURL     *url.URL
	adminURL   *url.URL
	adminKey   string
	httpClient *http.Client
	streamer   *http.Client
}

// Message is a stored contact message.
type Message = contact.Message

// MessageEvent is a contact lifecycle event streamed by the admin API.
type MessageEvent = contact.MessageEvent

// Session describes a live terminal session.
type Session = session.Info

// Command is one entry of the public command listing.
type Command struct {
	Name     string `json:"name"`
	Usage    string `json:"usage"`
	Summary  string `json:"summary"`
	Category string `json:"category"`
}

// ContactRequest is the contact form payload.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// New creates a client for the public API at apiBase and the admin API at
// adminBase. Empty bases fall back to the local defaults.
func New(apiBase, adminBase, adminKey string) (*Client, error) {
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	if adminBase == "" {
		adminBase = DefaultAdminBase
	}
	apiURL, err := url.Parse(apiBase)
	if err != nil {
		return nil, fmt.Errorf("client: parse api url: %w", err)
	}
	adminURL, err := url.Parse(adminBase)
	if err != nil {
		return nil, fmt.Errorf("client: parse admin url: %w", err)
	}
	return &Client{
		apiURL:   apiURL,
		adminURL: adminURL,
		adminKey: adminKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		streamer: &http.Client{},
	}, nil
}

func (c *Client) ListCommands(ctx context.Context) ([]Command, error) {
	req, err := c.newRequest(ctx, c.apiURL, http.MethodGet, "/api/v1/commands", nil, nil)
	if err != nil {
		return nil, err
	}
	var cmds []Command
	if err := c.do(req, &cmds); err != nil {
		return nil, err
	}
	return cmds, nil
}

func (c *Client) SubmitContact(ctx context.Context, payload ContactRequest) (*Message, error) {
	req, err := c.newRequest(ctx, c.apiURL, http.MethodPost, "/api/v1/contact", nil, payload)
	if err != nil {
		return nil, err
	}
	var msg Message
	if err := c.do(req, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListMessages returns the newest messages first. limit <= 0 uses the server default.
func (c *Client) ListMessages(ctx context.Context, limit int) ([]Message, error) {
	var query url.Values
	if limit > 0 {
		query = url.Values{"limit": []string{strconv.Itoa(limit)}}
	}
	req, err := c.newRequest(ctx, c.adminURL, http.MethodGet, "/messages", query, nil)
	if err != nil {
		return nil, err
	}
	var msgs []Message
	if err := c.do(req, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (c *Client) GetMessage(ctx context.Context, id int64) (*Message, error) {
	req, err := c.newRequest(ctx, c.adminURL, http.MethodGet, "/messages/"+strconv.FormatInt(id, 10), nil, nil)
	if err != nil {
		return nil, err
	}
	var msg Message
	if err := c.do(req, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *Client) DeleteMessage(ctx context.Context, id int64) error {
	req, err := c.newRequest(ctx, c.adminURL, http.MethodDelete, "/messages/"+strconv.FormatInt(id, 10), nil, nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func (c *Client) ListSessions(ctx context.Context) ([]Session, error) {
	req, err := c.newRequest(ctx, c.adminURL, http.MethodGet, "/sessions", nil, nil)
	if err != nil {
		return nil, err
	}
	var sessions []Session
	if err := c.do(req, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// WatchMessages streams contact events and invokes handler for each payload until
// the context is cancelled or the server closes the connection.
func (c *Client) WatchMessages(ctx context.Context, handler func(MessageEvent)) error {
	req, err := c.newRequest(ctx, c.adminURL, http.MethodGet, "/events/messages", nil, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.streamer.Do(req)
	if err != nil {
		return fmt.Errorf("client: watch messages: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("client: watch messages http %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" {
			continue
		}

		var event MessageEvent
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			return fmt.Errorf("client: decode event: %w", err)
		}
		if handler != nil {
			handler(event)
		}
	}

	if err := scanner.Err(); err != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return fmt.Errorf("client: event stream error: %w", err)
		}
	}

	return nil
}

func (c *Client) newRequest(ctx context.Context, base *url.URL, method, path string, query url.Values, body any) (*http.Request, error) {
	resolved := base.ResolveReference(&url.URL{Path: path})
	if len(query) > 0 {
		resolved.RawQuery = query.Encode()
	}
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, fmt.Errorf("client: encode body: %w", err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, resolved.String(), &buf)
	if err != nil {
		return nil, fmt.Errorf("client: new request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if base == c.adminURL && c.adminKey != "" {
		req.Header.Set(adminKeyHeader, c.adminKey)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("client: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var apiErr map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil {
			return fmt.Errorf("client: http %d", resp.StatusCode)
		}
		if msg, ok := apiErr["error"].(string); ok {
			return fmt.Errorf("client: http %d: %s", resp.StatusCode, msg)
		}
		return fmt.Errorf("client: http %d", resp.StatusCode)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: decode response: %w", err)
	}
	return nil
}
