// Package client is a typed Go client for the desk JSON endpoints.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"memberdesk/internal/application/projections"
)

// DefaultTimeout bounds every request made by a client built with New.
const DefaultTimeout = 15 * time.Second

// ErrNotLoggedIn is returned when the server rejects the session.
var ErrNotLoggedIn = errors.New("not logged in")

// StatusError is a non-2xx reply.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Code)
	}
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

// Client talks to a memberdesk server. The session cookie set by Login is
// kept in the client's cookie jar.
type Client struct {
	base *url.URL
	http *http.Client
}

// New creates a client for baseURL. A nil httpClient gets a fresh one with a
// cookie jar and DefaultTimeout.
func New(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	if httpClient == nil {
		jar, _ := cookiejar.New(nil)
		httpClient = &http.Client{Jar: jar, Timeout: DefaultTimeout}
	}
	if httpClient.Jar == nil {
		return nil, errors.New("http client needs a cookie jar")
	}
	return &Client{base: u, http: httpClient}, nil
}

// actionReply is the {"success", "message", "error"} body of desk actions.
type actionReply struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (r actionReply) text() string {
	if r.Error != "" {
		return r.Error
	}
	return r.Message
}

// Login starts a desk session.
func (c *Client) Login(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	var reply actionReply
	if err := c.do(ctx, http.MethodPost, "/login", body, &reply); err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Code == http.StatusUnauthorized {
			return fmt.Errorf("login: %s", se.Message)
		}
		return fmt.Errorf("login: %w", err)
	}
	slog.Debug("client_event", "event", "logged_in", "email", email)
	return nil
}

// Members returns every member row in registration order.
func (c *Client) Members(ctx context.Context) ([]projections.MemberRow, error) {
	var out struct {
		Members []projections.MemberRow `json:"members"`
	}
	if err := c.do(ctx, http.MethodGet, "/admin/members-json", nil, &out); err != nil {
		return nil, fmt.Errorf("fetch members: %w", err)
	}
	return out.Members, nil
}

// Renewals returns every renewal request row.
func (c *Client) Renewals(ctx context.Context) ([]projections.RenewalRow, error) {
	var out struct {
		Renewals []projections.RenewalRow `json:"renewals"`
	}
	if err := c.do(ctx, http.MethodGet, "/admin/renewals-json", nil, &out); err != nil {
		return nil, fmt.Errorf("fetch renewals: %w", err)
	}
	return out.Renewals, nil
}

// Member returns one member's details.
func (c *Client) Member(ctx context.Context, id string) (projections.MemberDetail, error) {
	var out projections.MemberDetail
	if err := c.do(ctx, http.MethodGet, "/admin/member/"+url.PathEscape(id), nil, &out); err != nil {
		return projections.MemberDetail{}, fmt.Errorf("fetch member %s: %w", id, err)
	}
	return out, nil
}

// DashboardSummary returns the dashboard cards and charts.
func (c *Client) DashboardSummary(ctx context.Context) (projections.DashboardSummary, error) {
	var out projections.DashboardSummary
	if err := c.do(ctx, http.MethodGet, "/admin/dashboard-summary", nil, &out); err != nil {
		return projections.DashboardSummary{}, fmt.Errorf("fetch dashboard summary: %w", err)
	}
	return out, nil
}

// StatisticsSummary returns the statistics page payload.
func (c *Client) StatisticsSummary(ctx context.Context) (projections.StatisticsSummary, error) {
	var out projections.StatisticsSummary
	if err := c.do(ctx, http.MethodGet, "/admin/statistics-summary", nil, &out); err != nil {
		return projections.StatisticsSummary{}, fmt.Errorf("fetch statistics summary: %w", err)
	}
	return out, nil
}

// MembersStatistics returns revenue totals and the per-member revenue rows.
func (c *Client) MembersStatistics(ctx context.Context) (projections.MembersStatistics, error) {
	var out projections.MembersStatistics
	if err := c.do(ctx, http.MethodGet, "/admin/members-statistics", nil, &out); err != nil {
		return projections.MembersStatistics{}, fmt.Errorf("fetch members statistics: %w", err)
	}
	return out, nil
}

// MembershipLogs returns the log entries of the last seven days.
func (c *Client) MembershipLogs(ctx context.Context) ([]projections.LogRow, error) {
	var out []projections.LogRow
	if err := c.do(ctx, http.MethodGet, "/admin/membership-logs", nil, &out); err != nil {
		return nil, fmt.Errorf("fetch membership logs: %w", err)
	}
	return out, nil
}

// DecideRenewal approves or denies a pending renewal request and returns the
// server's message.
func (c *Client) DecideRenewal(ctx context.Context, id, status string) (string, error) {
	var reply actionReply
	err := c.do(ctx, http.MethodPost, "/admin/renewal/"+url.PathEscape(id), map[string]string{"status": status}, &reply)
	if err != nil {
		return "", fmt.Errorf("decide renewal %s: %w", id, err)
	}
	return reply.text(), nil
}

// do sends one JSON request and decodes the reply into out.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	slog.Debug("client_event", "event", "request", "method", method, "path", path,
		"status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read reply: %w", err)
	}
	if resp.StatusCode == http.StatusUnauthorized && path != "/login" {
		return ErrNotLoggedIn
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode reply: %w", err)
	}
	return nil
}

// statusError extracts the message of a JSON failure body, falling back to the raw text.
func statusError(code int, data []byte) error {
	var reply actionReply
	if json.Unmarshal(data, &reply) == nil && reply.text() != "" {
		return &StatusError{Code: code, Message: reply.text()}
	}
	msg := strings.TrimSpace(string(data))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return &StatusError{Code: code, Message: msg}
}
