// Package commands implements the memberctl subcommands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"memberdesk/internal/adapters/client"
)

// Flags holds the global options shared by every command.
type Flags struct {
	LogLevel  string
	ServerURL string
	Email     string
	Password  string
	Timezone  string

	// client is created and logged in on first use
	client *client.Client
}

// Client returns a logged-in client for the configured server.
func (f *Flags) Client(ctx context.Context) (*client.Client, error) {
	if f.client != nil {
		return f.client, nil
	}
	if f.Email == "" || f.Password == "" {
		return nil, errors.New("admin email and password are required (--email/--password or MEMBERDESK_ADMIN_EMAIL/MEMBERDESK_ADMIN_PASSWORD)")
	}
	c, err := client.New(f.ServerURL, nil)
	if err != nil {
		return nil, err
	}
	if err := c.Login(ctx, f.Email, f.Password); err != nil {
		return nil, err
	}
	f.client = c
	return c, nil
}

// Location is the gym time zone used for "Last updated" lines.
func (f *Flags) Location() *time.Location {
	if f.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(f.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// filterQuery encodes CLI filter flags as the query parameters a table schema reads.
func filterQuery(param func(string) string, pageParam string, filters map[string]string, page int) url.Values {
	q := url.Values{}
	for name, v := range filters {
		if v != "" {
			q.Set(param(name), v)
		}
	}
	if page > 1 {
		q.Set(pageParam, fmt.Sprint(page))
	}
	return q
}
