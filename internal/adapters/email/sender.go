package email

import (
	"context"
	"time"
)

// SendRequest is one outgoing email.
type SendRequest struct {
	To      []string
	From    string // falls back to the sender's default address when empty
	Subject string
	HTML    string
	ReplyTo string
}

// SendResult contains the response from the email provider.
type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Sender delivers emails through an external provider.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}
