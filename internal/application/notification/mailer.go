package notification

import "context"

// Email is an outgoing admin notification
type Email struct {
	To      string
	Subject string
	Text    string
	HTML    string
	ReplyTo string
}

// Mailer delivers emails
type Mailer interface {
	Send(ctx context.Context, email Email) error
}
