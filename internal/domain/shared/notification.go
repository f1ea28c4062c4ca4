package shared

import (
	"context"
	"errors"
)

// ErrChannelDisabled is returned by a notification channel that is not configured
var ErrChannelDisabled = errors.New("notification channel disabled")

// EmailMessage is an outgoing email with a plain text body and an optional HTML alternative
type EmailMessage struct {
	To       []string
	ReplyTo  string
	Subject  string
	TextBody string
	HTMLBody string
}

// Mailer sends email
type Mailer interface {
	Send(ctx context.Context, msg EmailMessage) error
	// Enabled reports whether Send can deliver anything
	Enabled() bool
}

// ChatField is a labelled value shown in a chat notification
type ChatField struct {
	Label string
	Value string
}

// ChatMessage is an internal chat notification
type ChatMessage struct {
	Title  string
	Text   string
	Fields []ChatField
	// LinkURL, when set, is rendered as a button to the back office
	LinkURL string
}

// ChatNotifier posts internal notifications to the firm's chat
type ChatNotifier interface {
	Notify(ctx context.Context, msg ChatMessage) error
	Enabled() bool
}
