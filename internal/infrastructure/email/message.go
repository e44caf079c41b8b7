package email

import (
	"context"
	"fmt"
	"strings"
)

// Message is a plain-text email. It is also the queue task payload.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (m Message) Validate() error {
	if strings.TrimSpace(m.To) == "" {
		return fmt.Errorf("email message has no recipient")
	}
	if strings.ContainsAny(m.To+m.Subject, "\r\n") {
		return fmt.Errorf("email header contains a line break")
	}
	return nil
}

// Sender delivers a message synchronously.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ActivationMessage builds the account activation email.
func ActivationMessage(to, name, link string) Message {
	return Message{
		To:      to,
		Subject: "Activate your account",
		Body: fmt.Sprintf(`Hi %s,

Thanks for registering. Open the link below to activate your account:
%s

If you did not create this account, ignore this email.`, name, link),
	}
}
