// Package mail delivers transactional email such as account confirmation links.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"net/url"

	"github.com/yuin/goldmark"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
)

// Message is a single outbound email. The body is Markdown.
type Message struct {
	To       string
	Subject  string
	Markdown string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Raw HTML in message bodies is escaped since WithUnsafe is not set.
var renderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkhtml.WithHardWraps(),
	),
)

// RenderHTML converts a Markdown body to HTML.
func RenderHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := renderer.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// ConfirmationMessage builds the confirmation email for a new account.
// The token is appended to baseURL as the "token" query parameter.
func ConfirmationMessage(to, fullName, baseURL, token string) (Message, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return Message{}, fmt.Errorf("parse confirm url: %w", err)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()

	name := fullName
	if name == "" {
		name = "there"
	}
	body := fmt.Sprintf("Hi %s,\n\nWelcome to **FitBook**. Please confirm your email address:\n\n[Confirm my account](%s)\n\nIf you did not sign up, ignore this email.\n", name, u.String())
	return Message{To: to, Subject: "Confirm your FitBook account", Markdown: body}, nil
}
