// Package email sends transactional mail through Postmark.
package email

import (
	"context"
	"fmt"

	"github.com/mrz1836/postmark"
)

type Client struct {
	client    *postmark.Client
	fromEmail string
}

// NewClient builds a Postmark-backed sender. With an empty server token the
// client is unconfigured and sends become no-ops, so local setups work
// without mail credentials.
func NewClient(serverToken, accountToken, fromEmail string) *Client {
	var pm *postmark.Client
	if serverToken != "" {
		pm = postmark.NewClient(serverToken, accountToken)
	}
	return &Client{
		client:    pm,
		fromEmail: fromEmail,
	}
}

// Configured reports whether a server token was provided.
func (c *Client) Configured() bool {
	return c.client != nil
}

// PostmarkClient exposes the underlying client so tests can redirect its
// BaseURL.
func (c *Client) PostmarkClient() *postmark.Client {
	return c.client
}

// SendWelcome sends the one-time welcome email after a user record is first
// created or claimed by a new identity.
func (c *Client) SendWelcome(ctx context.Context, toEmail, name string) error {
	if !c.Configured() {
		return nil
	}

	greeting := "there"
	if name != "" {
		greeting = name
	}

	textBody := fmt.Sprintf(
		"Hi %s,\n\nWelcome to PostSpark! Your account starts with 50 points — enough for 10 generations.\n\nHead to the generator to create your first thread, caption, or post.",
		greeting,
	)
	htmlBody := fmt.Sprintf(
		`<p>Hi %s,</p><p>Welcome to PostSpark! Your account starts with <strong>50 points</strong> — enough for 10 generations.</p><p>Head to the generator to create your first thread, caption, or post.</p>`,
		greeting,
	)

	resp, err := c.client.SendEmail(ctx, postmark.Email{
		From:     c.fromEmail,
		To:       toEmail,
		Subject:  "Welcome to PostSpark",
		TextBody: textBody,
		HTMLBody: htmlBody,
		Tag:      "welcome",
	})
	if err != nil {
		return fmt.Errorf("send welcome email: %w", err)
	}
	if resp.ErrorCode > 0 {
		return fmt.Errorf("postmark error %d: %s", resp.ErrorCode, resp.Message)
	}
	return nil
}
