package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Mailer sends transactional email. Sends are best-effort: callers must not
// fail their primary operation on a mail error.
type Mailer interface {
	SendInvitation(ctx context.Context, to, inviteLink, projectTitle, inviterName string) error
	SendWelcome(ctx context.Context, to, projectTitle, ownerName string) error
}

// Client talks to a Resend-compatible HTTP mail API.
type Client struct {
	baseURL    string
	apiKey     string
	from       string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL, apiKey, from string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		from:    from,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

type emailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (c *Client) SendInvitation(ctx context.Context, to, inviteLink, projectTitle, inviterName string) error {
	html := fmt.Sprintf(
		`<p><strong>%s</strong> has invited you to collaborate on <strong>%s</strong>.</p>
<p><a href="%s">Accept the invitation</a>. The link expires in 7 days.</p>
<p>If you didn't expect this invitation, you can safely ignore this email.</p>`,
		inviterName, projectTitle, inviteLink)

	return c.send(ctx, emailRequest{
		From:    c.from,
		To:      []string{to},
		Subject: fmt.Sprintf("You're invited to collaborate on %s", projectTitle),
		HTML:    html,
	})
}

func (c *Client) SendWelcome(ctx context.Context, to, projectTitle, ownerName string) error {
	html := fmt.Sprintf(
		`<p>You're now a member of <strong>%s</strong>, run by %s.</p>
<p>Suggest features, vote on roadmap items, and join the discussion.</p>`,
		projectTitle, ownerName)

	return c.send(ctx, emailRequest{
		From:    c.from,
		To:      []string{to},
		Subject: fmt.Sprintf("Welcome to %s", projectTitle),
		HTML:    html,
	})
}

func (c *Client) send(ctx context.Context, email emailRequest) error {
	if c.apiKey == "" {
		c.logger.Debug("mail api key not configured, skipping send",
			zap.String("subject", email.Subject))
		return nil
	}

	body, err := json.Marshal(email)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("mail api returned status %d", resp.StatusCode)
	}
	return nil
}
