package teams

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Message is a Teams MessageCard.
type Message struct {
	Text            string    `json:"text,omitempty"`
	Title           string    `json:"title,omitempty"`
	Summary         string    `json:"summary,omitempty"`
	ThemeColor      string    `json:"themeColor,omitempty"`
	Sections        []Section `json:"sections,omitempty"`
	PotentialAction []Action  `json:"potentialAction,omitempty"`
}

// Section is one card section.
type Section struct {
	ActivityTitle    string `json:"activityTitle,omitempty"`
	ActivitySubtitle string `json:"activitySubtitle,omitempty"`
	ActivityText     string `json:"activityText,omitempty"`
	Facts            []Fact `json:"facts,omitempty"`
	Markdown         bool   `json:"markdown"`
}

// Fact is a name/value pair rendered in a card section.
type Fact struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Action is an OpenUri card action.
type Action struct {
	Type    string   `json:"@type"`
	Name    string   `json:"name"`
	Targets []Target `json:"targets"`
}

// Target is one per-OS action target.
type Target struct {
	OS  string `json:"os"`
	URI string `json:"uri"`
}

// Client posts message cards to one incoming-webhook URL.
type Client struct {
	webhookURL string
	http       *http.Client
}

// NewClient creates a Teams webhook client with a bounded request timeout.
func NewClient(webhookURL string) *Client {
	return &Client{
		webhookURL: webhookURL,
		http:       &http.Client{Timeout: 10 * time.Second},
	}
}

// Send posts one card. Teams webhooks return no useful body, so the caller
// gets only an error.
func (c *Client) Send(ctx context.Context, msg Message) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post message: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("teams rate limit exceeded")
	case resp.StatusCode >= 500:
		return fmt.Errorf("teams service unavailable: status %d", resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("teams webhook rejected message: status %d body %q", resp.StatusCode, string(body))
	}
	return nil
}
