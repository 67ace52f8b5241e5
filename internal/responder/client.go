package responder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Rrens/quackbot/internal/domain"
)

// maxReplyBytes caps how much of a responder body is read
const maxReplyBytes = 1 << 20

// Client calls an external chat responder over HTTP
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a responder client. A zero timeout disables the client-side deadline.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// ResponsePath builds /response/{phase}/{topic}/{utterance} with each
// segment percent-encoded, so "/" or spaces in user text stay inside their segment.
func ResponsePath(phase domain.Phase, topic, utterance string) string {
	return "/response/" + url.PathEscape(string(phase)) +
		"/" + url.PathEscape(topic) +
		"/" + url.PathEscape(utterance)
}

// Respond asks the responder for a reply to utterance within topic
func (c *Client) Respond(ctx context.Context, phase domain.Phase, topic, utterance string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+ResponsePath(phase, topic, utterance), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("responder returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return DecodeReply(body), nil
}

// Close releases idle connections
func (c *Client) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

// DecodeReply turns a responder body into display text. Bodies may be a JSON
// string, a JSON object carrying response/message/error, or plain text.
func DecodeReply(body []byte) string {
	trimmed := strings.TrimSpace(string(body))

	var s string
	if err := json.Unmarshal([]byte(trimmed), &s); err == nil {
		return s
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(trimmed), &obj); err == nil {
		for _, key := range []string{"response", "message", "error"} {
			if v, ok := obj[key].(string); ok {
				return v
			}
		}
	}

	return trimmed
}
