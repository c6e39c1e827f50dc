package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultAPIURL = "https://exp.host/--/api/v2/push/send"

// Expo caps a single publish request at 100 messages.
const maxChunkSize = 100

// Client talks to the Expo push service.
type Client struct {
	apiURL string
	http   *http.Client
}

func NewClient() *Client {
	return &Client{
		apiURL: defaultAPIURL,
		http:   &http.Client{Timeout: 10 * time.Second},
	}
}

// NewClientWithURL points the client at a different endpoint. Used in tests.
func NewClientWithURL(apiURL string) *Client {
	c := NewClient()
	c.apiURL = apiURL
	return c
}

// IsExpoPushToken reports whether the destination looks like a token the
// Expo service will accept. Anything else is a data problem, not a
// transient delivery error.
func IsExpoPushToken(token string) bool {
	if strings.HasPrefix(token, "ExponentPushToken[") || strings.HasPrefix(token, "ExpoPushToken[") {
		return strings.HasSuffix(token, "]")
	}
	return false
}

type Message struct {
	To    string            `json:"to"`
	Sound string            `json:"sound"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

type Ticket struct {
	Status  string `json:"status"` // "ok" or "error"
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
}

type sendResponse struct {
	Data []Ticket `json:"data"`
}

// Send delivers a single notification and returns an error unless the
// service confirmed acceptance with an "ok" ticket.
func (c *Client) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	tickets, err := c.SendAll(ctx, []Message{{
		To:    token,
		Sound: "default",
		Title: title,
		Body:  body,
		Data:  data,
	}})
	if err != nil {
		return err
	}
	if len(tickets) == 0 {
		return fmt.Errorf("push: no ticket returned")
	}
	if tickets[0].Status != "ok" {
		return fmt.Errorf("push: rejected: %s", tickets[0].Message)
	}
	return nil
}

// SendAll publishes messages in service-sized chunks and returns one ticket
// per message, in order.
func (c *Client) SendAll(ctx context.Context, msgs []Message) ([]Ticket, error) {
	tickets := make([]Ticket, 0, len(msgs))
	for start := 0; start < len(msgs); start += maxChunkSize {
		end := start + maxChunkSize
		if end > len(msgs) {
			end = len(msgs)
		}
		chunk, err := c.post(ctx, msgs[start:end])
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, chunk...)
	}
	return tickets, nil
}

func (c *Client) post(ctx context.Context, msgs []Message) ([]Ticket, error) {
	payload, err := json.Marshal(msgs)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("push: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("push: unexpected status %d", resp.StatusCode)
	}

	var out sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("push: decode response: %w", err)
	}
	if len(out.Data) != len(msgs) {
		return nil, fmt.Errorf("push: got %d tickets for %d messages", len(out.Data), len(msgs))
	}
	return out.Data, nil
}
