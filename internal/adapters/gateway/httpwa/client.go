// Package httpwa talks to a WhatsApp HTTP gateway. One Client wraps one
// authenticated gateway session; it implements both ports.Session and
// ports.Responder.
package httpwa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"whatsapp-campaign-engine/internal/domain"
	"whatsapp-campaign-engine/internal/ports"
)

// Client implements ports.Session against a gateway instance.
type Client struct {
	id         string
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a Client for one gateway session. id labels the session in
// logs; token, if set, is sent as a bearer token.
func New(id, baseURL, token string) *Client {
	return &Client{
		id:      id,
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ID identifies the session for logging.
func (c *Client) ID() string { return c.id }

type sendRequest struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

type sendResponse struct {
	MessageID string    `json:"message_id"`
	Timestamp time.Time `json:"timestamp"`
}

// SendText posts the message to the gateway's /send endpoint.
func (c *Client) SendText(ctx context.Context, to domain.CanonicalNumber, body string) (ports.DeliveryReceipt, error) {
	payload := sendRequest{To: to.JID(), Body: body}

	data, err := json.Marshal(payload)
	if err != nil {
		return ports.DeliveryReceipt{}, fmt.Errorf("marshal send request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/send", bytes.NewReader(data))
	if err != nil {
		return ports.DeliveryReceipt{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ports.DeliveryReceipt{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return ports.DeliveryReceipt{}, fmt.Errorf("gateway returned %d", resp.StatusCode)
	}

	var sr sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return ports.DeliveryReceipt{}, fmt.Errorf("decode response: %w", err)
	}

	return ports.DeliveryReceipt{MessageID: sr.MessageID, Timestamp: sr.Timestamp}, nil
}

type conversationResponse struct {
	LastActivity time.Time `json:"last_activity"`
}

// LookupConversation queries the gateway for an existing conversation thread
// with the contact. 404 means no conversation; anything else unexpected is a
// probe failure the caller decides how to treat.
func (c *Client) LookupConversation(ctx context.Context, with domain.CanonicalNumber) (domain.ProbeResult, error) {
	endpoint := c.baseURL + "/conversations/" + url.PathEscape(with.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.ProbeResult{}, fmt.Errorf("new request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.ProbeResult{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotFound:
		return domain.ProbeResult{Found: false}, nil
	case http.StatusOK:
		var cr conversationResponse
		if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
			return domain.ProbeResult{}, fmt.Errorf("decode response: %w", err)
		}
		return domain.ProbeResult{Found: true, LastActivity: cr.LastActivity}, nil
	default:
		return domain.ProbeResult{}, fmt.Errorf("gateway returned %d", resp.StatusCode)
	}
}

// Reply sends a text back to an inbound sender, satisfying ports.Responder.
func (c *Client) Reply(ctx context.Context, to domain.CanonicalNumber, body string) error {
	_, err := c.SendText(ctx, to, body)
	return err
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
