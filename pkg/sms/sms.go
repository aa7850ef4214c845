// Package sms sends short messages through an HTTP SMS gateway. The gateway
// accepts a JSON POST of {message, phone_number, sender} with a bearer key.
package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client wraps the gateway endpoint configuration.
type Client struct {
	GatewayURL string
	APIKey     string
	Sender     string

	HTTPClient *http.Client
}

func NewClient(gatewayURL, apiKey, sender string) *Client {
	return &Client{
		GatewayURL: gatewayURL,
		APIKey:     apiKey,
		Sender:     sender,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type message struct {
	Message     string `json:"message"`
	PhoneNumber string `json:"phone_number"`
	Sender      string `json:"sender,omitempty"`
}

// Send delivers one message to phoneNumber. Any non-2xx gateway response is
// an error.
func (c *Client) Send(ctx context.Context, text, phoneNumber string) error {
	body, err := json.Marshal(message{Message: text, PhoneNumber: phoneNumber, Sender: c.Sender})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.GatewayURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sms gateway returned %s", resp.Status)
	}
	return nil
}
