package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPClient posts to an FCM-compatible HTTP endpoint, one request per
// device token.
type HTTPClient struct {
	endpoint  string
	serverKey string
	client    *http.Client
}

type Config struct {
	Endpoint  string
	ServerKey string
}

func NewHTTPClient(cfg Config) *HTTPClient {
	return &HTTPClient{
		endpoint:  cfg.Endpoint,
		serverKey: cfg.ServerKey,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *HTTPClient) Enabled() bool {
	return c.endpoint != "" && c.serverKey != ""
}

type sendRequest struct {
	To           string                 `json:"to"`
	Notification map[string]string      `json:"notification"`
	Data         map[string]interface{} `json:"data,omitempty"`
}

type sendResponse struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
	Results []struct {
		Error string `json:"error"`
	} `json:"results"`
}

func (c *HTTPClient) Send(ctx context.Context, tokens []string, payload Payload) []DeliveryResult {
	results := make([]DeliveryResult, 0, len(tokens))
	for _, token := range tokens {
		results = append(results, c.sendOne(ctx, token, payload))
	}
	return results
}

func (c *HTTPClient) sendOne(ctx context.Context, token string, payload Payload) DeliveryResult {
	result := DeliveryResult{Token: token}

	body := sendRequest{
		To: token,
		Notification: map[string]string{
			"title": payload.Title,
			"body":  payload.Body,
		},
		Data: payload.Data,
	}

	raw, err := json.Marshal(body)
	if err != nil {
		result.Err = err
		return result
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(raw))
	if err != nil {
		result.Err = err
		return result
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+c.serverKey)

	resp, err := c.client.Do(req)
	if err != nil {
		result.Err = err
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		result.Err = fmt.Errorf("push gateway returned %d", resp.StatusCode)
		return result
	}

	var parsed sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		result.Err = err
		return result
	}

	if parsed.Failure > 0 && len(parsed.Results) > 0 {
		switch parsed.Results[0].Error {
		case "NotRegistered", "InvalidRegistration":
			result.InvalidToken = true
			result.Err = fmt.Errorf("invalid device token")
		default:
			result.Err = fmt.Errorf("push delivery failed: %s", parsed.Results[0].Error)
		}
		return result
	}

	result.Delivered = true
	return result
}
