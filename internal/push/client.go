package push

import "context"

// Payload is one push message.
type Payload struct {
	Title     string                 `json:"title"`
	Body      string                 `json:"body"`
	Data      map[string]interface{} `json:"data,omitempty"`
	RelatedID string                 `json:"related_id,omitempty"`
}

// DeliveryResult reports the outcome per device token. Invalid tokens are
// pruned from the account by the caller.
type DeliveryResult struct {
	Token        string
	Delivered    bool
	InvalidToken bool
	Err          error
}

// Client is the device-messaging gateway. It is constructed once at process
// start and injected; delivery is best-effort and must never fail the
// calling business operation.
type Client interface {
	Send(ctx context.Context, tokens []string, payload Payload) []DeliveryResult
	Enabled() bool
}
