package push

import "context"

// NoopClient is used when no push gateway is configured. Notifications are
// still persisted; delivery is simply skipped.
type NoopClient struct{}

func NewNoopClient() *NoopClient {
	return &NoopClient{}
}

func (c *NoopClient) Enabled() bool {
	return false
}

func (c *NoopClient) Send(_ context.Context, tokens []string, _ Payload) []DeliveryResult {
	results := make([]DeliveryResult, 0, len(tokens))
	for _, token := range tokens {
		results = append(results, DeliveryResult{Token: token})
	}
	return results
}
