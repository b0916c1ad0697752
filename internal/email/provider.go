package email

// Provider is the transactional mail service. Failures are logged by
// callers and never fail the parent business operation.
type Provider interface {
	Send(to, subject, body string) error
	SendHTML(to, subject, html string) error
	Close() error
}
