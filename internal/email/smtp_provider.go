package email

import (
	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

// SMTPProvider delivers mail over SMTP via gomail.
type SMTPProvider struct {
	config *SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPProvider(config *SMTPConfig) *SMTPProvider {
	return &SMTPProvider{
		config: config,
		dialer: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
	}
}

func (p *SMTPProvider) Send(to, subject, body string) error {
	return p.send(to, subject, "text/plain", body)
}

func (p *SMTPProvider) SendHTML(to, subject, html string) error {
	return p.send(to, subject, "text/html", html)
}

func (p *SMTPProvider) send(to, subject, contentType, body string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", p.config.FromEmail, p.config.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody(contentType, body)

	return p.dialer.DialAndSend(m)
}

func (p *SMTPProvider) Close() error {
	return nil
}
