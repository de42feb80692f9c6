package fixtures

import (
	"encoding/json"
	"strconv"

	"github.com/welldanyogia/mailstore/internal/models"
)

// MailBuilder creates test Mail instances with fluent API
type MailBuilder struct {
	mail models.Mail
}

// NewMailBuilder creates a new MailBuilder with sensible defaults
func NewMailBuilder() *MailBuilder {
	return &MailBuilder{
		mail: models.Mail{
			ID:      1,
			Subject: "Alice",
			Body:    "Hello world",
		},
	}
}

// WithID sets the mail ID
func (b *MailBuilder) WithID(id int64) *MailBuilder {
	b.mail.ID = id
	return b
}

// WithSubject sets the subject
func (b *MailBuilder) WithSubject(subject string) *MailBuilder {
	b.mail.Subject = subject
	return b
}

// WithBody sets the body
func (b *MailBuilder) WithBody(body string) *MailBuilder {
	b.mail.Body = body
	return b
}

// Build returns the constructed Mail
func (b *MailBuilder) Build() *models.Mail {
	m := b.mail
	return &m
}

// JSON returns the request body for creating or updating this mail
func (b *MailBuilder) JSON() string {
	data, _ := json.Marshal(map[string]string{
		"subject": b.mail.Subject,
		"body":    b.mail.Body,
	})
	return string(data)
}

// RawEmail returns an RFC 5322 message carrying this mail's subject and body
func (b *MailBuilder) RawEmail(from, to string) string {
	return "From: " + from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + b.mail.Subject + "\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		b.mail.Body + "\r\n"
}

// SampleMails returns n distinct mails with ids starting at 1
func SampleMails(n int) []*models.Mail {
	mails := make([]*models.Mail, 0, n)
	for i := 1; i <= n; i++ {
		mails = append(mails, NewMailBuilder().
			WithID(int64(i)).
			WithSubject("Subject " + strconv.Itoa(i)).
			WithBody("Body " + strconv.Itoa(i)).
			Build())
	}
	return mails
}
