package email

import (
	"fmt"

	"github.com/apex/log"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Sender delivers high-priority defect alerts via SendGrid.
type Sender struct {
	client     *sendgrid.Client
	fromName   string
	fromEmail  string
	recipients []string
}

// NewSender creates a new alert sender
func NewSender(apiKey, fromName, fromEmail string, recipients []string) *Sender {
	return &Sender{
		client:     sendgrid.NewSendClient(apiKey),
		fromName:   fromName,
		fromEmail:  fromEmail,
		recipients: recipients,
	}
}

// SendAlert sends a plain-text alert to every configured recipient.
// Delivery is best effort; an error for one recipient does not stop
// the others, and only the last error is returned.
func (s *Sender) SendAlert(subject, body string) error {
	log.Infof("Sending alert %q to %d recipients", subject, len(s.recipients))

	var lastErr error
	for _, recipient := range s.recipients {
		if err := s.sendOne(recipient, subject, body); err != nil {
			log.Warnf("Error sending alert to %s: %v", recipient, err)
			lastErr = err
		}
	}
	return lastErr
}

func (s *Sender) sendOne(recipient, subject, body string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(recipient, recipient)

	message := mail.NewV3Mail()
	message.SetFrom(from)
	message.Subject = subject

	p := mail.NewPersonalization()
	p.AddTos(to)
	message.AddPersonalizations(p)

	message.AddContent(mail.NewContent("text/plain", body))

	response, err := s.client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d", response.StatusCode)
	}

	log.Infof("Alert sent to %s, status: %d", recipient, response.StatusCode)
	return nil
}
