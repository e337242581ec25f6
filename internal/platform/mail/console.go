package mail

import "log"

// consoleMailer is the development fallback when no SENDGRID_API_KEY is set.
type consoleMailer struct{}

var _ Mailer = (*consoleMailer)(nil)

func NewConsoleMailer() Mailer {
	return &consoleMailer{}
}

func (m *consoleMailer) Send(msg Message) {
	log.Printf("MAIL to=%s <%s> subject=%q\n%s", msg.ToName, msg.ToEmail, msg.Subject, msg.Text)
}
