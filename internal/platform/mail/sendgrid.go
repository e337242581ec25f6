package mail

import (
	"log"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

type sendgridMailer struct {
	client     *sendgrid.Client
	from       *sgmail.Email
	subjPrefix string
}

var _ Mailer = (*sendgridMailer)(nil)

func NewSendgridMailer(apiKey, appName, fromEmail string) Mailer {
	return &sendgridMailer{
		client:     sendgrid.NewSendClient(apiKey),
		from:       sgmail.NewEmail(appName, fromEmail),
		subjPrefix: "[" + appName + "] ",
	}
}

func (m *sendgridMailer) Send(msg Message) {
	go func() {
		to := sgmail.NewEmail(msg.ToName, msg.ToEmail)
		sgMsg := sgmail.NewSingleEmailPlainText(m.from, m.subjPrefix+msg.Subject, to, msg.Text)

		resp, err := m.client.Send(sgMsg)
		if err != nil {
			log.Printf("ERROR: sendgrid send to %s failed: %v", msg.ToEmail, err)
			return
		}
		if resp.StatusCode >= 300 {
			log.Printf("ERROR: sendgrid send to %s returned %d: %s", msg.ToEmail, resp.StatusCode, resp.Body)
		}
	}()
}
