package mailer

import (
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Notifier is the send-notification capability the auth flow depends on.
// Delivery transport is an external collaborator; failures are logged,
// never surfaced to the requester (no account enumeration).
type Notifier interface {
	Send(to, subject, body string) error
}

type SendgridNotifier struct {
	key  string
	from *sgmail.Email
	log  *zap.Logger
}

func NewSendgridNotifier(key, fromName, fromAddress string, log *zap.Logger) *SendgridNotifier {
	return &SendgridNotifier{
		key:  key,
		from: sgmail.NewEmail(fromName, fromAddress),
		log:  log,
	}
}

func (n *SendgridNotifier) Send(to, subject, body string) error {
	m := sgmail.NewSingleEmail(n.from, subject, sgmail.NewEmail("", to), body, body)

	req := sendgrid.GetRequest(n.key, "/v3/mail/send", "https://api.sendgrid.com")
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m)

	res, err := sendgrid.API(req)
	if err != nil {
		n.log.Error("sending email", zap.Error(err))
		return err
	}
	if res.StatusCode >= http.StatusBadRequest {
		n.log.Error("sending email", zap.Int("status", res.StatusCode), zap.String("body", res.Body))
		return fmt.Errorf("sendgrid returned status %d", res.StatusCode)
	}
	return nil
}
