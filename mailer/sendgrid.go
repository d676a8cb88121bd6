package mailer

import (
	"context"

	"github.com/goliatone/go-contacts-auth"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Sender is the slice of the SendGrid client we use
type Sender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridDispatcher delivers emails through the SendGrid v3 API
type SendGridDispatcher struct {
	client Sender
	from   *mail.Email
	logger auth.Logger
}

var _ auth.EmailDispatcher = (*SendGridDispatcher)(nil)

// NewSendGridDispatcher returns a dispatcher using apiKey, from is the
// sender address.
func NewSendGridDispatcher(apiKey, from string) *SendGridDispatcher {
	return NewSendGridDispatcherWithClient(sendgrid.NewSendClient(apiKey), from)
}

// NewSendGridDispatcherWithClient wraps an existing client
func NewSendGridDispatcherWithClient(client Sender, from string) *SendGridDispatcher {
	return &SendGridDispatcher{
		client: client,
		from:   mail.NewEmail("", from),
		logger: auth.DefaultLogger(),
	}
}

func (d *SendGridDispatcher) WithLogger(logger auth.Logger) *SendGridDispatcher {
	if logger != nil {
		d.logger = logger
	}
	return d
}

// Send implements auth.EmailDispatcher. Failures are logged and reported
// as false, never returned.
func (d *SendGridDispatcher) Send(ctx context.Context, msg auth.EmailMessage) bool {
	message := mail.NewSingleEmail(d.from, msg.Subject, mail.NewEmail("", msg.To), "", msg.HTML)

	resp, err := d.client.SendWithContext(ctx, message)
	if err != nil {
		d.logger.Error("sendgrid send error", "to", msg.To, "error", err)
		return false
	}

	if resp == nil || resp.StatusCode >= 400 {
		status := 0
		body := ""
		if resp != nil {
			status = resp.StatusCode
			body = resp.Body
		}
		d.logger.Error("sendgrid rejected message", "to", msg.To, "status", status, "body", body)
		return false
	}

	d.logger.Debug("sendgrid accepted message", "to", msg.To, "status", resp.StatusCode)
	return true
}
