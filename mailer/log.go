package mailer

import (
	"context"

	"github.com/goliatone/go-contacts-auth"
	"github.com/goliatone/go-print"
)

// LogDispatcher writes messages to the logger instead of sending them.
// Used when no mail provider is configured.
type LogDispatcher struct {
	logger auth.Logger
}

var _ auth.EmailDispatcher = (*LogDispatcher)(nil)

func NewLogDispatcher(logger auth.Logger) *LogDispatcher {
	if logger == nil {
		logger = auth.DefaultLogger()
	}
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Send(_ context.Context, msg auth.EmailMessage) bool {
	d.logger.Info("email to %s: %s\n%s", msg.To, msg.Subject, print.MaybePrettyJSON(msg))
	return true
}
