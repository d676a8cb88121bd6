package activitymap

import (
	"context"

	"github.com/goliatone/go-print"

	"github.com/goliatone/go-contacts-auth"
)

// LogSink writes every activity event as a normalized audit line
type LogSink struct {
	logger auth.Logger
	opts   []Option
}

var _ auth.ActivitySink = (*LogSink)(nil)

// NewLogSink returns a sink logging at info level through logger
func NewLogSink(logger auth.Logger, opts ...Option) *LogSink {
	if logger == nil {
		logger = auth.DefaultLogger()
	}
	return &LogSink{logger: logger, opts: opts}
}

func (s *LogSink) Record(ctx context.Context, event auth.ActivityEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	n := Normalize(event, s.opts...)
	s.logger.Info(
		"activity",
		"verb", n.Verb,
		"actor_id", n.ActorID,
		"channel", n.Channel,
		"metadata", print.MaybePrettyJSON(n.Metadata),
	)
	return nil
}
