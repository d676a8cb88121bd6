package activitymap

import (
	"strings"
	"time"

	"github.com/goliatone/go-contacts-auth"
)

// MetadataKeyEmail stores the email the event was raised for
const MetadataKeyEmail = "email"

const (
	defaultChannel    = "auth"
	defaultObjectType = "user"
	anonymousActor    = "anonymous"
)

// Normalized is a transport-agnostic activity shape for audit trails.
type Normalized struct {
	ActorID    string         `json:"actor_id"`
	Verb       string         `json:"verb"`
	ObjectType string         `json:"object_type,omitempty"`
	ObjectID   string         `json:"object_id,omitempty"`
	Channel    string         `json:"channel,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// Option customizes normalization behavior.
type Option func(*normalizeOptions)

type normalizeOptions struct {
	channel       string
	objectType    string
	actorFallback string
	redactEmail   bool
	now           func() time.Time
}

// Normalize converts an auth.ActivityEvent into a generic normalized shape.
// Failed logins for unknown emails have no user, they are attributed to the
// fallback actor.
func Normalize(event auth.ActivityEvent, opts ...Option) Normalized {
	options := defaultNormalizeOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	userID := strings.TrimSpace(event.UserID)
	actorID := firstNonEmpty(userID, strings.TrimSpace(options.actorFallback))

	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = options.now().UTC()
	}

	return Normalized{
		ActorID:    actorID,
		Verb:       string(event.EventType),
		ObjectType: strings.TrimSpace(options.objectType),
		ObjectID:   userID,
		Channel:    strings.TrimSpace(options.channel),
		Metadata:   normalizeMetadata(event, options.redactEmail),
		OccurredAt: occurredAt,
	}
}

// WithDefaultChannel sets the channel for normalized records.
func WithDefaultChannel(channel string) Option {
	return func(opts *normalizeOptions) {
		if strings.TrimSpace(channel) != "" {
			opts.channel = channel
		}
	}
}

// WithActorFallback sets the actor used when the event carries no user.
func WithActorFallback(actorID string) Option {
	return func(opts *normalizeOptions) {
		if strings.TrimSpace(actorID) != "" {
			opts.actorFallback = actorID
		}
	}
}

// WithEmailRedaction keeps only the domain of the email in metadata.
func WithEmailRedaction() Option {
	return func(opts *normalizeOptions) {
		opts.redactEmail = true
	}
}

// WithClock sets the time source for events without a timestamp.
func WithClock(now func() time.Time) Option {
	return func(opts *normalizeOptions) {
		if now != nil {
			opts.now = now
		}
	}
}

func defaultNormalizeOptions() normalizeOptions {
	return normalizeOptions{
		channel:       defaultChannel,
		objectType:    defaultObjectType,
		actorFallback: anonymousActor,
		now:           time.Now,
	}
}

func normalizeMetadata(event auth.ActivityEvent, redact bool) map[string]any {
	metadata := cloneMap(event.Metadata)

	email := strings.TrimSpace(event.Email)
	if email == "" {
		return metadata
	}

	if redact {
		email = redactEmail(email)
	}

	if metadata == nil {
		metadata = map[string]any{}
	}
	if _, exists := metadata[MetadataKeyEmail]; !exists {
		metadata[MetadataKeyEmail] = email
	}

	return metadata
}

func redactEmail(email string) string {
	if _, domain, ok := strings.Cut(email, "@"); ok {
		return "***@" + domain
	}
	return "***"
}

func cloneMap(in map[string]any) map[string]any {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
