package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// CredentialStore holds user records, keyed by email and by id
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByVerificationToken(ctx context.Context, token string) (*User, error)
	Exists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *User) (*User, error)
	UpdateByID(ctx context.Context, id uuid.UUID, patch UserPatch) error
}

// PasswordHasher one way salted hash with constant time verification
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// TokenCodec signs and verifies session tokens
type TokenCodec interface {
	Sign(subject string, ttl time.Duration) (string, error)
	Verify(token string) (*SessionClaims, error)
}

// EmailMessage is an outbound email
type EmailMessage struct {
	To      string
	Subject string
	HTML    string
}

// EmailDispatcher delivers messages. Implementations swallow and log their own
// failures, the return value only reports whether delivery was accepted.
type EmailDispatcher interface {
	Send(ctx context.Context, msg EmailMessage) bool
}

// EmailDispatcherFunc adapts a function to the EmailDispatcher interface.
type EmailDispatcherFunc func(ctx context.Context, msg EmailMessage) bool

// Send implements EmailDispatcher.
func (f EmailDispatcherFunc) Send(ctx context.Context, msg EmailMessage) bool {
	if f == nil {
		return false
	}
	return f(ctx, msg)
}

// VerificationRenderer produces the HTML body of the verification email
type VerificationRenderer interface {
	RenderVerification(link string) (string, error)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	d.print("[ERR]", format, args)
}

func (d defLogger) Warn(format string, args ...any) {
	d.print("[WRN]", format, args)
}

func (d defLogger) Info(format string, args ...any) {
	d.print("[INF]", format, args)
}

func (d defLogger) Debug(format string, args ...any) {
	d.print("[DBG]", format, args)
}

func (d defLogger) print(level, format string, args []any) {
	fmt.Println(FormatLogLine(level+" AUTH "+format, args...))
}

// DefaultLogger returns the stdout logger used when none is configured
func DefaultLogger() Logger {
	return defLogger{}
}

// FormatLogLine renders a Logger call as one line. Args consumed by the
// format verbs are applied first, the rest are appended as key=value pairs.
func FormatLogLine(format string, args ...any) string {
	msg, kv := SplitLogArgs(format, args)

	var b strings.Builder
	b.WriteString(strings.TrimRight(msg, "\n"))
	for i := 0; i < len(kv); i += 2 {
		b.WriteByte(' ')
		b.WriteString(LogKey(kv, i))
		b.WriteByte('=')
		if i+1 < len(kv) {
			fmt.Fprint(&b, kv[i+1])
		} else {
			b.WriteString(MissingLogValue)
		}
	}
	return b.String()
}

// MissingLogValue stands in for the value of a trailing key without one
const MissingLogValue = "(missing)"

// SplitLogArgs applies the format verbs of format to the leading args and
// returns the formatted message plus the remaining key/value args.
func SplitLogArgs(format string, args []any) (string, []any) {
	verbs := countVerbs(format)
	if verbs > len(args) {
		verbs = len(args)
	}

	return fmt.Sprintf(format, args[:verbs]...), args[verbs:]
}

// LogKey returns the key at kv[i], non string keys are named by position
func LogKey(kv []any, i int) string {
	if key, ok := kv[i].(string); ok {
		return key
	}
	return fmt.Sprintf("arg%d", i)
}

// countVerbs counts the formatting directives in format, %% excluded
func countVerbs(format string) int {
	n := 0
	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			continue
		}
		if i+1 < len(format) && format[i+1] == '%' {
			i++
			continue
		}
		n++
	}
	return n
}
