package logging

import (
	"io"
	"strings"

	"github.com/goliatone/go-contacts-auth"
	"github.com/sirupsen/logrus"
)

// Logrus adapts a logrus logger to auth.Logger. Arguments following the
// format verbs are read as key/value pairs and become fields.
type Logrus struct {
	entry *logrus.Entry
}

var _ auth.Logger = (*Logrus)(nil)

// New returns a text logger at level, writing to out
func New(level string, out io.Writer) *Logrus {
	logger := logrus.New()
	if out != nil {
		logger.SetOutput(out)
	}
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	return Wrap(logger)
}

// Wrap adapts an existing logrus logger
func Wrap(logger *logrus.Logger) *Logrus {
	return &Logrus{entry: logrus.NewEntry(logger)}
}

// WithField returns a child logger carrying key
func (l *Logrus) WithField(key string, value any) *Logrus {
	return &Logrus{entry: l.entry.WithField(key, value)}
}

func (l *Logrus) Debug(format string, args ...any) {
	l.log(logrus.DebugLevel, format, args)
}

func (l *Logrus) Info(format string, args ...any) {
	l.log(logrus.InfoLevel, format, args)
}

func (l *Logrus) Warn(format string, args ...any) {
	l.log(logrus.WarnLevel, format, args)
}

func (l *Logrus) Error(format string, args ...any) {
	l.log(logrus.ErrorLevel, format, args)
}

func (l *Logrus) log(level logrus.Level, format string, args []any) {
	if !l.entry.Logger.IsLevelEnabled(level) {
		return
	}

	msg, rest := auth.SplitLogArgs(format, args)

	entry := l.entry
	if len(rest) > 0 {
		entry = entry.WithFields(fields(rest))
	}

	entry.Log(level, strings.TrimRight(msg, "\n"))
}

func fields(kv []any) logrus.Fields {
	out := make(logrus.Fields, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		key := auth.LogKey(kv, i)
		if i+1 < len(kv) {
			out[key] = kv[i+1]
		} else {
			out[key] = auth.MissingLogValue
		}
	}
	return out
}
