package auth_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-contacts-auth"
	"github.com/stretchr/testify/assert"
)

func TestFormatLogLine(t *testing.T) {
	tests := []struct {
		name   string
		format string
		args   []any
		want   string
	}{
		{"plain", "hello", nil, "hello"},
		{"key value pairs", "Login error", []any{"error", errors.New("boom"), "email", "a@x.com"}, "Login error error=boom email=a@x.com"},
		{"verbs then pairs", "contacts %s error", []any{"update", "error", "x"}, "contacts update error error=x"},
		{"escaped percent", "100%% done", []any{"step", 2}, "100% done step=2"},
		{"odd key", "msg", []any{"lonely"}, "msg lonely=(missing)"},
		{"non string key", "msg", []any{42, "v"}, "msg arg0=v"},
		{"trailing newline", "line\n", []any{"k", "v"}, "line k=v"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := auth.FormatLogLine(tt.format, tt.args...)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "%!")
		})
	}
}
