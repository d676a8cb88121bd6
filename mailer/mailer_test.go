package mailer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-contacts-auth"
	"github.com/goliatone/go-contacts-auth/mailer"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	args := m.Called(ctx, email)
	if r := args.Get(0); r != nil {
		return r.(*rest.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

type quietLogger struct{}

func (quietLogger) Debug(string, ...any) {}
func (quietLogger) Info(string, ...any)  {}
func (quietLogger) Warn(string, ...any)  {}
func (quietLogger) Error(string, ...any) {}

func TestTemplateRenderer(t *testing.T) {
	r, err := mailer.NewTemplateRenderer()
	require.NoError(t, err)

	html, err := r.RenderVerification("http://localhost:3000/api/users/verify/abc")
	require.NoError(t, err)
	assert.Contains(t, html, `href="http://localhost:3000/api/users/verify/abc"`)
	assert.Contains(t, html, "Click verify email")

	_, err = r.Render("missing_template", nil)
	assert.Error(t, err)
}

func TestSendGridDispatcher(t *testing.T) {
	ctx := context.Background()
	msg := auth.EmailMessage{To: "a@x.com", Subject: "Verify email", HTML: "<p>hi</p>"}

	isOurMessage := mock.MatchedBy(func(m *mail.SGMailV3) bool {
		return m.Subject == "Verify email" &&
			m.From.Address == "noreply@contacts.test" &&
			len(m.Personalizations) == 1 &&
			m.Personalizations[0].To[0].Address == "a@x.com"
	})

	tests := []struct {
		name string
		resp *rest.Response
		err  error
		want bool
	}{
		{"accepted", &rest.Response{StatusCode: 202}, nil, true},
		{"rejected", &rest.Response{StatusCode: 401, Body: "unauthorized"}, nil, false},
		{"transport error", nil, errors.New("dial tcp: timeout"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(MockSender)
			client.On("SendWithContext", ctx, isOurMessage).Return(tt.resp, tt.err).Once()

			d := mailer.NewSendGridDispatcherWithClient(client, "noreply@contacts.test").WithLogger(quietLogger{})
			assert.Equal(t, tt.want, d.Send(ctx, msg))
			client.AssertExpectations(t)
		})
	}
}

func TestLogDispatcher(t *testing.T) {
	d := mailer.NewLogDispatcher(quietLogger{})
	assert.True(t, d.Send(context.Background(), auth.EmailMessage{To: "a@x.com"}))
}
