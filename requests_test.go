package auth_test

import (
	"testing"

	"github.com/goliatone/go-contacts-auth"
	"github.com/stretchr/testify/assert"
)

func TestRegisterRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     auth.RegisterRequest
		wantErr bool
	}{
		{"valid", auth.RegisterRequest{Email: "a@x.com", Password: "secret1"}, false},
		{"valid with plan", auth.RegisterRequest{Email: "a@x.com", Password: "secret1", Subscription: auth.SubscriptionPro}, false},
		{"missing email", auth.RegisterRequest{Password: "secret1"}, true},
		{"bad email", auth.RegisterRequest{Email: "nope", Password: "secret1"}, true},
		{"short password", auth.RegisterRequest{Email: "a@x.com", Password: "12345"}, true},
		{"unknown plan", auth.RegisterRequest{Email: "a@x.com", Password: "secret1", Subscription: "gold"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLoginRequestValidate(t *testing.T) {
	assert.NoError(t, auth.LoginRequest{Email: "a@x.com", Password: "secret1"}.Validate())
	assert.Error(t, auth.LoginRequest{Email: "a@x.com"}.Validate())
	assert.Error(t, auth.LoginRequest{Password: "secret1"}.Validate())
}

func TestResendRequestValidate(t *testing.T) {
	assert.NoError(t, auth.ResendRequest{Email: "a@x.com"}.Validate())
	assert.Error(t, auth.ResendRequest{}.Validate())
	assert.Error(t, auth.ResendRequest{Email: "a@"}.Validate())
}

func TestSubscriptionRequestValidate(t *testing.T) {
	for _, plan := range []string{auth.SubscriptionStarter, auth.SubscriptionPro, auth.SubscriptionBusiness} {
		assert.NoError(t, auth.SubscriptionRequest{Subscription: plan}.Validate(), plan)
	}
	assert.Error(t, auth.SubscriptionRequest{}.Validate())
	assert.Error(t, auth.SubscriptionRequest{Subscription: "enterprise"}.Validate())
}
