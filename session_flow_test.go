package auth_test

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-contacts-auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func tokenFromLink(t *testing.T, html string) string {
	t.Helper()
	const marker = "/api/users/verify/"
	i := strings.Index(html, marker)
	require.NotEqual(t, -1, i, "verification link missing from %q", html)
	rest := html[i+len(marker):]
	if end := strings.IndexByte(rest, '"'); end >= 0 {
		rest = rest[:end]
	}
	return rest
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	db := setupUsersDB(t)

	users := auth.NewUsersRepository(db)
	mail := newOutbox(true)
	sink := &capturingSink{}

	manager := auth.NewSessionManager(users, auth.NewBcryptHasher(bcrypt.MinCost), auth.NewTokenService(testSigningKey), testBaseURL).
		WithLogger(quietLogger{}).
		WithEmailDispatcher(mail).
		WithActivitySink(sink)

	creds := auth.LoginRequest{Email: "a@x.com", Password: "secret1"}

	_, err := manager.Register(ctx, auth.RegisterRequest{Email: creds.Email, Password: creds.Password})
	require.NoError(t, err)

	_, err = manager.Register(ctx, auth.RegisterRequest{Email: creds.Email, Password: "another1"})
	assert.ErrorIs(t, err, auth.ErrEmailInUse)

	stored, err := users.FindByEmail(ctx, creds.Email)
	require.NoError(t, err)
	assert.NotContains(t, stored.PasswordHash, creds.Password)

	_, err = manager.Login(ctx, creds)
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials, "unverified accounts cannot log in")

	msg, ok := mail.Last()
	require.True(t, ok)
	require.NoError(t, manager.VerifyEmail(ctx, tokenFromLink(t, msg.HTML)))

	assert.ErrorIs(t, manager.VerifyEmail(ctx, tokenFromLink(t, msg.HTML)), auth.ErrUserNotFound,
		"verification tokens are single use")
	assert.ErrorIs(t, manager.ResendVerification(ctx, auth.ResendRequest{Email: creds.Email}), auth.ErrAlreadyVerified)

	first, err := manager.Login(ctx, creds)
	require.NoError(t, err)
	require.NotEmpty(t, first.Token)

	principal, err := manager.Authenticate(ctx, "Bearer "+first.Token)
	require.NoError(t, err)
	assert.Equal(t, creds.Email, principal.Email)

	second, err := manager.Login(ctx, creds)
	require.NoError(t, err)
	assert.NotEqual(t, first.Token, second.Token)

	_, err = manager.Authenticate(ctx, "Bearer "+first.Token)
	assert.ErrorIs(t, err, auth.ErrNotAuthorized, "a new login revokes the previous token")

	principal, err = manager.Authenticate(ctx, "Bearer "+second.Token)
	require.NoError(t, err)

	require.NoError(t, manager.Logout(ctx, principal))
	require.NoError(t, manager.Logout(ctx, principal))

	_, err = manager.Authenticate(ctx, "Bearer "+second.Token)
	assert.ErrorIs(t, err, auth.ErrNotAuthorized, "logout revokes the token")

	assert.Equal(t, []auth.ActivityEventType{
		auth.ActivityEventRegistered,
		auth.ActivityEventLoginFailure,
		auth.ActivityEventEmailVerified,
		auth.ActivityEventLoginSuccess,
		auth.ActivityEventLoginSuccess,
		auth.ActivityEventLogout,
		auth.ActivityEventLogout,
	}, sink.Types())
}

func TestRegisterInTransaction(t *testing.T) {
	ctx := context.Background()
	db := setupUsersDB(t)

	repos := auth.NewRepositoryManager(db)
	manager := auth.NewSessionManager(repos.Users(), auth.NewBcryptHasher(bcrypt.MinCost), auth.NewTokenService(testSigningKey), testBaseURL).
		WithLogger(quietLogger{}).
		WithEmailDispatcher(newOutbox(true)).
		WithRepositoryManager(repos)

	public, err := manager.Register(ctx, auth.RegisterRequest{
		Email:        "tx@x.com",
		Password:     "secret1",
		Subscription: auth.SubscriptionBusiness,
	})
	require.NoError(t, err)
	assert.Equal(t, auth.PublicUser{Email: "tx@x.com", Subscription: auth.SubscriptionStarter}, public)

	stored, err := repos.Users().FindByEmail(ctx, "tx@x.com")
	require.NoError(t, err)
	assert.Equal(t, auth.SubscriptionStarter, stored.Subscription)
	assert.False(t, stored.Verified)

	_, err = manager.Register(ctx, auth.RegisterRequest{Email: "tx@x.com", Password: "secret2"})
	assert.ErrorIs(t, err, auth.ErrEmailInUse)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = manager.Register(cancelled, auth.RegisterRequest{Email: "late@x.com", Password: "secret1"})
	assert.Error(t, err)

	exists, err := repos.Users().Exists(ctx, "late@x.com")
	require.NoError(t, err)
	assert.False(t, exists)
}
