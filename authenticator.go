package auth

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-contacts-auth/avatars"
)

// BearerScheme is the only accepted Authorization scheme
const BearerScheme = "Bearer"

// VerificationSubject is the subject line of the verification email
const VerificationSubject = "Verify email"

// SessionManager handles registration, login, logout, current session and
// email verification. It also resolves bearer tokens into users.
type SessionManager struct {
	store        CredentialStore
	repos        RepositoryManager
	hasher       PasswordHasher
	codec        TokenCodec
	baseURL      string
	tokenTTL     time.Duration
	logger       Logger
	activitySink ActivitySink
	dispatcher   EmailDispatcher
	renderer     VerificationRenderer
	avatarURL    func(email string) string
	now          func() time.Time
}

// NewSessionManager returns a SessionManager. baseURL is the public origin
// used to build verification links.
func NewSessionManager(store CredentialStore, hasher PasswordHasher, codec TokenCodec, baseURL string) *SessionManager {
	return &SessionManager{
		store:        store,
		hasher:       hasher,
		codec:        codec,
		baseURL:      strings.TrimRight(baseURL, "/"),
		tokenTTL:     DefaultTokenTTL,
		logger:       defLogger{},
		activitySink: noopActivitySink{},
		renderer:     defaultVerificationRenderer{},
		avatarURL:    avatars.GravatarURL,
		now:          time.Now,
	}
}

// WithLogger sets the logger, nil keeps the current one
func (s *SessionManager) WithLogger(logger Logger) *SessionManager {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithActivitySink configures an ActivitySink for emitting auth events.
func (s *SessionManager) WithActivitySink(sink ActivitySink) *SessionManager {
	s.activitySink = normalizeActivitySink(sink)
	return s
}

// WithEmailDispatcher sets the transport for verification emails
func (s *SessionManager) WithEmailDispatcher(dispatcher EmailDispatcher) *SessionManager {
	s.dispatcher = dispatcher
	return s
}

// WithVerificationRenderer sets the renderer for the verification email body
func (s *SessionManager) WithVerificationRenderer(renderer VerificationRenderer) *SessionManager {
	if renderer != nil {
		s.renderer = renderer
	}
	return s
}

// WithTokenTTL sets the session validity window, DefaultTokenTTL otherwise
func (s *SessionManager) WithTokenTTL(ttl time.Duration) *SessionManager {
	if ttl > 0 {
		s.tokenTTL = ttl
	}
	return s
}

// WithRepositoryManager makes registration run its email lookup and insert
// in a single transaction. The manager's Users repository should be the
// store the SessionManager was built with.
func (s *SessionManager) WithRepositoryManager(repos RepositoryManager) *SessionManager {
	s.repos = repos
	return s
}

// WithAvatarURL overrides how the default avatar is derived from the email
func (s *SessionManager) WithAvatarURL(fn func(email string) string) *SessionManager {
	if fn != nil {
		s.avatarURL = fn
	}
	return s
}

// WithClock overrides the time source
func (s *SessionManager) WithClock(now func() time.Time) *SessionManager {
	if now != nil {
		s.now = now
	}
	return s
}

// Register creates an unverified user and sends the verification email
func (s *SessionManager) Register(ctx context.Context, req RegisterRequest) (PublicUser, error) {
	if err := req.Validate(); err != nil {
		return PublicUser{}, NewValidationError(err)
	}

	email := normalizeEmail(req.Email)

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.logger.Error("Register hash password error", "error", err)
		return PublicUser{}, err
	}

	// the requested plan is ignored, new accounts start on starter and
	// only UpdateSubscription changes it
	verificationToken := uuid.NewString()
	user := &User{
		Email:             email,
		PasswordHash:      hash,
		Subscription:      SubscriptionStarter,
		AvatarURL:         s.avatarURL(email),
		VerificationToken: &verificationToken,
	}

	created, err := s.createUser(ctx, user)
	if err != nil {
		if errors.Is(err, ErrEmailInUse) {
			return PublicUser{}, ErrEmailInUse
		}
		s.logger.Error("Register create user error", "error", err)
		return PublicUser{}, errors.Wrap(err, errors.CategoryInternal, "failed to create user")
	}

	s.sendVerification(ctx, created.Email, verificationToken)

	s.emitAuthEvent(ctx, ActivityEventRegistered, created, created.Email, nil)

	return created.Public(), nil
}

// createUser checks the email is free and inserts user. With a repository
// manager both statements share one transaction.
func (s *SessionManager) createUser(ctx context.Context, user *User) (*User, error) {
	if s.repos == nil {
		return s.insertUser(ctx, s.store.Exists, s.store.Create, user)
	}

	var created *User
	err := s.repos.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		users := s.repos.Users()
		exists := func(ctx context.Context, email string) (bool, error) {
			return users.ExistsTx(ctx, tx, email)
		}
		create := func(ctx context.Context, record *User) (*User, error) {
			return users.CreateTx(ctx, tx, record)
		}

		var err error
		created, err = s.insertUser(ctx, exists, create, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *SessionManager) insertUser(
	ctx context.Context,
	exists func(context.Context, string) (bool, error),
	create func(context.Context, *User) (*User, error),
	user *User,
) (*User, error) {
	found, err := exists(ctx, user.Email)
	if err != nil {
		return nil, err
	}

	if found {
		return nil, ErrEmailInUse
	}

	return create(ctx, user)
}

// Login checks the credentials and issues a new session token, replacing
// any session the user held before.
func (s *SessionManager) Login(ctx context.Context, req LoginRequest) (LoginResult, error) {
	if err := req.Validate(); err != nil {
		return LoginResult{}, NewValidationError(err)
	}

	email := normalizeEmail(req.Email)

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if !repository.IsRecordNotFound(err) {
			s.logger.Error("Login find user error", "error", err)
			return LoginResult{}, errors.Wrap(err, errors.CategoryInternal, "failed to look up user")
		}
		s.loginFailed(ctx, nil, email, "unknown email")
		return LoginResult{}, ErrInvalidCredentials
	}

	if !user.Verified {
		s.loginFailed(ctx, user, email, "email not verified")
		return LoginResult{}, ErrInvalidCredentials
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		s.loginFailed(ctx, user, email, "password mismatch")
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := s.codec.Sign(user.ID.String(), s.tokenTTL)
	if err != nil {
		s.logger.Error("Login sign token error", "error", err)
		return LoginResult{}, err
	}

	if err := s.store.UpdateByID(ctx, user.ID, UserPatch{SessionToken: &token}); err != nil {
		s.logger.Error("Login persist session error", "error", err)
		return LoginResult{}, errors.Wrap(err, errors.CategoryInternal, "failed to persist session")
	}
	user.SessionToken = &token

	s.emitAuthEvent(ctx, ActivityEventLoginSuccess, user, email, nil)

	return LoginResult{
		Token: token,
		User:  user.Public(),
	}, nil
}

// Logout clears the session of user. Calling it twice is fine.
func (s *SessionManager) Logout(ctx context.Context, user *User) error {
	if user == nil {
		return ErrNotAuthorized
	}

	err := s.store.UpdateByID(ctx, user.ID, UserPatch{SessionToken: StringPtr("")})
	if err != nil && !repository.IsRecordNotFound(err) {
		s.logger.Error("Logout clear session error", "error", err)
		return errors.Wrap(err, errors.CategoryInternal, "failed to clear session")
	}
	user.SessionToken = nil

	s.emitAuthEvent(ctx, ActivityEventLogout, user, user.Email, nil)

	return nil
}

// Current returns the public projection of the authenticated user
func (s *SessionManager) Current(user *User) (PublicUser, error) {
	if user == nil {
		return PublicUser{}, ErrNotAuthorized
	}
	return user.Public(), nil
}

// VerifyEmail consumes a verification token and marks its user verified
func (s *SessionManager) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.store.FindByVerificationToken(ctx, token)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrUserNotFound
		}
		s.logger.Error("VerifyEmail find user error", "error", err)
		return errors.Wrap(err, errors.CategoryInternal, "failed to look up user")
	}

	patch := UserPatch{
		Verified:          BoolPtr(true),
		VerificationToken: StringPtr(""),
	}
	if err := s.store.UpdateByID(ctx, user.ID, patch); err != nil {
		s.logger.Error("VerifyEmail update user error", "error", err)
		return errors.Wrap(err, errors.CategoryInternal, "failed to verify user")
	}

	s.emitAuthEvent(ctx, ActivityEventEmailVerified, user, user.Email, nil)

	return nil
}

// ResendVerification sends the stored verification token again
func (s *SessionManager) ResendVerification(ctx context.Context, req ResendRequest) error {
	if err := req.Validate(); err != nil {
		return NewValidationError(err)
	}

	email := normalizeEmail(req.Email)

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrUserNotFound
		}
		s.logger.Error("ResendVerification find user error", "error", err)
		return errors.Wrap(err, errors.CategoryInternal, "failed to look up user")
	}

	if user.Verified {
		return ErrAlreadyVerified
	}

	token := ""
	if user.VerificationToken != nil {
		token = *user.VerificationToken
	}

	if token == "" {
		token = uuid.NewString()
		if err := s.store.UpdateByID(ctx, user.ID, UserPatch{VerificationToken: &token}); err != nil {
			s.logger.Error("ResendVerification store token error", "error", err)
			return errors.Wrap(err, errors.CategoryInternal, "failed to store verification token")
		}
	}

	s.sendVerification(ctx, user.Email, token)

	s.emitAuthEvent(ctx, ActivityEventVerificationResent, user, user.Email, nil)

	return nil
}

// UpdateSubscription changes the plan of user
func (s *SessionManager) UpdateSubscription(ctx context.Context, user *User, req SubscriptionRequest) (PublicUser, error) {
	if user == nil {
		return PublicUser{}, ErrNotAuthorized
	}

	if err := req.Validate(); err != nil {
		return PublicUser{}, NewValidationError(err)
	}

	subscription := req.Subscription
	if err := s.store.UpdateByID(ctx, user.ID, UserPatch{Subscription: &subscription}); err != nil {
		s.logger.Error("UpdateSubscription update user error", "error", err)
		return PublicUser{}, errors.Wrap(err, errors.CategoryInternal, "failed to update subscription")
	}

	from := user.Subscription
	user.Subscription = subscription

	s.emitAuthEvent(ctx, ActivityEventSubscriptionChange, user, user.Email, map[string]any{
		"from": from,
		"to":   subscription,
	})

	return user.Public(), nil
}

// UpdateAvatar stores the new avatar reference of user
func (s *SessionManager) UpdateAvatar(ctx context.Context, user *User, avatarURL string) (string, error) {
	if user == nil {
		return "", ErrNotAuthorized
	}

	if strings.TrimSpace(avatarURL) == "" {
		return "", errors.New("avatar url is required", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest)
	}

	if err := s.store.UpdateByID(ctx, user.ID, UserPatch{AvatarURL: &avatarURL}); err != nil {
		s.logger.Error("UpdateAvatar update user error", "error", err)
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to update avatar")
	}
	user.AvatarURL = avatarURL

	s.emitAuthEvent(ctx, ActivityEventAvatarChanged, user, user.Email, map[string]any{
		"avatar_url": avatarURL,
	})

	return avatarURL, nil
}

// Authenticate resolves the value of an Authorization header into the
// user holding that exact session token. Every failure is ErrNotAuthorized.
func (s *SessionManager) Authenticate(ctx context.Context, header string) (*User, error) {
	user, _, err := s.AuthenticateWithClaims(ctx, header)
	return user, err
}

// AuthenticateWithClaims is Authenticate also returning the decoded claims
func (s *SessionManager) AuthenticateWithClaims(ctx context.Context, header string) (*User, *SessionClaims, error) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != BearerScheme || token == "" {
		return nil, nil, ErrNotAuthorized
	}

	claims, err := s.codec.Verify(token)
	if err != nil {
		s.logger.Debug("Authenticate token rejected", "error", err)
		return nil, nil, ErrNotAuthorized
	}

	id, err := uuid.Parse(claims.UserID())
	if err != nil {
		return nil, nil, ErrNotAuthorized
	}

	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		if !repository.IsRecordNotFound(err) {
			s.logger.Error("Authenticate find user error", "error", err)
		}
		return nil, nil, ErrNotAuthorized
	}

	if !user.HasSession() || subtle.ConstantTimeCompare([]byte(*user.SessionToken), []byte(token)) != 1 {
		return nil, nil, ErrNotAuthorized
	}

	return user, claims, nil
}

// VerificationLink builds the public link embedding token
func (s *SessionManager) VerificationLink(token string) string {
	return s.baseURL + "/api/users/verify/" + token
}

func (s *SessionManager) sendVerification(ctx context.Context, email, token string) {
	link := s.VerificationLink(token)

	html, err := s.renderer.RenderVerification(link)
	if err != nil {
		s.logger.Error("verification email render error", "error", err)
		return
	}

	msg := EmailMessage{
		To:      email,
		Subject: VerificationSubject,
		HTML:    html,
	}

	if s.dispatcher == nil {
		s.logger.Debug("verification email not sent, no dispatcher: %s", print.MaybePrettyJSON(msg))
		return
	}

	if ok := s.dispatcher.Send(ctx, msg); !ok {
		s.logger.Warn("verification email to %s was not delivered", email)
	}
}

func (s *SessionManager) loginFailed(ctx context.Context, user *User, email, reason string) {
	s.logger.Debug("Login rejected: %s", reason)
	s.emitAuthEvent(ctx, ActivityEventLoginFailure, user, email, map[string]any{
		"reason": reason,
	})
}

func (s *SessionManager) emitAuthEvent(ctx context.Context, eventType ActivityEventType, user *User, email string, metadata map[string]any) {
	sink := normalizeActivitySink(s.activitySink)
	event := ActivityEvent{
		EventType: eventType,
		Email:     email,
		Metadata:  metadata,
	}

	if user != nil && user.ID != uuid.Nil {
		event.UserID = user.ID.String()
	}

	if event.Metadata == nil {
		event.Metadata = map[string]any{}
	}

	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.now()
	}

	if err := sink.Record(ctx, event); err != nil {
		s.logger.Warn("activity sink record error: %v", err)
	}
}
