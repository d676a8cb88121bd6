package guard

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-contacts-auth"
)

// DefaultContextKey is the Locals key holding the principal
const DefaultContextKey = "user"

// Authenticator resolves an Authorization header into a user.
// auth.SessionManager implements it.
type Authenticator interface {
	AuthenticateWithClaims(ctx context.Context, header string) (*auth.User, *auth.SessionClaims, error)
}

// ValidationListener is invoked after a principal has been resolved, before
// the request proceeds.
type ValidationListener func(c *fiber.Ctx, user *auth.User) error

type Config struct {
	Filter         func(*fiber.Ctx) bool
	SuccessHandler fiber.Handler
	ErrorHandler   fiber.ErrorHandler
	ContextKey     string
	// Authenticator is required
	Authenticator Authenticator

	// ContextEnricher propagates the principal to the request's user context.
	// Defaults to storing user and claims with auth.WithContext and
	// auth.WithClaimsContext.
	ContextEnricher func(ctx context.Context, user *auth.User, claims *auth.SessionClaims) context.Context

	ValidationListeners []ValidationListener
}

// New returns a middleware that rejects every request without a valid
// bearer session. A rejection is always 401 with the same body.
func New(config ...Config) fiber.Handler {
	cfg := GetDefaultConfig(config...)

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		user, claims, err := cfg.Authenticator.AuthenticateWithClaims(c.UserContext(), c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		if err := cfg.runValidationListeners(c, user); err != nil {
			return cfg.ErrorHandler(c, err)
		}

		c.Locals(cfg.ContextKey, user)
		c.SetUserContext(cfg.ContextEnricher(c.UserContext(), user, claims))

		return cfg.SuccessHandler(c)
	}
}

// Principal returns the user stored by the middleware
func Principal(c *fiber.Ctx, key ...string) (*auth.User, bool) {
	k := DefaultContextKey
	if len(key) > 0 && key[0] != "" {
		k = key[0]
	}
	user, ok := c.Locals(k).(*auth.User)
	return user, ok && user != nil
}

func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Authenticator == nil {
		panic("AUTH: guard middleware configuration: Authenticator is required.")
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(c *fiber.Ctx, _ error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": auth.ErrNotAuthorized.Message,
			})
		}
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = DefaultContextKey
	}

	if cfg.ContextEnricher == nil {
		cfg.ContextEnricher = func(ctx context.Context, user *auth.User, claims *auth.SessionClaims) context.Context {
			ctx = auth.WithContext(ctx, user)
			if claims != nil {
				ctx = auth.WithClaimsContext(ctx, claims)
			}
			return ctx
		}
	}

	return cfg
}

func (cfg *Config) runValidationListeners(c *fiber.Ctx, user *auth.User) error {
	for _, listener := range cfg.ValidationListeners {
		if listener == nil {
			continue
		}
		if err := listener(c, user); err != nil {
			return err
		}
	}
	return nil
}
