package httpapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/goliatone/go-contacts-auth"
	"github.com/goliatone/go-contacts-auth/avatars"
	"github.com/goliatone/go-contacts-auth/contacts"
	"github.com/goliatone/go-contacts-auth/metrics"
	"github.com/goliatone/go-contacts-auth/middleware/guard"
)

// Config holds the collaborators of the HTTP surface
type Config struct {
	Sessions *auth.SessionManager
	Contacts *contacts.Service
	Avatars  *avatars.Service
	// Metrics is optional, /metrics is only mounted when set
	Metrics *metrics.Metrics
	Logger  auth.Logger
	// AvatarDir is served under /avatars when set
	AvatarDir string
}

// New builds the fiber application with every route mounted
func New(cfg Config) *fiber.App {
	if cfg.Sessions == nil || cfg.Contacts == nil || cfg.Avatars == nil {
		panic("HTTPAPI: Sessions, Contacts and Avatars are required.")
	}

	if cfg.Logger == nil {
		cfg.Logger = auth.DefaultLogger()
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          ErrorHandler(cfg.Logger),
		BodyLimit:             avatars.MaxUploadSize + 1024*1024,
		DisableStartupMessage: true,
	})

	if cfg.Metrics != nil {
		app.Use(observe(cfg.Metrics))
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	if cfg.AvatarDir != "" {
		app.Static("/"+avatars.Prefix, cfg.AvatarDir)
	}

	protected := guard.New(guard.Config{
		Authenticator: cfg.Sessions,
	})

	users := &usersHandler{
		sessions: cfg.Sessions,
		avatars:  cfg.Avatars,
	}

	api := app.Group("/api")

	u := api.Group("/users")
	u.Post("/register", users.Register)
	u.Get("/verify/:verificationToken", users.Verify)
	u.Post("/verify", users.ResendVerification)
	u.Post("/login", users.Login)
	u.Post("/logout", protected, users.Logout)
	u.Get("/current", protected, users.Current)
	u.Patch("/avatars", protected, users.UpdateAvatar)
	u.Patch("/", protected, users.UpdateSubscription)

	contactsH := &contactsHandler{
		service: cfg.Contacts,
	}

	ct := api.Group("/contacts", protected)
	ct.Get("/", contactsH.List)
	ct.Post("/", contactsH.Create)
	ct.Get("/:contactId", contactsH.Get)
	ct.Put("/:contactId", contactsH.Update)
	ct.Delete("/:contactId", contactsH.Delete)
	ct.Patch("/:contactId/favorite", contactsH.SetFavorite)

	return app
}

// observe records request count and latency. Errors are rendered here so
// the recorded status is the one the client sees.
func observe(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		route := "unmatched"
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path
		}

		m.ObserveHTTP(c.Method(), route, c.Response().StatusCode(), time.Since(start))
		return nil
	}
}

// parseBody decodes the request body into out. An empty body leaves out
// untouched so validation reports the missing fields.
func parseBody(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		return ErrInvalidBody
	}
	return nil
}

func principal(c *fiber.Ctx) (*auth.User, error) {
	user, ok := guard.Principal(c)
	if !ok {
		return nil, auth.ErrNotAuthorized
	}
	return user, nil
}
