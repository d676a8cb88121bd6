package httpapi_test

import (
	stderrors "errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-contacts-auth"
	"github.com/goliatone/go-contacts-auth/contacts"
	"github.com/goliatone/go-contacts-auth/httpapi"
)

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", auth.NewValidationError(stderrors.New("bad")), 400, "bad"},
		{"bad input", contacts.ErrMissingFields, 400, "missing fields"},
		{"auth", auth.ErrInvalidCredentials, 401, "Email or password is wrong"},
		{"authz", errors.New("forbidden", errors.CategoryAuthz), 403, "forbidden"},
		{"not found", contacts.ErrContactNotFound, 404, "Not Found"},
		{"conflict", auth.ErrEmailInUse, 409, "Email in use"},
		{"internal", errors.Wrap(stderrors.New("disk on fire"), errors.CategoryInternal, "boom"), 500, "Internal server error"},
		{"plain", stderrors.New("unexpected"), 500, "Internal server error"},
		{"fiber", fiber.NewError(fiber.StatusMethodNotAllowed, "nope"), 405, "nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: httpapi.ErrorHandler(quietLogger{})})
			app.Get("/", func(c *fiber.Ctx) error { return tt.err })

			res, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
			require.NoError(t, err)
			defer res.Body.Close()

			raw, err := io.ReadAll(res.Body)
			require.NoError(t, err)

			assert.Equal(t, tt.status, res.StatusCode)
			assert.JSONEq(t, `{"message":"`+tt.message+`"}`, string(raw))
		})
	}
}
