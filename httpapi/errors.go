package httpapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"

	"github.com/goliatone/go-contacts-auth"
)

// ErrInvalidBody is returned when a request body can not be decoded
var ErrInvalidBody = errors.New("invalid request body", errors.CategoryBadInput).
	WithCode(errors.CodeBadRequest)

// ErrorHandler is the single place where errors become HTTP responses.
// The body is always {"message": ...}.
func ErrorHandler(logger auth.Logger) fiber.ErrorHandler {
	if logger == nil {
		logger = auth.DefaultLogger()
	}

	return func(c *fiber.Ctx, err error) error {
		if ferr, ok := err.(*fiber.Error); ok {
			return c.Status(ferr.Code).JSON(fiber.Map{"message": ferr.Message})
		}

		var richErr *errors.Error
		if !errors.As(err, &richErr) {
			richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
				WithCode(errors.CodeInternal)
		}

		status := StatusFor(richErr)
		message := richErr.Message
		if status >= fiber.StatusInternalServerError {
			logger.Error(
				"request error",
				"error", err,
				"category", richErr.Category,
				"path", c.OriginalURL(),
			)
			message = "Internal server error"
		} else {
			logger.Debug(
				"request rejected",
				"error", richErr.Message,
				"text_code", richErr.TextCode,
				"details", print.MaybePrettyJSON(richErr.Metadata),
				"path", c.OriginalURL(),
			)
		}

		return c.Status(status).JSON(fiber.Map{"message": message})
	}
}

// StatusFor maps an error category to its response status
func StatusFor(richErr *errors.Error) int {
	if richErr == nil {
		return fiber.StatusInternalServerError
	}

	switch richErr.Category {
	case errors.CategoryValidation, errors.CategoryBadInput:
		return fiber.StatusBadRequest
	case errors.CategoryAuth:
		return fiber.StatusUnauthorized
	case errors.CategoryAuthz:
		return fiber.StatusForbidden
	case errors.CategoryNotFound:
		return fiber.StatusNotFound
	case errors.CategoryConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
