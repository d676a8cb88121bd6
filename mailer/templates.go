package mailer

import (
	"bytes"
	"embed"
	"io/fs"
	"net/http"

	"github.com/gofiber/template/django/v3"
	"github.com/goliatone/go-errors"
)

//go:embed templates
var templatesFS embed.FS

// VerificationTemplate is the name of the verification email template
const VerificationTemplate = "verify_email"

// TemplateRenderer renders email bodies from the embedded django templates
type TemplateRenderer struct {
	engine *django.Engine
}

// NewTemplateRenderer loads the embedded templates
func NewTemplateRenderer() (*TemplateRenderer, error) {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to open email templates")
	}

	engine := django.NewFileSystem(http.FS(sub), ".html")
	if err := engine.Load(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load email templates")
	}

	return &TemplateRenderer{engine: engine}, nil
}

// Render executes template name with data
func (r *TemplateRenderer) Render(name string, data map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := r.engine.Render(&buf, name, data); err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to render email").
			WithMetadata(map[string]any{"template": name})
	}
	return buf.String(), nil
}

// RenderVerification implements auth.VerificationRenderer
func (r *TemplateRenderer) RenderVerification(link string) (string, error) {
	return r.Render(VerificationTemplate, map[string]any{
		"link": link,
	})
}
