package auth

import (
	"fmt"
	"html"
)

type defaultVerificationRenderer struct{}

func (defaultVerificationRenderer) RenderVerification(link string) (string, error) {
	return fmt.Sprintf(`<a target="_blank" href="%s">Click verify email</a>`, html.EscapeString(link)), nil
}
