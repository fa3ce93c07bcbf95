package link

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/nkosarev/bookstore-server/internal/model"
)

// Route suffixes for the confirmation endpoints served by the HTTP layer.
const (
	routeConfirmEmail    = "api/auth/confirm-email"
	routeResetPassword   = "api/auth/reset-password"
	routeChangeEmail     = "api/auth/change-email"
	routeDeleteAccount   = "api/auth/delete-account"
	routeSensitiveChange = "api/auth/confirm-sensitive-change"
)

var _ model.LinkBuilder = (*Builder)(nil)

// Builder produces absolute confirmation URLs rooted at the configured
// public base address.
type Builder struct {
	base string
}

// NewBuilder validates the public base address. An unset base is a
// configuration fault, detected at wiring time rather than per request.
func NewBuilder(base string) (*Builder, error) {
	if strings.TrimSpace(base) == "" {
		return nil, model.NewConfiguration("public base URL is not set")
	}
	return &Builder{base: strings.TrimRight(base, "/")}, nil
}

// Build combines the base address, a route suffix and an encoded token
// into an absolute URL with the token as a query parameter.
func (b *Builder) Build(routeSuffix, token string) (string, error) {
	if strings.TrimSpace(routeSuffix) == "" {
		return "", model.NewInvalidArgument("route suffix cannot be blank")
	}
	if strings.TrimSpace(token) == "" {
		return "", model.NewInvalidArgument("token cannot be blank")
	}
	return fmt.Sprintf("%s/%s?token=%s", b.base, strings.Trim(routeSuffix, "/"), url.QueryEscape(token)), nil
}

func (b *Builder) ConfirmEmailLink(token string) (string, error) {
	return b.Build(routeConfirmEmail, token)
}

func (b *Builder) ResetPasswordLink(token string) (string, error) {
	return b.Build(routeResetPassword, token)
}

func (b *Builder) ChangeEmailLink(token string) (string, error) {
	return b.Build(routeChangeEmail, token)
}

func (b *Builder) DeleteAccountLink(token string) (string, error) {
	return b.Build(routeDeleteAccount, token)
}

func (b *Builder) SensitiveChangeLink(token string) (string, error) {
	return b.Build(routeSensitiveChange, token)
}
