package credentials

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type tokenClaims struct {
	jwt.RegisteredClaims
	Scopes []string `json:"scopes,omitempty"`
}

// NewContext builds a context for serverURL. A non-empty token is decoded
// to fill in its subject, scopes and expiry. The signature is not checked:
// only the server can do that.
func NewContext(serverURL, token string) (*Context, error) {
	ctx := &Context{ServerURL: strings.TrimRight(serverURL, "/")}
	if token == "" {
		return ctx, nil
	}

	var claims tokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	ctx.Token = token
	ctx.Subject = claims.Subject
	ctx.Scopes = claims.Scopes
	if claims.ExpiresAt != nil {
		ctx.ExpiresAt = claims.ExpiresAt.Time
	}
	return ctx, nil
}

// ContextName derives a context name from a server URL, e.g. "localhost-8080".
func ContextName(serverURL string) string {
	u, err := url.Parse(serverURL)
	if err != nil || u.Host == "" {
		return "default"
	}
	return strings.NewReplacer(":", "-", ".", "-").Replace(u.Host)
}
