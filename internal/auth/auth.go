// Package auth resolves bearer credentials into an Identity and carries that
// identity through a context. It is shared by the HTTP middleware and the
// presence channel handshake.
package auth

import (
	"context"
	"errors"
	"strings"

	"tcg-backend/internal/pkg/jwtutil"
)

var (
	ErrMissingCredential = errors.New("missing token")
	ErrInvalidCredential = errors.New("invalid or expired token")
)

// Identity is the authenticated principal attached to a request or connection.
type Identity struct {
	UserID uint
	Email  string
}

type Authenticator struct {
	secret string
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: secret}
}

// Authenticate verifies a raw token and returns the identity it carries.
func (a *Authenticator) Authenticate(rawToken string) (Identity, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return Identity{}, ErrMissingCredential
	}
	claims, err := jwtutil.ParseToken(a.secret, rawToken)
	if err != nil {
		return Identity{}, ErrInvalidCredential
	}
	return Identity{UserID: claims.UserID, Email: claims.Email}, nil
}

// AuthenticateHeader runs Authenticate on an Authorization header value.
func (a *Authenticator) AuthenticateHeader(header string) (Identity, error) {
	token, err := ParseBearer(header)
	if err != nil {
		return Identity{}, err
	}
	return a.Authenticate(token)
}

// ParseBearer extracts the token from "Bearer <token>".
func ParseBearer(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", ErrMissingCredential
	}
	token, found := strings.CutPrefix(header, "Bearer ")
	token = strings.TrimSpace(token)
	if !found || token == "" || strings.ContainsAny(token, " \t") {
		return "", ErrMissingCredential
	}
	return token, nil
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	if !ok || id.UserID == 0 {
		return Identity{}, false
	}
	return id, true
}
