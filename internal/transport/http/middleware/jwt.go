package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tcg-backend/internal/auth"
	"tcg-backend/internal/transport/http/response"
)

const (
	ContextUserIDKey = "user_id"
	ContextEmailKey  = "email"
)

// AuthJWT resolves the Authorization header into an auth.Identity and stores
// it on the request context. Requests without a valid bearer token stop here
// with 401.
func AuthJWT(authenticator *auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := authenticator.AuthenticateHeader(c.GetHeader("Authorization"))
		if err != nil {
			if errors.Is(err, auth.ErrMissingCredential) {
				response.Abort(c, http.StatusUnauthorized, auth.ErrMissingCredential.Error())
				return
			}
			response.Abort(c, http.StatusUnauthorized, auth.ErrInvalidCredential.Error())
			return
		}

		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), identity))
		c.Set(ContextUserIDKey, identity.UserID)
		c.Set(ContextEmailKey, identity.Email)
		c.Next()
	}
}

// UserID returns the authenticated user id, or 0 when the request carries no
// identity.
func UserID(c *gin.Context) uint {
	identity, ok := auth.FromContext(c.Request.Context())
	if !ok {
		return 0
	}
	return identity.UserID
}
