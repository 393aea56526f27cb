package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-task-dashboard/pkg/response"
)

// ContextUserID is the gin context key holding the authenticated user id.
const ContextUserID = "userID"

const bearerPrefix = "Bearer "

// TokenVerifier resolves a bearer token to a user id.
type TokenVerifier interface {
	Verify(token string) (userID string, ok bool)
}

// ResolveIdentity returns the user id carried by the request's bearer
// token. A missing header, any other scheme, an empty token and a token
// that fails verification all report ok=false.
func ResolveIdentity(r *http.Request, tokens TokenVerifier) (string, bool) {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(h, bearerPrefix))
	if token == "" {
		return "", false
	}
	return tokens.Verify(token)
}

// BearerAuth rejects requests without a valid bearer token. Every failure
// gets the same 401 body so callers cannot tell why.
func BearerAuth(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := ResolveIdentity(c.Request, tokens)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
			return
		}
		c.Set(ContextUserID, uid)
		c.Next()
	}
}
