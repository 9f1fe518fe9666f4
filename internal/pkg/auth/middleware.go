package auth

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const userIDKey = "auth.user_id"

// BearerToken extracts the access token from the Authorization header. Browsers
// cannot set headers on WebSocket handshakes, so the token query parameter is
// accepted as a fallback.
func BearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if scheme, token, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return c.Query("token")
}

// RequireUser rejects requests without a valid access token with 401 and
// stores the resolved user id for handlers.
func RequireUser(r TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := r.Resolve(c.Request.Context(), BearerToken(c))
		if err != nil {
			if !errors.Is(err, ErrTokenNotFound) {
				log.Printf("auth: resolve token: %v", err)
			}
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid access token"})
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID returns the id stored by RequireUser.
func UserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
