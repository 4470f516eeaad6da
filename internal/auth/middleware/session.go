package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medvend/portal/internal/auth"
	"github.com/medvend/portal/internal/logger"
)

// Session verifies the session cookie and stores the identity in the context.
// It never aborts: signed-out requests continue without an identity and the
// page gate decides what to do with them.
func Session(verifier auth.Verifier, cookie auth.CookieSettings, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookie.Name)
		if err != nil || token == "" {
			c.Next()
			return
		}

		id, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			log.FromContext(c.Request.Context()).WithError(err).Debug("dropping invalid session cookie")
			cookie.Clear(c)
			c.Next()
			return
		}

		auth.SetIdentity(c, id)
		c.Next()
	}
}

// RequireAPIKey guards machine-to-machine routes with a shared key.
func RequireAPIKey(expected string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-API-Key")

		if expected == "" || key == "" || subtle.ConstantTimeCompare([]byte(key), []byte(expected)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"ok":    false,
				"error": "invalid API key",
			})
			return
		}

		c.Next()
	}
}
