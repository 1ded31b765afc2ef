package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"feedback-tool-backend/service"
	"feedback-tool-backend/util"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const identityKey = "identity"

// publicPrefixes are reachable without a session.
var publicPrefixes = []string{"/auth", "/api", "/health", "/metrics", "/static"}

// SessionVerifier turns a raw access token into an identity.
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (*service.Identity, error)
}

func hasPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func isPublic(path string) bool {
	for _, p := range publicPrefixes {
		if hasPrefix(path, p) {
			return true
		}
	}
	return false
}

// SessionToken reads the access token from the session cookie, falling back to a
// Bearer Authorization header.
func SessionToken(c *gin.Context, cookieName string) string {
	if token, err := c.Cookie(cookieName); err == nil && token != "" {
		return token
	}
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// SessionGate resolves the session on every request. Protected pages without a
// session redirect to /auth, and the sign-in pages redirect signed-in users home.
// API routes are never redirected; they use RequireSession instead.
func SessionGate(sessions SessionVerifier, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		var identity *service.Identity
		if token := SessionToken(c, cookieName); token != "" {
			id, err := sessions.Verify(c.Request.Context(), token)
			switch {
			case err == nil:
				identity = id
			case errors.Is(err, service.ErrSessionRevoked):
				log.WithField("path", path).Debug("Revoked session presented")
			default:
				log.WithError(err).WithField("path", path).Debug("Invalid session token")
			}
		}

		if identity == nil {
			if !isPublic(path) {
				c.Redirect(http.StatusFound, "/auth")
				c.Abort()
				return
			}
			c.Next()
			return
		}

		c.Set(identityKey, *identity)
		if hasPrefix(path, "/auth") {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the identity attached by SessionGate.
func CurrentUser(c *gin.Context) (service.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return service.Identity{}, false
	}
	id, ok := v.(service.Identity)
	return id, ok
}

// RequireSession rejects API requests that carry no valid session.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": util.ErrUnauthorized})
			return
		}
		c.Next()
	}
}
