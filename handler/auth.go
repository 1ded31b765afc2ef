package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"feedback-tool-backend/middleware"
	"feedback-tool-backend/service"
	"feedback-tool-backend/util"
	"feedback-tool-backend/view"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// SessionManager verifies and signs out access tokens.
type SessionManager interface {
	Verify(ctx context.Context, token string) (*service.Identity, error)
	Revoke(ctx context.Context, id *service.Identity) error
}

type AuthHandler struct {
	sessions     SessionManager
	cookieName   string
	cookieSecure bool
}

func NewAuthHandler(sessions SessionManager, cookieName string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		sessions:     sessions,
		cookieName:   cookieName,
		cookieSecure: cookieSecure,
	}
}

func (h *AuthHandler) SignInPage(c *gin.Context) {
	c.HTML(http.StatusOK, view.PageAuth, view.AuthPage{Layout: view.Layout{Title: "Sign in"}})
}

// CreateSession stores an access token issued by the auth service in the session
// cookie. Tokens are verified first, so a bad token never reaches the cookie.
func (h *AuthHandler) CreateSession(c *gin.Context) {
	token := strings.TrimSpace(c.PostForm("access_token"))

	id, err := h.sessions.Verify(c.Request.Context(), token)
	if err != nil {
		log.WithError(err).Debug("Rejected sign-in token")
		c.HTML(http.StatusUnauthorized, view.PageAuth, view.AuthPage{
			Layout: view.Layout{Title: "Sign in"},
			Error:  util.ErrInvalidSession,
		})
		return
	}

	maxAge := int(time.Until(id.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, token, maxAge, "/", "", h.cookieSecure, true)

	log.WithField("user_id", id.UserID).Info("User signed in")
	c.Redirect(http.StatusSeeOther, "/")
}

// SignOut revokes the current token and clears the cookie.
func (h *AuthHandler) SignOut(c *gin.Context) {
	if id, ok := middleware.CurrentUser(c); ok {
		if err := h.sessions.Revoke(c.Request.Context(), &id); err != nil {
			log.WithError(err).WithField("user_id", id.UserID).Error("Error revoking session")
		}
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, "", -1, "/", "", h.cookieSecure, true)
	c.Redirect(http.StatusSeeOther, "/auth")
}
