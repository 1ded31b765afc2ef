package handler

import (
	"net/http"

	"feedback-tool-backend/middleware"
	"feedback-tool-backend/service"
	"feedback-tool-backend/view"

	"github.com/gin-gonic/gin"
)

// layout builds the header context for a page rendered for the signed-in user.
func layout(c *gin.Context, profiles *service.ProfileService, title string) view.Layout {
	l := view.Layout{Title: title}
	if id, ok := middleware.CurrentUser(c); ok {
		u := profiles.CurrentUser(c.Request.Context(), id.UserID, id.Email)
		l.User = &u
	}
	return l
}

func renderNotFound(c *gin.Context, l view.Layout, message string) {
	l.Title = "Not found"
	c.HTML(http.StatusNotFound, view.PageNotFound, view.MessagePage{Layout: l, Message: message})
}

func renderError(c *gin.Context, status int, l view.Layout, message string) {
	l.Title = "Error"
	c.HTML(status, view.PageError, view.MessagePage{Layout: l, Message: message})
}

func identity(c *gin.Context) service.Identity {
	id, _ := middleware.CurrentUser(c)
	return id
}
