package handler

import (
	"net/http"
	"strings"

	"feedback-tool-backend/service"
	"feedback-tool-backend/util"
	"feedback-tool-backend/view"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileService *service.ProfileService
}

func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// GiveFeedbackSearch lists colleagues to write feedback for.
func (h *ProfileHandler) GiveFeedbackSearch(c *gin.Context) {
	h.renderSearch(c, "Give feedback", "/give-feedback", true)
}

// WishFeedbackSearch lists colleagues to ask for feedback.
func (h *ProfileHandler) WishFeedbackSearch(c *gin.Context) {
	h.renderSearch(c, "Ask for feedback", "/wish-feedback", false)
}

func (h *ProfileHandler) renderSearch(c *gin.Context, heading, base string, selfReport bool) {
	query := strings.TrimSpace(c.Query("q"))
	profiles := h.profileService.Search(c.Request.Context(), query)

	// Colleagues only; the signed-in user reaches themselves through the self-report.
	self := identity(c).UserID
	colleagues := profiles[:0:0]
	for _, p := range profiles {
		if p.ID != self {
			colleagues = append(colleagues, p)
		}
	}

	c.HTML(http.StatusOK, view.PageSearch, view.SearchPage{
		Layout:         layout(c, h.profileService, heading),
		Heading:        heading,
		Base:           base,
		Query:          query,
		Profiles:       colleagues,
		SelfReportLink: selfReport,
	})
}

func (h *ProfileHandler) GiveFeedbackForm(c *gin.Context) {
	h.renderForm(c, false)
}

func (h *ProfileHandler) WishFeedbackForm(c *gin.Context) {
	h.renderForm(c, true)
}

func (h *ProfileHandler) renderForm(c *gin.Context, isWish bool) {
	l := layout(c, h.profileService, formHeading(isWish, false))

	receiver, err := h.profileService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		renderNotFound(c, l, "This colleague could not be found.")
		return
	}

	c.HTML(http.StatusOK, view.PageForm, view.FormPage{
		Layout:   l,
		Heading:  formHeading(isWish, false),
		Receiver: receiver,
		IsWish:   isWish,
	})
}

// SelfReportForm renders the feedback form addressed to the signed-in user.
func (h *ProfileHandler) SelfReportForm(c *gin.Context) {
	c.HTML(http.StatusOK, view.PageForm, view.FormPage{
		Layout:       layout(c, h.profileService, formHeading(false, true)),
		Heading:      formHeading(false, true),
		IsSelfReport: true,
	})
}

func (h *ProfileHandler) SearchJSON(c *gin.Context) {
	profiles := h.profileService.Search(c.Request.Context(), strings.TrimSpace(c.Query("q")))
	c.JSON(http.StatusOK, gin.H{
		"data": profiles,
	})
}

func (h *ProfileHandler) GetJSON(c *gin.Context) {
	profile, err := h.profileService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		util.HandleError(c, http.StatusNotFound, util.ErrProfileNotFound, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data": profile,
	})
}

// Me returns the signed-in account with its profile.
func (h *ProfileHandler) Me(c *gin.Context) {
	id := identity(c)
	user := h.profileService.CurrentUser(c.Request.Context(), id.UserID, id.Email)
	c.JSON(http.StatusOK, gin.H{
		"data": user,
		"name": user.Name(),
	})
}
