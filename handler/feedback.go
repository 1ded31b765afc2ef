package handler

import (
	"context"
	"errors"
	"net/http"

	"feedback-tool-backend/limit"
	"feedback-tool-backend/model"
	"feedback-tool-backend/service"
	"feedback-tool-backend/util"
	"feedback-tool-backend/view"

	"github.com/gin-gonic/gin"
)

type FeedbackHandler struct {
	feedbackService *service.FeedbackService
	profileService  *service.ProfileService
	limiter         *limit.SubmissionLimiter
}

func NewFeedbackHandler(feedbackService *service.FeedbackService, profileService *service.ProfileService, limiter *limit.SubmissionLimiter) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackService: feedbackService,
		profileService:  profileService,
		limiter:         limiter,
	}
}

// Home renders the timeline of the signed-in user. Categories listed in ?hide= are
// left out.
func (h *FeedbackHandler) Home(c *gin.Context) {
	list := h.feedbackService.ListForUser(c.Request.Context(), identity(c).UserID)
	filter := model.NewFeedbackFilter(c.QueryArray("hide"))

	c.Header("Cache-Control", "no-store")
	c.HTML(http.StatusOK, view.PageHome, view.HomePage{
		Layout:      layout(c, h.profileService, "Home"),
		Entries:     filter.Apply(list.Entries),
		Filter:      filter,
		Unavailable: list.Unavailable,
	})
}

func (h *FeedbackHandler) SentDetail(c *gin.Context) {
	h.renderDetail(c, model.StatusSent, h.feedbackService.GetFeedback)
}

func (h *FeedbackHandler) ReceivedDetail(c *gin.Context) {
	h.renderDetail(c, model.StatusReceived, h.feedbackService.GetFeedback)
}

// WishSentDetail only shows records that are wishes.
func (h *FeedbackHandler) WishSentDetail(c *gin.Context) {
	h.renderDetail(c, model.StatusWishSent, h.feedbackService.GetWish)
}

func (h *FeedbackHandler) renderDetail(c *gin.Context, status model.FeedbackStatus, load func(context.Context, string) (*model.FeedbackDetail, error)) {
	l := layout(c, h.profileService, status.Label())

	detail, err := load(c.Request.Context(), c.Param("id"))
	if err != nil {
		renderNotFound(c, l, "This feedback could not be found.")
		return
	}

	counterpart := detail.Receiver
	if status == model.StatusReceived {
		counterpart = detail.Sender
	}

	c.HTML(http.StatusOK, view.PageDetail, view.DetailPage{
		Layout:      l,
		Heading:     status.Label(),
		Feedback:    detail,
		Counterpart: counterpart,
	})
}

// Submit handles the form postback of every feedback form.
func (h *FeedbackHandler) Submit(c *gin.Context) {
	userID := identity(c).UserID
	l := layout(c, h.profileService, "Give feedback")

	var req model.CreateFeedbackRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderForm(c, http.StatusBadRequest, l, req, "Title and content are required.")
		return
	}

	if !h.limiter.Allow(userID) {
		h.renderForm(c, http.StatusTooManyRequests, l, req, util.ErrTooManyRequests)
		return
	}

	if _, err := h.feedbackService.CreateFeedback(c.Request.Context(), userID, req); err != nil {
		if errors.Is(err, service.ErrMissingReceiver) {
			h.renderForm(c, http.StatusBadRequest, l, req, util.ErrMissingReceiver)
			return
		}
		h.renderForm(c, http.StatusInternalServerError, l, req, util.ErrSubmissionFailed)
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}

// renderForm shows the submitted form again with its values and an error.
func (h *FeedbackHandler) renderForm(c *gin.Context, status int, l view.Layout, req model.CreateFeedbackRequest, message string) {
	page := view.FormPage{
		Layout:       l,
		Heading:      formHeading(req.IsWish, req.IsSelfReport),
		IsWish:       req.IsWish,
		IsSelfReport: req.IsSelfReport,
		Error:        message,
		TitleValue:   req.Title,
		ContentValue: req.Content,
	}
	if req.ReceiverID != "" && !req.IsSelfReport {
		if receiver, err := h.profileService.Get(c.Request.Context(), req.ReceiverID); err == nil {
			page.Receiver = receiver
		}
	}
	c.HTML(status, view.PageForm, page)
}

// ListJSON returns the signed-in user's timeline.
func (h *FeedbackHandler) ListJSON(c *gin.Context) {
	list := h.feedbackService.ListForUser(c.Request.Context(), identity(c).UserID)
	filter := model.NewFeedbackFilter(c.QueryArray("hide"))
	list.Entries = filter.Apply(list.Entries)

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, list)
}

func (h *FeedbackHandler) GetJSON(c *gin.Context) {
	detail, err := h.feedbackService.GetFeedback(c.Request.Context(), c.Param("id"))
	if err != nil {
		util.HandleError(c, http.StatusNotFound, util.ErrFeedbackNotFound, nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": detail,
	})
}

func (h *FeedbackHandler) CreateJSON(c *gin.Context) {
	userID := identity(c).UserID

	var req model.CreateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.HandleError(c, http.StatusBadRequest, util.ErrInvalidRequest, nil)
		return
	}

	if !h.limiter.Allow(userID) {
		util.HandleError(c, http.StatusTooManyRequests, util.ErrTooManyRequests, nil)
		return
	}

	feedback, err := h.feedbackService.CreateFeedback(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, service.ErrMissingReceiver) {
			util.HandleError(c, http.StatusBadRequest, util.ErrMissingReceiver, nil)
			return
		}
		util.HandleError(c, http.StatusInternalServerError, util.ErrSubmissionFailed, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Feedback sent",
		"data":    feedback,
	})
}

func formHeading(isWish, isSelfReport bool) string {
	switch {
	case isSelfReport:
		return "Self-report"
	case isWish:
		return "Ask for feedback"
	default:
		return "Give feedback"
	}
}
