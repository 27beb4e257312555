package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus360/portal-api/internal/service"
	appErrors "github.com/campus360/portal-api/pkg/errors"
	"github.com/campus360/portal-api/pkg/response"
)

// FeedHandler wires HTTP endpoints to the feed service.
type FeedHandler struct {
	service *service.FeedService
}

// NewFeedHandler creates a new handler.
func NewFeedHandler(svc *service.FeedService) *FeedHandler {
	return &FeedHandler{service: svc}
}

// GetFeed godoc
// @Summary Personalized feed
// @Description Merged notices, announcements and upcoming events sorted newest first
// @Tags Feed
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /feed [get]
func (h *FeedHandler) GetFeed(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	feed, err := h.service.GetFeed(c.Request.Context(), claims.UserID, claims.Role)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, feed, nil)
}
