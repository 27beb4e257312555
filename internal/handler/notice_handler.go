package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus360/portal-api/internal/service"
	appErrors "github.com/campus360/portal-api/pkg/errors"
	"github.com/campus360/portal-api/pkg/response"
)

// NoticeHandler wires HTTP endpoints to the notice service.
type NoticeHandler struct {
	service *service.NoticeService
}

// NewNoticeHandler creates a new handler.
func NewNoticeHandler(svc *service.NoticeService) *NoticeHandler {
	return &NoticeHandler{service: svc}
}

// List godoc
// @Summary List active notices
// @Description Pinned first, then newest first; expired notices are excluded
// @Tags Notices
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /notices [get]
func (h *NoticeHandler) List(c *gin.Context) {
	notices, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, notices, nil)
}

// Create godoc
// @Summary Post a notice
// @Description Faculty, club and admin accounts can post notices
// @Tags Notices
// @Accept json
// @Produce json
// @Param payload body service.CreateNoticeRequest true "Notice payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /notices [post]
func (h *NoticeHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.CreateNoticeRequest
	if !bindJSON(c, &req, "invalid notice payload") {
		return
	}

	notice, err := h.service.Create(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, notice)
}

// DeletePost godoc
// @Summary Delete a post
// @Description Remove a notice or announcement by ID; authors and privileged roles only
// @Tags Notices
// @Produce json
// @Param id path string true "Post ID"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /posts/{id} [delete]
func (h *NoticeHandler) DeletePost(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.DeletePost(c.Request.Context(), claims, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
