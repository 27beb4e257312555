package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus360/portal-api/internal/service"
	appErrors "github.com/campus360/portal-api/pkg/errors"
	"github.com/campus360/portal-api/pkg/response"
)

// UserHandler wires HTTP endpoints to the user service.
type UserHandler struct {
	service *service.UserService
}

// NewUserHandler creates a new handler.
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{service: svc}
}

// SetRole godoc
// @Summary Select account role
// @Description Set the account role once; returns a token carrying the new role
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body service.SetRoleRequest true "Role selection"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /users/role [put]
func (h *UserHandler) SetRole(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.SetRoleRequest
	if !bindJSON(c, &req, "invalid role payload") {
		return
	}

	res, err := h.service.SetRole(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}

// UpdateProfile godoc
// @Summary Update profile
// @Description Update the authenticated user's display name
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body service.UpdateProfileRequest true "Profile update"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /users/profile [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.UpdateProfileRequest
	if !bindJSON(c, &req, "invalid profile payload") {
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, user, nil)
}

// AttendanceGoal godoc
// @Summary Get attendance goal
// @Tags Users
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /users/attendance-goal [get]
func (h *UserHandler) AttendanceGoal(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	goal, err := h.service.AttendanceGoal(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"goal": goal}, nil)
}

// SetAttendanceGoal godoc
// @Summary Set attendance goal
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body service.AttendanceGoalRequest true "Goal percentage"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /users/attendance-goal [put]
func (h *UserHandler) SetAttendanceGoal(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.AttendanceGoalRequest
	if !bindJSON(c, &req, "invalid goal payload") {
		return
	}

	if err := h.service.SetAttendanceGoal(c.Request.Context(), claims.UserID, req); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"goal": req.Goal}, nil)
}

// ListFaculty godoc
// @Summary List faculty accounts
// @Description Faculty directory used when assigning a club coordinator
// @Tags Users
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /users/faculty [get]
func (h *UserHandler) ListFaculty(c *gin.Context) {
	faculty, err := h.service.ListFaculty(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, faculty, nil)
}
