package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus360/portal-api/internal/service"
	appErrors "github.com/campus360/portal-api/pkg/errors"
	"github.com/campus360/portal-api/pkg/response"
)

// AttendanceHandler wires HTTP endpoints to the attendance service.
type AttendanceHandler struct {
	service *service.AttendanceService
}

// NewAttendanceHandler creates a new handler.
func NewAttendanceHandler(svc *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: svc}
}

// AddSubject godoc
// @Summary Add a tracked subject
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.AddSubjectRequest true "Subject payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /attendance/subjects [post]
func (h *AttendanceHandler) AddSubject(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.AddSubjectRequest
	if !bindJSON(c, &req, "invalid subject payload") {
		return
	}

	subject, err := h.service.AddSubject(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, subject)
}

// ListSubjects godoc
// @Summary List tracked subjects
// @Tags Attendance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /attendance/subjects [get]
func (h *AttendanceHandler) ListSubjects(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	subjects, err := h.service.ListSubjects(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, subjects, nil)
}

// DeleteSubjects godoc
// @Summary Delete subjects
// @Description Remove subjects and their attendance records
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.DeleteSubjectsRequest true "Subject IDs"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /attendance/subjects [delete]
func (h *AttendanceHandler) DeleteSubjects(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.DeleteSubjectsRequest
	if !bindJSON(c, &req, "invalid delete payload") {
		return
	}

	deleted, err := h.service.DeleteSubjects(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"deleted": deleted}, nil)
}

// SaveRecords godoc
// @Summary Save attendance records
// @Description Bulk upsert of attendance marks
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body []service.MarkAttendanceRequest true "Attendance marks"
// @Success 204 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /attendance/records [post]
func (h *AttendanceHandler) SaveRecords(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var reqs []service.MarkAttendanceRequest
	if !bindJSON(c, &reqs, "invalid attendance payload") {
		return
	}

	if err := h.service.SaveRecords(c.Request.Context(), claims.UserID, reqs); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// ListRecords godoc
// @Summary List attendance records
// @Tags Attendance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /attendance/records [get]
func (h *AttendanceHandler) ListRecords(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	records, err := h.service.ListRecords(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, records, nil)
}

// GetSubject godoc
// @Summary Get a subject
// @Tags Attendance
// @Produce json
// @Param subjectId path string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /attendance/subjects/{subjectId} [get]
func (h *AttendanceHandler) GetSubject(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	subject, err := h.service.GetSubject(c.Request.Context(), claims.UserID, c.Param("subjectId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, subject, nil)
}

// ListRecordsBySubject godoc
// @Summary List records for a subject
// @Tags Attendance
// @Produce json
// @Param subjectId path string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /attendance/subjects/{subjectId}/records [get]
func (h *AttendanceHandler) ListRecordsBySubject(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	records, err := h.service.ListRecordsBySubject(c.Request.Context(), claims.UserID, c.Param("subjectId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, records, nil)
}
