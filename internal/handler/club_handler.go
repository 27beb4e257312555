package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus360/portal-api/internal/service"
	appErrors "github.com/campus360/portal-api/pkg/errors"
	"github.com/campus360/portal-api/pkg/response"
)

// ClubHandler wires HTTP endpoints to the club, announcement and event
// services.
type ClubHandler struct {
	clubs         *service.ClubService
	announcements *service.AnnouncementService
	events        *service.EventService
}

// NewClubHandler creates a new handler.
func NewClubHandler(clubs *service.ClubService, announcements *service.AnnouncementService, events *service.EventService) *ClubHandler {
	return &ClubHandler{clubs: clubs, announcements: announcements, events: events}
}

// Create godoc
// @Summary Create a club
// @Description Register a club managed by the calling representative
// @Tags Clubs
// @Accept json
// @Produce json
// @Param payload body service.CreateClubRequest true "Club payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /clubs [post]
func (h *ClubHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.CreateClubRequest
	if !bindJSON(c, &req, "invalid club payload") {
		return
	}

	club, err := h.clubs.Create(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, club)
}

// List godoc
// @Summary Club directory
// @Tags Clubs
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /clubs [get]
func (h *ClubHandler) List(c *gin.Context) {
	clubs, cached, err := h.clubs.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, clubs, nil, map[string]interface{}{"cached": cached})
}

// Follow godoc
// @Summary Follow a club
// @Tags Clubs
// @Produce json
// @Param clubId path string true "Club ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /clubs/{clubId}/follow [post]
func (h *ClubHandler) Follow(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	res, err := h.clubs.Follow(c.Request.Context(), claims.UserID, c.Param("clubId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}

// Unfollow godoc
// @Summary Unfollow a club
// @Tags Clubs
// @Produce json
// @Param clubId path string true "Club ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /clubs/{clubId}/follow [delete]
func (h *ClubHandler) Unfollow(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	res, err := h.clubs.Unfollow(c.Request.Context(), claims.UserID, c.Param("clubId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}

// FollowerCount godoc
// @Summary Club follower count
// @Tags Clubs
// @Produce json
// @Param clubId path string true "Club ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /clubs/{clubId}/followers/count [get]
func (h *ClubHandler) FollowerCount(c *gin.Context) {
	count, err := h.clubs.FollowerCount(c.Request.Context(), c.Param("clubId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"count": count}, nil)
}

// MyClub godoc
// @Summary Representative dashboard
// @Description Club details with recent announcements, upcoming events and followers
// @Tags Clubs
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /clubs/my-club [get]
func (h *ClubHandler) MyClub(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	dashboard, err := h.clubs.MyClub(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, dashboard, nil)
}

// MyClubFollowers godoc
// @Summary My club followers
// @Tags Clubs
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /clubs/my-club/followers [get]
func (h *ClubHandler) MyClubFollowers(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	followers, err := h.clubs.MyClubFollowers(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, followers, nil)
}

// RemoveFollower godoc
// @Summary Remove a follower
// @Tags Clubs
// @Produce json
// @Param userId path string true "Follower user ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /clubs/my-club/followers/{userId} [delete]
func (h *ClubHandler) RemoveFollower(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.clubs.RemoveFollower(c.Request.Context(), claims, c.Param("userId")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// UpdateMyClub godoc
// @Summary Update my club
// @Tags Clubs
// @Accept json
// @Produce json
// @Param payload body service.UpdateClubRequest true "Club update"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /clubs/my-club [put]
func (h *ClubHandler) UpdateMyClub(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.UpdateClubRequest
	if !bindJSON(c, &req, "invalid club payload") {
		return
	}

	club, err := h.clubs.Update(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, club, nil)
}

// DeleteMyClub godoc
// @Summary Delete my club
// @Description Removes the club with its announcements, events and follow edges
// @Tags Clubs
// @Produce json
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /clubs/my-club [delete]
func (h *ClubHandler) DeleteMyClub(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.clubs.Delete(c.Request.Context(), claims); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// CoordinatedClubs godoc
// @Summary Coordinated clubs
// @Description Clubs the calling faculty member coordinates
// @Tags Clubs
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /clubs/coordinated [get]
func (h *ClubHandler) CoordinatedClubs(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	clubs, err := h.clubs.CoordinatedClubs(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, clubs, nil)
}

// CoordinatedAnnouncements godoc
// @Summary Announcements across coordinated clubs
// @Tags Clubs
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /clubs/coordinated/announcements [get]
func (h *ClubHandler) CoordinatedAnnouncements(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	announcements, err := h.clubs.CoordinatedAnnouncements(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, announcements, nil)
}

// CoordinatedEvents godoc
// @Summary Events across coordinated clubs
// @Tags Clubs
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /clubs/coordinated/events [get]
func (h *ClubHandler) CoordinatedEvents(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	events, err := h.clubs.CoordinatedEvents(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, events, nil)
}

// ListAnnouncements godoc
// @Summary Club announcements
// @Description Announcements for one club, newest first
// @Tags Announcements
// @Produce json
// @Param clubId path string true "Club ID"
// @Success 200 {object} response.Envelope
// @Router /clubs/{clubId}/announcements [get]
func (h *ClubHandler) ListAnnouncements(c *gin.Context) {
	announcements, err := h.announcements.ListByClub(c.Request.Context(), c.Param("clubId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, announcements, nil)
}

// CreateAnnouncement godoc
// @Summary Post a club announcement
// @Description Representative of the club only; notifies the club room
// @Tags Announcements
// @Accept json
// @Produce json
// @Param clubId path string true "Club ID"
// @Param payload body service.CreateAnnouncementRequest true "Announcement payload"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /clubs/{clubId}/announcements [post]
func (h *ClubHandler) CreateAnnouncement(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.CreateAnnouncementRequest
	if !bindJSON(c, &req, "invalid announcement payload") {
		return
	}

	announcement, err := h.announcements.Create(c.Request.Context(), claims, c.Param("clubId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, announcement)
}

// ListEvents godoc
// @Summary Club events
// @Description All events for one club in date order, past included
// @Tags Events
// @Produce json
// @Param clubId path string true "Club ID"
// @Success 200 {object} response.Envelope
// @Router /clubs/{clubId}/events [get]
func (h *ClubHandler) ListEvents(c *gin.Context) {
	events, err := h.events.ListByClub(c.Request.Context(), c.Param("clubId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, events, nil)
}

// CreateEvent godoc
// @Summary Post a club event
// @Description Representative of the club only; notifies the club room
// @Tags Events
// @Accept json
// @Produce json
// @Param clubId path string true "Club ID"
// @Param payload body service.CreateEventRequest true "Event payload"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /clubs/{clubId}/events [post]
func (h *ClubHandler) CreateEvent(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.CreateEventRequest
	if !bindJSON(c, &req, "invalid event payload") {
		return
	}

	event, err := h.events.Create(c.Request.Context(), claims, c.Param("clubId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, event)
}

// DeleteEvent godoc
// @Summary Delete a club event
// @Tags Events
// @Produce json
// @Param clubId path string true "Club ID"
// @Param eventId path string true "Event ID"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /clubs/{clubId}/events/{eventId} [delete]
func (h *ClubHandler) DeleteEvent(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.events.Delete(c.Request.Context(), claims, c.Param("clubId"), c.Param("eventId")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
