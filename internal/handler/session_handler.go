package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushub/faculty-api/internal/service"
	appErrors "github.com/campushub/faculty-api/pkg/errors"
	"github.com/campushub/faculty-api/pkg/response"
)

// SessionHandler wires HTTP endpoints to the session service.
type SessionHandler struct {
	service  *service.SessionService
	teachers *service.TeacherService
}

// NewSessionHandler creates a new handler.
func NewSessionHandler(svc *service.SessionService, teachers *service.TeacherService) *SessionHandler {
	return &SessionHandler{service: svc, teachers: teachers}
}

// Create godoc
// @Summary Schedule a session
// @Description Schedule a class meeting for a subject
// @Tags Sessions
// @Accept json
// @Produce json
// @Param payload body service.CreateSessionRequest true "Session payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /sessions [post]
func (h *SessionHandler) Create(c *gin.Context) {
	var req service.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid session payload"))
		return
	}

	session, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, session)
}

// Get godoc
// @Summary Get session
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /sessions/{id} [get]
func (h *SessionHandler) Get(c *gin.Context) {
	session, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, session)
}

// ListBySubject godoc
// @Summary List subject sessions
// @Tags Sessions
// @Produce json
// @Param id path string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /subjects/{id}/sessions [get]
func (h *SessionHandler) ListBySubject(c *gin.Context) {
	sessions, err := h.service.ListBySubject(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, sessions)
}

// Delete godoc
// @Summary Delete session
// @Description Delete a future session; completed sessions are immutable history
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /sessions/{id} [delete]
func (h *SessionHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Upcoming godoc
// @Summary List upcoming sessions
// @Description List future sessions across the authenticated teacher's subjects
// @Tags Sessions
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Security BearerAuth
// @Router /sessions/upcoming [get]
func (h *SessionHandler) Upcoming(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	profile, err := h.teachers.Profile(c.Request.Context(), claims.TeacherID)
	if err != nil {
		response.Error(c, err)
		return
	}

	sessions, err := h.service.Upcoming(c.Request.Context(), profile.Teacher.SubjectIDs)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, sessions)
}
