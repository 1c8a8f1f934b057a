package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushub/faculty-api/internal/service"
	"github.com/campushub/faculty-api/pkg/response"
)

// SubjectHandler exposes the roster resolution endpoint.
type SubjectHandler struct {
	roster *service.RosterService
}

// NewSubjectHandler creates a new handler.
func NewSubjectHandler(roster *service.RosterService) *SubjectHandler {
	return &SubjectHandler{roster: roster}
}

// Roster godoc
// @Summary Resolve subject roster
// @Description Resolve the subject's batch, department and enrolled students
// @Tags Subjects
// @Produce json
// @Param id path string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /subjects/{id}/roster [get]
func (h *SubjectHandler) Roster(c *gin.Context) {
	roster, err := h.roster.Resolve(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, roster)
}
