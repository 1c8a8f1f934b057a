package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushub/faculty-api/internal/models"
	"github.com/campushub/faculty-api/internal/service"
	appErrors "github.com/campushub/faculty-api/pkg/errors"
	"github.com/campushub/faculty-api/pkg/response"
)

// AttendanceHandler wires HTTP endpoints to the attendance service.
type AttendanceHandler struct {
	service *service.AttendanceService
}

// NewAttendanceHandler creates a new handler.
func NewAttendanceHandler(svc *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: svc}
}

type markRequest struct {
	StudentID string `json:"student_id" binding:"required"`
	SessionID string `json:"session_id" binding:"required"`
	Status    string `json:"status" binding:"required"`
}

// Mark godoc
// @Summary Mark attendance
// @Description Submit a mark with toggle semantics: resubmitting the current status clears it
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body markRequest true "Mark payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /attendance [post]
func (h *AttendanceHandler) Mark(c *gin.Context) {
	var req markRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid mark payload"))
		return
	}

	result, err := h.service.SetStatus(c.Request.Context(), req.StudentID, req.SessionID, models.AttendanceStatus(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result)
}

// SessionRollCall godoc
// @Summary Session roll call
// @Description One row per roster member for the session, UNMARKED when no row exists
// @Tags Attendance
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /sessions/{id}/attendance [get]
func (h *AttendanceHandler) SessionRollCall(c *gin.Context) {
	rows, err := h.service.SessionRollCall(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, rows)
}

// SubjectAggregate godoc
// @Summary Subject attendance aggregate
// @Description Per-student present/absent/late counts across the subject's sessions
// @Tags Attendance
// @Produce json
// @Param id path string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /subjects/{id}/attendance [get]
func (h *AttendanceHandler) SubjectAggregate(c *gin.Context) {
	counts, err := h.service.AggregateForSubject(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, counts)
}

// SubjectOverview godoc
// @Summary Subject overview
// @Description Completed class count plus per-student attended totals
// @Tags Attendance
// @Produce json
// @Param id path string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /subjects/{id}/overview [get]
func (h *AttendanceHandler) SubjectOverview(c *gin.Context) {
	overview, err := h.service.SubjectOverview(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, overview)
}

// ExportRegister godoc
// @Summary Export attendance register
// @Description Download the subject's register as CSV or PDF
// @Tags Attendance
// @Produce octet-stream
// @Param id path string true "Subject ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /subjects/{id}/attendance/export [get]
func (h *AttendanceHandler) ExportRegister(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	data, contentType, err := h.service.ExportRegister(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("attendance-register.%s", format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}
