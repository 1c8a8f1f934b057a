package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushub/faculty-api/internal/service"
	appErrors "github.com/campushub/faculty-api/pkg/errors"
	"github.com/campushub/faculty-api/pkg/response"
)

// AssignmentHandler wires HTTP endpoints to the assignment service.
type AssignmentHandler struct {
	service *service.AssignmentService
}

// NewAssignmentHandler creates a new handler.
func NewAssignmentHandler(svc *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{service: svc}
}

// Ensure godoc
// @Summary Get or create session assignment
// @Description Return the session's assignment, creating an empty one on first access
// @Tags Assignments
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /sessions/{id}/assignment [post]
func (h *AssignmentHandler) Ensure(c *gin.Context) {
	assignment, err := h.service.Ensure(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, assignment)
}

// Get godoc
// @Summary Get assignment
// @Tags Assignments
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /assignments/{id} [get]
func (h *AssignmentHandler) Get(c *gin.Context) {
	assignment, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, assignment)
}

// EditDetails godoc
// @Summary Edit assignment details
// @Description Overwrite title, description and due date
// @Tags Assignments
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param payload body service.EditAssignmentRequest true "Details payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /assignments/{id} [put]
func (h *AssignmentHandler) EditDetails(c *gin.Context) {
	var req service.EditAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment payload"))
		return
	}

	assignment, err := h.service.EditDetails(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, assignment)
}

type filesRequest struct {
	Files []string `json:"files"`
}

// SetFiles godoc
// @Summary Replace assignment files
// @Description Replace the file list wholesale; detached uploads are deleted from storage
// @Tags Assignments
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param payload body filesRequest true "File URLs"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /assignments/{id}/files [put]
func (h *AssignmentHandler) SetFiles(c *gin.Context) {
	var req filesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid files payload"))
		return
	}

	assignment, err := h.service.SetFiles(c.Request.Context(), c.Param("id"), req.Files)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, assignment)
}

// RemoveFiles godoc
// @Summary Remove assignment files
// @Description Drop the listed file URLs, preserving the order of the rest
// @Tags Assignments
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param payload body filesRequest true "File URLs to remove"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /assignments/{id}/files [delete]
func (h *AssignmentHandler) RemoveFiles(c *gin.Context) {
	var req filesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid files payload"))
		return
	}

	assignment, err := h.service.RemoveFiles(c.Request.Context(), c.Param("id"), req.Files)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, assignment)
}

// GetFiles godoc
// @Summary List assignment files
// @Tags Assignments
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /assignments/{id}/files [get]
func (h *AssignmentHandler) GetFiles(c *gin.Context) {
	files, err := h.service.GetFiles(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, files)
}

// Partition godoc
// @Summary Partition roster by submission
// @Description Split the roster into students who submitted and students who did not
// @Tags Assignments
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /assignments/{id}/submissions [get]
func (h *AssignmentHandler) Partition(c *gin.Context) {
	partition, err := h.service.PartitionRoster(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, partition)
}

// StudentSubmission godoc
// @Summary Get a student's submission
// @Tags Assignments
// @Produce json
// @Param id path string true "Assignment ID"
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /assignments/{id}/submissions/{studentId} [get]
func (h *AssignmentHandler) StudentSubmission(c *gin.Context) {
	submission, err := h.service.StudentSubmission(c.Request.Context(), c.Param("studentId"), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, submission)
}
