package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campushub/faculty-api/internal/service"
	appErrors "github.com/campushub/faculty-api/pkg/errors"
	"github.com/campushub/faculty-api/pkg/response"
)

// DirectoryHandler exposes the provisioned department/batch/subject lookups
// used by sign-up and profile forms.
type DirectoryHandler struct {
	service *service.DirectoryService
}

// NewDirectoryHandler creates a new handler.
func NewDirectoryHandler(svc *service.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{service: svc}
}

// Departments godoc
// @Summary List departments
// @Tags Directory
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /departments [get]
func (h *DirectoryHandler) Departments(c *gin.Context) {
	depts, err := h.service.Departments(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, depts)
}

// DepartmentByName godoc
// @Summary Find department by name
// @Tags Directory
// @Produce json
// @Param name query string true "Department name"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /departments/lookup [get]
func (h *DirectoryHandler) DepartmentByName(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "name query parameter required"))
		return
	}

	dept, err := h.service.DepartmentByName(c.Request.Context(), name)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, dept)
}

// Batches godoc
// @Summary List department batches
// @Tags Directory
// @Produce json
// @Param id path string true "Department ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /departments/{id}/batches [get]
func (h *DirectoryHandler) Batches(c *gin.Context) {
	batches, err := h.service.BatchesByDepartment(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, batches)
}

// Subjects godoc
// @Summary List batch subjects
// @Tags Directory
// @Produce json
// @Param id path string true "Batch ID"
// @Success 200 {object} response.Envelope
// @Router /batches/{id}/subjects [get]
func (h *DirectoryHandler) Subjects(c *gin.Context) {
	subjects, err := h.service.SubjectsByBatch(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, subjects)
}

// SubjectsByBatches godoc
// @Summary List subjects across several batches
// @Tags Directory
// @Produce json
// @Param ids query string true "Comma-separated batch IDs"
// @Success 200 {object} response.Envelope
// @Router /batches/subjects [get]
func (h *DirectoryHandler) SubjectsByBatches(c *gin.Context) {
	var ids []string
	for _, id := range strings.Split(c.Query("ids"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	subjects, err := h.service.SubjectsByBatches(c.Request.Context(), ids)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, subjects)
}

// SubjectFromSession godoc
// @Summary Resolve the subject of a session
// @Tags Directory
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sessions/{id}/subject [get]
func (h *DirectoryHandler) SubjectFromSession(c *gin.Context) {
	subject, err := h.service.SubjectFromSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, subject)
}
