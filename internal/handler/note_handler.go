package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushub/faculty-api/internal/service"
	appErrors "github.com/campushub/faculty-api/pkg/errors"
	"github.com/campushub/faculty-api/pkg/response"
)

// NoteHandler wires HTTP endpoints to the note service.
type NoteHandler struct {
	service *service.NoteService
}

// NewNoteHandler creates a new handler.
func NewNoteHandler(svc *service.NoteService) *NoteHandler {
	return &NoteHandler{service: svc}
}

// Create godoc
// @Summary Publish a note
// @Description Publish study material under a subject
// @Tags Notes
// @Accept json
// @Produce json
// @Param payload body service.CreateNoteRequest true "Note payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /notes [post]
func (h *NoteHandler) Create(c *gin.Context) {
	var req service.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid note payload"))
		return
	}

	note, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, note)
}

// ListBySubject godoc
// @Summary List subject notes
// @Tags Notes
// @Produce json
// @Param id path string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /subjects/{id}/notes [get]
func (h *NoteHandler) ListBySubject(c *gin.Context) {
	notes, err := h.service.ListBySubject(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, notes)
}

// SetFiles godoc
// @Summary Replace note files
// @Description Replace the file list wholesale; detached uploads are deleted from storage
// @Tags Notes
// @Accept json
// @Produce json
// @Param id path string true "Note ID"
// @Param payload body filesRequest true "File URLs"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /notes/{id}/files [put]
func (h *NoteHandler) SetFiles(c *gin.Context) {
	var req filesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid files payload"))
		return
	}

	note, err := h.service.SetFiles(c.Request.Context(), c.Param("id"), req.Files)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, note)
}

// Delete godoc
// @Summary Delete note
// @Description Remove a note and delete its uploads from storage
// @Tags Notes
// @Produce json
// @Param id path string true "Note ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /notes/{id} [delete]
func (h *NoteHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
