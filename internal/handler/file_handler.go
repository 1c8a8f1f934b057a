package handler

import (
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	appErrors "github.com/campushub/faculty-api/pkg/errors"
	"github.com/campushub/faculty-api/pkg/response"
	"github.com/campushub/faculty-api/pkg/storage"
)

// FileHandler serves uploads: ingestion, authenticated download and signed
// share links for unauthenticated access.
type FileHandler struct {
	store       *storage.Store
	signer      *storage.SignedURLSigner
	maxFileSize int64
}

// NewFileHandler creates a new handler.
func NewFileHandler(store *storage.Store, signer *storage.SignedURLSigner, maxFileSize int64) *FileHandler {
	return &FileHandler{store: store, signer: signer, maxFileSize: maxFileSize}
}

// Upload godoc
// @Summary Upload a file
// @Description Store a multipart upload and return its URL for attachment to notes or assignments
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /files [post]
func (h *FileHandler) Upload(c *gin.Context) {
	if h.maxFileSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxFileSize)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "file field required"))
		return
	}
	if h.maxFileSize > 0 && fileHeader.Size > h.maxFileSize {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file exceeds the maximum allowed size"))
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload"))
		return
	}
	defer src.Close() //nolint:errcheck

	url, err := h.store.Save(fileHeader.Filename, src)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store upload"))
		return
	}

	response.Created(c, gin.H{"url": url, "name": fileHeader.Filename})
}

// Download godoc
// @Summary Download a file
// @Tags Files
// @Produce octet-stream
// @Param key path string true "Object key"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /files/{key} [get]
func (h *FileHandler) Download(c *gin.Context) {
	h.serveObject(c, c.Param("key"))
}

// ShareLink godoc
// @Summary Create a signed download link
// @Description Generate a time-limited token so a file can be fetched without authentication
// @Tags Files
// @Produce json
// @Param key path string true "Object key"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /files/{key}/share [post]
func (h *FileHandler) ShareLink(c *gin.Context) {
	key := c.Param("key")
	token, expiresAt, err := h.signer.Generate(key)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to sign link"))
		return
	}

	response.JSON(c, http.StatusOK, gin.H{
		"token":      token,
		"expires_at": expiresAt,
	})
}

// SharedDownload godoc
// @Summary Download via signed link
// @Description Serve a file referenced by a valid share token, no Authorization header needed
// @Tags Files
// @Produce octet-stream
// @Param token query string true "Share token"
// @Success 200 {file} binary
// @Failure 401 {object} response.Envelope
// @Router /files/shared [get]
func (h *FileHandler) SharedDownload(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token query parameter required"))
		return
	}

	key, _, err := h.signer.Parse(token)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid share token"))
		return
	}

	h.serveObject(c, key)
}

func (h *FileHandler) serveObject(c *gin.Context, key string) {
	file, err := h.store.Open(key)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "file not found"))
		return
	}
	defer file.Close() //nolint:errcheck

	contentType := mime.TypeByExtension(filepath.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	stat, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stat file"))
		return
	}

	c.DataFromReader(http.StatusOK, stat.Size(), contentType, file, nil)
}
