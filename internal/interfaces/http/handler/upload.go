package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/grasdvirus/prime-panier/internal/application/media"
	"github.com/grasdvirus/prime-panier/internal/interfaces/http/dto"
)

// UploadFormField is the multipart field carrying the file
const UploadFormField = "file"

// UploadHandler relays admin image uploads to object storage
type UploadHandler struct {
	BaseHandler
	uploadService *media.UploadService
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(uploadService *media.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// Upload handles POST /api/upload and answers {success, url}. Failures use the
// shared error envelope, where error is an object carrying code and message.
func (h *UploadHandler) Upload(c *gin.Context) {
	header, err := c.FormFile(UploadFormField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "Fichier trop volumineux")
			return
		}
		h.BadRequest(c, "Aucun fichier reçu")
		return
	}

	file, err := header.Open()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer file.Close()

	result, err := h.uploadService.Upload(c.Request.Context(), media.UploadInput{
		Filename: header.Filename,
		Size:     header.Size,
		Body:     file,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UploadResponse{Success: true, URL: result.URL})
}
