package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/grasdvirus/prime-panier/internal/application/backoffice"
	"github.com/grasdvirus/prime-panier/internal/domain/shared"
	"github.com/grasdvirus/prime-panier/internal/interfaces/http/dto"
	"github.com/grasdvirus/prime-panier/internal/interfaces/http/middleware"
)

// AdminHandler serves the back-office "save everything" action
type AdminHandler struct {
	BaseHandler
	saveAllService *backoffice.SaveAllService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(saveAllService *backoffice.SaveAllService) *AdminHandler {
	return &AdminHandler{saveAllService: saveAllService}
}

// SaveAll handles POST /admin/save-all. Types are saved one by one; on any
// failure the per-type results travel in error.details so the UI can show
// what was kept.
func (h *AdminHandler) SaveAll(c *gin.Context) {
	var req backoffice.BulkSaveRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.saveAllService.SaveAll(c.Request.Context(), req)
	if err == nil {
		h.Saved(c, "Modifications enregistrées", result)
		return
	}

	var bulkErr *backoffice.BulkSaveError
	if !errors.As(err, &bulkErr) {
		h.HandleError(c, err)
		return
	}

	status, code, message := http.StatusInternalServerError, dto.ErrCodeBulkSave, dto.MessageInternalError
	if errors.Is(err, shared.ErrInvalidInput) {
		status, code = http.StatusBadRequest, dto.ErrCodeInvalidInput
		message = bulkErr.Result.Failed()[0].Error
	} else {
		h.logFailure(c, err)
	}

	c.JSON(status, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)).
		WithDetails(bulkErr.Result.Results))
}
