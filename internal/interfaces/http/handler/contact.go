package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	contactapp "github.com/grasdvirus/prime-panier/internal/application/contact"
	"github.com/grasdvirus/prime-panier/internal/domain/contact"
	"github.com/grasdvirus/prime-panier/internal/interfaces/http/dto"
)

// ContactHandler serves the public contact form and the admin inbox
type ContactHandler struct {
	BaseHandler
	contactService *contactapp.Service
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contactService *contactapp.Service) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// Submit handles POST /api/contact. Missing fields are reported by the
// service with a French message, so the body is bound without tags.
func (h *ContactHandler) Submit(c *gin.Context) {
	var req contactapp.SubmitMessageRequest
	if !h.BindJSON(c, &req) {
		return
	}

	msg, err := h.contactService.Submit(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.Response{
		Success: true,
		Message: "Message envoyé",
		Data:    gin.H{"id": msg.ID},
	})
}

// List handles GET /api/messages/get, newest first
func (h *ContactHandler) List(c *gin.Context) {
	messages, err := h.contactService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if messages == nil {
		messages = []contact.Message{}
	}
	h.OK(c, messages)
}

// MarkRead handles POST /api/messages/read
func (h *ContactHandler) MarkRead(c *gin.Context) {
	var req dto.IDRequest
	if !h.BindJSON(c, &req) {
		return
	}

	msg, err := h.contactService.MarkRead(c.Request.Context(), req.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, msg)
}

// Delete handles POST /api/messages/delete
func (h *ContactHandler) Delete(c *gin.Context) {
	var req dto.IDRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.contactService.Delete(c.Request.Context(), req.ID); err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Response{Success: true, Message: "Message supprimé"})
}
