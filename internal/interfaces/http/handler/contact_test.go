package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grasdvirus/prime-panier/internal/domain/contact"
)

func setupContactRouter(s *services) *gin.Engine {
	h := NewContactHandler(s.contact)
	r := gin.New()
	r.POST("/api/contact", h.Submit)
	r.GET("/api/messages/get", h.List)
	r.POST("/api/messages/read", h.MarkRead)
	r.POST("/api/messages/delete", h.Delete)
	return r
}

func TestContactHandler_Workflow(t *testing.T) {
	s := newServices()
	r := setupContactRouter(s)

	w := performJSON(r, http.MethodPost, "/api/contact", gin.H{
		"name":    "Koffi",
		"email":   "koffi@example.com",
		"message": "Livrez-vous à Bouaké ?",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[envelope[map[string]string]](t, w)
	assert.Equal(t, "Message envoyé", created.Message)
	id := created.Data["id"]
	require.NotEmpty(t, id)

	messages := decode[[]contact.Message](t, performJSON(r, http.MethodGet, "/api/messages/get", nil))
	require.Len(t, messages, 1)
	assert.False(t, messages[0].Read)

	w = performJSON(r, http.MethodPost, "/api/messages/read", gin.H{"id": id})
	require.Equal(t, http.StatusOK, w.Code)
	messages = decode[[]contact.Message](t, performJSON(r, http.MethodGet, "/api/messages/get", nil))
	assert.True(t, messages[0].Read)

	w = performJSON(r, http.MethodPost, "/api/messages/delete", gin.H{"id": id})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", performJSON(r, http.MethodGet, "/api/messages/get", nil).Body.String())

	w = performJSON(r, http.MethodPost, "/api/messages/delete", gin.H{"id": id})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestContactHandler_Submit_Invalid(t *testing.T) {
	r := setupContactRouter(newServices())

	tests := []struct {
		name string
		body gin.H
	}{
		{name: "missing message", body: gin.H{"name": "Awa", "email": "awa@example.com"}},
		{name: "missing name", body: gin.H{"email": "awa@example.com", "message": "Bonjour"}},
		{name: "invalid email", body: gin.H{"name": "Awa", "email": "awa", "message": "Bonjour"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performJSON(r, http.MethodPost, "/api/contact", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.False(t, decode[envelope[any]](t, w).Success)
		})
	}
}
