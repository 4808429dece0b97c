package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/parselyze/parselyze-go/internal/middleware"
	"github.com/parselyze/parselyze-go/internal/service"
)

// WebhookHandler handles Parselyze job notifications.
type WebhookHandler struct {
	events service.EventService
	log    zerolog.Logger
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(events service.EventService, log zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{events: events, log: log}
}

// Receive handles POST on the webhook path. It must run behind
// middleware.WebhookSignature.
func (h *WebhookHandler) Receive(c *gin.Context) {
	evt, ok := middleware.GetWebhookEvent(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "webhook not verified")
		return
	}

	out, err := h.events.Handle(c.Request.Context(), evt)
	if err != nil {
		HandleError(c, h.log, err)
		return
	}

	RespondOK(c, out)
}
