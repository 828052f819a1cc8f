package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/ganado/internal/domain/models"
	service "github.com/mamadbah2/ganado/internal/service/whatsapp"
)

// WebhookHandler handles the WhatsApp owner bot callbacks and manual notifications.
type WebhookHandler struct {
	svc    service.MessagingService
	logger *zap.Logger
}

// NewWebhookHandler constructs the HTTP handler adapter.
func NewWebhookHandler(svc service.MessagingService, logger *zap.Logger) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{svc: svc, logger: logger}
}

// Verify responds to Meta's webhook verification challenge.
func (h *WebhookHandler) Verify(c *gin.Context) {
	resp, err := h.svc.VerifyWebhookToken(c.Query("hub.mode"), c.Query("hub.verify_token"), c.Query("hub.challenge"))
	if err != nil {
		h.logger.Warn("webhook verification failed", zap.Error(err))
		c.String(http.StatusForbidden, "verification failed")
		return
	}

	c.String(http.StatusOK, resp)
}

// Receive ingests webhook POST callbacks from Meta.
func (h *WebhookHandler) Receive(c *gin.Context) {
	var payload models.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, h.logger, "invalid webhook payload", err)
		return
	}

	if err := h.svc.HandleWebhook(c.Request.Context(), payload); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusOK)
}

type notifyRequest struct {
	Message string `json:"message" binding:"required"`
}

// NotifyOwner pushes a free-text message to the owner's WhatsApp.
func (h *WebhookHandler) NotifyOwner(c *gin.Context) {
	var req notifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "invalid notification payload", err)
		return
	}

	if err := h.svc.NotifyOwner(c.Request.Context(), req.Message); err != nil {
		h.logger.Error("failed sending owner notification", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to send message"})
		return
	}

	c.Status(http.StatusAccepted)
}
