package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appwebhook "paykript/internal/application/webhook"
	apperrors "paykript/internal/shared/errors"
	"paykript/internal/shared/utils"
)

// WebhookHandler implements the `/webhooks/test` endpoint supplementing
// spec §4.E's dispatcher, letting a merchant verify endpoint reachability
// before going live.
type WebhookHandler struct {
	dispatcher *appwebhook.Dispatcher
}

func NewWebhookHandler(dispatcher *appwebhook.Dispatcher) *WebhookHandler {
	return &WebhookHandler{dispatcher: dispatcher}
}

type testWebhookRequest struct {
	URL string `json:"url" binding:"required,url"`
}

func (h *WebhookHandler) Test(c *gin.Context) {
	var req testWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	status, err := h.dispatcher.SendTest(c.Request.Context(), req.URL)
	if err != nil {
		utils.ErrorResponseWithError(c, apperrors.NewDeliveryError("test webhook delivery failed", err.Error()))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"status_code": status})
}
