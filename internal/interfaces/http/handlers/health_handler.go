package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"paykript/internal/shared/utils"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "ok", gin.H{"version": "1.0.0"})
}
