package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"paykript/internal/application/merchant"
	"paykript/internal/shared/utils"
)

// APIKeyHandler implements the JWT-guarded `/api-keys` CRUD surface (spec
// §6) backed by merchant.Service's credential-issuing use cases.
type APIKeyHandler struct {
	merchants *merchant.Service
}

func NewAPIKeyHandler(merchants *merchant.Service) *APIKeyHandler {
	return &APIKeyHandler{merchants: merchants}
}

// Issue mints a new public_id/secret pair. The plaintext secret is returned
// exactly once, in this response.
func (h *APIKeyHandler) Issue(c *gin.Context) {
	merchantID, err := utils.GetMerchantIDFromContext(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.merchants.IssueCredential(c.Request.Context(), merchantID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "api key issued", result)
}

func (h *APIKeyHandler) List(c *gin.Context) {
	merchantID, err := utils.GetMerchantIDFromContext(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	views, err := h.merchants.ListCredentials(c.Request.Context(), merchantID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", views)
}

func (h *APIKeyHandler) Revoke(c *gin.Context) {
	merchantID, err := utils.GetMerchantIDFromContext(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.merchants.RevokeCredential(c.Request.Context(), merchantID, id); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

func parseUintParam(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, invalidIDError(name)
	}
	return uint(v), nil
}
