package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appwallet "paykript/internal/application/wallet"
	"paykript/internal/shared/utils"
)

// WalletHandler implements the JWT-guarded `/wallets` CRUD surface (spec §6).
type WalletHandler struct {
	wallets *appwallet.Service
}

func NewWalletHandler(wallets *appwallet.Service) *WalletHandler {
	return &WalletHandler{wallets: wallets}
}

type createWalletRequest struct {
	Name             string `json:"name" binding:"required"`
	XPub             string `json:"xpub" binding:"required"`
	DerivationPrefix string `json:"derivation_prefix"`
	Activate         bool   `json:"activate"`
}

func (h *WalletHandler) Create(c *gin.Context) {
	merchantID, err := utils.GetMerchantIDFromContext(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req createWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	w, err := h.wallets.Create(c.Request.Context(), merchantID, appwallet.CreateInput{
		Name:             req.Name,
		XPub:             req.XPub,
		DerivationPrefix: req.DerivationPrefix,
		Activate:         req.Activate,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, w, "wallet created")
}

func (h *WalletHandler) Activate(c *gin.Context) {
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

	w, err := h.wallets.Activate(c.Request.Context(), merchantID, id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "wallet activated", w)
}

func (h *WalletHandler) Get(c *gin.Context) {
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

	w, err := h.wallets.Get(c.Request.Context(), merchantID, id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", w)
}

func (h *WalletHandler) List(c *gin.Context) {
	merchantID, err := utils.GetMerchantIDFromContext(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	wallets, err := h.wallets.List(c.Request.Context(), merchantID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", wallets)
}
