package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apppayment "paykript/internal/application/payment"
	"paykript/internal/domain/payment"
	vo "paykript/internal/domain/payment/valueobjects"
	"paykript/internal/shared/biztime"
	"paykript/internal/shared/constants"
	apperrors "paykript/internal/shared/errors"
	"paykript/internal/shared/utils"
)

const timeLayout = time.RFC3339

// PaymentHandler implements the create/query/cancel/resend surface from
// spec §6 and the Payment Service contract in §4.F.
type PaymentHandler struct {
	payments *apppayment.Service
}

func NewPaymentHandler(payments *apppayment.Service) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

type createPaymentRequest struct {
	OrderID       string  `json:"order_id" binding:"required"`
	Amount        string  `json:"amount" binding:"required"`
	WebhookURL    *string `json:"webhook_url"`
	CustomerEmail *string `json:"customer_email"`
	Notes         *string `json:"notes"`
}

// Create allocates a deposit address and persists a PENDING payment request.
func (h *PaymentHandler) Create(c *gin.Context) {
	merchantID, err := utils.GetMerchantIDFromContext(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	decAmount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		utils.ErrorResponseWithError(c, apperrors.NewValidationError("invalid amount", err.Error()))
		return
	}
	amount, err := vo.NewMoney(decAmount, constants.DefaultCurrency)
	if err != nil {
		utils.ErrorResponseWithError(c, apperrors.NewValidationError(err.Error()))
		return
	}

	result, err := h.payments.Create(c.Request.Context(), merchantID, apppayment.CreateInput{
		OrderID:       req.OrderID,
		Amount:        amount,
		WebhookURL:    req.WebhookURL,
		CustomerEmail: req.CustomerEmail,
		Notes:         req.Notes,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, paymentView(result.Payment, result.QRURI), "payment request created")
}

// Status fetches a payment by id, scoped to the caller's merchant.
func (h *PaymentHandler) Status(c *gin.Context) {
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

	p, err := h.payments.GetStatus(c.Request.Context(), merchantID, id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", paymentView(p, ""))
}

func (h *PaymentHandler) ByOrderID(c *gin.Context) {
	merchantID, err := utils.GetMerchantIDFromContext(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	orderID := c.Param("order_id")
	p, err := h.payments.GetByOrderID(c.Request.Context(), merchantID, orderID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", paymentView(p, ""))
}

// List returns a paginated, optionally status-filtered view of a merchant's
// payment requests, per the `skip`/`limit` (≤100) contract in §6.
func (h *PaymentHandler) List(c *gin.Context) {
	merchantID, err := utils.GetMerchantIDFromContext(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	skip := queryInt(c, "skip", 0)
	limit := queryInt(c, "limit", 20)
	if limit > 100 {
		limit = 100
	}
	if limit < 1 {
		limit = 20
	}
	if skip < 0 {
		skip = 0
	}

	filter := payment.ListFilter{MerchantID: merchantID, Skip: skip, Limit: limit}
	if statusParam := c.Query("status"); statusParam != "" {
		status := vo.PaymentStatus(statusParam)
		if !status.IsValid() {
			utils.ErrorResponseWithError(c, apperrors.NewValidationError("invalid status filter"))
			return
		}
		filter.Status = &status
	}

	payments, total, err := h.payments.List(c.Request.Context(), filter)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	views := make([]paymentResponse, 0, len(payments))
	for _, p := range payments {
		views = append(views, paymentView(p, ""))
	}

	utils.ListSuccessResponse(c, views, total, skip/max1(limit)+1, limit)
}

// Stats returns the merchant's aggregate payment counters for the dashboard.
func (h *PaymentHandler) Stats(c *gin.Context) {
	merchantID, err := utils.GetMerchantIDFromContext(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	stats, err := h.payments.GetStats(c.Request.Context(), merchantID, biztime.NowUTC())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"total":        stats.Total,
		"pending":      stats.Pending,
		"confirmed":    stats.Confirmed,
		"total_amount": stats.TotalAmount.String(),
		"currency":     stats.TotalAmount.Currency(),
		"today_count":  stats.TodayCount,
	})
}

// Cancel transitions PENDING -> FAILED.
func (h *PaymentHandler) Cancel(c *gin.Context) {
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

	p, err := h.payments.Cancel(c.Request.Context(), merchantID, id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "payment canceled", paymentView(p, ""))
}

// QR returns the deposit address, amount, and a QR-ready payment URI.
func (h *PaymentHandler) QR(c *gin.Context) {
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

	address, amount, qrURI, err := h.payments.QR(c.Request.Context(), merchantID, id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"qr_data_uri": qrURI,
		"address":     address,
		"amount":      amount.String(),
		"currency":    amount.Currency(),
	})
}

// ResendWebhook re-triggers delivery for an already-confirmed payment.
func (h *PaymentHandler) ResendWebhook(c *gin.Context) {
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

	if err := h.payments.ResendWebhook(c.Request.Context(), merchantID, id); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "webhook resend enqueued", nil)
}

type paymentResponse struct {
	ID              uint    `json:"id"`
	OrderID         string  `json:"order_id"`
	Amount          string  `json:"amount"`
	Currency        string  `json:"currency"`
	Address         string  `json:"payment_address"`
	Status          string  `json:"status"`
	ExpiresAt       string  `json:"expires_at"`
	ConfirmedAt     *string `json:"confirmed_at,omitempty"`
	WebhookSent     bool    `json:"webhook_sent"`
	WebhookAttempts int     `json:"webhook_attempts"`
	CustomerEmail   *string `json:"customer_email,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	QRURI           string  `json:"qr_uri,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

func paymentView(p *payment.PaymentRequest, qrURI string) paymentResponse {
	resp := paymentResponse{
		ID:              p.ID(),
		OrderID:         p.OrderID(),
		Amount:          p.Amount().String(),
		Currency:        p.Amount().Currency(),
		Address:         p.Address(),
		Status:          p.Status().String(),
		ExpiresAt:       p.ExpiresAt().UTC().Format(timeLayout),
		WebhookSent:     p.WebhookSent(),
		WebhookAttempts: p.WebhookAttempts(),
		CustomerEmail:   p.CustomerEmail(),
		Notes:           p.Notes(),
		QRURI:           qrURI,
		CreatedAt:       p.CreatedAt().UTC().Format(timeLayout),
	}
	if p.ConfirmedAt() != nil {
		s := p.ConfirmedAt().UTC().Format(timeLayout)
		resp.ConfirmedAt = &s
	}
	return resp
}

func queryInt(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
