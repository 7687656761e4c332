package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GiftHanong/taxihub/middleware"
	"github.com/GiftHanong/taxihub/models"
	"github.com/GiftHanong/taxihub/services"
	"github.com/GiftHanong/taxihub/utils"
)

// RecordPaymentRequest is the payload for recording a membership payment
type RecordPaymentRequest struct {
	TaxiID uuid.UUID `json:"taxi_id" validate:"required"`
	Amount float64   `json:"amount" validate:"required,gt=0"`
	Month  int       `json:"month" validate:"required,gte=1,lte=12"`
	Year   int       `json:"year" validate:"required,gte=2000"`
	Method string    `json:"method" validate:"required,oneof=cash eft card"`
}

// PaymentHandler handles membership payment endpoints
type PaymentHandler struct {
	payments *services.PaymentService
	logger   *zap.Logger
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(payments *services.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		payments: payments,
		logger:   logger,
	}
}

// HandleRecord handles POST /payments
func (h *PaymentHandler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetProfileFromContext(r.Context())
	if actor == nil {
		utils.WriteUnauthorized(w, "")
		return
	}
	scope := middleware.GetScopeFromContext(r.Context())

	var req RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	payment, err := h.payments.Record(r.Context(), actor.ID, scope, services.PaymentInput{
		TaxiID: req.TaxiID,
		Amount: req.Amount,
		Month:  req.Month,
		Year:   req.Year,
		Method: models.PaymentMethod(req.Method),
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	utils.WriteCreated(w, payment)
}

// HandleList handles GET /payments?limit=&offset=
func (h *PaymentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	scope := middleware.GetScopeFromContext(r.Context())
	limit, offset := paginationParams(r)

	payments, err := h.payments.List(r.Context(), scope, limit, offset)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	utils.WriteOK(w, payments)
}
