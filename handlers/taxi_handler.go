package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GiftHanong/taxihub/middleware"
	"github.com/GiftHanong/taxihub/services"
	"github.com/GiftHanong/taxihub/utils"
)

// TaxiRequest is the create/update payload for a taxi
type TaxiRequest struct {
	Registration string     `json:"registration" validate:"required,min=2,max=20"`
	DriverName   string     `json:"driver_name" validate:"omitempty,max=100"`
	DriverPhone  string     `json:"driver_phone" validate:"omitempty,max=20"`
	RankID       *uuid.UUID `json:"rank_id,omitempty"`
	AisleNumber  *int       `json:"aisle_number,omitempty" validate:"omitempty,gt=0"`
}

// TaxiHandler handles taxi register endpoints
type TaxiHandler struct {
	taxis  *services.TaxiService
	logger *zap.Logger
}

// NewTaxiHandler creates a new TaxiHandler
func NewTaxiHandler(taxis *services.TaxiService, logger *zap.Logger) *TaxiHandler {
	return &TaxiHandler{
		taxis:  taxis,
		logger: logger,
	}
}

// HandleList handles GET /taxis
func (h *TaxiHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	scope := middleware.GetScopeFromContext(r.Context())

	taxis, err := h.taxis.List(r.Context(), scope)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	utils.WriteOK(w, taxis)
}

// HandleGet handles GET /taxis/{id}
func (h *TaxiHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	scope := middleware.GetScopeFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteBadRequest(w, "Invalid taxi ID", nil)
		return
	}

	taxi, err := h.taxis.Get(r.Context(), scope, id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	utils.WriteOK(w, taxi)
}

// HandleCreate handles POST /taxis
func (h *TaxiHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetProfileFromContext(r.Context())
	if actor == nil {
		utils.WriteUnauthorized(w, "")
		return
	}
	scope := middleware.GetScopeFromContext(r.Context())

	var req TaxiRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	rankID := req.RankID
	if rankID == nil {
		// Default to the caller's own rank.
		rankID = actor.RankID
	}

	taxi, err := h.taxis.Create(r.Context(), actor.ID, scope, services.TaxiInput{
		Registration: req.Registration,
		DriverName:   req.DriverName,
		DriverPhone:  req.DriverPhone,
		RankID:       rankID,
		AisleNumber:  req.AisleNumber,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	utils.WriteCreated(w, taxi)
}

// HandleUpdate handles PUT /taxis/{id}
func (h *TaxiHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetProfileFromContext(r.Context())
	if actor == nil {
		utils.WriteUnauthorized(w, "")
		return
	}
	scope := middleware.GetScopeFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteBadRequest(w, "Invalid taxi ID", nil)
		return
	}

	var req TaxiRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	taxi, err := h.taxis.Update(r.Context(), actor.ID, scope, id, services.TaxiInput{
		Registration: req.Registration,
		DriverName:   req.DriverName,
		DriverPhone:  req.DriverPhone,
		RankID:       req.RankID,
		AisleNumber:  req.AisleNumber,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	utils.WriteOK(w, taxi)
}

// HandleDelete handles DELETE /taxis/{id}
func (h *TaxiHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetProfileFromContext(r.Context())
	if actor == nil {
		utils.WriteUnauthorized(w, "")
		return
	}
	scope := middleware.GetScopeFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteBadRequest(w, "Invalid taxi ID", nil)
		return
	}

	if err := h.taxis.Delete(r.Context(), actor.ID, scope, id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	utils.WriteNoContent(w)
}
