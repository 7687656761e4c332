package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GiftHanong/taxihub/middleware"
	"github.com/GiftHanong/taxihub/models"
	"github.com/GiftHanong/taxihub/services"
	"github.com/GiftHanong/taxihub/utils"
)

// RankRequest is the create/update payload for a taxi rank
type RankRequest struct {
	Name      string           `json:"name" validate:"required,min=2,max=200"`
	Address   string           `json:"address" validate:"required,max=500"`
	Latitude  float64          `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64          `json:"longitude" validate:"gte=-180,lte=180"`
	Capacity  *int             `json:"capacity,omitempty" validate:"omitempty,gt=0"`
	Aisles    models.AisleList `json:"aisles,omitempty"`
	Fares     models.FareList  `json:"fares,omitempty"`
}

// RankHandler handles rank administration endpoints
type RankHandler struct {
	ranks  *services.RankService
	logger *zap.Logger
}

// NewRankHandler creates a new RankHandler
func NewRankHandler(ranks *services.RankService, logger *zap.Logger) *RankHandler {
	return &RankHandler{
		ranks:  ranks,
		logger: logger,
	}
}

// HandleCreate handles POST /admin/ranks
func (h *RankHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetProfileFromContext(r.Context())
	if actor == nil {
		utils.WriteUnauthorized(w, "")
		return
	}

	var req RankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	rank, err := h.ranks.Create(r.Context(), actor.ID, services.RankInput{
		Name:      req.Name,
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Capacity:  req.Capacity,
		Aisles:    req.Aisles,
		Fares:     req.Fares,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	utils.WriteCreated(w, rank)
}

// HandleUpdate handles PUT /admin/ranks/{id}
func (h *RankHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetProfileFromContext(r.Context())
	if actor == nil {
		utils.WriteUnauthorized(w, "")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteBadRequest(w, "Invalid rank ID", nil)
		return
	}

	var req RankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	rank, err := h.ranks.Update(r.Context(), actor.ID, id, services.RankInput{
		Name:      req.Name,
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Capacity:  req.Capacity,
		Aisles:    req.Aisles,
		Fares:     req.Fares,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	utils.WriteOK(w, rank)
}

// HandleDelete handles DELETE /admin/ranks/{id}
func (h *RankHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetProfileFromContext(r.Context())
	if actor == nil {
		utils.WriteUnauthorized(w, "")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteBadRequest(w, "Invalid rank ID", nil)
		return
	}

	if err := h.ranks.Delete(r.Context(), actor.ID, id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	utils.WriteNoContent(w)
}
