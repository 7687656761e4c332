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

// ApproveRequest is the payload for approving a pending profile
type ApproveRequest struct {
	Role   string     `json:"role" validate:"required,oneof=admin supervisor marshal"`
	RankID *uuid.UUID `json:"rank_id,omitempty"`
}

// UpdateMarshalRequest is the payload for editing a profile
type UpdateMarshalRequest struct {
	Name   *string    `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Phone  *string    `json:"phone,omitempty" validate:"omitempty,max=20"`
	Role   *string    `json:"role,omitempty" validate:"omitempty,oneof=admin supervisor marshal"`
	RankID *uuid.UUID `json:"rank_id,omitempty"`
}

// MarshalHandler handles marshal profile administration
type MarshalHandler struct {
	marshals *services.MarshalService
	logger   *zap.Logger
}

// NewMarshalHandler creates a new MarshalHandler
func NewMarshalHandler(marshals *services.MarshalService, logger *zap.Logger) *MarshalHandler {
	return &MarshalHandler{
		marshals: marshals,
		logger:   logger,
	}
}

// HandleList handles GET /admin/marshals
func (h *MarshalHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	scope := middleware.GetScopeFromContext(r.Context())

	profiles, err := h.marshals.List(r.Context(), scope)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	utils.WriteOK(w, profiles)
}

// HandleListPending handles GET /admin/marshals/pending
func (h *MarshalHandler) HandleListPending(w http.ResponseWriter, r *http.Request) {
	pending, err := h.marshals.ListPending(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	utils.WriteOK(w, pending)
}

// HandleGet handles GET /admin/marshals/{id}
func (h *MarshalHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteBadRequest(w, "Invalid marshal ID", nil)
		return
	}

	profile, err := h.marshals.Get(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	utils.WriteOK(w, profile)
}

// HandleApprove handles POST /admin/marshals/{id}/approve
func (h *MarshalHandler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetProfileFromContext(r.Context())
	if actor == nil {
		utils.WriteUnauthorized(w, "")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteBadRequest(w, "Invalid marshal ID", nil)
		return
	}

	var req ApproveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	profile, err := h.marshals.Approve(r.Context(), actor.ID, id, services.ApproveInput{
		Role:   models.Role(req.Role),
		RankID: req.RankID,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	utils.WriteOK(w, profile)
}

// HandleReject handles POST /admin/marshals/{id}/reject
func (h *MarshalHandler) HandleReject(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetProfileFromContext(r.Context())
	if actor == nil {
		utils.WriteUnauthorized(w, "")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteBadRequest(w, "Invalid marshal ID", nil)
		return
	}

	if err := h.marshals.Reject(r.Context(), actor.ID, id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	utils.WriteNoContent(w)
}

// HandleSuspend handles POST /admin/marshals/{id}/suspend
func (h *MarshalHandler) HandleSuspend(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetProfileFromContext(r.Context())
	if actor == nil {
		utils.WriteUnauthorized(w, "")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteBadRequest(w, "Invalid marshal ID", nil)
		return
	}

	profile, err := h.marshals.Suspend(r.Context(), actor.ID, id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	utils.WriteOK(w, profile)
}

// HandleRestore handles POST /admin/marshals/{id}/restore
func (h *MarshalHandler) HandleRestore(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetProfileFromContext(r.Context())
	if actor == nil {
		utils.WriteUnauthorized(w, "")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteBadRequest(w, "Invalid marshal ID", nil)
		return
	}

	profile, err := h.marshals.Restore(r.Context(), actor.ID, id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	utils.WriteOK(w, profile)
}

// HandleUpdate handles PUT /admin/marshals/{id}
func (h *MarshalHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetProfileFromContext(r.Context())
	if actor == nil {
		utils.WriteUnauthorized(w, "")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteBadRequest(w, "Invalid marshal ID", nil)
		return
	}

	var req UpdateMarshalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	input := services.UpdateProfileInput{
		Name:   req.Name,
		Phone:  req.Phone,
		RankID: req.RankID,
	}
	if req.Role != nil {
		role := models.Role(*req.Role)
		input.Role = &role
	}

	profile, err := h.marshals.Update(r.Context(), actor.ID, id, input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	utils.WriteOK(w, profile)
}

// HandleDelete handles DELETE /admin/marshals/{id}
func (h *MarshalHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetProfileFromContext(r.Context())
	if actor == nil {
		utils.WriteUnauthorized(w, "")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteBadRequest(w, "Invalid marshal ID", nil)
		return
	}

	if err := h.marshals.Delete(r.Context(), actor.ID, id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	utils.WriteNoContent(w)
}
