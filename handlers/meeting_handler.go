package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GiftHanong/taxihub/middleware"
	"github.com/GiftHanong/taxihub/services"
	"github.com/GiftHanong/taxihub/utils"
)

// MeetingRequest is the create/update payload for a meeting
type MeetingRequest struct {
	RankID       *uuid.UUID `json:"rank_id,omitempty"`
	Title        string     `json:"title" validate:"required,min=2,max=200"`
	Agenda       string     `json:"agenda" validate:"omitempty,max=5000"`
	ScheduledFor time.Time  `json:"scheduled_for" validate:"required"`
}

// MeetingHandler handles meeting endpoints
type MeetingHandler struct {
	meetings *services.MeetingService
	logger   *zap.Logger
}

// NewMeetingHandler creates a new MeetingHandler
func NewMeetingHandler(meetings *services.MeetingService, logger *zap.Logger) *MeetingHandler {
	return &MeetingHandler{
		meetings: meetings,
		logger:   logger,
	}
}

// HandleCreate handles POST /meetings
func (h *MeetingHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetProfileFromContext(r.Context())
	if actor == nil {
		utils.WriteUnauthorized(w, "")
		return
	}
	scope := middleware.GetScopeFromContext(r.Context())

	var req MeetingRequest
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
		rankID = actor.RankID
	}
	if rankID == nil {
		utils.WriteBadRequest(w, "rank_id is required", nil)
		return
	}

	meeting, err := h.meetings.Create(r.Context(), actor.ID, scope, services.MeetingInput{
		RankID:       *rankID,
		Title:        req.Title,
		Agenda:       req.Agenda,
		ScheduledFor: req.ScheduledFor,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	utils.WriteCreated(w, meeting)
}

// HandleList handles GET /meetings
func (h *MeetingHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	scope := middleware.GetScopeFromContext(r.Context())

	meetings, err := h.meetings.List(r.Context(), scope)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	utils.WriteOK(w, meetings)
}

// HandleUpdate handles PUT /meetings/{id}
func (h *MeetingHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	scope := middleware.GetScopeFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteBadRequest(w, "Invalid meeting ID", nil)
		return
	}

	var req MeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	meeting, err := h.meetings.Update(r.Context(), scope, id, services.MeetingInput{
		Title:        req.Title,
		Agenda:       req.Agenda,
		ScheduledFor: req.ScheduledFor,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	utils.WriteOK(w, meeting)
}

// HandleDelete handles DELETE /meetings/{id}
func (h *MeetingHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	scope := middleware.GetScopeFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteBadRequest(w, "Invalid meeting ID", nil)
		return
	}

	if err := h.meetings.Delete(r.Context(), scope, id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	utils.WriteNoContent(w)
}
