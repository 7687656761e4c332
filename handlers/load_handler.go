package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GiftHanong/taxihub/middleware"
	"github.com/GiftHanong/taxihub/services"
	"github.com/GiftHanong/taxihub/utils"
)

// RecordLoadRequest is the payload for recording a load
type RecordLoadRequest struct {
	TaxiID uuid.UUID `json:"taxi_id" validate:"required"`
}

// LoadHandler handles load recording endpoints
type LoadHandler struct {
	loads  *services.LoadService
	logger *zap.Logger
}

// NewLoadHandler creates a new LoadHandler
func NewLoadHandler(loads *services.LoadService, logger *zap.Logger) *LoadHandler {
	return &LoadHandler{
		loads:  loads,
		logger: logger,
	}
}

// HandleRecord handles POST /loads
func (h *LoadHandler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetProfileFromContext(r.Context())
	if actor == nil {
		utils.WriteUnauthorized(w, "")
		return
	}
	scope := middleware.GetScopeFromContext(r.Context())

	var req RecordLoadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if req.TaxiID == uuid.Nil {
		utils.WriteBadRequest(w, "taxi_id is required", nil)
		return
	}

	load, err := h.loads.Record(r.Context(), actor.ID, scope, req.TaxiID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	utils.WriteCreated(w, load)
}

// HandleList handles GET /loads?limit=&offset=
func (h *LoadHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	scope := middleware.GetScopeFromContext(r.Context())
	limit, offset := paginationParams(r)

	loads, err := h.loads.List(r.Context(), scope, limit, offset)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	utils.WriteOK(w, loads)
}

func paginationParams(r *http.Request) (limit, offset int) {
	query := r.URL.Query()
	limit, _ = strconv.Atoi(query.Get("limit"))
	offset, _ = strconv.Atoi(query.Get("offset"))
	return limit, offset
}
