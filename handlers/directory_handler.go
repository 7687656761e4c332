package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GiftHanong/taxihub/services"
	"github.com/GiftHanong/taxihub/utils"
)

// DirectoryHandler serves the public rank directory. No authentication.
type DirectoryHandler struct {
	directory *services.DirectoryService
	logger    *zap.Logger
}

// NewDirectoryHandler creates a new DirectoryHandler
func NewDirectoryHandler(directory *services.DirectoryService, logger *zap.Logger) *DirectoryHandler {
	return &DirectoryHandler{
		directory: directory,
		logger:    logger,
	}
}

// HandleList handles GET /ranks?search=
func (h *DirectoryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")

	ranks, err := h.directory.List(r.Context(), search)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	utils.WriteOK(w, ranks)
}

// HandleGet handles GET /ranks/{id}
func (h *DirectoryHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteBadRequest(w, "Invalid rank ID", nil)
		return
	}

	rank, err := h.directory.Get(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	utils.WriteOK(w, rank)
}

// HandleNearby handles GET /ranks/nearby?lat=&lng=&radius_km=
// When the caller supplies no coordinates at all (geolocation denied on the
// client) the endpoint degrades to the plain directory list.
func (h *DirectoryHandler) HandleNearby(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if query.Get("lat") == "" && query.Get("lng") == "" {
		ranks, err := h.directory.List(r.Context(), "")
		if err != nil {
			HandleServiceError(w, err, h.logger)
			return
		}
		utils.WriteOK(w, ranks)
		return
	}

	lat, err := strconv.ParseFloat(query.Get("lat"), 64)
	if err != nil {
		utils.WriteBadRequest(w, "lat must be a number", nil)
		return
	}
	lng, err := strconv.ParseFloat(query.Get("lng"), 64)
	if err != nil {
		utils.WriteBadRequest(w, "lng must be a number", nil)
		return
	}

	var radiusKm float64
	if raw := query.Get("radius_km"); raw != "" {
		radiusKm, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			utils.WriteBadRequest(w, "radius_km must be a number", nil)
			return
		}
	}

	nearby, err := h.directory.Nearby(r.Context(), lat, lng, radiusKm)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	utils.WriteOK(w, nearby)
}
