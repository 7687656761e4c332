package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/GiftHanong/taxihub/middleware"
	"github.com/GiftHanong/taxihub/services"
	"github.com/GiftHanong/taxihub/utils"
)

// ReportHandler handles reporting and export endpoints
type ReportHandler struct {
	reports *services.ReportService
	logger  *zap.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reports *services.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reports: reports,
		logger:  logger,
	}
}

// HandleSummary handles GET /reports/summary
func (h *ReportHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	scope := middleware.GetScopeFromContext(r.Context())

	summary, err := h.reports.Summarize(r.Context(), scope, time.Now())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	utils.WriteOK(w, summary)
}

// HandleExportLoads handles GET /reports/loads.csv
func (h *ReportHandler) HandleExportLoads(w http.ResponseWriter, r *http.Request) {
	scope := middleware.GetScopeFromContext(r.Context())

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="loads.csv"`)

	if err := h.reports.ExportLoadsCSV(r.Context(), scope, w); err != nil {
		h.logger.Error("loads export failed", zap.Error(err))
	}
}

// HandleExportPayments handles GET /reports/payments.csv
func (h *ReportHandler) HandleExportPayments(w http.ResponseWriter, r *http.Request) {
	scope := middleware.GetScopeFromContext(r.Context())

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="payments.csv"`)

	if err := h.reports.ExportPaymentsCSV(r.Context(), scope, w); err != nil {
		h.logger.Error("payments export failed", zap.Error(err))
	}
}

// HandleActivity handles GET /admin/activity?limit=&offset=
func (h *ReportHandler) HandleActivity(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationParams(r)

	entries, err := h.reports.ActivityTrail(r.Context(), limit, offset)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	utils.WriteOK(w, entries)
}
