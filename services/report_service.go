package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GiftHanong/taxihub/authz"
	"github.com/GiftHanong/taxihub/models"
	"github.com/GiftHanong/taxihub/repositories"
)

// Summary aggregates operational numbers for the caller's scope.
type Summary struct {
	Ranks             int     `json:"ranks"`
	Taxis             int     `json:"taxis"`
	TaxisPaidUp       int     `json:"taxis_paid_up"`
	LoadsToday        int     `json:"loads_today"`
	LoadsThisMonth    int     `json:"loads_this_month"`
	PaymentsThisMonth float64 `json:"payments_this_month"`
}

// ReportService produces operational summaries, CSV exports and the
// administrative activity trail.
type ReportService struct {
	ranks    repositories.RankRepository
	taxis    repositories.TaxiRepository
	loads    repositories.LoadRepository
	payments repositories.PaymentRepository
	activity repositories.ActivityRepository
	logger   *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(
	ranks repositories.RankRepository,
	taxis repositories.TaxiRepository,
	loads repositories.LoadRepository,
	payments repositories.PaymentRepository,
	activity repositories.ActivityRepository,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		ranks:    ranks,
		taxis:    taxis,
		loads:    loads,
		payments: payments,
		activity: activity,
		logger:   logger,
	}
}

// Summarize builds the operational summary for the caller's scope at the
// given time.
func (s *ReportService) Summarize(ctx context.Context, scope authz.Scope, now time.Time) (*Summary, error) {
	summary := &Summary{}
	if scope.Kind == authz.ScopeNone {
		return summary, nil
	}

	var rankID *uuid.UUID
	if scope.Kind == authz.ScopeRank {
		id := scope.RankID
		rankID = &id
		summary.Ranks = 1
	} else {
		ranks, err := s.ranks.List(ctx, "")
		if err != nil {
			return nil, NewInternalError("failed to count ranks", err)
		}
		summary.Ranks = len(ranks)
	}

	taxis, err := s.taxis.List(ctx, scope)
	if err != nil {
		return nil, NewInternalError("failed to count taxis", err)
	}
	summary.Taxis = len(taxis)
	for _, taxi := range taxis {
		if taxi.MembershipCurrent(now) {
			summary.TaxisPaidUp++
		}
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	if summary.LoadsToday, err = s.loads.CountSince(ctx, rankID, dayStart); err != nil {
		return nil, NewInternalError("failed to count loads", err)
	}
	if summary.LoadsThisMonth, err = s.loads.CountSince(ctx, rankID, monthStart); err != nil {
		return nil, NewInternalError("failed to count loads", err)
	}
	if summary.PaymentsThisMonth, err = s.payments.SumForMonth(ctx, rankID, int(now.Month()), now.Year()); err != nil {
		return nil, NewInternalError("failed to total payments", err)
	}

	return summary, nil
}

// ExportLoadsCSV streams the scope's load history as CSV, newest first.
func (s *ReportService) ExportLoadsCSV(ctx context.Context, scope authz.Scope, w io.Writer) error {
	loads, err := s.loads.List(ctx, scope, exportBatchLimit, 0)
	if err != nil {
		return NewInternalError("failed to list loads", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"id", "taxi_id", "rank_id", "recorded_by", "recorded_at"}); err != nil {
		return NewInternalError("failed to write export", err)
	}
	for _, load := range loads {
		record := []string{
			load.ID.String(),
			load.TaxiID.String(),
			load.RankID.String(),
			load.RecordedBy.String(),
			load.RecordedAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return NewInternalError("failed to write export", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return NewInternalError("failed to flush export", err)
	}
	return nil
}

// ExportPaymentsCSV streams the scope's payment history as CSV, newest first.
func (s *ReportService) ExportPaymentsCSV(ctx context.Context, scope authz.Scope, w io.Writer) error {
	payments, err := s.payments.List(ctx, scope, exportBatchLimit, 0)
	if err != nil {
		return NewInternalError("failed to list payments", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"id", "taxi_id", "amount", "month", "year", "method", "recorded_by", "recorded_at"}); err != nil {
		return NewInternalError("failed to write export", err)
	}
	for _, payment := range payments {
		record := []string{
			payment.ID.String(),
			payment.TaxiID.String(),
			fmt.Sprintf("%.2f", payment.Amount),
			strconv.Itoa(payment.Month),
			strconv.Itoa(payment.Year),
			string(payment.Method),
			payment.RecordedBy.String(),
			payment.RecordedAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return NewInternalError("failed to write export", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return NewInternalError("failed to flush export", err)
	}
	return nil
}

// ActivityTrail returns the administrative audit log, newest first.
func (s *ReportService) ActivityTrail(ctx context.Context, limit, offset int) ([]*models.ActivityLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	entries, err := s.activity.List(ctx, limit, offset)
	if err != nil {
		return nil, NewInternalError("failed to list activity", err)
	}
	return entries, nil
}

// exportBatchLimit caps a single CSV export.
const exportBatchLimit = 10000
