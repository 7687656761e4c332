package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GiftHanong/taxihub/authz"
	"github.com/GiftHanong/taxihub/models"
	"github.com/GiftHanong/taxihub/repositories"
)

// PaymentInput carries the fields for recording a membership payment.
type PaymentInput struct {
	TaxiID uuid.UUID
	Amount float64
	Month  int
	Year   int
	Method models.PaymentMethod
}

// PaymentService records membership payments. Each payment is an
// append-only fact; the taxi's paid-until projection is advanced in the
// same transaction and never moves backwards.
type PaymentService struct {
	payments  repositories.PaymentRepository
	taxis     repositories.TaxiRepository
	txManager repositories.TransactionManager
	logger    *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	payments repositories.PaymentRepository,
	taxis repositories.TaxiRepository,
	txManager repositories.TransactionManager,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		payments:  payments,
		taxis:     taxis,
		txManager: txManager,
		logger:    logger,
	}
}

// Record appends a payment and advances the taxi's paid-until marker to
// the covered month, unless it is already further ahead.
func (s *PaymentService) Record(ctx context.Context, actorID uuid.UUID, scope authz.Scope, input PaymentInput) (*models.Payment, error) {
	if input.Amount <= 0 {
		return nil, NewValidationError("amount must be positive", nil)
	}
	if input.Month < 1 || input.Month > 12 {
		return nil, NewValidationError("month must be between 1 and 12", nil)
	}
	if input.Year < 2000 || input.Year > time.Now().Year()+1 {
		return nil, NewValidationError("year is out of range", nil)
	}
	switch input.Method {
	case models.PaymentMethodCash, models.PaymentMethodEFT, models.PaymentMethodCard:
	default:
		return nil, NewValidationError(fmt.Sprintf("unknown payment method %q", input.Method), nil)
	}

	taxi, err := s.taxis.GetByID(ctx, input.TaxiID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewNotFoundError("taxi not found", ErrTaxiNotFound)
		}
		return nil, NewInternalError("failed to load taxi", err)
	}
	if taxi.RankID == nil {
		return nil, NewValidationError("taxi is not assigned to a rank", ErrRankRequired)
	}
	if !scope.AllowsRank(*taxi.RankID) {
		return nil, NewForbiddenError("record belongs to another rank", ErrRankScopeViolation)
	}

	payment := models.NewPayment(taxi.ID, input.Amount, input.Month, input.Year, input.Method, actorID)

	err = s.txManager.InTransaction(ctx, func(txCtx context.Context, _ repositories.Transaction) error {
		if err := s.payments.Insert(txCtx, payment); err != nil {
			return fmt.Errorf("failed to insert payment: %w", err)
		}
		if err := s.taxis.AdvancePaidUntil(txCtx, taxi.ID, payment.CoveredMonth()); err != nil {
			return fmt.Errorf("failed to advance paid-until: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, NewInternalError("failed to record payment", err)
	}

	s.logger.Info("payment recorded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("taxi_id", taxi.ID.String()),
		zap.Float64("amount", payment.Amount),
		zap.Int("month", payment.Month),
		zap.Int("year", payment.Year),
		zap.String("actor_id", actorID.String()))

	return payment, nil
}

// List returns payment events visible within the caller's scope, newest first.
func (s *PaymentService) List(ctx context.Context, scope authz.Scope, limit, offset int) ([]*models.Payment, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	payments, err := s.payments.List(ctx, scope, limit, offset)
	if err != nil {
		return nil, NewInternalError("failed to list payments", err)
	}
	return payments, nil
}
