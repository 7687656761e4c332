package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GiftHanong/taxihub/authz"
	"github.com/GiftHanong/taxihub/models"
	"github.com/GiftHanong/taxihub/repositories"
)

// TaxiInput carries the fields for registering or updating a taxi.
type TaxiInput struct {
	Registration string
	DriverName   string
	DriverPhone  string
	RankID       *uuid.UUID
	AisleNumber  *int
}

// TaxiService manages the taxi register. Rank-scoped callers may only
// touch taxis at their own rank.
type TaxiService struct {
	taxis     repositories.TaxiRepository
	ranks     repositories.RankRepository
	activity  repositories.ActivityRepository
	txManager repositories.TransactionManager
	logger    *zap.Logger
}

// NewTaxiService creates a new TaxiService
func NewTaxiService(
	taxis repositories.TaxiRepository,
	ranks repositories.RankRepository,
	activity repositories.ActivityRepository,
	txManager repositories.TransactionManager,
	logger *zap.Logger,
) *TaxiService {
	return &TaxiService{
		taxis:     taxis,
		ranks:     ranks,
		activity:  activity,
		txManager: txManager,
		logger:    logger,
	}
}

// Create registers a taxi. The caller's scope must allow the target rank,
// and registrations are unique across the whole register.
func (s *TaxiService) Create(ctx context.Context, actorID uuid.UUID, scope authz.Scope, input TaxiInput) (*models.Taxi, error) {
	registration := normalizeRegistration(input.Registration)
	if registration == "" {
		return nil, NewValidationError("registration must not be empty", nil)
	}

	if input.RankID != nil {
		if !scope.AllowsRank(*input.RankID) {
			return nil, NewForbiddenError("record belongs to another rank", ErrRankScopeViolation)
		}
		if _, err := s.ranks.GetByID(ctx, *input.RankID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, NewValidationError("taxi rank not found", ErrRankNotFound)
			}
			return nil, NewInternalError("failed to load rank", err)
		}
	} else if scope.Kind != authz.ScopeAll {
		// Rank-scoped callers register taxis at their own rank only.
		return nil, NewValidationError("a rank is required", ErrRankRequired)
	}

	if _, err := s.taxis.GetByRegistration(ctx, registration); err == nil {
		return nil, NewConflictError(fmt.Sprintf("registration %q already recorded", registration), ErrRegistrationTaken)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, NewInternalError("failed to check registration", err)
	}

	taxi := models.NewTaxi(registration, input.DriverName, input.DriverPhone, input.RankID)
	taxi.AisleNumber = input.AisleNumber

	err := s.txManager.InTransaction(ctx, func(txCtx context.Context, _ repositories.Transaction) error {
		if err := s.taxis.Create(txCtx, taxi); err != nil {
			return fmt.Errorf("failed to create taxi: %w", err)
		}
		entry := models.NewActivityLog(actorID, models.ActivityActionTaxiCreated, "taxi").
			WithTarget(taxi.ID).
			WithDetails(map[string]interface{}{"registration": taxi.Registration, "rank_id": taxi.RankID})
		return s.activity.Insert(txCtx, entry)
	})
	if err != nil {
		return nil, NewInternalError("failed to create taxi", err)
	}

	s.logger.Info("taxi registered",
		zap.String("taxi_id", taxi.ID.String()),
		zap.String("registration", taxi.Registration),
		zap.String("actor_id", actorID.String()))

	return taxi, nil
}

// Get retrieves a taxi visible within the caller's scope.
func (s *TaxiService) Get(ctx context.Context, scope authz.Scope, id uuid.UUID) (*models.Taxi, error) {
	taxi, err := s.taxis.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewNotFoundError("taxi not found", ErrTaxiNotFound)
		}
		return nil, NewInternalError("failed to load taxi", err)
	}
	if !scopeAllowsTaxi(scope, taxi) {
		// Hidden rather than forbidden so scope leaks nothing.
		return nil, NewNotFoundError("taxi not found", ErrTaxiNotFound)
	}
	return taxi, nil
}

// List returns taxis visible within the caller's scope.
func (s *TaxiService) List(ctx context.Context, scope authz.Scope) ([]*models.Taxi, error) {
	taxis, err := s.taxis.List(ctx, scope)
	if err != nil {
		return nil, NewInternalError("failed to list taxis", err)
	}
	return taxis, nil
}

// Update edits a taxi's details. Moving a taxi to another rank requires the
// caller's scope to allow both the current and the target rank.
func (s *TaxiService) Update(ctx context.Context, actorID uuid.UUID, scope authz.Scope, id uuid.UUID, input TaxiInput) (*models.Taxi, error) {
	taxi, err := s.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	registration := normalizeRegistration(input.Registration)
	if registration != "" && registration != taxi.Registration {
		if existing, err := s.taxis.GetByRegistration(ctx, registration); err == nil && existing.ID != taxi.ID {
			return nil, NewConflictError(fmt.Sprintf("registration %q already recorded", registration), ErrRegistrationTaken)
		} else if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, NewInternalError("failed to check registration", err)
		}
		taxi.Registration = registration
	}

	if input.RankID != nil && (taxi.RankID == nil || *input.RankID != *taxi.RankID) {
		if !scope.AllowsRank(*input.RankID) {
			return nil, NewForbiddenError("record belongs to another rank", ErrRankScopeViolation)
		}
		if _, err := s.ranks.GetByID(ctx, *input.RankID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, NewValidationError("taxi rank not found", ErrRankNotFound)
			}
			return nil, NewInternalError("failed to load rank", err)
		}
		taxi.RankID = input.RankID
	}

	if input.DriverName != "" {
		taxi.DriverName = input.DriverName
	}
	if input.DriverPhone != "" {
		taxi.DriverPhone = input.DriverPhone
	}
	if input.AisleNumber != nil {
		taxi.AisleNumber = input.AisleNumber
	}

	err = s.txManager.InTransaction(ctx, func(txCtx context.Context, _ repositories.Transaction) error {
		if err := s.taxis.Update(txCtx, taxi); err != nil {
			return fmt.Errorf("failed to update taxi: %w", err)
		}
		entry := models.NewActivityLog(actorID, models.ActivityActionTaxiUpdated, "taxi").
			WithTarget(taxi.ID).
			WithDetails(map[string]interface{}{"registration": taxi.Registration})
		return s.activity.Insert(txCtx, entry)
	})
	if err != nil {
		return nil, NewInternalError("failed to update taxi", err)
	}

	return taxi, nil
}

// Delete removes a taxi from the register. Its loads and payments remain
// as historical records.
func (s *TaxiService) Delete(ctx context.Context, actorID uuid.UUID, scope authz.Scope, id uuid.UUID) error {
	taxi, err := s.Get(ctx, scope, id)
	if err != nil {
		return err
	}

	err = s.txManager.InTransaction(ctx, func(txCtx context.Context, _ repositories.Transaction) error {
		if err := s.taxis.Delete(txCtx, taxi.ID); err != nil {
			return fmt.Errorf("failed to delete taxi: %w", err)
		}
		entry := models.NewActivityLog(actorID, models.ActivityActionTaxiDeleted, "taxi").
			WithTarget(taxi.ID).
			WithDetails(map[string]interface{}{"registration": taxi.Registration})
		return s.activity.Insert(txCtx, entry)
	})
	if err != nil {
		return NewInternalError("failed to delete taxi", err)
	}

	s.logger.Info("taxi deleted",
		zap.String("taxi_id", taxi.ID.String()),
		zap.String("actor_id", actorID.String()))

	return nil
}

func scopeAllowsTaxi(scope authz.Scope, taxi *models.Taxi) bool {
	if scope.Kind == authz.ScopeAll {
		return true
	}
	if taxi.RankID == nil {
		return false
	}
	return scope.AllowsRank(*taxi.RankID)
}

func normalizeRegistration(registration string) string {
	return strings.ToUpper(strings.TrimSpace(registration))
}
